package services

import "errors"

var (
	// ErrNotConfigured is returned by an LLM client that has no credential.
	ErrNotConfigured = errors.New("llm provider not configured")

	// ErrGeneration wraps every transport or API failure of an LLM call.
	ErrGeneration = errors.New("llm generation failed")

	// ErrClassification wraps classifier failures.
	ErrClassification = errors.New("classification failed")
)
