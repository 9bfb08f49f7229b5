package services

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/stitts-dev/futsal-ai/internal/models"
)

// ParseFeatures reads the ten measurements from a decoded JSON object. Every
// problem is collected; the vector is only meaningful when the returned map is empty.
func ParseFeatures(data map[string]interface{}) (models.FeatureVector, models.ValidationErrors) {
	var fv models.FeatureVector
	errs := models.ValidationErrors{}

	for i, field := range models.FeatureNames {
		raw, ok := data[field]
		if !ok {
			errs[field] = fmt.Sprintf("Campo requerido no encontrado: '%s'", field)
			continue
		}
		value, ok := toFloat(raw)
		if !ok {
			errs[field] = fmt.Sprintf("Formato inválido para el campo: '%s'", field)
			continue
		}
		fv[i] = value
	}

	if len(errs) > 0 {
		return models.FeatureVector{}, errs
	}
	return fv, nil
}

// ValidateRanges checks each measurement against models.FeatureRanges.
func ValidateRanges(fv models.FeatureVector) models.ValidationErrors {
	errs := models.ValidationErrors{}
	for i, field := range models.FeatureNames {
		r, ok := models.FeatureRanges[field]
		if !ok {
			continue
		}
		switch {
		case fv[i] < r.Min:
			errs[field] = "El valor debe ser mayor o igual a " + formatFloat(r.Min)
		case fv[i] > r.Max:
			errs[field] = "El valor debe ser menor o igual a " + formatFloat(r.Max)
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func toFloat(v interface{}) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ParseAndValidate parses the measurements and, when they are well formed,
// checks them against the plausible ranges.
func ParseAndValidate(data map[string]interface{}) (models.FeatureVector, models.ValidationErrors) {
	fv, errs := ParseFeatures(data)
	if len(errs) > 0 {
		return fv, errs
	}
	if errs := ValidateRanges(fv); len(errs) > 0 {
		return models.FeatureVector{}, errs
	}
	return fv, nil
}
