package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/stitts-dev/futsal-ai/internal/models"
	"github.com/stitts-dev/futsal-ai/internal/profiles"
	"github.com/stitts-dev/futsal-ai/pkg/metrics"
)

const (
	NotConfiguredMessage    = "No se pudo realizar el análisis detallado. Configure la clave de API del proveedor LLM."
	GenerationFailedMessage = "No se pudo completar el análisis. Error en la integración con el proveedor LLM."
	TeamAnalysisFailedMsg   = "Error al analizar el equipo"
)

// Batch player statuses reported to metrics.
const (
	batchAnalyzed         = "analyzed"
	batchGenerationFailed = "generation_failed"
	batchInvalid          = "invalid"
	batchUnclassified     = "classification_failed"
)

// Classifier maps a feature vector to a cluster id.
type Classifier interface {
	Predict(fv models.FeatureVector) (int, error)
}

// AnalysisEngine orchestrates classification, prompt building, the LLM call and
// response extraction for single players and whole teams.
type AnalysisEngine struct {
	positions   Classifier
	physical    Classifier
	llm         LLMClient
	prompts     *PromptBuilder
	metrics     *metrics.Recorder
	logger      *logrus.Logger
	concurrency int

	playerInstruction string
	teamInstruction   string
}

// NewAnalysisEngine wires the classifiers, LLM client and prompt builder.
// concurrency below 1 processes team players one at a time.
func NewAnalysisEngine(
	positions Classifier,
	physical Classifier,
	llm LLMClient,
	prompts *PromptBuilder,
	recorder *metrics.Recorder,
	logger *logrus.Logger,
	concurrency int,
) *AnalysisEngine {
	if concurrency < 1 {
		concurrency = 1
	}
	return &AnalysisEngine{
		positions:         positions,
		physical:          physical,
		llm:               llm,
		prompts:           prompts,
		metrics:           recorder,
		logger:            logger,
		concurrency:       concurrency,
		playerInstruction: prompts.SystemInstruction(PlayerLayout),
		teamInstruction:   prompts.SystemInstruction(TeamLayout),
	}
}

// LLMConfigured reports whether analyses can reach the provider.
func (ae *AnalysisEngine) LLMConfigured() bool {
	return ae.llm.IsConfigured()
}

// Classify runs both classifiers. Failures wrap ErrClassification.
func (ae *AnalysisEngine) Classify(fv models.FeatureVector) (models.PositionID, models.PhysicalID, error) {
	position, err := ae.positions.Predict(fv)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: position model: %w", ErrClassification, err)
	}
	physical, err := ae.physical.Predict(fv)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: physical model: %w", ErrClassification, err)
	}
	return models.PositionID(position), models.PhysicalID(physical), nil
}

// AnalyzePlayer asks the LLM for a structured analysis of one classified player.
// It never returns nil; provider failures are reported through Success and Error.
func (ae *AnalysisEngine) AnalyzePlayer(ctx context.Context, fv models.FeatureVector, position models.PositionID, physical models.PhysicalID) *models.AnalysisResult {
	result := &models.AnalysisResult{
		PositionCategory:        position,
		PhysicalCategory:        physical,
		PositionName:            profiles.PositionName(position),
		PhysicalName:            profiles.PhysicalName(physical),
		Strengths:               []string{},
		Weaknesses:              []string{},
		TrainingRecommendations: []string{},
		RawFeatures:             fv.Map(),
	}

	prompt := ae.prompts.BuildPlayerPrompt(fv, position, physical)

	if !ae.llm.IsConfigured() {
		result.Error = ErrNotConfigured.Error()
		result.Message = NotConfiguredMessage
		return result
	}

	completion, err := ae.llm.Complete(ctx, ae.playerInstruction, prompt)
	if err != nil {
		result.Error = err.Error()
		result.Message = GenerationFailedMessage
		if errors.Is(err, ErrNotConfigured) {
			result.Message = NotConfiguredMessage
		}
		ae.logger.WithError(err).WithFields(logrus.Fields{
			"position": position,
			"physical": physical,
		}).Warn("Player analysis failed")
		return result
	}

	extraction := ExtractSections(completion.Text, PlayerLayout)
	ae.recordExtraction(extraction, completion)

	result.Success = true
	result.RawText = completion.Text
	result.GeneralAnalysis = extraction.Text(KeyGeneralAnalysis)
	result.Strengths = extraction.Items(KeyStrengths)
	result.Weaknesses = extraction.Items(KeyWeaknesses)
	result.TrainingRecommendations = extraction.Items(KeyTrainingRecommendations)
	result.PerformanceProfile = extraction.Text(KeyPerformanceProfile)
	return result
}

// AnalyzeTeamProfile asks the LLM for the collective analysis of a team.
func (ae *AnalysisEngine) AnalyzeTeamProfile(ctx context.Context, team models.TeamProfile) *models.TeamAnalysisResult {
	result := &models.TeamAnalysisResult{
		TeamStrengths:           []string{},
		TeamWeaknesses:          []string{},
		TacticalRecommendations: []string{},
		TrainingSuggestions:     []string{},
	}

	prompt := ae.prompts.BuildTeamPrompt(team)

	if !ae.llm.IsConfigured() {
		result.Error = ErrNotConfigured.Error()
		result.Message = NotConfiguredMessage
		return result
	}

	completion, err := ae.llm.Complete(ctx, ae.teamInstruction, prompt)
	if err != nil {
		result.Error = fmt.Sprintf("%s: %v", TeamAnalysisFailedMsg, err)
		result.Message = GenerationFailedMessage
		ae.logger.WithError(err).WithField("team_name", team.TeamName).Warn("Team analysis failed")
		return result
	}

	extraction := ExtractSections(completion.Text, TeamLayout)
	ae.recordExtraction(extraction, completion)

	result.Success = true
	result.RawText = completion.Text
	result.GeneralAnalysis = extraction.Text(KeyGeneralAnalysis)
	result.TeamStrengths = extraction.Items(KeyTeamStrengths)
	result.TeamWeaknesses = extraction.Items(KeyTeamWeaknesses)
	result.TacticalRecommendations = extraction.Items(KeyTacticalRecommendations)
	result.TrainingSuggestions = extraction.Items(KeyTrainingSuggestions)
	result.LineupAdjustments = extraction.Text(KeyLineupAdjustments)
	return result
}

type playerSlot struct {
	result  *models.AnalysisResult
	failure *models.PlayerFailure
}

// AnalyzeTeam analyses every player independently, then the team as a whole
// when more than one player analysis succeeded. Invalid or unclassifiable
// players become failure records; nothing aborts the batch.
func (ae *AnalysisEngine) AnalyzeTeam(ctx context.Context, teamName string, players []models.PlayerInput) *models.PlayerBatchReport {
	start := time.Now()
	if teamName == "" {
		teamName = models.DefaultTeamName
	}

	log := ae.logger.WithFields(logrus.Fields{
		"team_name": teamName,
		"players":   len(players),
	})
	log.Info("Starting team analysis")

	slots := make([]playerSlot, len(players))
	var g errgroup.Group
	g.SetLimit(ae.concurrency)
	for i, player := range players {
		g.Go(func() error {
			slots[i] = ae.analyzeBatchPlayer(ctx, i, player)
			return nil
		})
	}
	_ = g.Wait()

	report := &models.PlayerBatchReport{
		Success:       true,
		TeamName:      teamName,
		PlayerResults: []*models.AnalysisResult{},
		Errors:        []models.PlayerFailure{},
		TotalPlayers:  len(players),
	}
	var successful []*models.AnalysisResult
	for _, slot := range slots {
		if slot.failure != nil {
			report.Errors = append(report.Errors, *slot.failure)
			continue
		}
		report.PlayerResults = append(report.PlayerResults, slot.result)
		if slot.result.Success {
			successful = append(successful, slot.result)
		}
	}
	report.ProcessedPlayers = len(report.PlayerResults)
	report.FailedPlayers = len(report.Errors)

	if len(successful) > 1 {
		report.TeamAnalysis = ae.AnalyzeTeamProfile(ctx, buildTeamProfile(teamName, successful))
	}

	log.WithFields(logrus.Fields{
		"processed":     report.ProcessedPlayers,
		"failed":        report.FailedPlayers,
		"analyzed":      len(successful),
		"team_analysis": report.TeamAnalysis != nil,
		"elapsed_ms":    time.Since(start).Milliseconds(),
	}).Info("Team analysis completed")
	return report
}

func (ae *AnalysisEngine) analyzeBatchPlayer(ctx context.Context, index int, player models.PlayerInput) playerSlot {
	name := player.Name(index)

	fv, verrs := ParseFeatures(player)
	if len(verrs) > 0 {
		ae.metrics.RecordBatchPlayer(batchInvalid)
		ae.logger.WithFields(logrus.Fields{
			"player_index": index,
			"player_name":  name,
			"fields":       len(verrs),
		}).Debug("Player rejected by validation")
		return playerSlot{failure: &models.PlayerFailure{PlayerIndex: index, PlayerName: name, Error: verrs.Error()}}
	}

	position, physical, err := ae.Classify(fv)
	if err != nil {
		ae.metrics.RecordBatchPlayer(batchUnclassified)
		ae.logger.WithError(err).WithField("player_index", index).Warn("Player classification failed")
		return playerSlot{failure: &models.PlayerFailure{PlayerIndex: index, PlayerName: name, Error: err.Error()}}
	}

	result := ae.AnalyzePlayer(ctx, fv, position, physical)
	result.PlayerID = player.ID(index)
	result.PlayerName = name

	if result.Success {
		ae.metrics.RecordBatchPlayer(batchAnalyzed)
	} else {
		ae.metrics.RecordBatchPlayer(batchGenerationFailed)
	}
	return playerSlot{result: result}
}

func (ae *AnalysisEngine) recordExtraction(extraction Extraction, completion *Completion) {
	outcome := extraction.Outcome()
	ae.metrics.RecordExtraction(extraction.Layout, outcome)

	entry := ae.logger.WithFields(logrus.Fields{
		"layout":   extraction.Layout,
		"outcome":  outcome,
		"model":    completion.Model,
		"cached":   completion.Cached,
		"raw_size": len(completion.Text),
	})
	if outcome == OutcomeStructured {
		entry.Debug("Extracted LLM response")
	} else {
		entry.Warn("LLM response did not follow the section contract")
	}
}

func buildTeamProfile(teamName string, results []*models.AnalysisResult) models.TeamProfile {
	team := models.TeamProfile{
		TeamName:           teamName,
		Positions:          make([]string, 0, len(results)),
		PhysicalConditions: make([]string, 0, len(results)),
		Players:            make([]models.PlayerProfileSummary, 0, len(results)),
	}
	for _, r := range results {
		team.Positions = append(team.Positions, r.PositionName)
		team.PhysicalConditions = append(team.PhysicalConditions, r.PhysicalName)
		team.Players = append(team.Players, models.PlayerProfileSummary{
			Name:       r.PlayerName,
			Position:   r.PositionName,
			Physical:   r.PhysicalName,
			Strengths:  r.Strengths,
			Weaknesses: r.Weaknesses,
		})
	}
	return team
}
