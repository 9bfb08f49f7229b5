package services

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/stitts-dev/futsal-ai/internal/models"
	"github.com/stitts-dev/futsal-ai/internal/profiles"
)

// PredictPosition classifies the player's position.
func (ae *AnalysisEngine) PredictPosition(fv models.FeatureVector) (*models.PositionPrediction, error) {
	id, err := ae.positions.Predict(fv)
	if err != nil {
		return nil, fmt.Errorf("%w: position model: %w", ErrClassification, err)
	}
	position := models.PositionID(id)
	return &models.PositionPrediction{
		ClusterID:   position,
		ClusterName: profiles.PositionName(position),
		Features:    fv.Map(),
	}, nil
}

// PredictPhysical classifies the physical condition and attaches its profile and
// the recommendations for the predicted position.
func (ae *AnalysisEngine) PredictPhysical(fv models.FeatureVector) (*models.PhysicalPrediction, error) {
	position, physical, err := ae.Classify(fv)
	if err != nil {
		return nil, err
	}
	prediction := physicalDetails(physical)
	prediction.SpecificRecommendations = profiles.SpecificRecommendations(position, physical)
	prediction.Features = fv.Map()
	return prediction, nil
}

// FullRecommendations combines both classifications without calling the LLM.
func (ae *AnalysisEngine) FullRecommendations(fv models.FeatureVector) (*models.FullRecommendations, error) {
	position, physical, err := ae.Classify(fv)
	if err != nil {
		return nil, err
	}
	return &models.FullRecommendations{
		Position: models.PositionPrediction{
			ClusterID:   position,
			ClusterName: profiles.PositionName(position),
		},
		PhysicalCondition:       *physicalDetails(physical),
		SpecificRecommendations: profiles.SpecificRecommendations(position, physical),
		Features:                fv.Map(),
	}, nil
}

// PredictTeamPositions classifies the position of every player in the team.
func (ae *AnalysisEngine) PredictTeamPositions(teamName string, players []models.PlayerInput) *models.PredictionBatchReport {
	return ae.predictBatch(teamName, players, "positions", func(index int, player models.PlayerInput, fv models.FeatureVector) (interface{}, error) {
		prediction, err := ae.PredictPosition(fv)
		if err != nil {
			return nil, err
		}
		prediction.PlayerID = player.ID(index)
		prediction.PlayerName = player.Name(index)
		return prediction, nil
	})
}

// PredictTeamPhysical classifies the physical condition of every player in the team.
func (ae *AnalysisEngine) PredictTeamPhysical(teamName string, players []models.PlayerInput) *models.PredictionBatchReport {
	return ae.predictBatch(teamName, players, "physical", func(index int, player models.PlayerInput, fv models.FeatureVector) (interface{}, error) {
		prediction, err := ae.PredictPhysical(fv)
		if err != nil {
			return nil, err
		}
		prediction.PlayerID = player.ID(index)
		prediction.PlayerName = player.Name(index)
		return prediction, nil
	})
}

type predictFunc func(index int, player models.PlayerInput, fv models.FeatureVector) (interface{}, error)

type predictionSlot struct {
	result  interface{}
	failure *models.PlayerFailure
}

func (ae *AnalysisEngine) predictBatch(teamName string, players []models.PlayerInput, kind string, predict predictFunc) *models.PredictionBatchReport {
	if teamName == "" {
		teamName = models.DefaultTeamName
	}

	slots := make([]predictionSlot, len(players))
	var g errgroup.Group
	g.SetLimit(ae.concurrency)
	for i, player := range players {
		g.Go(func() error {
			name := player.Name(i)
			fv, verrs := ParseAndValidate(player)
			if len(verrs) > 0 {
				slots[i].failure = &models.PlayerFailure{PlayerIndex: i, PlayerName: name, Error: verrs.Error()}
				return nil
			}
			result, err := predict(i, player, fv)
			if err != nil {
				slots[i].failure = &models.PlayerFailure{PlayerIndex: i, PlayerName: name, Error: err.Error()}
				return nil
			}
			slots[i].result = result
			return nil
		})
	}
	_ = g.Wait()

	report := &models.PredictionBatchReport{
		Success:      true,
		TeamName:     teamName,
		Results:      []interface{}{},
		Errors:       []models.PlayerFailure{},
		TotalPlayers: len(players),
	}
	for _, slot := range slots {
		if slot.failure != nil {
			report.Errors = append(report.Errors, *slot.failure)
			continue
		}
		report.Results = append(report.Results, slot.result)
	}
	report.ProcessedPlayers = len(report.Results)
	report.FailedPlayers = len(report.Errors)

	ae.logger.WithFields(logrus.Fields{
		"team_name": teamName,
		"kind":      kind,
		"processed": report.ProcessedPlayers,
		"failed":    report.FailedPlayers,
	}).Info("Team prediction completed")
	return report
}

func physicalDetails(physical models.PhysicalID) *models.PhysicalPrediction {
	info := profiles.PhysicalCharacteristics(physical)
	return &models.PhysicalPrediction{
		ClusterID:               physical,
		ClusterName:             profiles.PhysicalName(physical),
		Description:             info.Description,
		Strengths:               nonNil(info.Strengths),
		DevelopmentAreas:        nonNil(info.DevelopmentAreas),
		TrainingRecommendations: nonNil(info.TrainingRecommendations),
	}
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
