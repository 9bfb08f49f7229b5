package services_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/stitts-dev/futsal-ai/internal/models"
	"github.com/stitts-dev/futsal-ai/internal/services"
)

var sampleFeatures = models.FeatureVector{22, 70, 1.75, 22.9, 0.45, 1.8, 1.75, 2.1, 4.3, 200}

func TestPredictPosition(t *testing.T) {
	engine := newEngine(fixedClassifier(2), fixedClassifier(0), new(MockLLMClient), 1)

	prediction, err := engine.PredictPosition(sampleFeatures)

	require.NoError(t, err)
	assert.Equal(t, models.PositionGoalkeeper, prediction.ClusterID)
	assert.Equal(t, "Perfil para posición 'Arquero'", prediction.ClusterName)
	assert.Equal(t, 22.0, prediction.Features["age"])
}

func TestPredictPhysical(t *testing.T) {
	engine := newEngine(fixedClassifier(0), fixedClassifier(0), new(MockLLMClient), 1)

	prediction, err := engine.PredictPhysical(sampleFeatures)

	require.NoError(t, err)
	assert.Equal(t, models.PhysicalExplosive, prediction.ClusterID)
	assert.Contains(t, prediction.Strengths, "Salto vertical (>60cm)")
	assert.Len(t, prediction.TrainingRecommendations, 4)
	assert.Len(t, prediction.SpecificRecommendations, 3)
}

func TestPredictPhysical_UnknownCluster(t *testing.T) {
	engine := newEngine(fixedClassifier(0), fixedClassifier(8), new(MockLLMClient), 1)

	prediction, err := engine.PredictPhysical(sampleFeatures)

	require.NoError(t, err)
	assert.Equal(t, "Perfil físico desconocido (8)", prediction.ClusterName)
	assert.Empty(t, prediction.Description)
	assert.NotNil(t, prediction.Strengths)
	assert.Empty(t, prediction.SpecificRecommendations)
}

func TestFullRecommendations(t *testing.T) {
	engine := newEngine(fixedClassifier(1), fixedClassifier(3), new(MockLLMClient), 1)

	full, err := engine.FullRecommendations(sampleFeatures)

	require.NoError(t, err)
	assert.Equal(t, models.PositionPivot, full.Position.ClusterID)
	assert.Equal(t, models.PhysicalPowerful, full.PhysicalCondition.ClusterID)
	assert.Equal(t, "Maximizar ventaja física en duelos dentro del área", full.SpecificRecommendations[0])
	assert.Len(t, full.Features, models.FeatureCount)
	assert.Nil(t, full.Position.Features)
}

func TestFullRecommendations_ClassificationError(t *testing.T) {
	physical := new(MockClassifier)
	physical.On("Predict", mock.Anything).Return(0, errors.New("bad scaler"))

	engine := newEngine(fixedClassifier(1), physical, new(MockLLMClient), 1)
	_, err := engine.FullRecommendations(sampleFeatures)

	require.Error(t, err)
	assert.True(t, errors.Is(err, services.ErrClassification))
}

func TestPredictTeamPositions(t *testing.T) {
	players := []models.PlayerInput{playerInput("Ana"), playerInput("Bea"), playerInput("Caro")}
	players[1]["height"] = 2.5
	players[2]["id"] = "c-3"

	engine := newEngine(fixedClassifier(3), fixedClassifier(0), new(MockLLMClient), 2)
	report := engine.PredictTeamPositions("", players)

	assert.Equal(t, models.DefaultTeamName, report.TeamName)
	assert.Equal(t, 3, report.TotalPlayers)
	assert.Equal(t, 2, report.ProcessedPlayers)
	assert.Equal(t, 1, report.FailedPlayers)

	require.Len(t, report.Errors, 1)
	assert.Equal(t, 1, report.Errors[0].PlayerIndex)
	assert.Contains(t, report.Errors[0].Error, "El valor debe ser menor o igual a 2.2")

	require.Len(t, report.Results, 2)
	first := report.Results[0].(*models.PositionPrediction)
	assert.Equal(t, "player_0", first.PlayerID)
	assert.Equal(t, "Ana", first.PlayerName)
	last := report.Results[1].(*models.PositionPrediction)
	assert.Equal(t, "c-3", last.PlayerID)
	assert.Equal(t, models.PositionFixo, last.ClusterID)
}

func TestPredictTeamPhysical(t *testing.T) {
	physical := new(MockClassifier)
	physical.On("Predict", mock.MatchedBy(func(fv models.FeatureVector) bool { return fv[0] == 30 })).
		Return(0, errors.New("diverged"))
	physical.On("Predict", mock.Anything).Return(4, nil)

	odd := playerInput("Odd")
	odd["age"] = 30.0

	engine := newEngine(fixedClassifier(0), physical, new(MockLLMClient), 1)
	report := engine.PredictTeamPhysical("Equipo", []models.PlayerInput{odd, playerInput("Even")})

	require.Len(t, report.Errors, 1)
	assert.Equal(t, 0, report.Errors[0].PlayerIndex)
	assert.Contains(t, report.Errors[0].Error, "diverged")

	require.Len(t, report.Results, 1)
	prediction := report.Results[0].(*models.PhysicalPrediction)
	assert.Equal(t, models.PhysicalAgile, prediction.ClusterID)
	assert.Equal(t, "Even", prediction.PlayerName)
}
