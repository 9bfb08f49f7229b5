package classifier

import (
	"encoding/json"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stitts-dev/futsal-ai/internal/models"
)

func twoClusterModel() *CentroidModel {
	return &CentroidModel{
		Name: "positions",
		Centroids: [][]float64{
			{20, 65, 1.70, 22, 0.5, 1.8, 1.8, 2.2, 4.3, 210},
			{30, 95, 1.85, 28, 0.3, 1.2, 1.2, 1.6, 5.0, 280},
		},
	}
}

func writeModel(t *testing.T, v interface{}) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestPredict_NearestCentroid(t *testing.T) {
	m := twoClusterModel()

	id, err := m.Predict(models.FeatureVector{22, 70, 1.75, 22.9, 0.45, 1.8, 1.75, 2.1, 4.3, 200})
	require.NoError(t, err)
	assert.Equal(t, 0, id)

	id, err = m.Predict(models.FeatureVector{31, 98, 1.86, 28.3, 0.28, 1.1, 1.2, 1.5, 5.1, 290})
	require.NoError(t, err)
	assert.Equal(t, 1, id)
}

func TestPredict_AppliesScaler(t *testing.T) {
	m := &CentroidModel{
		Scaler: &Scaler{
			Mean:  []float64{25, 80, 1.8, 25, 0.4, 1.5, 1.5, 1.9, 4.6, 240},
			Scale: []float64{5, 15, 0.1, 3, 0.1, 0.3, 0.3, 0.3, 0.4, 40},
		},
		Centroids: [][]float64{
			{-1, -1, -1, -1, 1, 1, 1, 1, -1, -1},
			{1, 1, 1, 1, -1, -1, -1, -1, 1, 1},
		},
	}
	require.NoError(t, m.Validate())

	id, err := m.Predict(models.FeatureVector{20, 65, 1.7, 22, 0.5, 1.8, 1.8, 2.2, 4.2, 200})
	require.NoError(t, err)
	assert.Equal(t, 0, id)
}

func TestPredict_DoesNotMutateInput(t *testing.T) {
	m := &CentroidModel{
		Scaler:    &Scaler{Mean: make([]float64, 10), Scale: []float64{2, 2, 2, 2, 2, 2, 2, 2, 2, 2}},
		Centroids: [][]float64{make([]float64, 10)},
	}
	fv := models.FeatureVector{10, 10, 10, 10, 10, 10, 10, 10, 10, 10}

	_, err := m.Predict(fv)
	require.NoError(t, err)
	assert.Equal(t, 10.0, fv[0])
}

func TestPredict_RejectsNonFinite(t *testing.T) {
	fv := models.FeatureVector{22, 70, 1.75, math.NaN(), 0.45, 1.8, 1.75, 2.1, 4.3, 200}

	_, err := twoClusterModel().Predict(fv)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidInput))
	assert.Contains(t, err.Error(), "bmi")
}

func TestLoadModel(t *testing.T) {
	path := writeModel(t, twoClusterModel())

	m, err := LoadModel(path)
	require.NoError(t, err)
	assert.Equal(t, "positions", m.Name)
	assert.Equal(t, 2, m.Clusters())
}

func TestLoadModel_Errors(t *testing.T) {
	tests := []struct {
		name    string
		path    func(t *testing.T) string
		wantErr string
	}{
		{
			name:    "missing file",
			path:    func(t *testing.T) string { return filepath.Join(t.TempDir(), "nope.json") },
			wantErr: "no such file",
		},
		{
			name: "not json",
			path: func(t *testing.T) string {
				p := filepath.Join(t.TempDir(), "bad.json")
				require.NoError(t, os.WriteFile(p, []byte("pickle"), 0o600))
				return p
			},
			wantErr: "decode",
		},
		{
			name:    "no centroids",
			path:    func(t *testing.T) string { return writeModel(t, CentroidModel{Name: "empty"}) },
			wantErr: "no centroids",
		},
		{
			name: "wrong dimensions",
			path: func(t *testing.T) string {
				return writeModel(t, CentroidModel{Centroids: [][]float64{{1, 2, 3}}})
			},
			wantErr: "has 3 dimensions",
		},
		{
			name: "feature order mismatch",
			path: func(t *testing.T) string {
				m := twoClusterModel()
				m.Features = append([]string{}, models.FeatureNames[:]...)
				m.Features[0], m.Features[1] = m.Features[1], m.Features[0]
				return writeModel(t, m)
			},
			wantErr: `feature 0 is "weight"`,
		},
		{
			name: "zero scale",
			path: func(t *testing.T) string {
				m := twoClusterModel()
				m.Scaler = &Scaler{Mean: make([]float64, 10), Scale: make([]float64, 10)}
				return writeModel(t, m)
			},
			wantErr: "scale for age is zero",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadModel(tt.path(t))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrModelLoad))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestBundledModels(t *testing.T) {
	tests := []struct {
		file     string
		clusters int
	}{
		{"positions.json", 4},
		{"physical_conditions.json", 5},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			model, err := LoadModel(filepath.Join("..", "..", "models", tt.file))
			require.NoError(t, err)
			assert.Equal(t, tt.clusters, model.Clusters())

			id, err := model.Predict(models.FeatureVector{22, 70, 1.75, 22.9, 0.45, 1.8, 1.75, 2.1, 4.3, 200})
			require.NoError(t, err)
			assert.GreaterOrEqual(t, id, 0)
			assert.Less(t, id, tt.clusters)
		})
	}
}
