// Package classifier implements the cluster models behind the position and
// physical-condition predictions. Models are k-means centroids exported to JSON
// together with the standard-scaler statistics fitted on the training data.
package classifier

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/stitts-dev/futsal-ai/internal/models"
)

var (
	ErrModelLoad    = errors.New("model load failed")
	ErrInvalidInput = errors.New("invalid feature vector")
)

// Scaler standardises features as (x - mean) / scale.
type Scaler struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

// CentroidModel assigns a feature vector to the nearest centroid in scaled space.
type CentroidModel struct {
	Name      string      `json:"name"`
	Features  []string    `json:"features,omitempty"`
	Scaler    *Scaler     `json:"scaler,omitempty"`
	Centroids [][]float64 `json:"centroids"`
}

// LoadModel reads and validates a model export.
func LoadModel(path string) (*CentroidModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrModelLoad, err)
	}

	var model CentroidModel
	if err := json.Unmarshal(data, &model); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", ErrModelLoad, path, err)
	}
	if model.Name == "" {
		model.Name = path
	}

	if err := model.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrModelLoad, path, err)
	}
	return &model, nil
}

// Validate checks that the model is usable with FeatureVector inputs.
func (m *CentroidModel) Validate() error {
	if len(m.Centroids) == 0 {
		return errors.New("model has no centroids")
	}
	for i, c := range m.Centroids {
		if len(c) != models.FeatureCount {
			return fmt.Errorf("centroid %d has %d dimensions, want %d", i, len(c), models.FeatureCount)
		}
	}

	if len(m.Features) > 0 {
		if len(m.Features) != models.FeatureCount {
			return fmt.Errorf("model declares %d features, want %d", len(m.Features), models.FeatureCount)
		}
		for i, name := range m.Features {
			if name != models.FeatureNames[i] {
				return fmt.Errorf("feature %d is %q, want %q", i, name, models.FeatureNames[i])
			}
		}
	}

	if m.Scaler != nil {
		if len(m.Scaler.Mean) != models.FeatureCount || len(m.Scaler.Scale) != models.FeatureCount {
			return errors.New("scaler dimensions do not match the feature count")
		}
		for i, s := range m.Scaler.Scale {
			if s == 0 {
				return fmt.Errorf("scaler scale for %s is zero", models.FeatureNames[i])
			}
		}
	}
	return nil
}

// Clusters returns the number of clusters the model distinguishes.
func (m *CentroidModel) Clusters() int {
	return len(m.Centroids)
}

// Predict returns the index of the nearest centroid. Ties resolve to the lowest index.
func (m *CentroidModel) Predict(fv models.FeatureVector) (int, error) {
	point := fv
	for i, v := range point {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, fmt.Errorf("%w: %s is not finite", ErrInvalidInput, models.FeatureNames[i])
		}
		if m.Scaler != nil {
			point[i] = (v - m.Scaler.Mean[i]) / m.Scaler.Scale[i]
		}
	}

	best, bestDist := 0, math.Inf(1)
	for idx, centroid := range m.Centroids {
		var dist float64
		for i, c := range centroid {
			d := point[i] - c
			dist += d * d
		}
		if dist < bestDist {
			best, bestDist = idx, dist
		}
	}
	return best, nil
}
