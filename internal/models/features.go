package models

import (
	"fmt"
	"sort"
	"strings"
)

// Feature names in the order the classifiers were trained on.
const (
	FeatureAge                = "age"
	FeatureWeight             = "weight"
	FeatureHeight             = "height"
	FeatureBMI                = "bmi"
	FeatureHighJump           = "highJump"
	FeatureRightUnipodalJump  = "rightUnipodalJump"
	FeatureLeftUnipodalJump   = "leftUnipodalJump"
	FeatureBipodalJump        = "bipodalJump"
	FeatureThirtyMetersTime   = "thirtyMetersTime"
	FeatureThousandMetersTime = "thousandMetersTime"
)

const FeatureCount = 10

var FeatureNames = [FeatureCount]string{
	FeatureAge,
	FeatureWeight,
	FeatureHeight,
	FeatureBMI,
	FeatureHighJump,
	FeatureRightUnipodalJump,
	FeatureLeftUnipodalJump,
	FeatureBipodalJump,
	FeatureThirtyMetersTime,
	FeatureThousandMetersTime,
}

// FeatureVector holds one player's measurements in FeatureNames order. It is an
// array, so copies never share storage.
type FeatureVector [FeatureCount]float64

// Value returns the measurement stored under name.
func (fv FeatureVector) Value(name string) (float64, bool) {
	for i, n := range FeatureNames {
		if n == name {
			return fv[i], true
		}
	}
	return 0, false
}

// Map returns the features keyed by name, the shape clients submit.
func (fv FeatureVector) Map() map[string]float64 {
	out := make(map[string]float64, FeatureCount)
	for i, n := range FeatureNames {
		out[n] = fv[i]
	}
	return out
}

// ValidationErrors maps a feature name to the problem found with it.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	fields := make([]string, 0, len(v))
	for f := range v {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f, v[f]))
	}
	return "Errores de validación: " + strings.Join(parts, "; ")
}

// FeatureRange bounds an accepted measurement.
type FeatureRange struct {
	Min float64
	Max float64
}

// FeatureRanges are the plausible bounds for each measurement.
var FeatureRanges = map[string]FeatureRange{
	FeatureAge:                {Min: 14, Max: 50},
	FeatureWeight:             {Min: 40, Max: 200},
	FeatureHeight:             {Min: 1.50, Max: 2.20},
	FeatureBMI:                {Min: 15, Max: 50},
	FeatureHighJump:           {Min: 0.1, Max: 2.0},
	FeatureRightUnipodalJump:  {Min: 0.1, Max: 4.0},
	FeatureLeftUnipodalJump:   {Min: 0.1, Max: 4.0},
	FeatureBipodalJump:        {Min: 0.1, Max: 4.0},
	FeatureThirtyMetersTime:   {Min: 3.0, Max: 10.0},
	FeatureThousandMetersTime: {Min: 150, Max: 600},
}
