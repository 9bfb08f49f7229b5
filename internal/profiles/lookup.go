// Package profiles holds the static descriptions of position and physical-condition
// clusters. Every lookup is total: unknown ids yield a generated name or an empty
// record, never an error. Returned slices are copies and may be modified freely.
package profiles

import (
	"fmt"

	"github.com/stitts-dev/futsal-ai/internal/models"
)

// CategoryName resolves a cluster id of the given kind to its display name.
func CategoryName(kind models.CategoryKind, id int) string {
	switch kind {
	case models.CategoryPosition:
		return PositionName(models.PositionID(id))
	case models.CategoryPhysical:
		return PhysicalName(models.PhysicalID(id))
	default:
		return fmt.Sprintf("Perfil desconocido (%d)", id)
	}
}

// PositionName returns the display name of a position cluster
func PositionName(id models.PositionID) string {
	if name, ok := positionNames[id]; ok {
		return name
	}
	return fmt.Sprintf("Perfil de posición desconocido (%d)", id)
}

// PhysicalName returns the display name of a physical-condition cluster
func PhysicalName(id models.PhysicalID) string {
	if name, ok := physicalNames[id]; ok {
		return name
	}
	return fmt.Sprintf("Perfil físico desconocido (%d)", id)
}

// PhysicalCharacteristics returns the profile of a physical-condition cluster.
func PhysicalCharacteristics(id models.PhysicalID) models.CategoryInfo {
	return cloneInfo(physicalCharacteristics[id])
}

// PositionCharacteristics returns the profile of a position cluster.
func PositionCharacteristics(id models.PositionID) models.CategoryInfo {
	return cloneInfo(positionCharacteristics[id])
}

// SpecificRecommendations returns the advice for a position/physical pair, or an
// empty list when the pair is not tabulated.
func SpecificRecommendations(position models.PositionID, physical models.PhysicalID) []string {
	return clone(specificRecommendations[position][physical])
}

func cloneInfo(info models.CategoryInfo) models.CategoryInfo {
	return models.CategoryInfo{
		Description:             info.Description,
		Strengths:               clone(info.Strengths),
		DevelopmentAreas:        clone(info.DevelopmentAreas),
		TrainingRecommendations: clone(info.TrainingRecommendations),
	}
}

func clone(items []string) []string {
	out := make([]string, len(items))
	copy(out, items)
	return out
}
