package profiles

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/stitts-dev/futsal-ai/internal/models"
)

func TestCategoryName(t *testing.T) {
	tests := []struct {
		name string
		kind models.CategoryKind
		id   int
		want string
	}{
		{"winger", models.CategoryPosition, 0, "Perfil para posición 'Ala'"},
		{"goalkeeper", models.CategoryPosition, 2, "Perfil para posición 'Arquero'"},
		{"fixo", models.CategoryPosition, 3, "Perfil para posición 'Poste'"},
		{"unknown position", models.CategoryPosition, 7, "Perfil de posición desconocido (7)"},
		{"explosive", models.CategoryPhysical, 0, "Jugador con alta explosividad y capacidad de salto"},
		{"agile", models.CategoryPhysical, 4, "Jugador ágiles con buen rendimiento general"},
		{"unknown physical", models.CategoryPhysical, 5, "Perfil físico desconocido (5)"},
		{"negative physical", models.CategoryPhysical, -1, "Perfil físico desconocido (-1)"},
		{"unknown kind", models.CategoryKind("tactical"), 1, "Perfil desconocido (1)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CategoryName(tt.kind, tt.id))
		})
	}
}

func TestPhysicalCharacteristics(t *testing.T) {
	info := PhysicalCharacteristics(models.PhysicalExplosive)
	assert.Contains(t, info.Strengths, "Salto vertical (>60cm)")
	assert.Len(t, info.TrainingRecommendations, 4)
	assert.NotEmpty(t, info.Description)

	for id := models.PhysicalID(0); id <= models.PhysicalAgile; id++ {
		assert.False(t, PhysicalCharacteristics(id).IsZero(), "physical %d", id)
	}

	assert.True(t, PhysicalCharacteristics(9).IsZero())
}

func TestPositionCharacteristics(t *testing.T) {
	info := PositionCharacteristics(models.PositionGoalkeeper)
	assert.Equal(t, []string{"Velocidad lateral", "Resistencia aeróbica", "Juego con los pies"}, info.DevelopmentAreas)
	assert.Empty(t, info.TrainingRecommendations)

	assert.True(t, PositionCharacteristics(-3).IsZero())
}

func TestLookupsReturnCopies(t *testing.T) {
	info := PhysicalCharacteristics(models.PhysicalBalanced)
	info.Strengths[0] = "mutated"

	assert.Equal(t, "Equilibrio físico general", PhysicalCharacteristics(models.PhysicalBalanced).Strengths[0])

	recs := SpecificRecommendations(models.PositionPivot, models.PhysicalPowerful)
	recs[0] = "mutated"
	assert.Equal(t, "Maximizar ventaja física en duelos dentro del área",
		SpecificRecommendations(models.PositionPivot, models.PhysicalPowerful)[0])
}

func TestSpecificRecommendations(t *testing.T) {
	for pos := models.PositionID(0); pos <= models.PositionFixo; pos++ {
		for phys := models.PhysicalID(0); phys <= models.PhysicalAgile; phys++ {
			assert.Len(t, SpecificRecommendations(pos, phys), 3, "position %d physical %d", pos, phys)
		}
	}

	assert.Equal(t, []string{
		"Maximizar capacidad de desborde en velocidad",
		"Desarrollar finalizaciones en carrera",
		"Trabajar transiciones ultrarrápidas defensa-ataque",
	}, SpecificRecommendations(models.PositionWinger, models.PhysicalExplosive))

	assert.Empty(t, SpecificRecommendations(models.PositionWinger, 8))
	assert.Empty(t, SpecificRecommendations(12, models.PhysicalAgile))
	assert.NotNil(t, SpecificRecommendations(12, models.PhysicalAgile))
}
