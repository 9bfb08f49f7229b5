package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/futsal-ai/internal/models"
	"github.com/stitts-dev/futsal-ai/internal/profiles"
)

const (
	notAvailable       = "No disponible"
	notAvailablePlural = "No disponibles"
)

var structureRules = []string{
	"Es crucial que mantengas EXACTAMENTE este formato con los mismos encabezados",
	"y estructura para que el sistema pueda procesar correctamente tu respuesta.",
	"Usa siempre guiones para los elementos de las listas.",
	"",
	"Sé conciso pero completo. Cada sección debe ser precisa y directa para asegurar",
	"que la respuesta completa se ajuste dentro del límite de tokens disponible.",
}

const formatReminder = "IMPORTANTE: Tu respuesta debe seguir EXACTAMENTE el formato que se te ha indicado en las instrucciones del sistema."

// featureLabels pairs each measurement with its label and unit in the player prompt.
var featureLabels = [models.FeatureCount]struct {
	label string
	unit  string
}{
	{"Edad", " años"},
	{"Peso", " kg"},
	{"Altura", " m"},
	{"IMC (BMI)", ""},
	{"Salto vertical", " m"},
	{"Salto unipodal derecho", " m"},
	{"Salto unipodal izquierdo", " m"},
	{"Salto bipodal", " m"},
	{"Tiempo en 30 metros", " s"},
	{"Tiempo en 1000 metros", " s"},
}

// PromptBuilder renders the system instructions and user prompts sent to the LLM.
// Rendering is deterministic and never fails.
type PromptBuilder struct {
	logger *logrus.Logger
}

// NewPromptBuilder creates a new prompt builder
func NewPromptBuilder(logger *logrus.Logger) *PromptBuilder {
	return &PromptBuilder{logger: logger}
}

// SystemInstruction renders the response contract of layout: the role, then
// every exact header in order with a placeholder body, then the format rules.
func (pb *PromptBuilder) SystemInstruction(layout Layout) string {
	var b strings.Builder
	b.WriteString(layout.Role)
	b.WriteString("\n\nIMPORTANTE: Debes responder estrictamente siguiendo esta estructura:\n\n")

	for _, section := range layout.Sections {
		b.WriteString(section.Header)
		b.WriteByte('\n')
		if section.Kind == SectionList {
			for n := 1; n <= 3; n++ {
				fmt.Fprintf(&b, "- [%s %d]\n", section.ItemLabel, n)
			}
		} else {
			b.WriteString(section.Hint)
			b.WriteByte('\n')
		}
		b.WriteByte('\n')
	}

	b.WriteString(strings.Join(structureRules, "\n"))
	return b.String()
}

// BuildPlayerPrompt renders the analysis request for one classified player.
func (pb *PromptBuilder) BuildPlayerPrompt(fv models.FeatureVector, position models.PositionID, physical models.PhysicalID) string {
	physicalInfo := profiles.PhysicalCharacteristics(physical)
	positionInfo := profiles.PositionCharacteristics(position)
	recommendations := profiles.SpecificRecommendations(position, physical)

	var b strings.Builder
	b.WriteString("Analiza el siguiente perfil de un jugador de fútbol sala basado en sus métricas físicas y antropométricas:\n\n")

	b.WriteString("Datos del jugador:\n")
	for i, fl := range featureLabels {
		fmt.Fprintf(&b, "- %s: %s%s\n", fl.label, formatFloat(fv[i]), fl.unit)
	}

	b.WriteString("\nSegún nuestros modelos:\n")
	fmt.Fprintf(&b, "1. Este jugador se clasifica en el cluster de posición %d: %s\n", position, profiles.PositionName(position))
	fmt.Fprintf(&b, "2. Su perfil físico corresponde al cluster %d: %s\n", physical, orNotAvailable(physicalInfo.Description))

	b.WriteString("\nInformación sobre su perfil físico:\n")
	fmt.Fprintf(&b, "- Fortalezas: %s\n", joinOrNotAvailable(physicalInfo.Strengths))
	fmt.Fprintf(&b, "- Áreas de desarrollo: %s\n", joinOrNotAvailable(physicalInfo.DevelopmentAreas))

	if !positionInfo.IsZero() {
		b.WriteString("\nInformación sobre su posición:\n")
		fmt.Fprintf(&b, "- Descripción: %s\n", orNotAvailable(positionInfo.Description))
		fmt.Fprintf(&b, "- Fortalezas: %s\n", joinOrNotAvailable(positionInfo.Strengths))
		fmt.Fprintf(&b, "- Áreas de desarrollo: %s\n", joinOrNotAvailable(positionInfo.DevelopmentAreas))
	}

	b.WriteString("\nRecomendaciones específicas para su posición y condición física:\n")
	if len(recommendations) > 0 {
		b.WriteString("- " + strings.Join(recommendations, "\n- ") + "\n")
	} else {
		b.WriteString("- " + notAvailablePlural + "\n")
	}

	b.WriteString("\nPor favor proporciona:\n")
	b.WriteString("1. Un análisis integrado de la adecuación entre su condición física y su posición actual\n")
	b.WriteString("2. Fortalezas principales detectadas (al menos 2-3)\n")
	b.WriteString("3. Áreas específicas que debe mejorar (al menos 2-3)\n")
	b.WriteString("4. Recomendaciones concretas de entrenamiento (al menos 2-3 y deben ser entrenamientos muy específicos, " +
		"incluyendo ejercicios, series, repeticiones, herramientas necesarias, etc.)\n")
	b.WriteString("5. Un breve perfil de su rendimiento esperado en competición\n\n")
	b.WriteString(formatReminder)

	prompt := b.String()
	pb.logger.WithFields(logrus.Fields{
		"position":      position,
		"physical":      physical,
		"prompt_length": len(prompt),
	}).Debug("Built player prompt")
	return prompt
}

// BuildTeamPrompt renders the analysis request for a team of analysed players.
func (pb *PromptBuilder) BuildTeamPrompt(team models.TeamProfile) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Realiza un análisis detallado del equipo de fútbol sala \"%s\" con %d jugadores.\n\n",
		team.TeamName, len(team.Players))

	b.WriteString("Composición del equipo:\n")
	fmt.Fprintf(&b, "- Posiciones: %s\n", joinOrNotAvailable(team.Positions))
	fmt.Fprintf(&b, "- Condiciones físicas: %s\n\n", joinOrNotAvailable(team.PhysicalConditions))

	b.WriteString("Detalles de los jugadores:\n")
	b.WriteString(playerProfilesJSON(team.Players))
	b.WriteString("\n\n")

	b.WriteString("Proporciona:\n")
	b.WriteString("1. Un análisis general del equilibrio del equipo\n")
	b.WriteString("2. Puntos fuertes colectivos del equipo (al menos 3)\n")
	b.WriteString("3. Áreas de mejora como conjunto (al menos 3)\n")
	b.WriteString("4. Recomendaciones tácticas específicas (al menos 3)\n")
	b.WriteString("5. Sugerencias de entrenamientos grupales específicos (al menos 3 con ejercicios, series, " +
		"repeticiones, herramientas necesarias, etc.)\n")
	b.WriteString("6. Posibles ajustes en la alineación para optimizar el rendimiento\n\n")
	b.WriteString(formatReminder)

	prompt := b.String()
	pb.logger.WithFields(logrus.Fields{
		"team_name":     team.TeamName,
		"players":       len(team.Players),
		"prompt_length": len(prompt),
	}).Debug("Built team prompt")
	return prompt
}

// playerProfilesJSON indents the summaries with two spaces and leaves
// non-ASCII and HTML characters unescaped.
func playerProfilesJSON(players []models.PlayerProfileSummary) string {
	summaries := make([]models.PlayerProfileSummary, len(players))
	for i, p := range players {
		if p.Strengths == nil {
			p.Strengths = []string{}
		}
		if p.Weaknesses == nil {
			p.Weaknesses = []string{}
		}
		summaries[i] = p
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(summaries); err != nil {
		return "[]"
	}
	return strings.TrimRight(buf.String(), "\n")
}

func orNotAvailable(s string) string {
	if strings.TrimSpace(s) == "" {
		return notAvailable
	}
	return s
}

func joinOrNotAvailable(items []string) string {
	if len(items) == 0 {
		return notAvailable
	}
	return strings.Join(items, ", ")
}
