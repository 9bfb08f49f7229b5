package services

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// SectionKind tells the parser how to read a section body.
type SectionKind int

const (
	SectionText SectionKind = iota
	SectionList
)

// SectionSpec describes one section of the response contract.
type SectionSpec struct {
	Key      string
	Header   string   // exact header the model is told to emit, colon included
	Synonyms []string // looser headings accepted when Header is absent
	Kind     SectionKind

	// Preamble lets text before the first recognised header stand in for this
	// section when its own header is missing.
	Preamble bool

	// Rendering hints for the system instruction.
	Hint      string
	ItemLabel string
}

// Layout is the ordered section contract for one kind of analysis. Role opens
// the system instruction rendered from it.
type Layout struct {
	Name     string
	Role     string
	Sections []SectionSpec
}

const (
	KeyGeneralAnalysis         = "generalAnalysis"
	KeyStrengths               = "strengths"
	KeyWeaknesses              = "weaknesses"
	KeyTrainingRecommendations = "trainingRecommendations"
	KeyPerformanceProfile      = "performanceProfile"
	KeyTeamStrengths           = "teamStrengths"
	KeyTeamWeaknesses          = "teamWeaknesses"
	KeyTacticalRecommendations = "tacticalRecommendations"
	KeyTrainingSuggestions     = "trainingSuggestions"
	KeyLineupAdjustments       = "lineupAdjustments"
)

var generalAnalysisSection = SectionSpec{
	Key:      KeyGeneralAnalysis,
	Header:   "ANÁLISIS GENERAL:",
	Synonyms: []string{"análisis general", "análisis", "resumen general", "general analysis"},
	Kind:     SectionText,
	Preamble: true,
	Hint:     "[Escribe aquí tu análisis general]",
}

var PlayerLayout = Layout{
	Name: "player",
	Role: "Eres un asistente especializado en análisis deportivo para fútbol sala. " +
		"Tu trabajo es analizar datos antropométricos y físicos de jugadores para " +
		"proporcionar recomendaciones precisas y útiles al cuerpo técnico.",
	Sections: []SectionSpec{
		generalAnalysisSection,
		{
			Key:       KeyStrengths,
			Header:    "FORTALEZAS:",
			Synonyms:  []string{"fortalezas", "fortalezas principales", "puntos fuertes", "strengths"},
			Kind:      SectionList,
			ItemLabel: "Fortaleza",
		},
		{
			Key:    KeyWeaknesses,
			Header: "ÁREAS DE MEJORA:",
			Synonyms: []string{"áreas de mejora", "áreas a mejorar", "aspectos a mejorar",
				"debilidades", "áreas de desarrollo", "weaknesses", "areas to improve"},
			Kind:      SectionList,
			ItemLabel: "Área de mejora",
		},
		{
			Key:    KeyTrainingRecommendations,
			Header: "RECOMENDACIONES DE ENTRENAMIENTO:",
			Synonyms: []string{"recomendaciones de entrenamiento", "recomendaciones de entrenamientos",
				"plan de entrenamiento", "training recommendations"},
			Kind:      SectionList,
			ItemLabel: "Recomendación",
		},
		{
			Key:    KeyPerformanceProfile,
			Header: "PERFIL DE RENDIMIENTO:",
			Synonyms: []string{"perfil de rendimiento", "perfil de rendimiento esperado",
				"rendimiento esperado", "performance profile"},
			Kind: SectionText,
			Hint: "[Escribe aquí el perfil de rendimiento]",
		},
	},
}

var TeamLayout = Layout{
	Name: "team",
	Role: "Eres un asistente especializado en análisis deportivo y entrenador experto " +
		"de fútbol sala. Tu trabajo es analizar datos antropométricos y físicos de " +
		"jugadores para proporcionar análisis tácticos y estratégicos precisos para equipos.",
	Sections: []SectionSpec{
		generalAnalysisSection,
		{
			Key:       KeyTeamStrengths,
			Header:    "PUNTOS FUERTES:",
			Synonyms:  []string{"puntos fuertes", "fortalezas", "fortalezas del equipo", "team strengths"},
			Kind:      SectionList,
			ItemLabel: "Punto fuerte",
		},
		{
			Key:    KeyTeamWeaknesses,
			Header: "ÁREAS DE MEJORA:",
			Synonyms: []string{"áreas de mejora", "áreas a mejorar", "debilidades",
				"puntos débiles", "team weaknesses"},
			Kind:      SectionList,
			ItemLabel: "Área de mejora",
		},
		{
			Key:       KeyTacticalRecommendations,
			Header:    "RECOMENDACIONES TÁCTICAS:",
			Synonyms:  []string{"recomendaciones tácticas", "tactical recommendations"},
			Kind:      SectionList,
			ItemLabel: "Recomendación",
		},
		{
			Key:    KeyTrainingSuggestions,
			Header: "SUGERENCIAS DE ENTRENAMIENTOS:",
			Synonyms: []string{"sugerencias de entrenamientos", "sugerencias de entrenamiento",
				"entrenamientos sugeridos", "training suggestions"},
			Kind:      SectionList,
			ItemLabel: "Sugerencia",
		},
		{
			Key:    KeyLineupAdjustments,
			Header: "AJUSTES EN LA ALINEACIÓN:",
			Synonyms: []string{"ajustes en la alineación", "ajustes de alineación",
				"cambios en la alineación", "lineup adjustments"},
			Kind: SectionText,
			Hint: "[Escribe aquí los posibles ajustes]",
		},
	},
}

// MatchKind records how a section's content was found.
type MatchKind int

const (
	MatchNone MatchKind = iota
	MatchExact
	MatchFallback
	MatchPreamble
	MatchRawText
)

// Extraction outcomes, as reported to logs and metrics.
const (
	OutcomeStructured = "structured"
	OutcomePartial    = "partial"
	OutcomeRawOnly    = "raw_only"
	OutcomeEmpty      = "empty"
)

// ExtractedSection is the parsed content of one section.
type ExtractedSection struct {
	Spec  SectionSpec
	Match MatchKind
	Text  string
	Items []string
}

func (s ExtractedSection) populated() bool {
	return s.Text != "" || len(s.Items) > 0
}

// Extraction is the parsed form of one LLM response, in layout order.
type Extraction struct {
	Layout   string
	Sections []ExtractedSection
}

// Text returns the body of a free-text section.
func (e Extraction) Text(key string) string {
	for _, s := range e.Sections {
		if s.Spec.Key == key {
			return s.Text
		}
	}
	return ""
}

// Items returns the entries of a list section, never nil.
func (e Extraction) Items(key string) []string {
	for _, s := range e.Sections {
		if s.Spec.Key == key && len(s.Items) > 0 {
			out := make([]string, len(s.Items))
			copy(out, s.Items)
			return out
		}
	}
	return []string{}
}

// Outcome summarises how much of the contract the response honoured.
func (e Extraction) Outcome() string {
	populated := 0
	for _, s := range e.Sections {
		if s.Match == MatchRawText {
			return OutcomeRawOnly
		}
		if s.populated() {
			populated++
		}
	}
	switch {
	case populated == 0:
		return OutcomeEmpty
	case populated == len(e.Sections):
		return OutcomeStructured
	default:
		return OutcomePartial
	}
}

type headerHit struct {
	line    int
	section int
	exact   bool
	inline  string
}

// ExtractSections parses raw model output against layout. Every section is
// located independently, so order in the response does not matter. When a
// header appears more than once the first exact occurrence wins, then the first
// fallback one. A body ends at the next chosen header or at a repeated exact
// header; loose headings that lost to an exact one are plain content.
func ExtractSections(raw string, layout Layout) Extraction {
	text := strings.ReplaceAll(raw, "\r\n", "\n")
	lines := strings.Split(text, "\n")

	var hits []headerHit
	for i, line := range lines {
		if hit, ok := matchHeaderLine(line, layout); ok {
			hit.line = i
			hits = append(hits, hit)
		}
	}

	chosen := make([]headerHit, len(layout.Sections))
	found := make([]bool, len(layout.Sections))
	for idx := range layout.Sections {
		chosen[idx], found[idx] = selectHit(hits, idx)
	}
	bounds := boundaryLines(hits, chosen, found)

	result := Extraction{
		Layout:   layout.Name,
		Sections: make([]ExtractedSection, len(layout.Sections)),
	}

	for idx, spec := range layout.Sections {
		section := ExtractedSection{Spec: spec}

		if found[idx] {
			hit := chosen[idx]
			body := sectionBody(lines, bounds, hit)
			if hit.exact {
				section.Match = MatchExact
			} else {
				section.Match = MatchFallback
			}

			switch spec.Kind {
			case SectionList:
				if hit.exact {
					section.Items = parseItems(body, dashBullet)
				}
				if len(section.Items) == 0 {
					section.Items = parseItems(body, looseBullet)
				}
			default:
				section.Text = strings.TrimSpace(strings.Join(body, "\n"))
			}
		} else if spec.Preamble && len(hits) > 0 {
			preamble := strings.TrimSpace(strings.Join(lines[:hits[0].line], "\n"))
			if preamble != "" {
				section.Match = MatchPreamble
				section.Text = preamble
			}
		}

		result.Sections[idx] = section
	}

	anyPopulated := false
	for _, s := range result.Sections {
		if s.populated() {
			anyPopulated = true
			break
		}
	}
	if !anyPopulated {
		if trimmed := strings.TrimSpace(text); trimmed != "" {
			for idx, s := range result.Sections {
				if s.Spec.Key == KeyGeneralAnalysis {
					result.Sections[idx].Match = MatchRawText
					result.Sections[idx].Text = trimmed
					break
				}
			}
		}
	}

	return result
}

func selectHit(hits []headerHit, section int) (headerHit, bool) {
	var fallback *headerHit
	for i := range hits {
		if hits[i].section != section {
			continue
		}
		if hits[i].exact {
			return hits[i], true
		}
		if fallback == nil {
			fallback = &hits[i]
		}
	}
	if fallback != nil {
		return *fallback, true
	}
	return headerHit{}, false
}

// boundaryLines returns, in ascending order, the lines that close a section
// body: every chosen header plus every exact header that was not chosen.
func boundaryLines(hits []headerHit, chosen []headerHit, found []bool) []int {
	var bounds []int
	for _, h := range hits {
		isChosen := found[h.section] && chosen[h.section].line == h.line
		if isChosen || h.exact {
			bounds = append(bounds, h.line)
		}
	}
	return bounds
}

// sectionBody returns the inline remainder of the header line followed by every
// line up to, but excluding, the next boundary.
func sectionBody(lines []string, bounds []int, hit headerHit) []string {
	end := len(lines)
	for _, b := range bounds {
		if b > hit.line {
			end = b
			break
		}
	}

	body := make([]string, 0, end-hit.line)
	if hit.inline != "" {
		body = append(body, hit.inline)
	}
	return append(body, lines[hit.line+1:end]...)
}

func matchHeaderLine(line string, layout Layout) (headerHit, bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return headerHit{}, false
	}

	best, bestLen := -1, 0
	for idx, spec := range layout.Sections {
		if strings.HasPrefix(trimmed, spec.Header) && len(spec.Header) > bestLen {
			best, bestLen = idx, len(spec.Header)
		}
	}
	if best >= 0 {
		return headerHit{
			section: best,
			exact:   true,
			inline:  strings.TrimSpace(trimmed[bestLen:]),
		}, true
	}

	// List items are content even when they open with a section label.
	if _, ok := dashBullet(trimmed); ok {
		return headerHit{}, false
	}
	if _, ok := symbolBullet(trimmed); ok {
		return headerHit{}, false
	}

	heading := stripHeadingMarks(trimmed)
	folded := foldHeading(heading)

	best, bestLen = -1, 0
	for idx, spec := range layout.Sections {
		for _, synonym := range spec.Synonyms {
			label := foldHeading(synonym)
			if len(label) <= bestLen || !strings.HasPrefix(folded, label) {
				continue
			}
			rest := strings.TrimLeft(folded[len(label):], "*_ \t")
			if rest == "" || rest[0] == ':' {
				best, bestLen = idx, len(label)
			}
		}
	}
	if best < 0 {
		return headerHit{}, false
	}

	inline := ""
	if colon := strings.IndexByte(heading, ':'); colon >= 0 {
		inline = strings.Trim(heading[colon+1:], "*_ \t")
	}
	return headerHit{section: best, inline: inline}, true
}

// stripHeadingMarks removes markdown heading, emphasis and numbering prefixes.
func stripHeadingMarks(s string) string {
	s = strings.TrimLeft(s, "#>*_ \t")
	if rest, ok := cutNumbering(s); ok {
		s = strings.TrimLeft(rest, "#>*_ \t")
	}
	return strings.TrimRight(s, "*_ \t")
}

// foldHeading lowercases s and removes diacritics so "ÁREAS" matches "areas".
func foldHeading(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(folded)
}

type bulletFunc func(line string) (string, bool)

func dashBullet(line string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	for _, marker := range []string{"-", "–", "—"} {
		if strings.HasPrefix(trimmed, marker) {
			return trimmed[len(marker):], true
		}
	}
	return "", false
}

func looseBullet(line string) (string, bool) {
	if item, ok := dashBullet(line); ok {
		return item, true
	}
	if item, ok := symbolBullet(line); ok {
		return item, true
	}
	return cutNumbering(strings.TrimSpace(line))
}

// symbolBullet strips a "•", "·", "*" or "+" marker followed by whitespace.
// "**bold**" is not a bullet.
func symbolBullet(line string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	for _, marker := range []string{"•", "·", "*", "+"} {
		if rest, ok := strings.CutPrefix(trimmed, marker); ok && (rest == "" || rest[0] == ' ' || rest[0] == '\t') {
			return rest, true
		}
	}
	return "", false
}

// cutNumbering strips a "12." or "3)" list marker followed by whitespace.
func cutNumbering(s string) (string, bool) {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 || i >= len(s) || (s[i] != '.' && s[i] != ')') {
		return "", false
	}
	rest := s[i+1:]
	if rest != "" && rest[0] != ' ' && rest[0] != '\t' {
		return "", false
	}
	return rest, true
}

func parseItems(body []string, bullet bulletFunc) []string {
	var items []string
	for _, line := range body {
		item, ok := bullet(line)
		if !ok {
			continue
		}
		item = strings.TrimSpace(item)
		if item == "" || strings.Trim(item, "-–—*_ ") == "" {
			continue
		}
		items = append(items, item)
	}
	return items
}
