package models

import (
	"fmt"
	"strings"
)

// AnalysisResult is the structured outcome of one player's LLM analysis.
type AnalysisResult struct {
	Success                 bool               `json:"success"`
	PlayerID                string             `json:"playerId,omitempty"`
	PlayerName              string             `json:"playerName,omitempty"`
	PositionCategory        PositionID         `json:"positionCategory"`
	PhysicalCategory        PhysicalID         `json:"physicalCategory"`
	PositionName            string             `json:"positionName"`
	PhysicalName            string             `json:"physicalName"`
	GeneralAnalysis         string             `json:"generalAnalysis"`
	Strengths               []string           `json:"strengths"`
	Weaknesses              []string           `json:"weaknesses"`
	TrainingRecommendations []string           `json:"trainingRecommendations"`
	PerformanceProfile      string             `json:"performanceProfile"`
	RawText                 string             `json:"rawAnalysis"`
	RawFeatures             map[string]float64 `json:"rawFeatures,omitempty"`
	Error                   string             `json:"error,omitempty"`
	Message                 string             `json:"message,omitempty"`
}

// TeamAnalysisResult is the structured outcome of the team-level LLM analysis.
type TeamAnalysisResult struct {
	Success                 bool     `json:"success"`
	GeneralAnalysis         string   `json:"generalAnalysis"`
	TeamStrengths           []string `json:"teamStrengths"`
	TeamWeaknesses          []string `json:"teamWeaknesses"`
	TacticalRecommendations []string `json:"tacticalRecommendations"`
	TrainingSuggestions     []string `json:"trainingSuggestions"`
	LineupAdjustments       string   `json:"lineupAdjustments"`
	RawText                 string   `json:"rawAnalysis,omitempty"`
	Error                   string   `json:"error,omitempty"`
	Message                 string   `json:"message,omitempty"`
}

// PlayerFailure records why one submitted player could not be processed.
type PlayerFailure struct {
	PlayerIndex int    `json:"playerIndex"`
	PlayerName  string `json:"playerName"`
	Error       string `json:"error"`
}

// PlayerBatchReport is the result of a team analysis. Results and Errors are in
// submission order, and TotalPlayers always equals ProcessedPlayers + FailedPlayers.
type PlayerBatchReport struct {
	Success          bool                `json:"success"`
	TeamName         string              `json:"teamName"`
	PlayerResults    []*AnalysisResult   `json:"playerResults"`
	Errors           []PlayerFailure     `json:"errors"`
	TotalPlayers     int                 `json:"totalPlayers"`
	ProcessedPlayers int                 `json:"processedPlayers"`
	FailedPlayers    int                 `json:"failedPlayers"`
	TeamAnalysis     *TeamAnalysisResult `json:"teamAnalysis"`
}

// PlayerInput is one player object as submitted in a team request: the feature
// fields plus optional id and name.
type PlayerInput map[string]interface{}

// DefaultTeamName is used when a team request carries no name.
const DefaultTeamName = "Equipo sin nombre"

// ID returns the submitted id, or a positional one.
func (p PlayerInput) ID(index int) string {
	if s := p.stringField("id"); s != "" {
		return s
	}
	return fmt.Sprintf("player_%d", index)
}

// Name returns the submitted name, or a 1-based positional one.
func (p PlayerInput) Name(index int) string {
	if s := p.stringField("name"); s != "" {
		return s
	}
	return fmt.Sprintf("Jugador %d", index+1)
}

func (p PlayerInput) stringField(key string) string {
	switch v := p[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return fmt.Sprintf("%g", v)
	default:
		return ""
	}
}

// PlayerProfileSummary is how each analysed player is described to the team prompt.
type PlayerProfileSummary struct {
	Name       string   `json:"name"`
	Position   string   `json:"position"`
	Physical   string   `json:"physical"`
	Strengths  []string `json:"strengths"`
	Weaknesses []string `json:"weaknesses"`
}

// TeamProfile aggregates the successful players of a batch.
type TeamProfile struct {
	TeamName           string
	Positions          []string
	PhysicalConditions []string
	Players            []PlayerProfileSummary
}

// PositionPrediction is the response for a position classification.
type PositionPrediction struct {
	PlayerID    string             `json:"playerId,omitempty"`
	PlayerName  string             `json:"playerName,omitempty"`
	ClusterID   PositionID         `json:"clusterId"`
	ClusterName string             `json:"clusterName"`
	Features    map[string]float64 `json:"features,omitempty"`
}

// PhysicalPrediction is the response for a physical-condition classification.
type PhysicalPrediction struct {
	PlayerID                string             `json:"playerId,omitempty"`
	PlayerName              string             `json:"playerName,omitempty"`
	ClusterID               PhysicalID         `json:"clusterId"`
	ClusterName             string             `json:"clusterName"`
	Description             string             `json:"description"`
	Strengths               []string           `json:"strengths"`
	DevelopmentAreas        []string           `json:"developmentAreas"`
	TrainingRecommendations []string           `json:"trainingRecommendations"`
	SpecificRecommendations []string           `json:"specificRecommendations,omitempty"`
	Features                map[string]float64 `json:"features,omitempty"`
}

// FullRecommendations combines both classifications with the recommendations
// specific to the position/physical pair.
type FullRecommendations struct {
	Position                PositionPrediction `json:"position"`
	PhysicalCondition       PhysicalPrediction `json:"physicalCondition"`
	SpecificRecommendations []string           `json:"specificRecommendations"`
	Features                map[string]float64 `json:"features"`
}

// PredictionBatchReport is the result of a team prediction request.
type PredictionBatchReport struct {
	Success          bool            `json:"success"`
	TeamName         string          `json:"teamName"`
	Results          []interface{}   `json:"results"`
	Errors           []PlayerFailure `json:"errors"`
	TotalPlayers     int             `json:"totalPlayers"`
	ProcessedPlayers int             `json:"processedPlayers"`
	FailedPlayers    int             `json:"failedPlayers"`
}
