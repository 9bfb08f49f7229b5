package models

// PositionID is a cluster id produced by the position classifier (0-3).
type PositionID int

// PhysicalID is a cluster id produced by the physical-condition classifier (0-4).
type PhysicalID int

const (
	PositionWinger     PositionID = 0
	PositionPivot      PositionID = 1
	PositionGoalkeeper PositionID = 2
	PositionFixo       PositionID = 3
)

const (
	PhysicalExplosive PhysicalID = 0
	PhysicalBalanced  PhysicalID = 1
	PhysicalResistant PhysicalID = 2
	PhysicalPowerful  PhysicalID = 3
	PhysicalAgile     PhysicalID = 4
)

// CategoryKind selects which cluster family a lookup refers to.
type CategoryKind string

const (
	CategoryPosition CategoryKind = "position"
	CategoryPhysical CategoryKind = "physical"
)

// CategoryInfo is the static description attached to a cluster.
type CategoryInfo struct {
	Description             string   `json:"description"`
	Strengths               []string `json:"strengths"`
	DevelopmentAreas        []string `json:"developmentAreas"`
	TrainingRecommendations []string `json:"trainingRecommendations"`
}

// IsZero reports whether the record carries no data, as returned for unknown ids.
func (c CategoryInfo) IsZero() bool {
	return c.Description == "" &&
		len(c.Strengths) == 0 &&
		len(c.DevelopmentAreas) == 0 &&
		len(c.TrainingRecommendations) == 0
}
