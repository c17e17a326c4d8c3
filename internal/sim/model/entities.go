package model

// Team identifies a colony. It is a plain integer id, not a closed enum.
type Team int32

const (
	TeamA Team = 0
	TeamB Team = 1
)

type Ant struct {
	Pose Pose `json:"pose"`
}

type AntHill struct {
	Pose Pose `json:"pose"`
	Team Team `json:"team"`
}

type SugarHill struct {
	Pose   Pose    `json:"pose"`
	Volume float64 `json:"volume"`
}

func NewAnt(p Pose) Ant { return Ant{Pose: p} }

func NewAntHill(p Pose, team Team) AntHill { return AntHill{Pose: p, Team: team} }

func NewSugarHill(p Pose, volume float64) SugarHill { return SugarHill{Pose: p, Volume: volume} }
