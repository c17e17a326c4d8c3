package world

import (
	"anthill.ai/internal/sim/agent"
	"anthill.ai/internal/sim/model"
)

// Colony is one team: its hill, its ants and the agent steering them.
type Colony struct {
	Name   string
	Team   model.Team
	Hill   *model.AntHill
	Roster *Roster
	Agent  agent.Agent
}

func newColony(name string, team model.Team) *Colony {
	return &Colony{Name: name, Team: team, Roster: NewRoster()}
}
