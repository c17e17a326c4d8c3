package world

import (
	"anthill.ai/internal/sim/model"
	"anthill.ai/internal/sim/placement"
)

type Config struct {
	Map       model.Map
	Placement placement.Config

	// Volume given to freshly placed sugar hills.
	SugarVolume float64
}

func (c *Config) applyDefaults() {
	if c.Map.Width <= 0 {
		c.Map.Width = 64
	}
	if c.Map.Height <= 0 {
		c.Map.Height = 64
	}
	if c.Placement.Bounds == (placement.Bounds{}) {
		c.Placement.Bounds = placement.BoundsFor(c.Map, 1)
	}
	if c.SugarVolume <= 0 {
		c.SugarVolume = 1
	}
}

// Population is the amount of mirrored pairs Populate places per kind. Ant hills
// are always placed as one pair.
type Population struct {
	SugarHillPairs int
	RaspberryPairs int
	AntPairs       int

	// Attempts per requested pair; 0 means placement.DefaultBudgetFactor.
	BudgetFactor int
}
