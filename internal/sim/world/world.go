package world

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"anthill.ai/internal/sim/model"
	"anthill.ai/internal/sim/placement"
)

var ErrHillsPlaced = errors.New("ant hills already placed")

// PlacementEntry describes one committed placement: a mirrored pair or a single
// body.
type PlacementEntry struct {
	Seq      uint64         `json:"seq"`
	Kind     placement.Kind `json:"kind"`
	Mirrored bool           `json:"mirrored"`
	Poses    []model.Pose   `json:"poses"`
}

type PlacementLog interface {
	WritePlacement(PlacementEntry) error
}

// World owns the arena state of one generated match: two colonies and the
// resource lists. It is single-threaded and not safe for concurrent use.
type World struct {
	cfg    Config
	engine *placement.Engine

	teamA *Colony
	teamB *Colony

	raspberries []model.Pose
	sugarHills  []model.SugarHill

	plog PlacementLog
	seq  uint64
}

func New(cfg Config, rng *rand.Rand) *World {
	cfg.applyDefaults()
	return &World{
		cfg:    cfg,
		engine: placement.New(cfg.Placement, rng),
		teamA:  newColony("team A", model.TeamA),
		teamB:  newColony("team B", model.TeamB),
	}
}

func (w *World) Config() Config            { return w.cfg }
func (w *World) Map() model.Map            { return w.cfg.Map }
func (w *World) Engine() *placement.Engine { return w.engine }
func (w *World) TeamA() *Colony            { return w.teamA }
func (w *World) TeamB() *Colony            { return w.teamB }

// SetPlacementLog registers a sink for committed placements; nil disables it.
func (w *World) SetPlacementLog(l PlacementLog) { w.plog = l }

func (w *World) colonies() [2]*Colony { return [2]*Colony{w.teamA, w.teamB} }

func (w *World) Raspberries() []model.Pose {
	return append([]model.Pose(nil), w.raspberries...)
}

func (w *World) SugarHills() []model.SugarHill {
	return append([]model.SugarHill(nil), w.sugarHills...)
}

// EachBody implements placement.Occupancy over every entity on the arena.
func (w *World) EachBody(fn func(kind placement.Kind, x, y float64) bool) {
	for _, p := range w.raspberries {
		if !fn(placement.KindRaspberry, p.X, p.Y) {
			return
		}
	}
	for _, s := range w.sugarHills {
		if !fn(placement.KindSugarHill, s.Pose.X, s.Pose.Y) {
			return
		}
	}
	for _, c := range w.colonies() {
		if c.Hill != nil && !fn(placement.KindAntHill, c.Hill.Pose.X, c.Hill.Pose.Y) {
			return
		}
	}
	for _, c := range w.colonies() {
		stop := false
		c.Roster.Each(func(_ AntID, a model.Ant) bool {
			stop = !fn(placement.KindAnt, a.Pose.X, a.Pose.Y)
			return !stop
		})
		if stop {
			return
		}
	}
}

// Snapshot copies the current state into a new frame: team A ants, team B ants,
// both hills, raspberries, sugar hills.
func (w *World) Snapshot() model.Frame {
	var f model.Frame
	for _, c := range w.colonies() {
		c.Roster.Each(func(_ AntID, a model.Ant) bool {
			f.AddAnt(a)
			return true
		})
	}
	for _, c := range w.colonies() {
		if c.Hill != nil {
			f.AddAntHill(*c.Hill)
		}
	}
	for _, p := range w.raspberries {
		f.AddRaspberry(p)
	}
	for _, s := range w.sugarHills {
		f.AddSugarHill(s)
	}
	return f
}

// Populate places the ant hills (unless already placed) and the requested pairs
// of sugar hills, raspberries and ants, in that order.
func (w *World) Populate(pop Population) error {
	factor := pop.BudgetFactor
	if factor <= 0 {
		factor = placement.DefaultBudgetFactor
	}
	hills := 1
	if w.teamA.Hill != nil || w.teamB.Hill != nil {
		hills = 0
	}
	steps := []struct {
		name  string
		count int
		place func() error
	}{
		{"ant hills", hills, w.PlaceAntHillPair},
		{"sugar hills", pop.SugarHillPairs, w.PlaceSugarHillPair},
		{"raspberries", pop.RaspberryPairs, w.PlaceRaspberryPair},
		{"ants", pop.AntPairs, func() error {
			_, _, err := w.PlaceAntPair()
			return err
		}},
	}
	for _, s := range steps {
		if s.count <= 0 {
			continue
		}
		if err := w.engine.Place(s.count, s.count*factor, s.place); err != nil {
			return fmt.Errorf("populate %s: %w", s.name, err)
		}
	}
	return nil
}

func (w *World) check(kind placement.Kind, p model.Pose, mirror bool) error {
	if w.engine.Collides(w, p.X, p.Y, w.engine.Radius(kind), mirror) {
		return placement.ErrOccupied
	}
	return nil
}

func (w *World) propose(kind placement.Kind) (model.Pose, error) {
	pt, err := w.engine.FindFreeSpace(w, w.engine.Radius(kind))
	if err != nil {
		return model.Pose{}, err
	}
	return pt.Pose(w.engine.Heading()), nil
}

func (w *World) logPlacement(kind placement.Kind, poses ...model.Pose) error {
	w.seq++
	if w.plog == nil {
		return nil
	}
	e := PlacementEntry{Seq: w.seq, Kind: kind, Mirrored: len(poses) == 2, Poses: poses}
	if err := w.plog.WritePlacement(e); err != nil {
		return fmt.Errorf("placement log: %w", err)
	}
	return nil
}
