package main

import (
	"fmt"

	"anthill.ai/internal/sim/model"
	"anthill.ai/internal/sim/placement"
	"anthill.ai/internal/sim/world"
)

// verifyPlacements checks that every logged pose shows up in the frame, kind by
// kind, and that the logged totals match the frame's counts.
func verifyPlacements(f model.Frame, entries []world.PlacementEntry) error {
	logged := map[placement.Kind][]model.Pose{}
	for _, e := range entries {
		if e.Mirrored && len(e.Poses) == 2 && !e.Poses[0].Mirror().ApproxEqual(e.Poses[1], model.DefaultEpsilon) {
			return fmt.Errorf("entry %d: poses are not mirror images", e.Seq)
		}
		logged[e.Kind] = append(logged[e.Kind], e.Poses...)
	}

	framePoses := map[placement.Kind][]model.Pose{}
	for _, a := range f.Ants {
		framePoses[placement.KindAnt] = append(framePoses[placement.KindAnt], a.Pose)
	}
	for _, h := range f.AntHills {
		framePoses[placement.KindAntHill] = append(framePoses[placement.KindAntHill], h.Pose)
	}
	framePoses[placement.KindRaspberry] = append(framePoses[placement.KindRaspberry], f.Raspberries...)
	for _, s := range f.SugarHills {
		framePoses[placement.KindSugarHill] = append(framePoses[placement.KindSugarHill], s.Pose)
	}

	for _, kind := range []placement.Kind{placement.KindAnt, placement.KindAntHill, placement.KindRaspberry, placement.KindSugarHill} {
		want, got := logged[kind], framePoses[kind]
		if len(want) != len(got) {
			return fmt.Errorf("%s: %d logged, %d in frame", kind, len(want), len(got))
		}
		for i, p := range want {
			if !containsPose(got, p) {
				return fmt.Errorf("%s: logged pose %d (%g, %g) missing from frame", kind, i, p.X, p.Y)
			}
		}
	}
	return nil
}

func containsPose(ps []model.Pose, p model.Pose) bool {
	for _, q := range ps {
		if q.ApproxEqual(p, model.DefaultEpsilon) {
			return true
		}
	}
	return false
}
