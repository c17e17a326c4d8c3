package main

import (
	"testing"

	"anthill.ai/internal/sim/model"
	"anthill.ai/internal/sim/placement"
	"anthill.ai/internal/sim/world"
)

func TestVerifyPlacements_MatchesPopulatedWorld(t *testing.T) {
	w := world.New(world.Config{Map: model.Map{Width: 80, Height: 80}}, placement.NewRand(11))
	var entries []world.PlacementEntry
	w.SetPlacementLog(sink(func(e world.PlacementEntry) { entries = append(entries, e) }))
	if err := w.Populate(world.Population{SugarHillPairs: 2, RaspberryPairs: 4, AntPairs: 3}); err != nil {
		t.Fatalf("Populate: %v", err)
	}
	if err := verifyPlacements(w.Snapshot(), entries); err != nil {
		t.Fatalf("verifyPlacements: %v", err)
	}
}

func TestVerifyPlacements_DetectsMismatch(t *testing.T) {
	p := model.Pose{X: 5, Y: 6, Rotation: 1}
	entries := []world.PlacementEntry{{Seq: 1, Kind: placement.KindRaspberry, Mirrored: true, Poses: []model.Pose{p, p.Mirror()}}}

	var ok model.Frame
	ok.AddRaspberry(p)
	ok.AddRaspberry(p.Mirror())
	if err := verifyPlacements(ok, entries); err != nil {
		t.Fatalf("verifyPlacements: %v", err)
	}

	var missing model.Frame
	missing.AddRaspberry(p)
	if err := verifyPlacements(missing, entries); err == nil {
		t.Fatalf("expected count mismatch")
	}

	var moved model.Frame
	moved.AddRaspberry(p)
	moved.AddRaspberry(model.Pose{X: 1, Y: 1})
	if err := verifyPlacements(moved, entries); err == nil {
		t.Fatalf("expected missing pose")
	}

	bad := []world.PlacementEntry{{Seq: 1, Kind: placement.KindRaspberry, Mirrored: true, Poses: []model.Pose{p, p}}}
	if err := verifyPlacements(ok, bad); err == nil {
		t.Fatalf("expected mirror error")
	}
}

type sink func(world.PlacementEntry)

func (f sink) WritePlacement(e world.PlacementEntry) error {
	f(e)
	return nil
}
