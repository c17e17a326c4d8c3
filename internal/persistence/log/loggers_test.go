package log

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"anthill.ai/internal/sim/model"
	"anthill.ai/internal/sim/placement"
	"anthill.ai/internal/sim/world"
)

func TestPlacementLogger_WorldRoundTrip(t *testing.T) {
	dir := t.TempDir()
	l := NewPlacementLogger(dir)

	w := world.New(world.Config{Map: model.Map{Width: 64, Height: 64}}, placement.NewRand(9))
	w.SetPlacementLog(l)
	if err := w.Populate(world.Population{SugarHillPairs: 2, RaspberryPairs: 4}); err != nil {
		t.Fatalf("Populate: %v", err)
	}
	if err := w.TryAddRaspberry(model.Pose{X: 0, Y: 0}); err != nil && !errors.Is(err, placement.ErrOccupied) {
		t.Fatalf("TryAddRaspberry: %v", err)
	}
	if err := l.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	got, err := ReadPlacements(l.Path())
	if err != nil {
		t.Fatalf("ReadPlacements: %v", err)
	}
	if len(got) < 7 {
		t.Fatalf("entries: got %d want >= 7", len(got))
	}
	for i, e := range got {
		if e.Seq != uint64(i+1) {
			t.Fatalf("entry %d: seq=%d", i, e.Seq)
		}
	}
	f := w.Snapshot()
	last := got[len(got)-1]
	if last.Kind == placement.KindRaspberry && !last.Mirrored {
		if len(last.Poses) != 1 || last.Poses[0] != f.Raspberries[len(f.Raspberries)-1] {
			t.Fatalf("single raspberry entry: %+v", last)
		}
	}
	if got[0].Kind != placement.KindAntHill || got[0].Poses[0] != f.AntHills[0].Pose || got[0].Poses[1] != f.AntHills[1].Pose {
		t.Fatalf("hill entry mismatch: %+v vs %+v", got[0], f.AntHills)
	}
}

func TestJSONLZstdWriter_NoWriteNoFile(t *testing.T) {
	dir := t.TempDir()
	w := NewJSONLZstdWriter(dir, "empty")
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "empty.jsonl.zst")); !os.IsNotExist(err) {
		t.Fatalf("expected no file, stat err=%v", err)
	}
}

func TestJSONLZstdWriter_CreatesMissingDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nope")
	w := NewJSONLZstdWriter(dir, "x")
	if err := w.Write(map[string]int{"a": 1}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	want := filepath.Join(dir, "x.jsonl.zst")
	if w.Path() != want {
		t.Fatalf("path=%q want %q", w.Path(), want)
	}
	n := 0
	if err := ReadJSONL(want, func(line []byte) error {
		n++
		return nil
	}); err != nil {
		t.Fatalf("ReadJSONL: %v", err)
	}
	if n != 1 {
		t.Fatalf("lines=%d want 1", n)
	}
}

func TestJSONLZstdWriter_ParentIsFile(t *testing.T) {
	parent := filepath.Join(t.TempDir(), "blocker")
	if err := os.WriteFile(parent, []byte("x"), 0o644); err != nil {
		t.Fatalf("write blocker: %v", err)
	}
	w := NewJSONLZstdWriter(filepath.Join(parent, "logs"), "x")
	if err := w.Write(map[string]int{"a": 1}); err == nil {
		t.Fatalf("expected error when the parent is a regular file")
	}
}
