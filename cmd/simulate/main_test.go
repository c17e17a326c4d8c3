package main

import (
	"bytes"
	"errors"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	persistlog "anthill.ai/internal/persistence/log"
	"anthill.ai/internal/persistence/recording"
	"anthill.ai/internal/sim/placement"
	"anthill.ai/internal/sim/tuning"
)

func TestRun_PopulateFailureLeavesReadableLog(t *testing.T) {
	dir := t.TempDir()
	tune := tuning.Defaults()
	tune.Arena.Width, tune.Arena.Height = 16, 16
	tune.Populate.RaspberryPairs = 500

	logDir := filepath.Join(dir, "logs")
	out := filepath.Join(dir, "run.rec")
	err := run(options{Output: out, LogDir: logDir}, tune, log.New(io.Discard, "", 0))
	if !errors.Is(err, placement.ErrBudgetExhausted) {
		t.Fatalf("err=%v want ErrBudgetExhausted", err)
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Fatalf("expected no recording, stat err=%v", err)
	}

	entries, err := persistlog.ReadPlacements(filepath.Join(logDir, "placements.jsonl.zst"))
	if err != nil {
		t.Fatalf("ReadPlacements: %v", err)
	}
	if len(entries) == 0 || entries[0].Kind != placement.KindAntHill {
		t.Fatalf("expected logged placements starting with the ant hills, got %d entries", len(entries))
	}
}

func TestRun_OptionalSinkFailuresAreLogged(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatalf("write blocker: %v", err)
	}

	var buf bytes.Buffer
	out := filepath.Join(dir, "run.rec")
	opts := options{
		Output:     out,
		IndexPath:  filepath.Join(blocker, "index.db"),
		ArchiveDir: filepath.Join(blocker, "data"),
	}
	if err := run(opts, tuning.Defaults(), log.New(&buf, "", 0)); err != nil {
		t.Fatalf("run: %v", err)
	}
	if _, err := recording.Load(out); err != nil {
		t.Fatalf("Load: %v", err)
	}
	logged := buf.String()
	for _, want := range []string{"index: ", "archive: "} {
		if !strings.Contains(logged, want) {
			t.Fatalf("expected %q in log output:\n%s", want, logged)
		}
	}
}

func TestRun_WritesIndexAndArchive(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "run.rec.zst")
	opts := options{
		Output:     out,
		LogDir:     filepath.Join(dir, "logs"),
		IndexPath:  filepath.Join(dir, "index.db"),
		ArchiveDir: filepath.Join(dir, "data"),
	}
	if err := run(opts, tuning.Defaults(), log.New(io.Discard, "", 0)); err != nil {
		t.Fatalf("run: %v", err)
	}
	for _, p := range []string{
		out,
		filepath.Join(dir, "logs", "placements.jsonl.zst"),
		filepath.Join(dir, "index.db"),
		filepath.Join(dir, "data", "archives", "run", "run.rec.zst"),
	} {
		if _, err := os.Stat(p); err != nil {
			t.Fatalf("expected %s: %v", p, err)
		}
	}
}
