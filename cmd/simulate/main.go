package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"anthill.ai/internal/persistence/archive"
	"anthill.ai/internal/persistence/indexdb"
	persistlog "anthill.ai/internal/persistence/log"
	"anthill.ai/internal/persistence/recording"
	"anthill.ai/internal/sim/agent"
	"anthill.ai/internal/sim/placement"
	"anthill.ai/internal/sim/tuning"
	"anthill.ai/internal/sim/world"
)

type options struct {
	Output     string
	LogDir     string
	IndexPath  string
	ArchiveDir string
}

func main() {
	var (
		output     = flag.String("output", "arena.rec", "recording path (a .zst suffix compresses it)")
		tuningPath = flag.String("tuning", "", "path to tuning.yaml (default: built-in defaults)")
		width      = flag.Float64("width", 0, "arena width (overrides tuning when > 0)")
		height     = flag.Float64("height", 0, "arena height (overrides tuning when > 0)")
		seed       = flag.Uint64("seed", 0, "rng seed (overrides tuning when > 0)")
		antPairs   = flag.Int("ant_pairs", -1, "mirrored ant pairs to place (overrides tuning when >= 0)")
		logDir     = flag.String("log_dir", "", "directory for the placement log (empty to disable)")
		indexPath  = flag.String("index", "", "sqlite recordings index (empty to disable)")
		archiveDir = flag.String("archive", "", "data directory to archive the recording into (empty to disable)")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[simulate] ", log.LstdFlags|log.Lmicroseconds)

	tune, err := tuning.Load(strings.TrimSpace(*tuningPath))
	if err != nil {
		logger.Fatalf("load tuning: %v", err)
	}
	if *width > 0 {
		tune.Arena.Width = *width
	}
	if *height > 0 {
		tune.Arena.Height = *height
	}
	if *seed > 0 {
		tune.Seed = *seed
	}
	if *antPairs >= 0 {
		tune.Populate.AntPairs = *antPairs
	}

	opts := options{
		Output:     strings.TrimSpace(*output),
		LogDir:     strings.TrimSpace(*logDir),
		IndexPath:  strings.TrimSpace(*indexPath),
		ArchiveDir: strings.TrimSpace(*archiveDir),
	}
	if err := run(opts, tune, logger); err != nil {
		logger.Fatalf("%v", err)
	}
}

// run generates one arena and writes its recording. The index and the archive are
// optional read-models: their failures are logged and do not fail the run.
func run(opts options, tune tuning.Tuning, logger *log.Logger) error {
	w := world.New(tune.WorldConfig(), placement.NewRand(tune.Seed))
	w.TeamA().Agent = agent.NewSpeedKeeper()
	w.TeamB().Agent = agent.NewSpeedKeeper()

	// Optional: placement log (does not affect placement determinism).
	var plog *persistlog.PlacementLogger
	var entries []world.PlacementEntry
	if opts.LogDir != "" {
		plog = persistlog.NewPlacementLogger(opts.LogDir)
		defer plog.Close()
	}
	w.SetPlacementLog(teeLog{file: plog, entries: &entries})

	if err := w.Populate(tune.Population()); err != nil {
		return fmt.Errorf("populate: %w", err)
	}

	rec := recording.New()
	rec.Map = w.Map()
	rec.AddFrame(w.Snapshot())

	if err := rec.Dump(opts.Output); err != nil {
		return fmt.Errorf("dump recording: %w", err)
	}
	c := rec.Counts()
	logger.Printf("wrote %s map=%gx%g seed=%d ants=%d anthills=%d raspberries=%d sugar_hills=%d",
		opts.Output, rec.Map.Width, rec.Map.Height, tune.Seed, c.Ants, c.AntHills, c.Raspberries, c.SugarHills)

	if plog != nil {
		if err := plog.Close(); err != nil {
			return fmt.Errorf("close placement log: %w", err)
		}
		logger.Printf("placement log: %s", plog.Path())
	}

	if opts.IndexPath != "" {
		if err := indexRecording(opts.IndexPath, opts.Output, tune, rec, entries); err != nil {
			logger.Printf("index: %v", err)
		}
	}
	if opts.ArchiveDir != "" {
		dst, err := archive.ArchiveRecording(opts.ArchiveDir, opts.Output, tune.Seed, rec)
		if err != nil {
			logger.Printf("archive: %v", err)
		} else {
			logger.Printf("archived: %s", dst)
		}
	}
	return nil
}

func indexRecording(dbPath, recPath string, tune tuning.Tuning, rec recording.Recording, entries []world.PlacementEntry) error {
	idx, err := indexdb.OpenSQLite(dbPath)
	if err != nil {
		return err
	}
	defer idx.Close()

	if abs, err := filepath.Abs(recPath); err == nil {
		recPath = abs
	}
	if err := idx.UpsertTuning(tune); err != nil {
		return err
	}
	id, err := idx.RecordRecording(recPath, tune.Seed, rec)
	if err != nil {
		return err
	}
	return idx.RecordPlacements(id, entries)
}

// teeLog keeps placements in memory for the index and forwards them to the file
// log when one is configured.
type teeLog struct {
	file    *persistlog.PlacementLogger
	entries *[]world.PlacementEntry
}

func (t teeLog) WritePlacement(e world.PlacementEntry) error {
	*t.entries = append(*t.entries, e)
	if t.file == nil {
		return nil
	}
	return t.file.WritePlacement(e)
}
