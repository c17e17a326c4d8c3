package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	persistlog "anthill.ai/internal/persistence/log"
	"anthill.ai/internal/persistence/recording"
	"anthill.ai/internal/sim/model"
)

type summary struct {
	Path       string         `json:"path"`
	Map        model.Map      `json:"map"`
	Frames     int            `json:"frames"`
	Counts     model.Counts   `json:"counts"`
	PerFrame   []model.Counts `json:"per_frame"`
	Placements int            `json:"placements,omitempty"`
}

func main() {
	var (
		recPath    = flag.String("recording", "", "path to a recording (.rec or .rec.zst)")
		placements = flag.String("placements", "", "placements.jsonl.zst to verify against the first frame (optional)")
		asJSON     = flag.Bool("json", false, "print a JSON summary")
	)
	flag.Parse()

	if *recPath == "" {
		fmt.Fprintln(os.Stderr, "missing -recording")
		os.Exit(2)
	}

	rec, err := recording.Load(*recPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "load recording:", err)
		os.Exit(1)
	}

	sum := summary{Path: *recPath, Map: rec.Map, Frames: len(rec.Frames), Counts: rec.Counts()}
	for _, f := range rec.Frames {
		sum.PerFrame = append(sum.PerFrame, f.Counts())
	}

	if *placements != "" {
		entries, err := persistlog.ReadPlacements(*placements)
		if err != nil {
			fmt.Fprintln(os.Stderr, "read placements:", err)
			os.Exit(1)
		}
		if len(rec.Frames) == 0 {
			fmt.Fprintln(os.Stderr, "recording has no frames to verify")
			os.Exit(1)
		}
		if err := verifyPlacements(rec.Frames[0], entries); err != nil {
			fmt.Fprintln(os.Stderr, "verify placements:", err)
			os.Exit(1)
		}
		sum.Placements = len(entries)
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(sum); err != nil {
			fmt.Fprintln(os.Stderr, "encode:", err)
			os.Exit(1)
		}
		return
	}

	fmt.Printf("recording %s map=%gx%g frames=%d ants=%d anthills=%d raspberries=%d sugar_hills=%d\n",
		sum.Path, sum.Map.Width, sum.Map.Height, sum.Frames,
		sum.Counts.Ants, sum.Counts.AntHills, sum.Counts.Raspberries, sum.Counts.SugarHills)
	for i, c := range sum.PerFrame {
		fmt.Printf("  frame %d: ants=%d anthills=%d raspberries=%d sugar_hills=%d\n",
			i, c.Ants, c.AntHills, c.Raspberries, c.SugarHills)
	}
	if *placements != "" {
		fmt.Printf("placements OK (%d entries)\n", sum.Placements)
	}
}
