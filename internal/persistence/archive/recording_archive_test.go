package archive

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"anthill.ai/internal/persistence/recording"
	"anthill.ai/internal/sim/model"
)

func sampleRecording() recording.Recording {
	rec := recording.New()
	var f model.Frame
	f.AddAnt(model.NewAnt(model.Pose{X: 1, Y: 2, Rotation: 0.5}))
	f.AddAntHill(model.NewAntHill(model.Pose{X: -3, Y: 4}, model.TeamB))
	f.AddRaspberry(model.Pose{X: 7, Y: -7})
	f.AddSugarHill(model.NewSugarHill(model.Pose{X: 9, Y: 9}, 2.5))
	rec.AddFrame(f)
	rec.AddFrame(f)
	return rec
}

func TestArchiveRecording_CopiesRecordingAndMeta(t *testing.T) {
	dir := t.TempDir()
	rec := sampleRecording()

	src := filepath.Join(dir, "runs", "match.rec.zst")
	if err := os.MkdirAll(filepath.Dir(src), 0o755); err != nil {
		t.Fatalf("mkdir runs: %v", err)
	}
	if err := rec.Dump(src); err != nil {
		t.Fatalf("dump: %v", err)
	}
	want, err := os.ReadFile(src)
	if err != nil {
		t.Fatalf("read src: %v", err)
	}

	dataDir := filepath.Join(dir, "data")
	archivedPath, err := ArchiveRecording(dataDir, src, 42, rec)
	if err != nil {
		t.Fatalf("archive: %v", err)
	}
	if wantPath := filepath.Join(dataDir, "archives", "match", "match.rec.zst"); archivedPath != wantPath {
		t.Fatalf("archived path=%q want %q", archivedPath, wantPath)
	}

	got, err := os.ReadFile(archivedPath)
	if err != nil {
		t.Fatalf("read archived: %v", err)
	}
	if string(got) != string(want) {
		t.Fatalf("archived content mismatch")
	}
	if _, err := recording.Load(archivedPath); err != nil {
		t.Fatalf("load archived: %v", err)
	}

	meta, err := ReadMeta(filepath.Dir(archivedPath))
	if err != nil {
		t.Fatalf("read meta: %v", err)
	}
	if meta.Name != "match" || meta.Recording != "match.rec.zst" || meta.Seed != 42 || !meta.Compressed {
		t.Fatalf("meta mismatch: %+v", meta)
	}
	if meta.Frames != 2 || meta.Counts != rec.Counts() || meta.Map != rec.Map {
		t.Fatalf("meta counts mismatch: %+v", meta)
	}
}

func TestArchiveRecording_MetaMatchesSchema(t *testing.T) {
	dir := t.TempDir()
	rec := sampleRecording()
	src := filepath.Join(dir, "plain.rec")
	if err := rec.Dump(src); err != nil {
		t.Fatalf("dump: %v", err)
	}
	archivedPath, err := ArchiveRecording(dir, src, 7, rec)
	if err != nil {
		t.Fatalf("archive: %v", err)
	}

	s, err := jsonschema.Compile(filepath.Join("..", "..", "..", "schemas", "recording_meta.schema.json"))
	if err != nil {
		t.Fatalf("compile schema: %v", err)
	}
	b, err := os.ReadFile(filepath.Join(filepath.Dir(archivedPath), "meta.json"))
	if err != nil {
		t.Fatalf("read meta: %v", err)
	}
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		t.Fatalf("unmarshal meta: %v", err)
	}
	if err := s.Validate(v); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestArchiveRecording_MissingSource(t *testing.T) {
	dir := t.TempDir()
	if _, err := ArchiveRecording(dir, filepath.Join(dir, "nope.rec"), 1, recording.New()); !os.IsNotExist(err) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestArchiveName(t *testing.T) {
	cases := map[string]string{
		"runs/match.rec.zst": "match",
		"match.rec":          "match",
		"/tmp/a/b/seed-7":    "seed-7",
	}
	for in, want := range cases {
		if got := ArchiveName(in); got != want {
			t.Fatalf("ArchiveName(%q)=%q want %q", in, got, want)
		}
	}
}
