package archive

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"anthill.ai/internal/persistence/recording"
	"anthill.ai/internal/sim/model"
)

type RecordingArchiveMeta struct {
	Name       string       `json:"name"`
	Recording  string       `json:"recording"`
	Seed       uint64       `json:"seed"`
	Map        model.Map    `json:"map"`
	Frames     int          `json:"frames"`
	Counts     model.Counts `json:"counts"`
	CreatedAt  string       `json:"created_at"`
	Compressed bool         `json:"compressed"`
}

// ArchiveName derives the archive directory name from a recording path:
// "runs/match.rec.zst" becomes "match".
func ArchiveName(recordingPath string) string {
	name := filepath.Base(recordingPath)
	name = strings.TrimSuffix(name, recording.CompressedExt)
	if ext := filepath.Ext(name); ext != "" {
		name = strings.TrimSuffix(name, ext)
	}
	return name
}

// ArchiveRecording copies a written recording into `dataDir/archives/<name>/` and
// writes a meta.json next to it. It returns the archived file path.
func ArchiveRecording(dataDir, recordingPath string, seed uint64, rec recording.Recording) (string, error) {
	name := ArchiveName(recordingPath)
	if name == "" || name == "." {
		return "", fmt.Errorf("archive: cannot derive name from %q", recordingPath)
	}
	archiveDir := filepath.Join(dataDir, "archives", name)
	if err := os.MkdirAll(archiveDir, 0o755); err != nil {
		return "", err
	}

	dst := filepath.Join(archiveDir, filepath.Base(recordingPath))
	if err := copyFile(recordingPath, dst); err != nil {
		return "", err
	}

	meta := RecordingArchiveMeta{
		Name:       name,
		Recording:  filepath.Base(dst),
		Seed:       seed,
		Map:        rec.Map,
		Frames:     len(rec.Frames),
		Counts:     rec.Counts(),
		CreatedAt:  time.Now().UTC().Format(time.RFC3339Nano),
		Compressed: strings.HasSuffix(recordingPath, recording.CompressedExt),
	}
	b, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(filepath.Join(archiveDir, "meta.json"), b, 0o644); err != nil {
		return "", err
	}
	return dst, nil
}

// ReadMeta loads the meta.json of an archive directory.
func ReadMeta(archiveDir string) (RecordingArchiveMeta, error) {
	var meta RecordingArchiveMeta
	b, err := os.ReadFile(filepath.Join(archiveDir, "meta.json"))
	if err != nil {
		return meta, err
	}
	if err := json.Unmarshal(b, &meta); err != nil {
		return meta, err
	}
	return meta, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer func() { _ = out.Close() }()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}
