package log

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/klauspost/compress/zstd"

	"anthill.ai/internal/sim/world"
)

// JSONLZstdWriter appends one JSON document per line to a zstd-compressed file.
// The file is created on the first Write.
type JSONLZstdWriter struct {
	path string

	mu  sync.Mutex
	f   *os.File
	enc *zstd.Encoder
	w   *bufio.Writer
}

func NewJSONLZstdWriter(dir, name string) *JSONLZstdWriter {
	return &JSONLZstdWriter{path: filepath.Join(dir, name+".jsonl.zst")}
}

func (w *JSONLZstdWriter) Path() string { return w.path }

func (w *JSONLZstdWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closeLocked()
}

func (w *JSONLZstdWriter) Write(v any) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.w == nil {
		if err := w.openLocked(); err != nil {
			return err
		}
	}

	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if _, err := w.w.Write(b); err != nil {
		return err
	}
	return w.w.WriteByte('\n')
}

func (w *JSONLZstdWriter) openLocked() error {
	if err := os.MkdirAll(filepath.Dir(w.path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(w.path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return err
	}
	w.f = f
	w.enc = enc
	w.w = bufio.NewWriterSize(enc, 128*1024)
	return nil
}

func (w *JSONLZstdWriter) closeLocked() error {
	var firstErr error
	keep := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if w.w != nil {
		keep(w.w.Flush())
	}
	if w.enc != nil {
		keep(w.enc.Close())
		w.enc = nil
	}
	if w.f != nil {
		keep(w.f.Close())
		w.f = nil
	}
	w.w = nil
	return firstErr
}

// ReadJSONL calls fn for every line of a file written by JSONLZstdWriter.
func ReadJSONL(path string, fn func(line []byte) error) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return err
	}
	defer dec.Close()

	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 64*1024), 8*1024*1024)
	for sc.Scan() {
		if err := fn(sc.Bytes()); err != nil {
			return fmt.Errorf("%s: %w", filepath.Base(path), err)
		}
	}
	return sc.Err()
}

// PlacementLogger records every committed placement of a world (compressed).
type PlacementLogger struct{ w *JSONLZstdWriter }

func NewPlacementLogger(dir string) *PlacementLogger {
	return &PlacementLogger{w: NewJSONLZstdWriter(dir, "placements")}
}

func (l *PlacementLogger) WritePlacement(e world.PlacementEntry) error { return l.w.Write(e) }
func (l *PlacementLogger) Path() string                                { return l.w.Path() }
func (l *PlacementLogger) Close() error                                { return l.w.Close() }

// ReadPlacements returns every entry of a placement log in write order.
func ReadPlacements(path string) ([]world.PlacementEntry, error) {
	var out []world.PlacementEntry
	err := ReadJSONL(path, func(line []byte) error {
		var e world.PlacementEntry
		if err := json.Unmarshal(line, &e); err != nil {
			return fmt.Errorf("unmarshal: %w", err)
		}
		out = append(out, e)
		return nil
	})
	return out, err
}
