package recording

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/klauspost/compress/zstd"

	"anthill.ai/internal/sim/model"
)

func TestDumpLoad_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"run.rec", "run.rec.zst"} {
		path := filepath.Join(dir, name)
		want := sampleRecording()
		if err := want.Dump(path); err != nil {
			t.Fatalf("%s: Dump: %v", name, err)
		}
		got, err := Load(path)
		if err != nil {
			t.Fatalf("%s: Load: %v", name, err)
		}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("%s: round trip mismatch", name)
		}
	}
}

func TestDump_CompressedOnlyForZstSuffix(t *testing.T) {
	dir := t.TempDir()
	plain := filepath.Join(dir, "a.rec")
	packed := filepath.Join(dir, "a.rec.zst")
	r := sampleRecording()
	if err := r.Dump(plain); err != nil {
		t.Fatalf("Dump plain: %v", err)
	}
	if err := r.Dump(packed); err != nil {
		t.Fatalf("Dump packed: %v", err)
	}

	b, err := os.ReadFile(plain)
	if err != nil {
		t.Fatalf("read plain: %v", err)
	}
	if !bytes.HasPrefix(b, []byte(Magic)) {
		t.Fatalf("plain file does not start with magic")
	}
	z, err := os.ReadFile(packed)
	if err != nil {
		t.Fatalf("read packed: %v", err)
	}
	if !bytes.HasPrefix(z, zstdMagic) {
		t.Fatalf("packed file does not start with zstd magic")
	}
}

func TestDump_MissingParentIsIOError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "run.rec")
	err := sampleRecording().Dump(path)
	if !errors.Is(err, ErrIO) {
		t.Fatalf("err=%v want ErrIO", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("err=%v should keep the underlying cause", err)
	}
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()
	if _, err := Load(filepath.Join(dir, "nope.rec")); !errors.Is(err, ErrIO) {
		t.Fatalf("missing file: err=%v want ErrIO", err)
	}

	junk := filepath.Join(dir, "junk.rec")
	if err := os.WriteFile(junk, []byte("not a recording"), 0o644); err != nil {
		t.Fatalf("write junk: %v", err)
	}
	if _, err := Load(junk); !errors.Is(err, ErrMalformed) {
		t.Fatalf("junk file: err=%v want ErrMalformed", err)
	}

	badZstd := filepath.Join(dir, "bad.rec.zst")
	if err := os.WriteFile(badZstd, append(append([]byte(nil), zstdMagic...), 1, 2, 3), 0o644); err != nil {
		t.Fatalf("write bad zstd: %v", err)
	}
	if _, err := Load(badZstd); !errors.Is(err, ErrMalformed) {
		t.Fatalf("bad zstd: err=%v want ErrMalformed", err)
	}
}

func TestWriteToReadFrom(t *testing.T) {
	var buf bytes.Buffer
	want := sampleRecording()
	n, err := want.WriteTo(&buf)
	if err != nil {
		t.Fatalf("WriteTo: %v", err)
	}
	if int(n) != buf.Len() {
		t.Fatalf("WriteTo n=%d, buffer=%d", n, buf.Len())
	}
	got, err := ReadFrom(&buf)
	if err != nil {
		t.Fatalf("ReadFrom: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("round trip mismatch")
	}
}

func TestReadFromLimit_RejectsOversizedStream(t *testing.T) {
	rec := New()
	var f model.Frame
	f.Raspberries = make([]model.Pose, 200_000)
	rec.AddFrame(f)
	plain, err := Encode(rec)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	enc, err := zstd.NewWriter(nil)
	if err != nil {
		t.Fatalf("zstd writer: %v", err)
	}
	packed := enc.EncodeAll(plain, nil)
	_ = enc.Close()
	if len(packed) >= len(plain)/10 {
		t.Fatalf("expected a highly compressible stream, got %d of %d bytes", len(packed), len(plain))
	}

	got, err := ReadFromLimit(bytes.NewReader(packed), 1<<20)
	if !errors.Is(err, ErrMalformed) {
		t.Fatalf("err=%v want ErrMalformed", err)
	}
	if !reflect.DeepEqual(got, Recording{}) {
		t.Fatalf("expected zero Recording on error")
	}

	got, err = ReadFromLimit(bytes.NewReader(packed), 2*uint64(len(plain)))
	if err != nil {
		t.Fatalf("within limit: %v", err)
	}
	if len(got.Frames) != 1 || len(got.Frames[0].Raspberries) != 200_000 {
		t.Fatalf("within limit: got %+v", got.Counts())
	}
}
