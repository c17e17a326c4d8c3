package recording

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// CompressedExt marks a recording stored inside a zstd stream.
const CompressedExt = ".zst"

var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// WriteTo writes the encoded recording to w.
func (r Recording) WriteTo(w io.Writer) (int64, error) {
	b, err := Encode(r)
	if err != nil {
		return 0, err
	}
	n, err := w.Write(b)
	if err != nil {
		return int64(n), fmt.Errorf("%w: %w", ErrIO, err)
	}
	return int64(n), nil
}

// DefaultMaxDecodedSize caps the decompressed size of a ".zst" recording.
const DefaultMaxDecodedSize = 256 << 20

// ReadFrom reads a whole recording from rd. A zstd-compressed stream is detected by
// its frame magic and decompressed first, up to DefaultMaxDecodedSize bytes.
func ReadFrom(rd io.Reader) (Recording, error) {
	return ReadFromLimit(rd, DefaultMaxDecodedSize)
}

// ReadFromLimit is ReadFrom with an explicit cap on the decompressed size. A stream
// that would exceed it is rejected as malformed before the output is allocated.
func ReadFromLimit(rd io.Reader, maxDecoded uint64) (Recording, error) {
	raw, err := io.ReadAll(rd)
	if err != nil {
		return Recording{}, fmt.Errorf("%w: %w", ErrIO, err)
	}
	if bytes.HasPrefix(raw, zstdMagic) {
		dec, err := zstd.NewReader(nil, zstd.WithDecoderMaxMemory(maxDecoded))
		if err != nil {
			return Recording{}, fmt.Errorf("%w: zstd reader: %w", ErrIO, err)
		}
		defer dec.Close()
		raw, err = dec.DecodeAll(raw, nil)
		if err != nil {
			return Recording{}, fmt.Errorf("%w: zstd: %w", ErrMalformed, err)
		}
	}
	return Decode(raw)
}

// Dump writes the recording to path, compressing it when path ends in ".zst".
// The parent directory must already exist. The write is not atomic: on failure the
// previous contents of path are lost.
func (r Recording) Dump(path string) error {
	b, err := Encode(r)
	if err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	if err := writePayload(f, b, strings.HasSuffix(path, CompressedExt)); err != nil {
		_ = f.Close()
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	return nil
}

func writePayload(f *os.File, b []byte, compress bool) error {
	if !compress {
		bw := bufio.NewWriterSize(f, 256*1024)
		if _, err := bw.Write(b); err != nil {
			return err
		}
		return bw.Flush()
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}
	if _, err := enc.Write(b); err != nil {
		_ = enc.Close()
		return err
	}
	return enc.Close()
}

// Load reads a recording written by Dump.
func Load(path string) (Recording, error) {
	f, err := os.Open(path)
	if err != nil {
		return Recording{}, fmt.Errorf("%w: %w", ErrIO, err)
	}
	defer f.Close()
	return ReadFrom(bufio.NewReaderSize(f, 256*1024))
}
