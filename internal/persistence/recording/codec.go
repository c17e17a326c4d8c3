package recording

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"anthill.ai/internal/sim/model"
)

// Wire layout (little endian):
//
//	magic "ANTR" | version u16 | flags u16 | width f64 | height f64 | frames u32
//	per frame: ants u32 {x y rot f64}... | anthills u32 {x y rot f64, team i32}...
//	           raspberries u32 {x y rot f64}... | sugar hills u32 {x y rot volume f64}...
const (
	Magic   = "ANTR"
	Version = 1
)

var (
	ErrMalformed = errors.New("malformed recording")
	ErrIO        = errors.New("recording io")
)

const (
	countSize     = 4
	poseSize      = 3 * 8
	antSize       = poseSize
	antHillSize   = poseSize + 4
	raspberrySize = poseSize
	sugarHillSize = poseSize + 8
	minFrameSize  = 4 * countSize
	headerSize    = len(Magic) + 2 + 2 + 2*8 + countSize
)

var le = binary.LittleEndian

// Encode serializes r. Floats are written as raw IEEE-754 bits, so Decode(Encode(r))
// reproduces every field exactly.
func Encode(r Recording) ([]byte, error) {
	if err := checkLen("frames", len(r.Frames)); err != nil {
		return nil, err
	}
	size := headerSize
	for i, f := range r.Frames {
		if err := checkFrame(f); err != nil {
			return nil, fmt.Errorf("frame %d: %w", i, err)
		}
		size += frameSize(f)
	}

	buf := make([]byte, 0, size)
	buf = append(buf, Magic...)
	buf = le.AppendUint16(buf, Version)
	buf = le.AppendUint16(buf, 0)
	buf = appendFloat(buf, r.Map.Width)
	buf = appendFloat(buf, r.Map.Height)
	buf = le.AppendUint32(buf, uint32(len(r.Frames)))
	for _, f := range r.Frames {
		buf = appendFrame(buf, f)
	}
	return buf, nil
}

func checkFrame(f model.Frame) error {
	if err := checkLen("ants", len(f.Ants)); err != nil {
		return err
	}
	if err := checkLen("anthills", len(f.AntHills)); err != nil {
		return err
	}
	if err := checkLen("raspberries", len(f.Raspberries)); err != nil {
		return err
	}
	return checkLen("sugar hills", len(f.SugarHills))
}

func checkLen(what string, n int) error {
	if uint64(n) > math.MaxUint32 {
		return fmt.Errorf("%w: %d %s exceed the u32 count field", ErrMalformed, n, what)
	}
	return nil
}

func frameSize(f model.Frame) int {
	return minFrameSize +
		len(f.Ants)*antSize +
		len(f.AntHills)*antHillSize +
		len(f.Raspberries)*raspberrySize +
		len(f.SugarHills)*sugarHillSize
}

func appendFrame(buf []byte, f model.Frame) []byte {
	buf = le.AppendUint32(buf, uint32(len(f.Ants)))
	for _, a := range f.Ants {
		buf = appendPose(buf, a.Pose)
	}
	buf = le.AppendUint32(buf, uint32(len(f.AntHills)))
	for _, h := range f.AntHills {
		buf = appendPose(buf, h.Pose)
		buf = le.AppendUint32(buf, uint32(h.Team))
	}
	buf = le.AppendUint32(buf, uint32(len(f.Raspberries)))
	for _, p := range f.Raspberries {
		buf = appendPose(buf, p)
	}
	buf = le.AppendUint32(buf, uint32(len(f.SugarHills)))
	for _, s := range f.SugarHills {
		buf = appendPose(buf, s.Pose)
		buf = appendFloat(buf, s.Volume)
	}
	return buf
}

func appendPose(buf []byte, p model.Pose) []byte {
	buf = appendFloat(buf, p.X)
	buf = appendFloat(buf, p.Y)
	return appendFloat(buf, p.Rotation)
}

func appendFloat(buf []byte, v float64) []byte {
	return le.AppendUint64(buf, math.Float64bits(v))
}

// Decode parses a recording produced by Encode. Any inconsistency yields an error
// wrapping ErrMalformed and a zero Recording.
func Decode(b []byte) (Recording, error) {
	d := decoder{b: b}
	r, err := d.recording()
	if err != nil {
		return Recording{}, err
	}
	return r, nil
}

type decoder struct {
	b   []byte
	off int
}

func (d *decoder) errorf(format string, args ...any) error {
	return fmt.Errorf("%w: offset %d: %s", ErrMalformed, d.off, fmt.Sprintf(format, args...))
}

func (d *decoder) remaining() int { return len(d.b) - d.off }

func (d *decoder) take(n int) ([]byte, error) {
	if d.remaining() < n {
		return nil, d.errorf("need %d bytes, %d left", n, d.remaining())
	}
	out := d.b[d.off : d.off+n]
	d.off += n
	return out, nil
}

func (d *decoder) u16() (uint16, error) {
	b, err := d.take(2)
	if err != nil {
		return 0, err
	}
	return le.Uint16(b), nil
}

func (d *decoder) u32() (uint32, error) {
	b, err := d.take(4)
	if err != nil {
		return 0, err
	}
	return le.Uint32(b), nil
}

// Callers only read floats after count() has reserved the bytes.
func (d *decoder) f64() float64 {
	v := math.Float64frombits(le.Uint64(d.b[d.off:]))
	d.off += 8
	return v
}

func (d *decoder) pose() model.Pose {
	return model.Pose{X: d.f64(), Y: d.f64(), Rotation: d.f64()}
}

// count reads a u32 element count and checks that count*elemSize bytes are left.
func (d *decoder) count(what string, elemSize int) (int, error) {
	n, err := d.u32()
	if err != nil {
		return 0, err
	}
	if uint64(n)*uint64(elemSize) > uint64(d.remaining()) {
		return 0, d.errorf("%d %s declared, only %d bytes left", n, what, d.remaining())
	}
	return int(n), nil
}

func (d *decoder) recording() (Recording, error) {
	magic, err := d.take(len(Magic))
	if err != nil {
		return Recording{}, err
	}
	if string(magic) != Magic {
		return Recording{}, fmt.Errorf("%w: bad magic %q", ErrMalformed, magic)
	}
	version, err := d.u16()
	if err != nil {
		return Recording{}, err
	}
	if version != Version {
		return Recording{}, fmt.Errorf("%w: unsupported version %d", ErrMalformed, version)
	}
	flags, err := d.u16()
	if err != nil {
		return Recording{}, err
	}
	if flags != 0 {
		return Recording{}, fmt.Errorf("%w: unknown flags %#x", ErrMalformed, flags)
	}
	if d.remaining() < 2*8 {
		return Recording{}, d.errorf("truncated map record")
	}
	r := Recording{Map: model.Map{Width: d.f64(), Height: d.f64()}}

	n, err := d.count("frames", minFrameSize)
	if err != nil {
		return Recording{}, err
	}
	if n > 0 {
		r.Frames = make([]model.Frame, 0, n)
	}
	for i := 0; i < n; i++ {
		f, err := d.frame()
		if err != nil {
			return Recording{}, fmt.Errorf("frame %d: %w", i, err)
		}
		r.Frames = append(r.Frames, f)
	}
	if d.remaining() != 0 {
		return Recording{}, d.errorf("%d trailing bytes", d.remaining())
	}
	return r, nil
}

func (d *decoder) frame() (model.Frame, error) {
	var f model.Frame

	n, err := d.count("ants", antSize)
	if err != nil {
		return f, err
	}
	if n > 0 {
		f.Ants = make([]model.Ant, n)
		for i := range f.Ants {
			f.Ants[i] = model.Ant{Pose: d.pose()}
		}
	}

	if n, err = d.count("anthills", antHillSize); err != nil {
		return f, err
	}
	if n > 0 {
		f.AntHills = make([]model.AntHill, n)
		for i := range f.AntHills {
			p := d.pose()
			team := int32(le.Uint32(d.b[d.off:]))
			d.off += 4
			f.AntHills[i] = model.AntHill{Pose: p, Team: model.Team(team)}
		}
	}

	if n, err = d.count("raspberries", raspberrySize); err != nil {
		return f, err
	}
	if n > 0 {
		f.Raspberries = make([]model.Pose, n)
		for i := range f.Raspberries {
			f.Raspberries[i] = d.pose()
		}
	}

	if n, err = d.count("sugar hills", sugarHillSize); err != nil {
		return f, err
	}
	if n > 0 {
		f.SugarHills = make([]model.SugarHill, n)
		for i := range f.SugarHills {
			p := d.pose()
			f.SugarHills[i] = model.SugarHill{Pose: p, Volume: d.f64()}
		}
	}
	return f, nil
}
