package placement

import (
	"errors"
	"math"
	"math/rand/v2"

	"anthill.ai/internal/sim/model"
)

// DefaultMaxTries bounds the samples drawn by a single FindFreeSpace call.
const DefaultMaxTries = 100

var (
	// ErrPlacementExhausted is returned when no free sample was found within MaxTries.
	ErrPlacementExhausted = errors.New("placement exhausted")
	// ErrOccupied is returned when a given proposal collides.
	ErrOccupied = errors.New("placement occupied")
)

type Kind string

const (
	KindAnt       Kind = "ant"
	KindAntHill   Kind = "ant_hill"
	KindSugarHill Kind = "sugar_hill"
	KindRaspberry Kind = "raspberry"
)

// Radii maps a body kind to its collision radius.
type Radii map[Kind]float64

// DefaultRadii are the reference radii. Ants use the hill radius as a
// conservative placeholder until they get a radius of their own.
func DefaultRadii() Radii {
	return Radii{
		KindAnt:       3,
		KindAntHill:   3,
		KindSugarHill: 3,
		KindRaspberry: 1,
	}
}

// Bounds is the sampling extent, centered on the origin.
type Bounds struct {
	HalfWidth  float64
	HalfHeight float64
}

// BoundsFor scales the map dimensions into a sampling extent: scale 1 samples
// [-w, w], scale 0.5 samples [-w/2, w/2].
func BoundsFor(m model.Map, scale float64) Bounds {
	return Bounds{HalfWidth: m.Width * scale, HalfHeight: m.Height * scale}
}

type Config struct {
	Bounds   Bounds
	MaxTries int
	Radii    Radii
}

// Occupancy enumerates the bodies already on the arena. fn returns false to stop.
type Occupancy interface {
	EachBody(fn func(kind Kind, x, y float64) bool)
}

type Point struct {
	X, Y float64
}

func (p Point) Pose(rotation float64) model.Pose {
	return model.Pose{X: p.X, Y: p.Y, Rotation: rotation}
}

// Engine proposes and validates positions. It is not safe for concurrent use.
type Engine struct {
	cfg Config
	rng *rand.Rand
}

func New(cfg Config, rng *rand.Rand) *Engine {
	if cfg.MaxTries <= 0 {
		cfg.MaxTries = DefaultMaxTries
	}
	radii := DefaultRadii()
	for k, r := range cfg.Radii {
		radii[k] = r
	}
	cfg.Radii = radii
	return &Engine{cfg: cfg, rng: rng}
}

// NewRand returns the seedable source used by engines and worlds.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func (e *Engine) Config() Config { return e.cfg }

// Radius returns the collision radius of kind; unknown kinds have radius 0.
func (e *Engine) Radius(kind Kind) float64 { return e.cfg.Radii[kind] }

// Collides reports whether a body of the given radius at (x, y) would overlap any
// existing body. With mirror set the proposal also stands for its reflection
// (-x, -y): it must clear its own mirror image, and each existing body is
// measured against whichever of the pair is closer. Touching is allowed.
func (e *Engine) Collides(occ Occupancy, x, y, radius float64, mirror bool) bool {
	if mirror {
		if sq(2*x)+sq(2*y) < sq(2*radius) {
			return true
		}
	}

	hit := false
	occ.EachBody(func(kind Kind, bx, by float64) bool {
		d := sq(x-bx) + sq(y-by)
		if mirror {
			d = math.Min(d, sq(-x-bx)+sq(-y-by))
		}
		if d < sq(radius+e.cfg.Radii[kind]) {
			hit = true
			return false
		}
		return true
	})
	return hit
}

// FindFreeSpace draws up to MaxTries uniform samples from the bounds and returns
// the first one that does not collide, checked in mirrored mode.
func (e *Engine) FindFreeSpace(occ Occupancy, radius float64) (Point, error) {
	for i := 0; i < e.cfg.MaxTries; i++ {
		p := e.sample()
		if !e.Collides(occ, p.X, p.Y, radius, true) {
			return p, nil
		}
	}
	return Point{}, ErrPlacementExhausted
}

// Heading returns a uniform rotation in [0, 2*pi).
func (e *Engine) Heading() float64 {
	return 2 * math.Pi * e.rng.Float64()
}

func (e *Engine) sample() Point {
	return Point{
		X: (2*e.rng.Float64() - 1) * e.cfg.Bounds.HalfWidth,
		Y: (2*e.rng.Float64() - 1) * e.cfg.Bounds.HalfHeight,
	}
}

func sq(v float64) float64 { return v * v }
