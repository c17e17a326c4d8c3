package model

import "math"

// DefaultEpsilon is the absolute tolerance used when comparing decoded poses.
const DefaultEpsilon = 1e-6

// Pose is a position on the arena plus a heading in radians.
// Rotation is free-running and never normalized.
type Pose struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Rotation float64 `json:"rotation"`
}

// Map carries the arena dimensions. It does not enforce bounds; each generator
// decides its own sampling extent from it.
type Map struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Mirror reflects the pose through the arena origin. The heading turns by pi so
// that a mirrored entity faces the opposite way. Generators that mirror by negating
// the rotation produce headings that differ from these by pi - 2*rotation.
func (p Pose) Mirror() Pose {
	return Pose{X: -p.X, Y: -p.Y, Rotation: p.Rotation + math.Pi}
}

func (p Pose) DistSq(x, y float64) float64 {
	dx := p.X - x
	dy := p.Y - y
	return dx*dx + dy*dy
}

// ApproxEqual compares all three fields with an absolute tolerance.
func (p Pose) ApproxEqual(o Pose, eps float64) bool {
	return approx(p.X, o.X, eps) && approx(p.Y, o.Y, eps) && approx(p.Rotation, o.Rotation, eps)
}

func approx(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}
