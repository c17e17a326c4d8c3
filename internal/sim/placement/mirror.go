package placement

import "anthill.ai/internal/sim/model"

// Mirror builds the two halves of a mirrored placement: one entity at p and one at
// its reflection through the origin. ctor is called exactly twice.
func Mirror[T any](p model.Pose, ctor func(model.Pose) T) (T, T) {
	return ctor(p), ctor(p.Mirror())
}
