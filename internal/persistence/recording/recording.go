package recording

import "anthill.ai/internal/sim/model"

// Recording is a fixed arena map plus frames in capture order.
type Recording struct {
	Map    model.Map
	Frames []model.Frame
}

// New returns an empty recording with the default 128x128 map.
func New() Recording {
	return Recording{Map: model.Map{Width: 128, Height: 128}}
}

// AddFrame appends a copy of f; later changes to f do not reach the recording.
func (r *Recording) AddFrame(f model.Frame) {
	r.Frames = append(r.Frames, f.Clone())
}

// Counts sums entity counts over every frame.
func (r Recording) Counts() model.Counts {
	var c model.Counts
	for _, f := range r.Frames {
		c = c.Add(f.Counts())
	}
	return c
}
