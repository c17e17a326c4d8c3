package model

// Frame is a snapshot of every entity present at one instant. List order follows
// snapshot construction order (team A before team B) and carries no identity.
type Frame struct {
	Ants        []Ant       `json:"ants"`
	AntHills    []AntHill   `json:"anthills"`
	Raspberries []Pose      `json:"raspberries"`
	SugarHills  []SugarHill `json:"sugar_hills"`
}

func (f *Frame) AddAnt(a Ant)             { f.Ants = append(f.Ants, a) }
func (f *Frame) AddAntHill(h AntHill)     { f.AntHills = append(f.AntHills, h) }
func (f *Frame) AddRaspberry(p Pose)      { f.Raspberries = append(f.Raspberries, p) }
func (f *Frame) AddSugarHill(s SugarHill) { f.SugarHills = append(f.SugarHills, s) }

// Clone returns a frame that shares no backing arrays with f.
func (f Frame) Clone() Frame {
	return Frame{
		Ants:        cloneSlice(f.Ants),
		AntHills:    cloneSlice(f.AntHills),
		Raspberries: cloneSlice(f.Raspberries),
		SugarHills:  cloneSlice(f.SugarHills),
	}
}

// Counts reports the number of entities per kind.
type Counts struct {
	Ants        int `json:"ants"`
	AntHills    int `json:"anthills"`
	Raspberries int `json:"raspberries"`
	SugarHills  int `json:"sugar_hills"`
}

func (f Frame) Counts() Counts {
	return Counts{
		Ants:        len(f.Ants),
		AntHills:    len(f.AntHills),
		Raspberries: len(f.Raspberries),
		SugarHills:  len(f.SugarHills),
	}
}

func (c Counts) Add(o Counts) Counts {
	return Counts{
		Ants:        c.Ants + o.Ants,
		AntHills:    c.AntHills + o.AntHills,
		Raspberries: c.Raspberries + o.Raspberries,
		SugarHills:  c.SugarHills + o.SugarHills,
	}
}

func cloneSlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}
