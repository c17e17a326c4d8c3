package agent

// SpeedKeeper walks straight ahead and nudges its velocity towards Target.
type SpeedKeeper struct {
	Target float64
	Step   float64
}

func NewSpeedKeeper() SpeedKeeper {
	return SpeedKeeper{Target: 1, Step: 0.1}
}

func (k SpeedKeeper) Think(p Perception) Action {
	acc := k.Step
	if p.Velocity > k.Target {
		acc = -k.Step
	}
	return Action{Turn: 0, Accelerate: acc, Activity: ActivityNone}
}
