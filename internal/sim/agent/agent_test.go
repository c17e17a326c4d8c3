package agent

import "testing"

func TestSpeedKeeper(t *testing.T) {
	var a Agent = NewSpeedKeeper()

	if got := a.Think(Perception{Velocity: 2}); got.Accelerate != -0.1 {
		t.Fatalf("fast ant: accelerate=%v want -0.1", got.Accelerate)
	}
	got := a.Think(Perception{Velocity: 0.5})
	if got.Accelerate != 0.1 {
		t.Fatalf("slow ant: accelerate=%v want 0.1", got.Accelerate)
	}
	if got.Activity != ActivityNone || got.Turn != 0 || got.CreateSmell != nil {
		t.Fatalf("unexpected action: %+v", got)
	}
}

func TestFunc(t *testing.T) {
	code := 7
	var a Agent = Func(func(p Perception) Action {
		if p.Touch {
			return Action{Activity: ActivityFight, CreateSmell: &code}
		}
		return Action{Activity: ActivityCarry}
	})
	if got := a.Think(Perception{Touch: true}); got.Activity != ActivityFight || *got.CreateSmell != 7 {
		t.Fatalf("touch: got %+v", got)
	}
	if got := a.Think(Perception{}); got.Activity != ActivityCarry {
		t.Fatalf("no touch: got %+v", got)
	}
}
