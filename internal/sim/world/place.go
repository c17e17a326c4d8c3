package world

import (
	"anthill.ai/internal/sim/model"
	"anthill.ai/internal/sim/placement"
)

func identity(p model.Pose) model.Pose { return p }

// Raspberries.

func (w *World) TryAddRaspberry(p model.Pose) error {
	if err := w.check(placement.KindRaspberry, p, false); err != nil {
		return err
	}
	w.raspberries = append(w.raspberries, p)
	return w.logPlacement(placement.KindRaspberry, p)
}

func (w *World) TryAddRaspberryMirrored(p model.Pose) error {
	if err := w.check(placement.KindRaspberry, p, true); err != nil {
		return err
	}
	return w.commitRaspberries(p)
}

func (w *World) PlaceRaspberryPair() error {
	p, err := w.propose(placement.KindRaspberry)
	if err != nil {
		return err
	}
	return w.commitRaspberries(p)
}

func (w *World) commitRaspberries(p model.Pose) error {
	a, b := placement.Mirror(p, identity)
	w.raspberries = append(w.raspberries, a, b)
	return w.logPlacement(placement.KindRaspberry, a, b)
}

// Sugar hills.

func (w *World) newSugarHill(p model.Pose) model.SugarHill {
	return model.NewSugarHill(p, w.cfg.SugarVolume)
}

func (w *World) TryAddSugarHill(p model.Pose) error {
	if err := w.check(placement.KindSugarHill, p, false); err != nil {
		return err
	}
	w.sugarHills = append(w.sugarHills, w.newSugarHill(p))
	return w.logPlacement(placement.KindSugarHill, p)
}

func (w *World) TryAddSugarHillMirrored(p model.Pose) error {
	if err := w.check(placement.KindSugarHill, p, true); err != nil {
		return err
	}
	return w.commitSugarHills(p)
}

func (w *World) PlaceSugarHillPair() error {
	p, err := w.propose(placement.KindSugarHill)
	if err != nil {
		return err
	}
	return w.commitSugarHills(p)
}

func (w *World) commitSugarHills(p model.Pose) error {
	a, b := placement.Mirror(p, w.newSugarHill)
	w.sugarHills = append(w.sugarHills, a, b)
	return w.logPlacement(placement.KindSugarHill, a.Pose, b.Pose)
}

// Ant hills: team A gets the proposed pose, team B its mirror.

func (w *World) TryAddAntHillsMirrored(p model.Pose) error {
	if w.teamA.Hill != nil || w.teamB.Hill != nil {
		return ErrHillsPlaced
	}
	if err := w.check(placement.KindAntHill, p, true); err != nil {
		return err
	}
	return w.commitAntHills(p)
}

func (w *World) PlaceAntHillPair() error {
	if w.teamA.Hill != nil || w.teamB.Hill != nil {
		return ErrHillsPlaced
	}
	p, err := w.propose(placement.KindAntHill)
	if err != nil {
		return err
	}
	return w.commitAntHills(p)
}

func (w *World) commitAntHills(p model.Pose) error {
	a, b := placement.Mirror(p, func(p model.Pose) model.AntHill { return model.NewAntHill(p, 0) })
	a.Team = w.teamA.Team
	b.Team = w.teamB.Team
	w.teamA.Hill = &a
	w.teamB.Hill = &b
	return w.logPlacement(placement.KindAntHill, a.Pose, b.Pose)
}

// Ants: one per team, team A at the proposed pose.

func (w *World) TryAddAntMirrored(p model.Pose) (AntID, AntID, error) {
	if err := w.check(placement.KindAnt, p, true); err != nil {
		return 0, 0, err
	}
	return w.commitAnts(p)
}

func (w *World) PlaceAntPair() (AntID, AntID, error) {
	p, err := w.propose(placement.KindAnt)
	if err != nil {
		return 0, 0, err
	}
	return w.commitAnts(p)
}

func (w *World) commitAnts(p model.Pose) (AntID, AntID, error) {
	a, b := placement.Mirror(p, model.NewAnt)
	ida := w.teamA.Roster.Add(a)
	idb := w.teamB.Roster.Add(b)
	return ida, idb, w.logPlacement(placement.KindAnt, a.Pose, b.Pose)
}
