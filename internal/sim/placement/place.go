package placement

import (
	"errors"
	"fmt"
)

// DefaultBudgetFactor sets the default Place budget to count*DefaultBudgetFactor.
const DefaultBudgetFactor = 3

var ErrBudgetExhausted = errors.New("placement budget exhausted")

// BudgetError reports a bulk placement that ran out of attempts.
type BudgetError struct {
	Unplaced int
	Budget   int
}

func (e *BudgetError) Error() string {
	return fmt.Sprintf("could not place %d more after %d attempts", e.Unplaced, e.Budget)
}

func (e *BudgetError) Is(target error) bool { return target == ErrBudgetExhausted }

// Place calls attempt until it has succeeded count times. Every call consumes one
// unit of a shared budget (count*DefaultBudgetFactor when maxTries <= 0).
// ErrPlacementExhausted and ErrOccupied are retried; any other error is returned
// as is. Running out of budget returns a *BudgetError.
func (e *Engine) Place(count, maxTries int, attempt func() error) error {
	if maxTries <= 0 {
		maxTries = count * DefaultBudgetFactor
	}
	budget := maxTries
	for count > 0 {
		budget--
		if budget < 0 {
			return &BudgetError{Unplaced: count, Budget: maxTries}
		}
		err := attempt()
		switch {
		case err == nil:
			count--
		case errors.Is(err, ErrPlacementExhausted), errors.Is(err, ErrOccupied):
		default:
			return err
		}
	}
	return nil
}
