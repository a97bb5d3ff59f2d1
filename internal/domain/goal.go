package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Goal represents a savings goal in the domain layer.
// CurrentAmount only grows through contribution posting; the edit path never
// touches it.
type Goal struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	CurrentAmount decimal.Decimal `json:"currentAmount"`
	Deadline      time.Time       `json:"deadline"`
	UserID        string          `json:"userId"`
}

// Validate ensures the goal adheres to domain rules
// Returns an error wrapping ErrValidation if any field is invalid
func (g *Goal) Validate() error {
	if g.Name == "" {
		return fmt.Errorf("%w: goal name cannot be empty", ErrValidation)
	}

	if g.TotalAmount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: goal total amount must be positive", ErrValidation)
	}

	if g.CurrentAmount.IsNegative() {
		return fmt.Errorf("%w: goal current amount cannot be negative", ErrValidation)
	}

	if g.UserID == "" {
		return fmt.Errorf("%w: goal must belong to a user", ErrValidation)
	}

	return nil
}

// Progress returns how much of the goal has been funded, in [0, 1].
// A non-positive total yields 0 (defensive; creation forbids it).
func (g *Goal) Progress() float64 {
	if g.TotalAmount.LessThanOrEqual(decimal.Zero) {
		return 0
	}

	progress, _ := g.CurrentAmount.Div(g.TotalAmount).Float64()
	if progress > 1 {
		return 1
	}
	return progress
}

// IsCompleted reports whether the accumulated amount reached the target.
func (g *Goal) IsCompleted() bool {
	return g.TotalAmount.IsPositive() && g.CurrentAmount.GreaterThanOrEqual(g.TotalAmount)
}

// IsOverdue reports whether the deadline passed before the goal completed.
func (g *Goal) IsOverdue(today time.Time) bool {
	return g.Deadline.Before(today) && !g.IsCompleted()
}
