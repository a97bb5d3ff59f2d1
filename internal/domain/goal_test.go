package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func validGoal() Goal {
	return Goal{
		ID:            uuid.New(),
		Name:          "Viagem",
		TotalAmount:   decimal.NewFromInt(1000),
		CurrentAmount: decimal.NewFromInt(200),
		Deadline:      time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC),
		UserID:        "user-1",
	}
}

func TestGoal_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Goal)
		wantErr bool
	}{
		{
			name:   "valid goal should pass",
			mutate: func(g *Goal) {},
		},
		{
			name:    "empty name should fail",
			mutate:  func(g *Goal) { g.Name = "" },
			wantErr: true,
		},
		{
			name:    "zero total amount should fail",
			mutate:  func(g *Goal) { g.TotalAmount = decimal.Zero },
			wantErr: true,
		},
		{
			name:    "negative current amount should fail",
			mutate:  func(g *Goal) { g.CurrentAmount = decimal.NewFromInt(-1) },
			wantErr: true,
		},
		{
			name:    "zero current amount should pass",
			mutate:  func(g *Goal) { g.CurrentAmount = decimal.Zero },
			wantErr: false,
		},
		{
			name:    "missing user should fail",
			mutate:  func(g *Goal) { g.UserID = "" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := validGoal()
			tt.mutate(&g)

			err := g.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrValidation)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestGoal_Progress(t *testing.T) {
	g := validGoal()
	assert.InDelta(t, 0.2, g.Progress(), 0.0001)

	g.CurrentAmount = decimal.NewFromInt(500)
	assert.InDelta(t, 0.5, g.Progress(), 0.0001)

	// Overfunded goals cap at 1
	g.CurrentAmount = decimal.NewFromInt(1500)
	assert.Equal(t, 1.0, g.Progress())

	// Defensive: non-positive target yields 0
	g.TotalAmount = decimal.Zero
	assert.Equal(t, 0.0, g.Progress())
}

func TestGoal_IsCompleted(t *testing.T) {
	g := validGoal()
	assert.False(t, g.IsCompleted())

	g.CurrentAmount = decimal.NewFromInt(1000)
	assert.True(t, g.IsCompleted())

	g.CurrentAmount = decimal.NewFromInt(1200)
	assert.True(t, g.IsCompleted())
}

func TestGoal_IsOverdue(t *testing.T) {
	g := validGoal()
	g.Deadline = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	today := time.Date(2024, 6, 20, 0, 0, 0, 0, time.UTC)
	assert.True(t, g.IsOverdue(today))

	// A completed goal is never overdue
	g.CurrentAmount = g.TotalAmount
	assert.False(t, g.IsOverdue(today))

	// A future deadline is not overdue
	g = validGoal()
	assert.False(t, g.IsOverdue(today))
}

func TestCollection_Key(t *testing.T) {
	assert.Equal(t, "realgoal-transactions_user-1", CollectionTransactions.Key("user-1"))
	assert.Equal(t, "realgoal-goals_user-2", CollectionGoals.Key("user-2"))
}
