// Package goal owns the collection of savings goals for a single user and
// posts contributions through the ledger.
package goal

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/realgoal/realgoal-backend/internal/domain"
	"github.com/realgoal/realgoal-backend/internal/usecase/ledger"
)

// NewGoal represents the input for creating a goal.
type NewGoal struct {
	Name        string
	TotalAmount decimal.Decimal
	Deadline    time.Time
}

// UpdateGoal represents the editable fields of a goal. CurrentAmount is
// never edited directly; it only grows through contribution posting.
type UpdateGoal struct {
	Name        string
	TotalAmount decimal.Decimal
	Deadline    time.Time
}

// Service maintains one user's goals in memory and writes them through the
// persistence binding. Posting a contribution spans this store and the
// ledger; there is no cross-store transaction primitive, so the goal is
// updated first and the ledger entry appended second. A crash between the
// two steps leaves goal progress ahead of the ledger, which is acceptable
// for a local single-user client.
type Service struct {
	binding domain.CollectionBinding
	ledger  *ledger.Service
	log     zerolog.Logger
	items   []domain.Goal
	now     func() time.Time
}

// NewService binds the goal collection to userID and loads it.
func NewService(ctx context.Context, binding domain.CollectionBinding, ledgerSvc *ledger.Service, userID string, log zerolog.Logger) (*Service, error) {
	binding.Bind(userID)

	s := &Service{
		binding: binding,
		ledger:  ledgerSvc,
		log:     log.With().Str("component", "goals").Str("user", userID).Logger(),
		now:     time.Now,
	}

	if err := binding.Load(ctx, &s.items); err != nil {
		return nil, err
	}

	return s, nil
}

// Add creates a goal with an optional initial contribution. A positive
// initialAmount also appends a paid contribution expense to the ledger.
func (s *Service) Add(ctx context.Context, input NewGoal, initialAmount decimal.Decimal) (*domain.Goal, error) {
	if initialAmount.IsNegative() {
		return nil, fmt.Errorf("%w: initial amount cannot be negative", domain.ErrValidation)
	}

	g := domain.Goal{
		ID:            uuid.New(),
		Name:          input.Name,
		TotalAmount:   input.TotalAmount,
		CurrentAmount: initialAmount,
		Deadline:      input.Deadline,
		UserID:        s.binding.UserID(),
	}

	if err := g.Validate(); err != nil {
		return nil, err
	}

	s.items = append(s.items, g)

	if err := s.binding.Save(ctx, s.items); err != nil {
		s.log.Warn().Err(err).Str("goal_id", g.ID.String()).Msg("goal save failed; keeping in-memory state")
		return nil, err
	}

	if initialAmount.IsPositive() {
		_, err := s.ledger.Add(ctx, ledger.NewTransaction{
			Description:  fmt.Sprintf("Valor inicial para a meta: %s", g.Name),
			Amount:       initialAmount,
			Category:     domain.ContributionCategory,
			Type:         domain.TypeExpense,
			Date:         s.now(),
			Contribution: true,
		})
		if err != nil {
			return nil, err
		}
	}

	s.log.Debug().Str("goal_id", g.ID.String()).Str("name", g.Name).Msg("goal created")
	return &g, nil
}

// Update edits name, total amount and deadline of the goal with the given id.
func (s *Service) Update(ctx context.Context, id uuid.UUID, input UpdateGoal) (*domain.Goal, error) {
	idx := s.indexOf(id)
	if idx < 0 {
		return nil, fmt.Errorf("%w: goal %s", domain.ErrNotFound, id)
	}

	updated := s.items[idx]
	updated.Name = input.Name
	updated.TotalAmount = input.TotalAmount
	updated.Deadline = input.Deadline

	if err := updated.Validate(); err != nil {
		return nil, err
	}

	s.items[idx] = updated

	if err := s.binding.Save(ctx, s.items); err != nil {
		return nil, err
	}

	return &updated, nil
}

// Remove deletes the goal with the given id. Removing an absent id is a
// no-op. Previously created contribution transactions stay in the ledger.
func (s *Service) Remove(ctx context.Context, id uuid.UUID) error {
	idx := s.indexOf(id)
	if idx < 0 {
		return nil
	}

	s.items = append(s.items[:idx], s.items[idx+1:]...)

	if err := s.binding.Save(ctx, s.items); err != nil {
		return err
	}

	s.log.Debug().Str("goal_id", id.String()).Msg("goal removed")
	return nil
}

// PostContribution adds amount to the goal's accumulated total and appends a
// paid contribution expense to the ledger. The goal is applied first, then
// the ledger entry.
func (s *Service) PostContribution(ctx context.Context, id uuid.UUID, amount decimal.Decimal) (*domain.Goal, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: contribution amount must be positive", domain.ErrValidation)
	}

	idx := s.indexOf(id)
	if idx < 0 {
		return nil, fmt.Errorf("%w: goal %s", domain.ErrNotFound, id)
	}

	s.items[idx].CurrentAmount = s.items[idx].CurrentAmount.Add(amount)
	updated := s.items[idx]

	if err := s.binding.Save(ctx, s.items); err != nil {
		return nil, err
	}

	_, err := s.ledger.Add(ctx, ledger.NewTransaction{
		Description:  fmt.Sprintf("Adicionado à meta: %s", updated.Name),
		Amount:       amount,
		Category:     domain.ContributionCategory,
		Type:         domain.TypeExpense,
		Date:         s.now(),
		Contribution: true,
	})
	if err != nil {
		return nil, err
	}

	s.log.Debug().
		Str("goal_id", id.String()).
		Str("amount", amount.String()).
		Float64("progress", updated.Progress()).
		Msg("contribution posted")

	return &updated, nil
}

// List returns the goals in insertion order.
func (s *Service) List() []domain.Goal {
	out := make([]domain.Goal, len(s.items))
	copy(out, s.items)
	return out
}

// Loading reports whether the collection has not been loaded yet.
func (s *Service) Loading() bool {
	return s.binding.Loading()
}

func (s *Service) indexOf(id uuid.UUID) int {
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}
