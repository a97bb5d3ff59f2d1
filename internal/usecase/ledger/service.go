// Package ledger owns the collection of transactions for a single user.
package ledger

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/realgoal/realgoal-backend/internal/domain"
)

// NewTransaction represents the input for appending a transaction.
type NewTransaction struct {
	Description string
	Amount      decimal.Decimal
	Category    string
	Type        domain.TransactionType
	Date        time.Time // zero value means "now"
	// Contribution marks an already-executed transfer toward a goal; the
	// resulting expense is created directly in the paid state.
	Contribution bool
}

// UpdateTransaction represents the editable fields of a transaction.
// ID, UserID, Type and Status are never touched by an edit.
type UpdateTransaction struct {
	Description string
	Amount      decimal.Decimal
	Category    string
	Date        time.Time
}

// Balances is the derived income/expense projection over paid transactions.
type Balances struct {
	Income  decimal.Decimal
	Expense decimal.Decimal
	Balance decimal.Decimal
}

// Service maintains one user's ledger in memory and writes it through the
// persistence binding. All operations execute on a single logical thread of
// control; a failed save surfaces the error but keeps the mutated in-memory
// collection.
type Service struct {
	binding domain.CollectionBinding
	log     zerolog.Logger
	items   []domain.Transaction
	now     func() time.Time
}

// NewService binds the transaction collection to userID and loads it.
func NewService(ctx context.Context, binding domain.CollectionBinding, userID string, log zerolog.Logger) (*Service, error) {
	binding.Bind(userID)

	s := &Service{
		binding: binding,
		log:     log.With().Str("component", "ledger").Str("user", userID).Logger(),
		now:     time.Now,
	}

	if err := binding.Load(ctx, &s.items); err != nil {
		return nil, err
	}

	return s, nil
}

// Add validates input, assigns id and status, and appends the transaction.
// Income is paid on creation; an expense defaults to pending unless it is a
// goal contribution, which is paid immediately.
func (s *Service) Add(ctx context.Context, input NewTransaction) (*domain.Transaction, error) {
	status := domain.StatusPending
	if input.Type == domain.TypeIncome || input.Contribution {
		status = domain.StatusPaid
	}

	date := input.Date
	if date.IsZero() {
		date = s.now()
	}

	tx := domain.Transaction{
		ID:          uuid.New(),
		Description: input.Description,
		Amount:      input.Amount,
		Category:    input.Category,
		Type:        input.Type,
		Date:        date,
		Status:      status,
		UserID:      s.binding.UserID(),
	}

	if err := tx.Validate(); err != nil {
		return nil, err
	}

	s.items = append(s.items, tx)

	if err := s.binding.Save(ctx, s.items); err != nil {
		s.log.Warn().Err(err).Str("transaction_id", tx.ID.String()).Msg("ledger save failed; keeping in-memory state")
		return nil, err
	}

	s.log.Debug().
		Str("transaction_id", tx.ID.String()).
		Str("type", string(tx.Type)).
		Str("status", string(tx.Status)).
		Msg("transaction added")

	return &tx, nil
}

// Update replaces the editable fields of the transaction with the given id.
func (s *Service) Update(ctx context.Context, id uuid.UUID, input UpdateTransaction) (*domain.Transaction, error) {
	idx := s.indexOf(id)
	if idx < 0 {
		return nil, fmt.Errorf("%w: transaction %s", domain.ErrNotFound, id)
	}

	updated := s.items[idx]
	updated.Description = input.Description
	updated.Amount = input.Amount
	updated.Category = input.Category
	updated.Date = input.Date

	if err := updated.Validate(); err != nil {
		return nil, err
	}

	s.items[idx] = updated

	if err := s.binding.Save(ctx, s.items); err != nil {
		return nil, err
	}

	return &updated, nil
}

// Remove deletes the transaction with the given id. Removing an absent id is
// a no-op, not an error.
func (s *Service) Remove(ctx context.Context, id uuid.UUID) error {
	idx := s.indexOf(id)
	if idx < 0 {
		return nil
	}

	s.items = append(s.items[:idx], s.items[idx+1:]...)

	if err := s.binding.Save(ctx, s.items); err != nil {
		return err
	}

	s.log.Debug().Str("transaction_id", id.String()).Msg("transaction removed")
	return nil
}

// ConfirmPayment transitions a pending transaction to paid. Confirming an
// already-paid or absent transaction is a no-op.
func (s *Service) ConfirmPayment(ctx context.Context, id uuid.UUID) error {
	idx := s.indexOf(id)
	if idx < 0 || s.items[idx].Status == domain.StatusPaid {
		return nil
	}

	s.items[idx].Status = domain.StatusPaid

	if err := s.binding.Save(ctx, s.items); err != nil {
		return err
	}

	s.log.Debug().Str("transaction_id", id.String()).Msg("payment confirmed")
	return nil
}

// Balances recomputes the paid-only income and expense sums from the full
// collection. Pending transactions of either type are excluded.
func (s *Service) Balances() Balances {
	income := decimal.Zero
	expense := decimal.Zero

	for _, tx := range s.items {
		if tx.Status != domain.StatusPaid {
			continue
		}
		switch tx.Type {
		case domain.TypeIncome:
			income = income.Add(tx.Amount)
		case domain.TypeExpense:
			expense = expense.Add(tx.Amount)
		}
	}

	return Balances{
		Income:  income,
		Expense: expense,
		Balance: income.Sub(expense),
	}
}

// List returns the transactions sorted by date descending, ties broken by
// insertion order.
func (s *Service) List() []domain.Transaction {
	out := make([]domain.Transaction, len(s.items))
	copy(out, s.items)

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})

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
