package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType represents the direction of a transaction
type TransactionType string

const (
	TypeIncome  TransactionType = "income"
	TypeExpense TransactionType = "expense"
)

// TransactionStatus represents the payment state of a transaction
type TransactionStatus string

const (
	StatusPending TransactionStatus = "pending"
	StatusPaid    TransactionStatus = "paid"
)

// ContributionCategory marks ledger entries created by adding money toward a
// goal. There is no foreign key from a transaction back to its goal; this
// shared category string is the only link.
const ContributionCategory = "Investimentos/Metas"

// Transaction represents a single entry in a user's ledger.
// ID, UserID and Type are immutable after creation.
type Transaction struct {
	ID          uuid.UUID         `json:"id"`
	Description string            `json:"description"`
	Amount      decimal.Decimal   `json:"amount"` // ABSOLUTE VALUE (always positive)
	Category    string            `json:"category"`
	Type        TransactionType   `json:"type"`
	Date        time.Time         `json:"date"`
	Status      TransactionStatus `json:"status"`
	UserID      string            `json:"userId"`
}

// Validate ensures the transaction adheres to domain rules
// Returns an error wrapping ErrValidation if any field is invalid
func (t *Transaction) Validate() error {
	if t.Description == "" {
		return fmt.Errorf("%w: transaction description cannot be empty", ErrValidation)
	}

	if t.Amount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: transaction amount must be positive", ErrValidation)
	}

	if t.Category == "" {
		return fmt.Errorf("%w: transaction category cannot be empty", ErrValidation)
	}

	if t.Type != TypeIncome && t.Type != TypeExpense {
		return fmt.Errorf("%w: transaction type must be income or expense", ErrValidation)
	}

	if t.Status != StatusPending && t.Status != StatusPaid {
		return fmt.Errorf("%w: transaction status must be pending or paid", ErrValidation)
	}

	if t.UserID == "" {
		return fmt.Errorf("%w: transaction must belong to a user", ErrValidation)
	}

	return nil
}

// IsContribution reports whether the transaction was created by posting money
// toward a goal.
func (t *Transaction) IsContribution() bool {
	return t.Category == ContributionCategory
}
