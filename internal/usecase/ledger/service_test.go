package ledger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/realgoal/realgoal-backend/internal/adapter/repository/kv"
	"github.com/realgoal/realgoal-backend/internal/adapter/repository/memory"
	"github.com/realgoal/realgoal-backend/internal/domain"
)

// MockKeyValueStore is a mock implementation of domain.KeyValueStore
type MockKeyValueStore struct {
	mock.Mock
}

func (m *MockKeyValueStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).([]byte), args.Bool(1), args.Error(2)
}

func (m *MockKeyValueStore) Set(ctx context.Context, key string, value []byte) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func newTestService(t *testing.T, store domain.KeyValueStore) *Service {
	t.Helper()
	svc, err := NewService(context.Background(), kv.NewBinding(store, domain.CollectionTransactions), "user-1", zerolog.Nop())
	require.NoError(t, err)
	return svc
}

func TestAdd_IncomeIsPaidImmediately(t *testing.T) {
	svc := newTestService(t, memory.NewStore())

	tx, err := svc.Add(context.Background(), NewTransaction{
		Description: "Salário",
		Amount:      decimal.NewFromInt(100),
		Category:    "Salário",
		Type:        domain.TypeIncome,
	})

	require.NoError(t, err)
	assert.Equal(t, domain.StatusPaid, tx.Status)
	assert.True(t, svc.Balances().Income.Equal(decimal.NewFromInt(100)))
}

func TestAdd_ExpenseDefaultsToPending(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, memory.NewStore())

	tx, err := svc.Add(ctx, NewTransaction{
		Description: "Mercado",
		Amount:      decimal.NewFromInt(40),
		Category:    "Alimentação",
		Type:        domain.TypeExpense,
	})

	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, tx.Status)

	// Pending expenses are excluded from balances until confirmed
	assert.True(t, svc.Balances().Expense.IsZero())

	require.NoError(t, svc.ConfirmPayment(ctx, tx.ID))
	assert.True(t, svc.Balances().Expense.Equal(decimal.NewFromInt(40)))
}

func TestAdd_ContributionExpenseIsPaid(t *testing.T) {
	svc := newTestService(t, memory.NewStore())

	tx, err := svc.Add(context.Background(), NewTransaction{
		Description:  "Adicionado à meta: Viagem",
		Amount:       decimal.NewFromInt(200),
		Category:     domain.ContributionCategory,
		Type:         domain.TypeExpense,
		Contribution: true,
	})

	require.NoError(t, err)
	assert.Equal(t, domain.StatusPaid, tx.Status)
}

func TestAdd_ValidationErrorLeavesStateUnchanged(t *testing.T) {
	svc := newTestService(t, memory.NewStore())

	_, err := svc.Add(context.Background(), NewTransaction{
		Description: "",
		Amount:      decimal.NewFromInt(10),
		Category:    "Outros",
		Type:        domain.TypeExpense,
	})

	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Empty(t, svc.List())
}

func TestUpdate_PreservesImmutableFields(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, memory.NewStore())

	tx, err := svc.Add(ctx, NewTransaction{
		Description: "Padaria",
		Amount:      decimal.NewFromFloat(25.50),
		Category:    "Alimentação",
		Type:        domain.TypeExpense,
	})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, tx.ID, UpdateTransaction{
		Description: "Padaria do bairro",
		Amount:      decimal.NewFromFloat(27.00),
		Category:    "Alimentação",
		Date:        time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	assert.Equal(t, tx.ID, updated.ID)
	assert.Equal(t, tx.UserID, updated.UserID)
	assert.Equal(t, tx.Type, updated.Type)
	assert.Equal(t, tx.Status, updated.Status)
	assert.Equal(t, "Padaria do bairro", updated.Description)
	assert.True(t, updated.Amount.Equal(decimal.NewFromFloat(27.00)))
}

func TestUpdate_UnknownIDFails(t *testing.T) {
	svc := newTestService(t, memory.NewStore())

	_, err := svc.Update(context.Background(), uuid.New(), UpdateTransaction{
		Description: "x",
		Amount:      decimal.NewFromInt(1),
		Category:    "Outros",
		Date:        time.Now(),
	})

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRemove_IsIdempotent(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, memory.NewStore())

	tx, err := svc.Add(ctx, NewTransaction{
		Description: "Uber",
		Amount:      decimal.NewFromInt(20),
		Category:    "Transporte",
		Type:        domain.TypeExpense,
	})
	require.NoError(t, err)

	require.NoError(t, svc.Remove(ctx, tx.ID))
	assert.Empty(t, svc.List())

	// Removing again, or removing an unknown id, is a no-op
	assert.NoError(t, svc.Remove(ctx, tx.ID))
	assert.NoError(t, svc.Remove(ctx, uuid.New()))
	assert.Empty(t, svc.List())
}

func TestConfirmPayment_IsIdempotent(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, memory.NewStore())

	tx, err := svc.Add(ctx, NewTransaction{
		Description: "Aluguel",
		Amount:      decimal.NewFromInt(1500),
		Category:    "Moradia",
		Type:        domain.TypeExpense,
	})
	require.NoError(t, err)

	require.NoError(t, svc.ConfirmPayment(ctx, tx.ID))
	first := svc.Balances()

	require.NoError(t, svc.ConfirmPayment(ctx, tx.ID))
	second := svc.Balances()

	assert.True(t, first.Expense.Equal(second.Expense))

	// Confirming an unknown id is also a no-op
	assert.NoError(t, svc.ConfirmPayment(ctx, uuid.New()))
}

func TestBalances_PaidOnlyAndIdentity(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, memory.NewStore())

	_, err := svc.Add(ctx, NewTransaction{
		Description: "Salário", Amount: decimal.NewFromInt(5000), Category: "Salário", Type: domain.TypeIncome,
	})
	require.NoError(t, err)

	pending, err := svc.Add(ctx, NewTransaction{
		Description: "Conta de luz", Amount: decimal.NewFromInt(300), Category: "Moradia", Type: domain.TypeExpense,
	})
	require.NoError(t, err)

	b := svc.Balances()
	assert.True(t, b.Income.Equal(decimal.NewFromInt(5000)))
	assert.True(t, b.Expense.IsZero())
	assert.True(t, b.Balance.Equal(b.Income.Sub(b.Expense)))

	// Toggling one transaction to paid changes only its own contribution
	require.NoError(t, svc.ConfirmPayment(ctx, pending.ID))
	b = svc.Balances()
	assert.True(t, b.Income.Equal(decimal.NewFromInt(5000)))
	assert.True(t, b.Expense.Equal(decimal.NewFromInt(300)))
	assert.True(t, b.Balance.Equal(decimal.NewFromInt(4700)))
}

func TestList_SortedByDateDescendingStable(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, memory.NewStore())

	day := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)

	older, err := svc.Add(ctx, NewTransaction{
		Description: "Antiga", Amount: decimal.NewFromInt(1), Category: "Outros", Type: domain.TypeExpense,
		Date: day.AddDate(0, 0, -5),
	})
	require.NoError(t, err)

	firstTie, err := svc.Add(ctx, NewTransaction{
		Description: "Empate A", Amount: decimal.NewFromInt(2), Category: "Outros", Type: domain.TypeExpense,
		Date: day,
	})
	require.NoError(t, err)

	secondTie, err := svc.Add(ctx, NewTransaction{
		Description: "Empate B", Amount: decimal.NewFromInt(3), Category: "Outros", Type: domain.TypeExpense,
		Date: day,
	})
	require.NoError(t, err)

	list := svc.List()
	require.Len(t, list, 3)
	assert.Equal(t, firstTie.ID, list[0].ID)
	assert.Equal(t, secondTie.ID, list[1].ID)
	assert.Equal(t, older.ID, list[2].ID)
}

func TestRoundTrip_PersistedAndReloaded(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := newTestService(t, store)

	tx, err := svc.Add(ctx, NewTransaction{
		Description: "Cinema",
		Amount:      decimal.NewFromFloat(32.90),
		Category:    "Lazer",
		Type:        domain.TypeExpense,
		Date:        time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	// A fresh service over the same store sees the exact same fields
	reloaded := newTestService(t, store)
	list := reloaded.List()
	require.Len(t, list, 1)

	got := list[0]
	assert.Equal(t, tx.ID, got.ID)
	assert.Equal(t, tx.Description, got.Description)
	assert.True(t, tx.Amount.Equal(got.Amount))
	assert.Equal(t, tx.Category, got.Category)
	assert.Equal(t, tx.Type, got.Type)
	assert.Equal(t, tx.Status, got.Status)
	assert.Equal(t, tx.UserID, got.UserID)
	assert.True(t, tx.Date.Equal(got.Date))
}

func TestUserIsolation(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	first, err := NewService(ctx, kv.NewBinding(store, domain.CollectionTransactions), "user-1", zerolog.Nop())
	require.NoError(t, err)

	_, err = first.Add(ctx, NewTransaction{
		Description: "Só do user-1", Amount: decimal.NewFromInt(10), Category: "Outros", Type: domain.TypeExpense,
	})
	require.NoError(t, err)

	second, err := NewService(ctx, kv.NewBinding(store, domain.CollectionTransactions), "user-2", zerolog.Nop())
	require.NoError(t, err)
	assert.Empty(t, second.List())
}

func TestSaveFailure_SurfacesAndKeepsState(t *testing.T) {
	ctx := context.Background()

	mockStore := new(MockKeyValueStore)
	key := domain.CollectionTransactions.Key("user-1")
	mockStore.On("Get", ctx, key).Return(nil, false, nil)
	mockStore.On("Set", ctx, key, mock.Anything).Return(errors.New("connection refused"))

	svc, err := NewService(ctx, kv.NewBinding(mockStore, domain.CollectionTransactions), "user-1", zerolog.Nop())
	require.NoError(t, err)

	_, err = svc.Add(ctx, NewTransaction{
		Description: "Mercado", Amount: decimal.NewFromInt(50), Category: "Alimentação", Type: domain.TypeExpense,
	})

	assert.ErrorIs(t, err, domain.ErrPersistence)
	// The mutated in-memory collection is kept, not silently reverted
	assert.Len(t, svc.List(), 1)
	mockStore.AssertExpectations(t)
}
