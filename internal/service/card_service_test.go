package service

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/carson-networks/card-ledger-server/internal/logging"
	"github.com/carson-networks/card-ledger-server/internal/operator"
	"github.com/carson-networks/card-ledger-server/internal/operator/actions"
	"github.com/carson-networks/card-ledger-server/internal/storage"
	"github.com/carson-networks/card-ledger-server/internal/storage/card"
	"github.com/carson-networks/card-ledger-server/internal/storage/ledger"
	"github.com/carson-networks/card-ledger-server/internal/storage/storagetest"
)

type mockCardReader struct {
	mock.Mock
}

func (m *mockCardReader) FindByNumber(ctx context.Context, cardNumber string) (*card.Card, error) {
	args := m.Called(ctx, cardNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*card.Card), args.Error(1)
}

type mockEntryReader struct {
	mock.Mock
}

func (m *mockEntryReader) ListByCard(ctx context.Context, cardID uuid.UUID, limit int) ([]*ledger.Entry, error) {
	args := m.Called(ctx, cardID, limit)
	entries, _ := args.Get(0).([]*ledger.Entry)
	return entries, args.Error(1)
}

type mockProcessor struct {
	mock.Mock
}

func (m *mockProcessor) Process(ctx context.Context, action actions.IAction) error {
	args := m.Called(ctx, action)
	return args.Error(0)
}

func newMockedService(t *testing.T) (*CardService, *mockCardReader, *mockEntryReader, *mockProcessor) {
	t.Helper()
	cards := new(mockCardReader)
	entries := new(mockEntryReader)
	processor := new(mockProcessor)
	store := &storage.Storage{Cards: cards, Entries: entries}
	svc := NewCardService(store, processor, logging.SetupLogging("error"))
	return svc, cards, entries, processor
}

// newMemoryService wires a real operator pool over the in-memory store, so
// actions run through the same commit-or-rollback path as production.
func newMemoryService(t *testing.T, workers int) (*CardService, *storagetest.Store) {
	t.Helper()
	memStore := storagetest.New()
	delegator := operator.NewOperatorDelegator(memStore, workers)
	delegator.Start()
	t.Cleanup(delegator.Stop)

	store := &storage.Storage{Cards: memStore, Entries: memStore}
	svc := NewCardService(store, delegator, logging.SetupLogging("error"))
	return svc, memStore
}

// -- GetBalance tests --

func TestGetBalance_Success(t *testing.T) {
	svc, cards, _, _ := newMockedService(t)

	id := uuid.Must(uuid.NewV4())
	cards.On("FindByNumber", mock.Anything, "4491").Return(&card.Card{
		ID:         id,
		CardNumber: "4491",
		Balance:    decimal.RequireFromString("100.00"),
		CardType:   "MIR",
		Expiry:     "12/28",
		CVV:        "123",
	}, nil)

	view, err := svc.GetBalance(context.Background(), "4491")

	assert.NoError(t, err)
	assert.Equal(t, id, view.ID)
	assert.Equal(t, "4491", view.CardNumber)
	assert.True(t, view.Balance.Equal(decimal.RequireFromString("100.00")))
	assert.Equal(t, "MIR", view.CardType)
}

func TestGetBalance_NotFound(t *testing.T) {
	svc, cards, _, _ := newMockedService(t)

	cards.On("FindByNumber", mock.Anything, "0000").Return(nil, sql.ErrNoRows)

	view, err := svc.GetBalance(context.Background(), "0000")

	assert.ErrorIs(t, err, ErrCardNotFound)
	assert.Nil(t, view)
}

func TestGetBalance_StoreFailure(t *testing.T) {
	svc, cards, _, _ := newMockedService(t)

	cards.On("FindByNumber", mock.Anything, "4491").Return(nil, errors.New("connection refused"))

	_, err := svc.GetBalance(context.Background(), "4491")

	assert.ErrorIs(t, err, ErrStoreUnavailable)
}

// -- ListHistory tests --

func TestListHistory_DefaultLimit(t *testing.T) {
	svc, cards, entries, _ := newMockedService(t)

	id := uuid.Must(uuid.NewV4())
	cards.On("FindByNumber", mock.Anything, "4491").Return(&card.Card{ID: id, CardNumber: "4491"}, nil)
	entries.On("ListByCard", mock.Anything, id, defaultHistoryLimit).Return([]*ledger.Entry{}, nil)

	result, err := svc.ListHistory(context.Background(), "4491", 0)

	assert.NoError(t, err)
	assert.Empty(t, result)
	entries.AssertExpectations(t)
}

func TestListHistory_MapsFields(t *testing.T) {
	svc, cards, entries, _ := newMockedService(t)

	id := uuid.Must(uuid.NewV4())
	now := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)
	cards.On("FindByNumber", mock.Anything, "4491").Return(&card.Card{ID: id, CardNumber: "4491"}, nil)
	entries.On("ListByCard", mock.Anything, id, 2).Return([]*ledger.Entry{
		{
			ID:          7,
			CardID:      id,
			Type:        ledger.EntryTypeExpense,
			Amount:      decimal.RequireFromString("30"),
			Recipient:   "Alice",
			Description: "Transfer to Alice",
			Category:    "Transfer",
			CreatedAt:   now,
		},
	}, nil)

	result, err := svc.ListHistory(context.Background(), "4491", 2)

	assert.NoError(t, err)
	assert.Len(t, result, 1)
	assert.Equal(t, int64(7), result[0].ID)
	assert.Equal(t, "expense", result[0].Type)
	assert.True(t, result[0].Amount.Equal(decimal.RequireFromString("30")))
	assert.Equal(t, "Alice", result[0].Recipient)
	assert.Equal(t, now, result[0].CreatedAt)
}

func TestListHistory_NotFound(t *testing.T) {
	svc, cards, entries, _ := newMockedService(t)

	cards.On("FindByNumber", mock.Anything, "0000").Return(nil, sql.ErrNoRows)

	_, err := svc.ListHistory(context.Background(), "0000", 5)

	assert.ErrorIs(t, err, ErrCardNotFound)
	entries.AssertNotCalled(t, "ListByCard")
}

func TestListHistory_TruncatesNewestFirst(t *testing.T) {
	svc, memStore := newMemoryService(t, 1)
	memStore.AddCard("4491", decimal.RequireFromString("1000"))

	// Five committed movements, then a page of two.
	for i := 1; i <= 5; i++ {
		_, err := svc.TopUp(context.Background(), "4491", decimal.NewFromInt(int64(i)))
		assert.NoError(t, err)
	}

	result, err := svc.ListHistory(context.Background(), "4491", 2)

	assert.NoError(t, err)
	assert.Len(t, result, 2)
	// Newest first: the amounts 5 then 4.
	assert.True(t, result[0].Amount.Equal(decimal.NewFromInt(5)))
	assert.True(t, result[1].Amount.Equal(decimal.NewFromInt(4)))
	assert.Greater(t, result[0].ID, result[1].ID)
}

// -- Transfer tests --

func TestTransfer_InvalidAmount_NoStoreAccess(t *testing.T) {
	svc, cards, _, processor := newMockedService(t)

	for _, amount := range []string{"0", "-5"} {
		_, err := svc.Transfer(context.Background(), "4491", decimal.RequireFromString(amount), "Alice")
		assert.ErrorIs(t, err, ErrInvalidAmount)
	}

	cards.AssertNotCalled(t, "FindByNumber")
	processor.AssertNotCalled(t, "Process")
}

func TestTransfer_Success(t *testing.T) {
	svc, memStore := newMemoryService(t, 2)
	memStore.AddCard("4491", decimal.RequireFromString("100.00"))

	result, err := svc.Transfer(context.Background(), "4491", decimal.RequireFromString("30"), "Alice")

	assert.NoError(t, err)
	assert.True(t, result.NewBalance.Equal(decimal.RequireFromString("70")))
	assert.True(t, result.Amount.Equal(decimal.RequireFromString("30")))
	assert.Equal(t, "Alice", result.Recipient)

	assert.True(t, memStore.Balance("4491").Equal(decimal.RequireFromString("70")))
	assert.Equal(t, 1, memStore.EntryCount("4491"))
}

func TestTransfer_InsufficientFunds_NoSideEffects(t *testing.T) {
	svc, memStore := newMemoryService(t, 2)
	memStore.AddCard("4491", decimal.RequireFromString("70.00"))

	_, err := svc.Transfer(context.Background(), "4491", decimal.RequireFromString("1000"), "Alice")

	assert.ErrorIs(t, err, ErrInsufficientFunds)
	assert.True(t, memStore.Balance("4491").Equal(decimal.RequireFromString("70.00")))
	assert.Equal(t, 0, memStore.EntryCount("4491"))
}

func TestTransfer_CardNotFound(t *testing.T) {
	svc, _ := newMemoryService(t, 2)

	_, err := svc.Transfer(context.Background(), "0000", decimal.RequireFromString("10"), "Alice")

	assert.ErrorIs(t, err, ErrCardNotFound)
}

func TestTransfer_StoreFailureWrapped(t *testing.T) {
	svc, _, _, processor := newMockedService(t)

	processor.On("Process", mock.Anything, mock.Anything).Return(errors.New("connection refused"))

	_, err := svc.Transfer(context.Background(), "4491", decimal.RequireFromString("10"), "Alice")

	assert.ErrorIs(t, err, ErrStoreUnavailable)
}

// -- TopUp tests --

func TestTopUp_InvalidAmount_NoStoreAccess(t *testing.T) {
	svc, cards, _, processor := newMockedService(t)

	_, err := svc.TopUp(context.Background(), "4491", decimal.RequireFromString("-5"))

	assert.ErrorIs(t, err, ErrInvalidAmount)
	cards.AssertNotCalled(t, "FindByNumber")
	processor.AssertNotCalled(t, "Process")
}

func TestTopUp_Success(t *testing.T) {
	svc, memStore := newMemoryService(t, 2)
	memStore.AddCard("4491", decimal.RequireFromString("70.00"))

	result, err := svc.TopUp(context.Background(), "4491", decimal.RequireFromString("30"))

	assert.NoError(t, err)
	assert.True(t, result.NewBalance.Equal(decimal.RequireFromString("100.00")))
	assert.True(t, memStore.Balance("4491").Equal(decimal.RequireFromString("100.00")))
	assert.Equal(t, 1, memStore.EntryCount("4491"))
}

// -- invariant properties --

func TestConservation_AcrossMixedOperations(t *testing.T) {
	svc, memStore := newMemoryService(t, 2)
	initial := decimal.RequireFromString("500.00")
	memStore.AddCard("4491", initial)

	incomes := []string{"10.50", "0.01", "99.99"}
	expenses := []string{"25.00", "3.33"}

	total := initial
	for _, amount := range incomes {
		_, err := svc.TopUp(context.Background(), "4491", decimal.RequireFromString(amount))
		assert.NoError(t, err)
		total = total.Add(decimal.RequireFromString(amount))
	}
	for _, amount := range expenses {
		_, err := svc.Transfer(context.Background(), "4491", decimal.RequireFromString(amount), "Bob")
		assert.NoError(t, err)
		total = total.Sub(decimal.RequireFromString(amount))
	}

	// final == initial + sum(income) - sum(expense), exactly.
	assert.True(t, memStore.Balance("4491").Equal(total))
	// One ledger entry per committed mutation.
	assert.Equal(t, len(incomes)+len(expenses), memStore.EntryCount("4491"))
}

func TestTransfer_SerializedUnderConcurrency(t *testing.T) {
	const n = 8

	svc, memStore := newMemoryService(t, n)
	balance := decimal.RequireFromString("100.00")
	memStore.AddCard("4491", balance)

	// N concurrent transfers each requesting the full balance: exactly one
	// may commit, the rest must see the drained balance and be rejected.
	results := make(chan error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Transfer(context.Background(), "4491", balance, "Alice")
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	successes := 0
	rejections := 0
	for err := range results {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, ErrInsufficientFunds):
			rejections++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, 1, successes)
	assert.Equal(t, n-1, rejections)
	assert.True(t, memStore.Balance("4491").IsZero())
	assert.Equal(t, 1, memStore.EntryCount("4491"))
}
