package actions

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/carson-networks/card-ledger-server/internal/storage/ledger"
	"github.com/carson-networks/card-ledger-server/internal/storage/storagetest"
)

func TestTransferOut_Success(t *testing.T) {
	store := storagetest.New()
	store.AddCard("4491", decimal.RequireFromString("100.00"))

	writer, err := store.Write(context.Background())
	assert.NoError(t, err)

	action := &TransferOut{
		CardNumber: "4491",
		Amount:     decimal.RequireFromString("30"),
		Recipient:  "Alice",
	}

	assert.NoError(t, action.Perform(context.Background(), writer))
	assert.NoError(t, writer.Commit())

	assert.True(t, action.NewBalance.Equal(decimal.RequireFromString("70")))
	assert.True(t, store.Balance("4491").Equal(decimal.RequireFromString("70")))
	assert.Equal(t, 1, store.EntryCount("4491"))

	assert.NotNil(t, action.Entry)
	assert.Equal(t, ledger.EntryTypeExpense, action.Entry.Type)
	assert.True(t, action.Entry.Amount.Equal(decimal.RequireFromString("30")))
	assert.Equal(t, "Alice", action.Entry.Recipient)
	assert.Equal(t, "Transfer to Alice", action.Entry.Description)
	assert.Equal(t, "Transfer", action.Entry.Category)
}

func TestTransferOut_InsufficientFunds(t *testing.T) {
	store := storagetest.New()
	store.AddCard("4491", decimal.RequireFromString("70.00"))

	writer, err := store.Write(context.Background())
	assert.NoError(t, err)

	action := &TransferOut{
		CardNumber: "4491",
		Amount:     decimal.RequireFromString("1000"),
		Recipient:  "Alice",
	}

	err = action.Perform(context.Background(), writer)
	assert.ErrorIs(t, err, ErrInsufficientFunds)
	assert.NoError(t, writer.Rollback())

	// Rejection leaves balance and ledger untouched.
	assert.True(t, store.Balance("4491").Equal(decimal.RequireFromString("70.00")))
	assert.Equal(t, 0, store.EntryCount("4491"))
}

func TestTransferOut_ExactBalanceAllowed(t *testing.T) {
	store := storagetest.New()
	store.AddCard("4491", decimal.RequireFromString("55.55"))

	writer, err := store.Write(context.Background())
	assert.NoError(t, err)

	action := &TransferOut{
		CardNumber: "4491",
		Amount:     decimal.RequireFromString("55.55"),
		Recipient:  "Bob",
	}

	assert.NoError(t, action.Perform(context.Background(), writer))
	assert.NoError(t, writer.Commit())

	assert.True(t, store.Balance("4491").IsZero())
}

func TestTransferOut_CardNotFound(t *testing.T) {
	store := storagetest.New()

	writer, err := store.Write(context.Background())
	assert.NoError(t, err)

	action := &TransferOut{
		CardNumber: "0000",
		Amount:     decimal.RequireFromString("10"),
		Recipient:  "Alice",
	}

	err = action.Perform(context.Background(), writer)
	assert.ErrorIs(t, err, ErrCardNotFound)
	assert.NoError(t, writer.Rollback())
}

func TestTransferOut_EntryInsertFailureLeavesStateUnchanged(t *testing.T) {
	store := storagetest.New()
	store.AddCard("4491", decimal.RequireFromString("100.00"))
	store.InsertErr = errors.New("connection reset")

	writer, err := store.Write(context.Background())
	assert.NoError(t, err)

	action := &TransferOut{
		CardNumber: "4491",
		Amount:     decimal.RequireFromString("30"),
		Recipient:  "Alice",
	}

	err = action.Perform(context.Background(), writer)
	assert.Error(t, err)
	assert.NoError(t, writer.Rollback())

	assert.True(t, store.Balance("4491").Equal(decimal.RequireFromString("100.00")))
	assert.Equal(t, 0, store.EntryCount("4491"))
}
