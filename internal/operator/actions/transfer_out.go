package actions

import (
	"context"
	"database/sql"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/carson-networks/card-ledger-server/internal/storage"
	"github.com/carson-networks/card-ledger-server/internal/storage/ledger"
)

// TransferOut debits a card and appends the matching expense entry in one
// unit of work. The row lock taken by the for-update lookup serializes
// concurrent movements on the same card, so the funds check always sees the
// latest committed balance.
type TransferOut struct {
	CardNumber string
	Amount     decimal.Decimal
	Recipient  string

	// Set by Perform on success.
	NewBalance decimal.Decimal
	Entry      *ledger.Entry
}

func (t *TransferOut) Perform(ctx context.Context, writer storage.UnitOfWork) error {
	c, err := writer.Cards().FindByNumberForUpdate(ctx, t.CardNumber)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrCardNotFound
	}
	if err != nil {
		return err
	}

	if c.Balance.LessThan(t.Amount) {
		return ErrInsufficientFunds
	}

	newBalance := c.Balance.Sub(t.Amount)

	entry, err := writer.Entries().Insert(ctx, &ledger.EntryCreate{
		CardID:      c.ID,
		Type:        ledger.EntryTypeExpense,
		Amount:      t.Amount,
		Recipient:   t.Recipient,
		Description: "Transfer to " + t.Recipient,
		Category:    "Transfer",
	})
	if err != nil {
		return err
	}

	if err := writer.Cards().UpdateBalance(ctx, c.ID, newBalance); err != nil {
		return err
	}

	t.NewBalance = newBalance
	t.Entry = entry
	return nil
}
