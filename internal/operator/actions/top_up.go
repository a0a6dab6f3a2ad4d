package actions

import (
	"context"
	"database/sql"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/carson-networks/card-ledger-server/internal/storage"
	"github.com/carson-networks/card-ledger-server/internal/storage/ledger"
)

// TopUp credits a card and appends the matching income entry in one unit of
// work.
type TopUp struct {
	CardNumber string
	Amount     decimal.Decimal

	// Set by Perform on success.
	NewBalance decimal.Decimal
	Entry      *ledger.Entry
}

func (t *TopUp) Perform(ctx context.Context, writer storage.UnitOfWork) error {
	c, err := writer.Cards().FindByNumberForUpdate(ctx, t.CardNumber)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrCardNotFound
	}
	if err != nil {
		return err
	}

	newBalance := c.Balance.Add(t.Amount)

	entry, err := writer.Entries().Insert(ctx, &ledger.EntryCreate{
		CardID:      c.ID,
		Type:        ledger.EntryTypeIncome,
		Amount:      t.Amount,
		Description: "Account top-up",
		Category:    "Income",
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
