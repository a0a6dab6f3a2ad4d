package card

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
)

// Card represents a card record.
type Card struct {
	ID         uuid.UUID       `db:"id"`
	CardNumber string          `db:"card_number"`
	Balance    decimal.Decimal `db:"balance"`
	CardType   string          `db:"card_type"`
	Expiry     string          `db:"expiry"`
	CVV        string          `db:"cvv"`
	CreatedAt  time.Time       `db:"created_at"`
}

// ICardReader defines read-only card lookups.
// This abstraction allows swapping the implementation without changing callers.
type ICardReader interface {
	FindByNumber(ctx context.Context, cardNumber string) (*Card, error)
}

// ICardTx defines card operations available inside a unit of work. The
// for-update lookup holds the row lock until the surrounding transaction
// commits or rolls back.
type ICardTx interface {
	FindByNumberForUpdate(ctx context.Context, cardNumber string) (*Card, error)
	UpdateBalance(ctx context.Context, id uuid.UUID, balance decimal.Decimal) error
}
