package ledger

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
)

// EntryType distinguishes credits from debits. The stored amount is always
// positive; the sign lives here.
type EntryType string

const (
	EntryTypeIncome  EntryType = "income"
	EntryTypeExpense EntryType = "expense"
)

// Entry represents one immutable ledger row. Entries are only ever created
// inside the same transaction as the balance write they describe.
type Entry struct {
	ID          int64           `db:"id"`
	CardID      uuid.UUID       `db:"card_id"`
	Type        EntryType       `db:"transaction_type"`
	Amount      decimal.Decimal `db:"amount"`
	Recipient   string          `db:"recipient"`
	Description string          `db:"description"`
	Category    string          `db:"category"`
	CreatedAt   time.Time       `db:"created_at"`
}

// EntryCreate is the input for appending a new ledger entry.
type EntryCreate struct {
	CardID      uuid.UUID
	Type        EntryType
	Amount      decimal.Decimal
	Recipient   string
	Description string
	Category    string
}

// IEntryReader defines read-only ledger listings.
type IEntryReader interface {
	ListByCard(ctx context.Context, cardID uuid.UUID, limit int) ([]*Entry, error)
}

// IEntryTx defines ledger operations available inside a unit of work.
type IEntryTx interface {
	Insert(ctx context.Context, create *EntryCreate) (*Entry, error)
}
