package service

import (
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
)

// Card represents a card in the service layer.
type Card struct {
	ID         uuid.UUID
	CardNumber string
	Balance    decimal.Decimal
	CardType   string
	Expiry     string
	CVV        string
}

// Entry represents a ledger entry in the service layer.
type Entry struct {
	ID          int64
	Type        string
	Amount      decimal.Decimal
	Recipient   string
	Description string
	Category    string
	CreatedAt   time.Time
}

// TransferResult is the outcome of a committed transfer.
type TransferResult struct {
	NewBalance decimal.Decimal
	Amount     decimal.Decimal
	Recipient  string
}

// TopUpResult is the outcome of a committed top-up.
type TopUpResult struct {
	NewBalance decimal.Decimal
	Amount     decimal.Decimal
}
