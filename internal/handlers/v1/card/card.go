package card

import (
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/card-ledger-server/internal/service"
)

// defaultCardNumber is substituted when a request names no card, matching the
// demo card seeded by the migrations.
const defaultCardNumber = "2202 2032 4554 4491"

// Transaction is the API response model for a ledger entry.
type Transaction struct {
	ID          int64  `json:"id" doc:"Entry ID"`
	Type        string `json:"transaction_type" doc:"income or expense"`
	Amount      string `json:"amount" doc:"Decimal amount, always positive"`
	Recipient   string `json:"recipient,omitempty" doc:"Recipient, present for transfers"`
	Description string `json:"description" doc:"Entry description"`
	Category    string `json:"category" doc:"Entry category"`
	Date        string `json:"date" doc:"Creation time, formatted DD Mon HH:MM"`
}

// entryDateFormat renders entry timestamps as "02 Jun 15:04".
const entryDateFormat = "02 Jan 15:04"

func cardNumberOrDefault(cardNumber string) string {
	if cardNumber == "" {
		return defaultCardNumber
	}
	return cardNumber
}

// mapServiceError translates the service error taxonomy to HTTP statuses:
// not-found 404, rejected amounts 400, everything else 500.
func mapServiceError(err error, internalMsg string) error {
	switch {
	case errors.Is(err, service.ErrCardNotFound):
		return huma.NewError(http.StatusNotFound, "Card not found")
	case errors.Is(err, service.ErrInvalidAmount):
		return huma.NewError(http.StatusBadRequest, "Amount must be positive")
	case errors.Is(err, service.ErrInsufficientFunds):
		return huma.NewError(http.StatusBadRequest, "Insufficient funds")
	default:
		return huma.NewError(http.StatusInternalServerError, internalMsg, err)
	}
}
