package card

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/card-ledger-server/internal/logging"
	"github.com/carson-networks/card-ledger-server/internal/service"
)

// TransferBody is the request body for an outbound transfer.
type TransferBody struct {
	CardNumber string `json:"card_number,omitempty" doc:"Card number, defaults to the demo card"`
	Amount     string `json:"amount" required:"true" doc:"Decimal amount to transfer"`
	Recipient  string `json:"recipient" required:"true" minLength:"1" doc:"Transfer recipient"`
}

// TransferInput is the Huma input for an outbound transfer.
type TransferInput struct {
	Body TransferBody
}

// TransferResponseBody is the response body for a committed transfer.
type TransferResponseBody struct {
	Success    bool   `json:"success" doc:"Always true on 200"`
	NewBalance string `json:"new_balance" doc:"Balance after the transfer"`
	Amount     string `json:"amount" doc:"Transferred amount"`
	Recipient  string `json:"recipient" doc:"Transfer recipient"`
}

// TransferOutput is the Huma output for a committed transfer.
type TransferOutput struct {
	Body TransferResponseBody
}

// transferrer is the interface for moving money off a card.
type transferrer interface {
	Transfer(ctx context.Context, cardNumber string, amount decimal.Decimal, recipient string) (*service.TransferResult, error)
}

// TransferHandler handles POST /v1/card/transfer.
type TransferHandler struct {
	CardService transferrer
}

// NewTransferHandler creates a new TransferHandler.
func NewTransferHandler(svc transferrer) *TransferHandler {
	return &TransferHandler{CardService: svc}
}

// Register registers the transfer endpoint with the Huma API.
func (h *TransferHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "transfer",
		Method:      http.MethodPost,
		Path:        "/v1/card/transfer",
		Summary:     "Transfer money out",
		Description: "Debits the card and records an expense entry atomically.",
		Tags:        []string{"Cards"},
	}, h.handle)
}

func parseTransferInput(input *TransferInput) (cardNumber string, amount decimal.Decimal, recipient string, err error) {
	cardNumber = cardNumberOrDefault(input.Body.CardNumber)

	amount, parseErr := decimal.NewFromString(input.Body.Amount)
	if parseErr != nil {
		return "", decimal.Decimal{}, "", huma.NewError(http.StatusBadRequest, "invalid amount", parseErr)
	}

	return cardNumber, amount, input.Body.Recipient, nil
}

func (h *TransferHandler) handle(ctx context.Context, input *TransferInput) (*TransferOutput, error) {
	logData := logging.GetLogData(ctx)

	cardNumber, amount, recipient, err := parseTransferInput(input)
	if err != nil {
		return nil, err
	}

	var stopTimer func()
	if logData != nil {
		stopTimer = logData.AddTiming("transferMs")
	}
	result, err := h.CardService.Transfer(ctx, cardNumber, amount, recipient)
	if stopTimer != nil {
		stopTimer()
	}
	if err != nil {
		return nil, mapServiceError(err, "failed to transfer")
	}

	if logData != nil {
		logData.AddData("newBalance", result.NewBalance.String())
	}

	return &TransferOutput{
		Body: TransferResponseBody{
			Success:    true,
			NewBalance: result.NewBalance.String(),
			Amount:     result.Amount.String(),
			Recipient:  result.Recipient,
		},
	}, nil
}
