package card

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/card-ledger-server/internal/logging"
	"github.com/carson-networks/card-ledger-server/internal/service"
)

// GetBalanceInput is the Huma input for the balance view.
type GetBalanceInput struct {
	CardNumber string `query:"card_number" doc:"Card number, defaults to the demo card"`
}

// BalanceResponseBody is the response body for the balance view.
type BalanceResponseBody struct {
	ID         string `json:"id" doc:"Card UUID"`
	CardNumber string `json:"card_number" doc:"Card number"`
	Balance    string `json:"balance" doc:"Decimal balance"`
	CardType   string `json:"card_type" doc:"Card scheme"`
	Expiry     string `json:"expiry" doc:"Expiry MM/YY"`
	CVV        string `json:"cvv" doc:"Card verification value"`
}

// GetBalanceOutput is the Huma output for the balance view.
type GetBalanceOutput struct {
	Body BalanceResponseBody
}

// balanceReader is the interface for reading a card's balance.
type balanceReader interface {
	GetBalance(ctx context.Context, cardNumber string) (*service.Card, error)
}

// GetBalanceHandler handles GET /v1/card/balance.
type GetBalanceHandler struct {
	CardService balanceReader
}

// NewGetBalanceHandler creates a new GetBalanceHandler.
func NewGetBalanceHandler(svc balanceReader) *GetBalanceHandler {
	return &GetBalanceHandler{CardService: svc}
}

// Register registers the balance endpoint with the Huma API.
func (h *GetBalanceHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "get-balance",
		Method:      http.MethodGet,
		Path:        "/v1/card/balance",
		Summary:     "Get card balance",
		Description: "Returns the current balance and card details.",
		Tags:        []string{"Cards"},
	}, h.handle)
}

func (h *GetBalanceHandler) handle(ctx context.Context, input *GetBalanceInput) (*GetBalanceOutput, error) {
	logData := logging.GetLogData(ctx)

	cardNumber := cardNumberOrDefault(input.CardNumber)

	var stopTimer func()
	if logData != nil {
		stopTimer = logData.AddTiming("getBalanceMs")
	}
	view, err := h.CardService.GetBalance(ctx, cardNumber)
	if stopTimer != nil {
		stopTimer()
	}
	if err != nil {
		return nil, mapServiceError(err, "failed to read balance")
	}

	return &GetBalanceOutput{
		Body: BalanceResponseBody{
			ID:         view.ID.String(),
			CardNumber: view.CardNumber,
			Balance:    view.Balance.String(),
			CardType:   view.CardType,
			Expiry:     view.Expiry,
			CVV:        view.CVV,
		},
	}, nil
}
