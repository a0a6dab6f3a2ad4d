package card

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/card-ledger-server/internal/logging"
	"github.com/carson-networks/card-ledger-server/internal/service"
)

// TopUpBody is the request body for adding money to a card.
type TopUpBody struct {
	CardNumber string `json:"card_number,omitempty" doc:"Card number, defaults to the demo card"`
	Amount     string `json:"amount" required:"true" doc:"Decimal amount to add"`
}

// TopUpInput is the Huma input for adding money.
type TopUpInput struct {
	Body TopUpBody
}

// TopUpResponseBody is the response body for a committed top-up.
type TopUpResponseBody struct {
	Success    bool   `json:"success" doc:"Always true on 200"`
	NewBalance string `json:"new_balance" doc:"Balance after the top-up"`
	Amount     string `json:"amount" doc:"Added amount"`
}

// TopUpOutput is the Huma output for a committed top-up.
type TopUpOutput struct {
	Body TopUpResponseBody
}

// topUpper is the interface for adding money to a card.
type topUpper interface {
	TopUp(ctx context.Context, cardNumber string, amount decimal.Decimal) (*service.TopUpResult, error)
}

// TopUpHandler handles POST /v1/card/top-up.
type TopUpHandler struct {
	CardService topUpper
}

// NewTopUpHandler creates a new TopUpHandler.
func NewTopUpHandler(svc topUpper) *TopUpHandler {
	return &TopUpHandler{CardService: svc}
}

// Register registers the top-up endpoint with the Huma API.
func (h *TopUpHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "top-up",
		Method:      http.MethodPost,
		Path:        "/v1/card/top-up",
		Summary:     "Add money",
		Description: "Credits the card and records an income entry atomically.",
		Tags:        []string{"Cards"},
	}, h.handle)
}

func (h *TopUpHandler) handle(ctx context.Context, input *TopUpInput) (*TopUpOutput, error) {
	logData := logging.GetLogData(ctx)

	cardNumber := cardNumberOrDefault(input.Body.CardNumber)

	amount, parseErr := decimal.NewFromString(input.Body.Amount)
	if parseErr != nil {
		return nil, huma.NewError(http.StatusBadRequest, "invalid amount", parseErr)
	}

	var stopTimer func()
	if logData != nil {
		stopTimer = logData.AddTiming("topUpMs")
	}
	result, err := h.CardService.TopUp(ctx, cardNumber, amount)
	if stopTimer != nil {
		stopTimer()
	}
	if err != nil {
		return nil, mapServiceError(err, "failed to add money")
	}

	if logData != nil {
		logData.AddData("newBalance", result.NewBalance.String())
	}

	return &TopUpOutput{
		Body: TopUpResponseBody{
			Success:    true,
			NewBalance: result.NewBalance.String(),
			Amount:     result.Amount.String(),
		},
	}, nil
}
