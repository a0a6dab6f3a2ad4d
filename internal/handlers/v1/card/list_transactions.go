package card

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/card-ledger-server/internal/logging"
	"github.com/carson-networks/card-ledger-server/internal/service"
)

// ListTransactionsInput is the Huma input for listing a card's history.
type ListTransactionsInput struct {
	CardNumber string `query:"card_number" doc:"Card number, defaults to the demo card"`
	Limit      int    `query:"limit" minimum:"1" maximum:"100" doc:"Page size, default 10"`
}

// ListTransactionsResponseBody is the response body for listing history.
type ListTransactionsResponseBody struct {
	Transactions []Transaction `json:"transactions" doc:"Newest entries first"`
}

// ListTransactionsOutput is the Huma output for listing history.
type ListTransactionsOutput struct {
	Body ListTransactionsResponseBody
}

// historyLister is the interface for listing a card's ledger entries.
type historyLister interface {
	ListHistory(ctx context.Context, cardNumber string, limit int) ([]service.Entry, error)
}

// ListTransactionsHandler handles GET /v1/card/transactions.
type ListTransactionsHandler struct {
	CardService historyLister
}

// NewListTransactionsHandler creates a new ListTransactionsHandler.
func NewListTransactionsHandler(svc historyLister) *ListTransactionsHandler {
	return &ListTransactionsHandler{CardService: svc}
}

// Register registers the history endpoint with the Huma API.
func (h *ListTransactionsHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "list-card-transactions",
		Method:      http.MethodGet,
		Path:        "/v1/card/transactions",
		Summary:     "List card transactions",
		Description: "Returns the newest ledger entries for a card.",
		Tags:        []string{"Cards"},
	}, h.handle)
}

func (h *ListTransactionsHandler) handle(ctx context.Context, input *ListTransactionsInput) (*ListTransactionsOutput, error) {
	logData := logging.GetLogData(ctx)

	cardNumber := cardNumberOrDefault(input.CardNumber)

	var stopTimer func()
	if logData != nil {
		stopTimer = logData.AddTiming("listTransactionsMs")
	}
	entries, err := h.CardService.ListHistory(ctx, cardNumber, input.Limit)
	if stopTimer != nil {
		stopTimer()
	}
	if err != nil {
		return nil, mapServiceError(err, "failed to list transactions")
	}

	if logData != nil {
		logData.AddData("transactionCount", len(entries))
	}

	resp := ListTransactionsResponseBody{
		Transactions: make([]Transaction, len(entries)),
	}

	for i, e := range entries {
		resp.Transactions[i] = Transaction{
			ID:          e.ID,
			Type:        e.Type,
			Amount:      e.Amount.String(),
			Recipient:   e.Recipient,
			Description: e.Description,
			Category:    e.Category,
			Date:        e.CreatedAt.Format(entryDateFormat),
		}
	}

	return &ListTransactionsOutput{Body: resp}, nil
}
