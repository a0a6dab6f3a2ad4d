package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/card-ledger-server/internal/operator/actions"
	"github.com/carson-networks/card-ledger-server/internal/storage"
)

const defaultHistoryLimit = 10

// AtomicProcessor runs an action inside one commit-or-rollback unit of work.
type AtomicProcessor interface {
	Process(ctx context.Context, action actions.IAction) error
}

// CardService handles balance inquiry, history, and money movement for cards.
type CardService struct {
	storage  *storage.Storage
	operator AtomicProcessor
	log      *logrus.Logger
}

// NewCardService creates a new CardService.
func NewCardService(store *storage.Storage, op AtomicProcessor, log *logrus.Logger) *CardService {
	return &CardService{storage: store, operator: op, log: log}
}

// GetBalance returns the current view of a card.
func (s *CardService) GetBalance(ctx context.Context, cardNumber string) (*Card, error) {
	row, err := s.storage.Cards.FindByNumber(ctx, cardNumber)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCardNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	return &Card{
		ID:         row.ID,
		CardNumber: row.CardNumber,
		Balance:    row.Balance,
		CardType:   row.CardType,
		Expiry:     row.Expiry,
		CVV:        row.CVV,
	}, nil
}

// ListHistory returns the newest ledger entries for a card, most recent
// first. A non-positive limit falls back to the default page size.
func (s *CardService) ListHistory(ctx context.Context, cardNumber string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}

	row, err := s.storage.Cards.FindByNumber(ctx, cardNumber)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCardNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	rows, err := s.storage.Entries.ListByCard(ctx, row.ID, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	entries := make([]Entry, len(rows))
	for i, r := range rows {
		entries[i] = Entry{
			ID:          r.ID,
			Type:        string(r.Type),
			Amount:      r.Amount,
			Recipient:   r.Recipient,
			Description: r.Description,
			Category:    r.Category,
			CreatedAt:   r.CreatedAt,
		}
	}
	return entries, nil
}

// Transfer debits the card and appends the matching expense entry atomically.
// The amount is validated before any store access.
func (s *CardService) Transfer(ctx context.Context, cardNumber string, amount decimal.Decimal, recipient string) (*TransferResult, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	action := &actions.TransferOut{
		CardNumber: cardNumber,
		Amount:     amount,
		Recipient:  recipient,
	}

	if err := s.operator.Process(ctx, action); err != nil {
		return nil, s.mapActionError(err)
	}

	s.log.WithFields(logrus.Fields{
		"card":       cardNumber,
		"amount":     amount.String(),
		"newBalance": action.NewBalance.String(),
	}).Info("CardService.Transfer.committed")

	return &TransferResult{
		NewBalance: action.NewBalance,
		Amount:     amount,
		Recipient:  recipient,
	}, nil
}

// TopUp credits the card and appends the matching income entry atomically.
func (s *CardService) TopUp(ctx context.Context, cardNumber string, amount decimal.Decimal) (*TopUpResult, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	action := &actions.TopUp{
		CardNumber: cardNumber,
		Amount:     amount,
	}

	if err := s.operator.Process(ctx, action); err != nil {
		return nil, s.mapActionError(err)
	}

	s.log.WithFields(logrus.Fields{
		"card":       cardNumber,
		"amount":     amount.String(),
		"newBalance": action.NewBalance.String(),
	}).Info("CardService.TopUp.committed")

	return &TopUpResult{
		NewBalance: action.NewBalance,
		Amount:     amount,
	}, nil
}

// mapActionError keeps the typed rejections intact and folds everything else
// into the store-unavailable kind.
func (s *CardService) mapActionError(err error) error {
	if errors.Is(err, ErrCardNotFound) || errors.Is(err, ErrInsufficientFunds) {
		return err
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
}
