package actions

import (
	"context"
	"errors"

	"github.com/carson-networks/card-ledger-server/internal/storage"
)

type IAction interface {
	Perform(ctx context.Context, writer storage.UnitOfWork) error
}

var (
	// ErrCardNotFound is returned when no card matches the given number.
	ErrCardNotFound = errors.New("card not found")

	// ErrInsufficientFunds is returned when a debit would push the balance
	// below zero. The unit of work is rolled back untouched.
	ErrInsufficientFunds = errors.New("insufficient funds")
)
