package service

import (
	"errors"

	"github.com/carson-networks/card-ledger-server/internal/operator/actions"
)

// The full failure taxonomy of the money-movement core. Not-found and
// insufficient-funds originate inside the atomic unit, so their sentinels
// live in the actions package and are aliased here for callers.
var (
	ErrCardNotFound      = actions.ErrCardNotFound
	ErrInsufficientFunds = actions.ErrInsufficientFunds
	ErrInvalidAmount     = errors.New("amount must be positive")
	ErrStoreUnavailable  = errors.New("storage unavailable")
)
