package service

import (
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/card-ledger-server/internal/storage"
)

// Service holds all business logic services.
type Service struct {
	Card *CardService
}

// NewService creates a new Service with the given storage and operator.
func NewService(store *storage.Storage, op AtomicProcessor, log *logrus.Logger) *Service {
	return &Service{
		Card: NewCardService(store, op, log),
	}
}
