// Package storagetest provides an in-memory ledger store for tests. It
// reproduces the locking semantics of the SQL store: a for-update lookup
// holds the card's row lock until the unit of work commits or rolls back,
// and staged writes become visible only on commit.
package storagetest

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/card-ledger-server/internal/storage"
	"github.com/carson-networks/card-ledger-server/internal/storage/card"
	"github.com/carson-networks/card-ledger-server/internal/storage/ledger"
)

type Store struct {
	mu        sync.Mutex
	cards     map[string]*card.Card
	cardsByID map[uuid.UUID]*card.Card
	locks     map[uuid.UUID]*sync.Mutex
	entries   map[uuid.UUID][]*ledger.Entry
	nextID    int64

	// Failure injection.
	WriteErr  error
	InsertErr error
	CommitErr error
}

func New() *Store {
	return &Store{
		cards:     make(map[string]*card.Card),
		cardsByID: make(map[uuid.UUID]*card.Card),
		locks:     make(map[uuid.UUID]*sync.Mutex),
		entries:   make(map[uuid.UUID][]*ledger.Entry),
	}
}

// AddCard seeds a committed card and returns a snapshot of it.
func (s *Store) AddCard(cardNumber string, balance decimal.Decimal) *card.Card {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := &card.Card{
		ID:         uuid.Must(uuid.NewV4()),
		CardNumber: cardNumber,
		Balance:    balance,
		CreatedAt:  time.Now(),
	}
	s.cards[cardNumber] = c
	s.cardsByID[c.ID] = c
	s.locks[c.ID] = &sync.Mutex{}

	cp := *c
	return &cp
}

// Balance returns the committed balance of a card.
func (s *Store) Balance(cardNumber string) decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cards[cardNumber].Balance
}

// EntryCount returns the number of committed ledger entries for a card.
func (s *Store) EntryCount(cardNumber string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.cards[cardNumber]
	if !ok {
		return 0
	}
	return len(s.entries[c.ID])
}

// FindByNumber implements card.ICardReader against committed state.
func (s *Store) FindByNumber(ctx context.Context, cardNumber string) (*card.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.cards[cardNumber]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *c
	return &cp, nil
}

// ListByCard implements ledger.IEntryReader: newest first, truncated to limit.
func (s *Store) ListByCard(ctx context.Context, cardID uuid.UUID, limit int) ([]*ledger.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	committed := s.entries[cardID]
	result := make([]*ledger.Entry, 0, limit)
	for i := len(committed) - 1; i >= 0 && len(result) < limit; i-- {
		cp := *committed[i]
		result = append(result, &cp)
	}
	return result, nil
}

// Write implements the operator's WriteStore.
func (s *Store) Write(ctx context.Context) (storage.UnitOfWork, error) {
	if s.WriteErr != nil {
		return nil, s.WriteErr
	}
	return &unit{
		store:    s,
		locked:   make(map[uuid.UUID]*sync.Mutex),
		balances: make(map[uuid.UUID]decimal.Decimal),
	}, nil
}

// unit is one in-flight unit of work: staged writes plus held row locks.
type unit struct {
	store    *Store
	locked   map[uuid.UUID]*sync.Mutex
	balances map[uuid.UUID]decimal.Decimal
	staged   []*ledger.Entry
}

var _ storage.UnitOfWork = (*unit)(nil)

func (u *unit) Cards() card.ICardTx      { return u }
func (u *unit) Entries() ledger.IEntryTx { return u }

// FindByNumberForUpdate blocks on the card's row lock, then snapshots the
// committed state, exactly like SELECT ... FOR UPDATE.
func (u *unit) FindByNumberForUpdate(ctx context.Context, cardNumber string) (*card.Card, error) {
	u.store.mu.Lock()
	c, ok := u.store.cards[cardNumber]
	if !ok {
		u.store.mu.Unlock()
		return nil, sql.ErrNoRows
	}
	rowLock := u.store.locks[c.ID]
	u.store.mu.Unlock()

	if _, held := u.locked[c.ID]; !held {
		rowLock.Lock()
		u.locked[c.ID] = rowLock
	}

	u.store.mu.Lock()
	defer u.store.mu.Unlock()
	cp := *u.store.cardsByID[c.ID]
	return &cp, nil
}

func (u *unit) UpdateBalance(ctx context.Context, id uuid.UUID, balance decimal.Decimal) error {
	u.balances[id] = balance
	return nil
}

func (u *unit) Insert(ctx context.Context, create *ledger.EntryCreate) (*ledger.Entry, error) {
	if u.store.InsertErr != nil {
		return nil, u.store.InsertErr
	}

	u.store.mu.Lock()
	u.store.nextID++
	id := u.store.nextID
	u.store.mu.Unlock()

	entry := &ledger.Entry{
		ID:          id,
		CardID:      create.CardID,
		Type:        create.Type,
		Amount:      create.Amount,
		Recipient:   create.Recipient,
		Description: create.Description,
		Category:    create.Category,
		CreatedAt:   time.Now(),
	}
	u.staged = append(u.staged, entry)

	cp := *entry
	return &cp, nil
}

func (u *unit) Commit() error {
	defer u.releaseLocks()

	if u.store.CommitErr != nil {
		return u.store.CommitErr
	}

	u.store.mu.Lock()
	defer u.store.mu.Unlock()

	for id, balance := range u.balances {
		u.store.cardsByID[id].Balance = balance
	}
	for _, entry := range u.staged {
		u.store.entries[entry.CardID] = append(u.store.entries[entry.CardID], entry)
	}
	return nil
}

func (u *unit) Rollback() error {
	defer u.releaseLocks()
	u.balances = map[uuid.UUID]decimal.Decimal{}
	u.staged = nil
	return nil
}

func (u *unit) releaseLocks() {
	for id, rowLock := range u.locked {
		rowLock.Unlock()
		delete(u.locked, id)
	}
}
