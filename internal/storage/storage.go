package storage

import (
	"context"
	"database/sql"

	_ "github.com/lib/pq"
	"github.com/stephenafamo/bob"

	"github.com/carson-networks/card-ledger-server/internal/config"
	"github.com/carson-networks/card-ledger-server/internal/storage/card"
	"github.com/carson-networks/card-ledger-server/internal/storage/ledger"
)

// Storage is the root of the ledger store: read gateways for cards and
// entries, plus the entry point for transactional units of work.
type Storage struct {
	DB      *sql.DB
	Cards   card.ICardReader
	Entries ledger.IEntryReader

	bdb bob.DB
}

func NewStorage(env *config.Config) (*Storage, error) {
	db, err := sql.Open("postgres", env.ConnectionString())
	if err != nil {
		return nil, err
	}

	bdb := bob.NewDB(db)

	return &Storage{
		DB:      db,
		Cards:   card.NewReader(bdb),
		Entries: ledger.NewReader(bdb),
		bdb:     bdb,
	}, nil
}

// Write begins a unit of work. The caller must finish it with exactly one of
// Commit or Rollback.
func (s *Storage) Write(ctx context.Context) (UnitOfWork, error) {
	tx, err := s.bdb.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return NewWriter(tx), nil
}
