package storage

import (
	"github.com/stephenafamo/bob"

	"github.com/carson-networks/card-ledger-server/internal/storage/card"
	"github.com/carson-networks/card-ledger-server/internal/storage/ledger"
)

// UnitOfWork groups the mutations of one atomic operation. Everything done
// through it commits or rolls back together; the card row lock taken by
// Cards().FindByNumberForUpdate is held until either call.
type UnitOfWork interface {
	Cards() card.ICardTx
	Entries() ledger.IEntryTx
	Commit() error
	Rollback() error
}

type Writer struct {
	tx      bob.Tx
	cards   *card.Writer
	entries *ledger.Writer
}

var _ UnitOfWork = (*Writer)(nil)

func NewWriter(tx bob.Tx) *Writer {
	return &Writer{
		tx:      tx,
		cards:   card.NewWriter(tx),
		entries: ledger.NewWriter(tx),
	}
}

func (w *Writer) Cards() card.ICardTx {
	return w.cards
}

func (w *Writer) Entries() ledger.IEntryTx {
	return w.entries
}

func (w *Writer) Commit() error {
	return w.tx.Commit()
}

func (w *Writer) Rollback() error {
	return w.tx.Rollback()
}
