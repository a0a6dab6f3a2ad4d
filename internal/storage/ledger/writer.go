package ledger

import (
	"context"

	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/scan"
)

type Writer struct {
	tx bob.Tx
	Reader
}

var _ IEntryTx = (*Writer)(nil)

func NewWriter(tx bob.Tx) *Writer {
	return &Writer{
		tx: tx,
		Reader: Reader{
			exec: tx,
		},
	}
}

func (w *Writer) Insert(ctx context.Context, create *EntryCreate) (*Entry, error) {
	q := psql.Insert(
		im.Into("transactions", "card_id", "transaction_type", "amount", "recipient", "description", "category"),
		im.Values(psql.Arg(create.CardID, string(create.Type), create.Amount, create.Recipient, create.Description, create.Category)),
		im.Returning(toAnySlice(entryColumns)...),
	)

	row, err := bob.One(ctx, w.tx, q, scan.StructMapper[Entry]())
	if err != nil {
		return nil, err
	}
	return &row, nil
}
