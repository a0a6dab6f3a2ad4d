package card

import (
	"context"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/bob/dialect/psql/um"
	"github.com/stephenafamo/scan"
)

type Writer struct {
	tx bob.Tx
	Reader
}

var _ ICardTx = (*Writer)(nil)

func NewWriter(tx bob.Tx) *Writer {
	return &Writer{
		tx: tx,
		Reader: Reader{
			exec: tx,
		},
	}
}

// FindByNumberForUpdate locks the card row until the transaction ends, so
// concurrent mutations of the same card serialize behind it.
func (w *Writer) FindByNumberForUpdate(ctx context.Context, cardNumber string) (*Card, error) {
	q := psql.Select(
		sm.Columns(toAnySlice(cardColumns)...),
		sm.From("cards"),
		sm.Where(psql.Quote("card_number").EQ(psql.Arg(cardNumber))),
		sm.ForUpdate(),
	)

	row, err := bob.One(ctx, w.tx, q, scan.StructMapper[Card]())
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (w *Writer) UpdateBalance(ctx context.Context, id uuid.UUID, balance decimal.Decimal) error {
	q := psql.Update(
		um.Table("cards"),
		um.SetCol("balance").ToArg(balance),
		um.Where(psql.Quote("id").EQ(psql.Arg(id))),
	)

	_, err := bob.Exec(ctx, w.tx, q)
	return err
}
