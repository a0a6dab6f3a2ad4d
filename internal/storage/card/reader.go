package card

import (
	"context"

	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/scan"
)

var cardColumns = []string{"id", "card_number", "balance", "card_type", "expiry", "cvv", "created_at"}

type Reader struct {
	exec bob.Executor
}

func NewReader(exec bob.Executor) *Reader {
	return &Reader{exec: exec}
}

func (r *Reader) FindByNumber(ctx context.Context, cardNumber string) (*Card, error) {
	q := psql.Select(
		sm.Columns(toAnySlice(cardColumns)...),
		sm.From("cards"),
		sm.Where(psql.Quote("card_number").EQ(psql.Arg(cardNumber))),
	)

	row, err := bob.One(ctx, r.exec, q, scan.StructMapper[Card]())
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func toAnySlice(columns []string) []any {
	out := make([]any, len(columns))
	for i, c := range columns {
		out[i] = c
	}
	return out
}
