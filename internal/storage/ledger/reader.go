package ledger

import (
	"context"

	"github.com/gofrs/uuid/v5"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/scan"
)

var entryColumns = []string{"id", "card_id", "transaction_type", "amount", "recipient", "description", "category", "created_at"}

type Reader struct {
	exec bob.Executor
}

func NewReader(exec bob.Executor) *Reader {
	return &Reader{exec: exec}
}

// ListByCard returns the newest entries for a card, most recent first.
// Ties on created_at fall back to id, which is monotonic by insertion.
func (r *Reader) ListByCard(ctx context.Context, cardID uuid.UUID, limit int) ([]*Entry, error) {
	q := psql.Select(
		sm.Columns(toAnySlice(entryColumns)...),
		sm.From("transactions"),
		sm.Where(psql.Quote("card_id").EQ(psql.Arg(cardID))),
		sm.OrderBy("created_at").Desc(),
		sm.OrderBy("id").Desc(),
		sm.Limit(limit),
	)

	rows, err := bob.All(ctx, r.exec, q, scan.StructMapper[Entry]())
	if err != nil {
		return nil, err
	}

	result := make([]*Entry, len(rows))
	for i := range rows {
		result[i] = &rows[i]
	}
	return result, nil
}

func toAnySlice(columns []string) []any {
	out := make([]any, len(columns))
	for i, c := range columns {
		out[i] = c
	}
	return out
}
