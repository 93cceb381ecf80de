package core

// pipeline.go runs the single-pass cleaning pass over one table:
// header validation, then per-row normalize + validate. The pass is
// synchronous and idempotent; given the same input table and rules it
// produces the same dataset (batch ID aside).

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// ContextCheckInterval is how often (in rows) to check for context
// cancellation. Checking every row would be wasteful; every 100 rows is
// typically sub-millisecond of processing.
var ContextCheckInterval = 100

// RunPipeline normalizes and validates every row of the input table and
// returns the cleaned dataset. Recoverable issues become per-record
// reasons; structural issues (duplicate identifiers, missing required
// columns, no data rows) abort the run with an error.
func RunPipeline(ctx context.Context, table, keyColumn string, specs []FieldSpec, in Table, rules Rules) (*Dataset, error) {
	idx, err := ValidateHeaders(table, in.Headers, specs)
	if err != nil {
		return nil, err
	}

	norm := NewNormalizer(specs, idx, rules)
	val := NewRowValidator(table, keyColumn, specs, idx, rules)

	records := make([]RecordOutcome, 0, len(in.Rows))
	for i, row := range in.Rows {
		if i%ContextCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("pipeline cancelled: %w", err)
			}
		}

		if IsEmptyRow(row) {
			continue
		}

		// Header occupies line 1; data rows start at line 2.
		line := i + 2

		nrow, coercions := norm.NormalizeRow(row)
		reasons, err := val.ValidateRow(line, nrow)
		if err != nil {
			return nil, err
		}

		records = append(records, RecordOutcome{
			Line:      line,
			ID:        cellAt(nrow, idx, keyColumn),
			Status:    statusFor(reasons, coercions),
			Reasons:   reasons,
			Coercions: coercions,
			Row:       nrow,
		})
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("%s: %w", table, ErrEmptyTable)
	}

	return &Dataset{
		BatchID: uuid.New().String(),
		Name:    table,
		Headers: in.Headers,
		Index:   idx,
		Records: records,
	}, nil
}

// cellAt returns the named column value of a row, or "".
func cellAt(row []string, idx HeaderIndex, name string) string {
	pos, ok := idx[name]
	if !ok || pos >= len(row) {
		return ""
	}
	return row[pos]
}
