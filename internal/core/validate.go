package core

// validate.go applies the integrity rules to normalized rows.
//
// Rule failures come in two severities:
//   - Recoverable: bad email, bad date, bad amount, empty required field,
//     missing identifier. These become reasons on the record; the record
//     stays in the output and the batch completes.
//   - Structural: a duplicate identifier within a table. The first
//     occurrence registers the key; any later occurrence aborts the whole
//     batch with a DuplicateKeyError naming the key.

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// RowValidator validates normalized rows of one table. It tracks seen
// identifiers, so a single instance must be used for exactly one batch.
type RowValidator struct {
	table     string
	keyColumn string
	specs     []FieldSpec
	idx       HeaderIndex
	rules     Rules
	validate  *validator.Validate
	seen      map[string]int // identifier -> line of first occurrence
}

// NewRowValidator creates a validator for one batch of the given table.
func NewRowValidator(table, keyColumn string, specs []FieldSpec, idx HeaderIndex, rules Rules) *RowValidator {
	return &RowValidator{
		table:     table,
		keyColumn: keyColumn,
		specs:     specs,
		idx:       idx,
		rules:     rules,
		validate:  validator.New(),
		seen:      make(map[string]int),
	}
}

// ValidateRow checks one normalized row. It returns the recoverable
// reasons found, or a DuplicateKeyError if the row repeats an identifier
// already seen in this batch.
func (v *RowValidator) ValidateRow(line int, row []string) ([]string, error) {
	var reasons []string

	id := v.cell(row, v.keyColumn)
	if id == "" {
		reasons = append(reasons, ReasonMissingID)
	} else if first, dup := v.seen[id]; dup {
		return nil, &DuplicateKeyError{Table: v.table, Key: id, FirstLine: first, Line: line}
	} else {
		v.seen[id] = line
	}

	for _, spec := range v.specs {
		if spec.Name == v.keyColumn {
			continue
		}

		pos, ok := v.idx[spec.Name]
		if !ok || pos >= len(row) {
			continue
		}

		raw := row[pos]
		if raw == "" {
			if spec.Type == FieldEmail && !v.rules.RequireEmail {
				continue
			}
			if spec.Required && !spec.AllowEmpty {
				reasons = append(reasons, ReasonEmptyField)
			}
			continue
		}

		switch spec.Type {
		case FieldEmail:
			if err := v.validate.Var(raw, "email"); err != nil {
				reasons = append(reasons, ReasonBadEmail)
			}
		case FieldDate:
			if !ToDate(raw, v.rules.TwoDigitYearPivot).Valid {
				reasons = append(reasons, ReasonBadDate)
			}
		case FieldNumeric:
			if !ToNumeric(raw).Valid {
				reasons = append(reasons, ReasonBadAmount)
			}
		}
	}

	return reasons, nil
}

// cell returns the named column value of a row, or "".
func (v *RowValidator) cell(row []string, name string) string {
	pos, ok := v.idx[name]
	if !ok || pos >= len(row) {
		return ""
	}
	return row[pos]
}

// ValidateHeaders checks that all required columns exist in the CSV header
// and returns the header index used by the rest of the pipeline.
func ValidateHeaders(table string, headers []string, specs []FieldSpec) (HeaderIndex, error) {
	idx := MakeHeaderIndex(headers)

	var missing []string
	for _, spec := range specs {
		if spec.Required {
			if _, ok := idx[strings.ToLower(spec.Name)]; !ok {
				missing = append(missing, spec.Name)
			}
		}
	}

	if len(missing) > 0 {
		return nil, &MissingColumnsError{Table: table, Columns: missing}
	}

	return idx, nil
}

// statusFor derives the record status from its reasons and coercions.
func statusFor(reasons []string, coercions []Coercion) RecordStatus {
	switch {
	case len(reasons) > 0:
		return StatusInvalid
	case len(coercions) > 0:
		return StatusCoerced
	default:
		return StatusValid
	}
}
