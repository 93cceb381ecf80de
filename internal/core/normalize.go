package core

// normalize.go cleans raw field values into canonical representations and
// records every adjustment as a coercion note. Normalization never drops
// or rejects a row; rejection is the validator's job.

// Rules carries the validation and normalization knobs for a pipeline
// run. A run is fully determined by its input table and its Rules; there
// is no process-wide tuning state.
type Rules struct {
	// TwoDigitYearPivot controls 2-digit year interpretation in dates.
	TwoDigitYearPivot int

	// RequireEmail flags empty customer emails as a quality issue.
	RequireEmail bool
}

// DefaultRules returns the rules used when no configuration overrides them.
func DefaultRules() Rules {
	return Rules{
		TwoDigitYearPivot: 20,
		RequireEmail:      true,
	}
}

// Normalizer cleans rows of one table according to its field specs.
type Normalizer struct {
	specs []FieldSpec
	idx   HeaderIndex
	rules Rules
}

// NewNormalizer creates a normalizer for the given specs and header layout.
func NewNormalizer(specs []FieldSpec, idx HeaderIndex, rules Rules) *Normalizer {
	return &Normalizer{specs: specs, idx: idx, rules: rules}
}

// NormalizeRow returns a normalized copy of row plus the coercions applied.
// Columns without a field spec pass through unchanged. For spec'd columns:
// whitespace and CSV artifacts are stripped, emails are lower-cased, and
// parseable dates and amounts are rewritten in canonical form. Values that
// fail to parse are left as cleaned for the validator to flag; the row is
// always returned.
func (n *Normalizer) NormalizeRow(row []string) ([]string, []Coercion) {
	out := make([]string, len(row))
	copy(out, row)

	var coercions []Coercion
	for _, spec := range n.specs {
		pos, ok := n.idx[spec.Name]
		if !ok || pos >= len(row) {
			continue
		}

		raw := row[pos]
		val := CleanCell(raw)

		switch spec.Type {
		case FieldEmail:
			val = NormalizeEmail(val)
		case FieldDate:
			if d := ToDate(val, n.rules.TwoDigitYearPivot); d.Valid {
				val = CanonicalDate(d)
			}
		case FieldNumeric:
			if num := ToNumeric(val); num.Valid {
				val = CanonicalNumeric(num)
			}
		}

		if val != raw {
			coercions = append(coercions, Coercion{Field: spec.Name, From: raw, To: val})
		}
		out[pos] = val
	}

	return out, coercions
}
