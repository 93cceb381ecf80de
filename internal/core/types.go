// Package core implements the data-quality pipeline: normalization,
// rule validation, reconciliation, and report building for customer and
// order tables. The package has no HTTP or file concerns; callers hand it
// parsed in-memory tables and receive plain report structures back.
package core

// Table is an in-memory tabular dataset as parsed from a CSV file.
// The core never reads files itself; the web layer produces Tables.
type Table struct {
	Headers []string
	Rows    [][]string
}

// HeaderIndex maps column names (lowercase) to their position in a row.
type HeaderIndex map[string]int

// FieldType represents the expected data type for a column.
type FieldType int

const (
	FieldText FieldType = iota
	FieldID
	FieldEmail
	FieldDate
	FieldNumeric
)

// FieldSpec defines normalization and validation rules for a single column.
type FieldSpec struct {
	Name       string    // Column header name
	Type       FieldType // Expected data type
	Required   bool      // Column must exist in the header
	AllowEmpty bool      // If true, empty values are allowed even when Required
}

// RecordStatus classifies a record after normalization and validation.
type RecordStatus string

const (
	// StatusValid means the record passed all rules with no value changes.
	StatusValid RecordStatus = "valid"

	// StatusCoerced means the record passed all rules but one or more
	// values were adjusted to a canonical form (trimmed, case-normalized,
	// date reformatted).
	StatusCoerced RecordStatus = "coerced"

	// StatusInvalid means at least one rule failed. The record is retained
	// in the output with its reasons, never silently dropped.
	StatusInvalid RecordStatus = "invalid"
)

// Reason codes attached to invalid records.
const (
	ReasonMissingID  = "missing identifier"
	ReasonBadEmail   = "bad email"
	ReasonBadDate    = "bad date"
	ReasonBadAmount  = "bad amount"
	ReasonEmptyField = "empty required field"
)

// Coercion records a single value adjusted to canonical form during
// normalization. The original value is kept so results trace back to input.
type Coercion struct {
	Field string `json:"field"`
	From  string `json:"from"`
	To    string `json:"to"`
}

// RecordOutcome is the per-record result of the pipeline. The identifier
// and source line number are preserved through all stages so every result
// can be traced back to its input row.
type RecordOutcome struct {
	Line      int          `json:"line"` // 1-based line in the source file (header is line 1)
	ID        string       `json:"id"`
	Status    RecordStatus `json:"status"`
	Reasons   []string     `json:"reasons,omitempty"`
	Coercions []Coercion   `json:"coercions,omitempty"`
	Row       []string     `json:"row"` // normalized values, aligned with dataset headers
}

// Dataset is a cleaned table: the normalized records of one upload along
// with the header layout needed to address individual fields.
type Dataset struct {
	BatchID string
	Name    string // "customers" or "orders"
	Headers []string
	Index   HeaderIndex
	Records []RecordOutcome
}

// Field returns the named column value of a record, or "" if the column
// is not present in this dataset.
func (d *Dataset) Field(rec RecordOutcome, name string) string {
	pos, ok := d.Index[name]
	if !ok || pos >= len(rec.Row) {
		return ""
	}
	return rec.Row[pos]
}

// TableReport aggregates the per-table pipeline result.
type TableReport struct {
	BatchID     string          `json:"batch_id"`
	Table       string          `json:"table"`
	TotalRows   int             `json:"total_rows"`
	ValidRows   int             `json:"valid_rows"`
	CoercedRows int             `json:"coerced_rows"`
	InvalidRows int             `json:"invalid_rows"`
	Records     []RecordOutcome `json:"records"`
}

// MatchedPair links an order to the customer its reference resolved to.
type MatchedPair struct {
	OrderID    string `json:"order_id"`
	CustomerID string `json:"customer_id"`
}

// ReconcileSummary holds the cross-table counts. Key names follow the
// report vocabulary: an orphaned order references a customer that does not
// exist; a childless customer has no referencing order.
type ReconcileSummary struct {
	TotalCustomers         int `json:"total_customers"`
	TotalOrders            int `json:"total_orders"`
	OrdersWithoutCustomers int `json:"orders_without_customers"`
	CustomersWithoutOrders int `json:"customers_without_orders"`
	MatchedPairs           int `json:"matched_pairs"`
}

// ReconcileReport is the reconciliation result. Detail slices are only
// populated when a full report is requested.
type ReconcileReport struct {
	Summary                ReconcileSummary `json:"summary"`
	OrdersWithoutCustomers []RecordOutcome  `json:"orders_without_customers,omitempty"`
	CustomersWithoutOrders []RecordOutcome  `json:"customers_without_orders,omitempty"`
	Matched                []MatchedPair    `json:"matched,omitempty"`
}
