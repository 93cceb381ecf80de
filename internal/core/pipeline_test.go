package core

import (
	"context"
	"errors"
	"testing"
)

func customerTable(rows ...[]string) Table {
	return Table{
		Headers: []string{"customer_id", "email", "signup_date"},
		Rows:    rows,
	}
}

func orderTable(rows ...[]string) Table {
	return Table{
		Headers: []string{"order_id", "customer_id", "amount", "order_date"},
		Rows:    rows,
	}
}

func mustRun(t *testing.T, table, key string, specs []FieldSpec, in Table) *Dataset {
	t.Helper()
	ds, err := RunPipeline(context.Background(), table, key, specs, in, DefaultRules())
	if err != nil {
		t.Fatalf("RunPipeline(%s) error = %v", table, err)
	}
	return ds
}

func TestRunPipeline_EveryRowAppearsOnce(t *testing.T) {
	in := customerTable(
		[]string{"1", "a@test.com", "2023-01-01"},
		[]string{"2", "b@test.com", "2023-01-02"},
		[]string{"3", "c@test.com", "2023-01-03"},
	)

	ds := mustRun(t, CustomerTable, CustomerKeyColumn, CustomerSpecs(), in)

	if len(ds.Records) != 3 {
		t.Fatalf("got %d records, want 3", len(ds.Records))
	}

	seen := make(map[string]int)
	for _, rec := range ds.Records {
		seen[rec.ID]++
	}
	for _, id := range []string{"1", "2", "3"} {
		if seen[id] != 1 {
			t.Errorf("identifier %q appears %d times in detail, want exactly once", id, seen[id])
		}
	}

	for _, rec := range ds.Records {
		if rec.Status != StatusValid {
			t.Errorf("record %q status = %q, want %q (reasons %v)", rec.ID, rec.Status, StatusValid, rec.Reasons)
		}
	}
}

func TestRunPipeline_BadDateFlaggedNotDropped(t *testing.T) {
	in := customerTable(
		[]string{"1", "a@test.com", "2023-01-01"},
		[]string{"2", "b@test.com", "invalid-date"},
	)

	ds := mustRun(t, CustomerTable, CustomerKeyColumn, CustomerSpecs(), in)

	if len(ds.Records) != 2 {
		t.Fatalf("got %d records, want 2 (bad-date row must be retained)", len(ds.Records))
	}

	rec := ds.Records[1]
	if rec.Status != StatusInvalid {
		t.Errorf("status = %q, want %q", rec.Status, StatusInvalid)
	}
	if !containsReason(rec.Reasons, ReasonBadDate) {
		t.Errorf("reasons = %v, want to contain %q", rec.Reasons, ReasonBadDate)
	}
	// The raw value stays in the output so the row traces back to input.
	if got := ds.Field(rec, "signup_date"); got != "invalid-date" {
		t.Errorf("signup_date = %q, want original %q", got, "invalid-date")
	}
}

func TestRunPipeline_DuplicateIdentifierAbortsBatch(t *testing.T) {
	in := customerTable(
		[]string{"1", "a@test.com", "2023-01-01"},
		[]string{"1", "b@test.com", "2023-01-02"},
	)

	_, err := RunPipeline(context.Background(), CustomerTable, CustomerKeyColumn, CustomerSpecs(), in, DefaultRules())
	if err == nil {
		t.Fatal("RunPipeline() error = nil, want duplicate-identifier failure")
	}

	var dup *DuplicateKeyError
	if !errors.As(err, &dup) {
		t.Fatalf("error type = %T, want *DuplicateKeyError", err)
	}
	if dup.Key != "1" {
		t.Errorf("duplicate key = %q, want %q", dup.Key, "1")
	}
	if dup.Table != CustomerTable {
		t.Errorf("duplicate table = %q, want %q", dup.Table, CustomerTable)
	}
	if dup.FirstLine != 2 || dup.Line != 3 {
		t.Errorf("lines = (%d, %d), want (2, 3)", dup.FirstLine, dup.Line)
	}
}

func TestRunPipeline_DuplicateOrderIdentifier(t *testing.T) {
	in := orderTable(
		[]string{"1", "10", "100.0", "2023-01-01"},
		[]string{"2", "20", "150.0", "2023-01-02"},
		[]string{"2", "30", "200.0", "2023-01-03"},
	)

	_, err := RunPipeline(context.Background(), OrderTable, OrderKeyColumn, OrderSpecs(), in, DefaultRules())

	var dup *DuplicateKeyError
	if !errors.As(err, &dup) {
		t.Fatalf("error = %v, want *DuplicateKeyError", err)
	}
	if dup.Key != "2" {
		t.Errorf("duplicate key = %q, want %q", dup.Key, "2")
	}
}

func TestRunPipeline_BadEmailFlaggedRetained(t *testing.T) {
	in := customerTable(
		[]string{"1", "good@test.com", "2023-01-01"},
		[]string{"2", "not-an-email", "2023-01-02"},
	)

	ds := mustRun(t, CustomerTable, CustomerKeyColumn, CustomerSpecs(), in)

	if len(ds.Records) != 2 {
		t.Fatalf("got %d records, want 2", len(ds.Records))
	}
	rec := ds.Records[1]
	if rec.Status != StatusInvalid {
		t.Errorf("status = %q, want %q", rec.Status, StatusInvalid)
	}
	if !containsReason(rec.Reasons, ReasonBadEmail) {
		t.Errorf("reasons = %v, want to contain %q", rec.Reasons, ReasonBadEmail)
	}
}

func TestRunPipeline_MissingIdentifierFlagged(t *testing.T) {
	in := customerTable(
		[]string{"", "a@test.com", "2023-01-01"},
		[]string{"2", "b@test.com", "2023-01-02"},
	)

	ds := mustRun(t, CustomerTable, CustomerKeyColumn, CustomerSpecs(), in)

	rec := ds.Records[0]
	if rec.Status != StatusInvalid {
		t.Errorf("status = %q, want %q", rec.Status, StatusInvalid)
	}
	if !containsReason(rec.Reasons, ReasonMissingID) {
		t.Errorf("reasons = %v, want to contain %q", rec.Reasons, ReasonMissingID)
	}
}

func TestRunPipeline_EmptyEmailRespectsRules(t *testing.T) {
	in := customerTable([]string{"1", "", "2023-01-01"})

	strict := Rules{TwoDigitYearPivot: 20, RequireEmail: true}
	ds, err := RunPipeline(context.Background(), CustomerTable, CustomerKeyColumn, CustomerSpecs(), in, strict)
	if err != nil {
		t.Fatalf("RunPipeline() error = %v", err)
	}
	if !containsReason(ds.Records[0].Reasons, ReasonEmptyField) {
		t.Errorf("strict rules: reasons = %v, want to contain %q", ds.Records[0].Reasons, ReasonEmptyField)
	}

	lax := Rules{TwoDigitYearPivot: 20, RequireEmail: false}
	ds, err = RunPipeline(context.Background(), CustomerTable, CustomerKeyColumn, CustomerSpecs(), in, lax)
	if err != nil {
		t.Fatalf("RunPipeline() error = %v", err)
	}
	if containsReason(ds.Records[0].Reasons, ReasonEmptyField) {
		t.Errorf("lax rules: reasons = %v, want no %q", ds.Records[0].Reasons, ReasonEmptyField)
	}
}

func TestRunPipeline_AmountCoercionAndFlags(t *testing.T) {
	in := orderTable(
		[]string{"1", "10", "$1,234.56", "2023-01-01"},
		[]string{"2", "20", "invalid", "2023-01-02"},
	)

	ds := mustRun(t, OrderTable, OrderKeyColumn, OrderSpecs(), in)

	first := ds.Records[0]
	if got := ds.Field(first, "amount"); got != "1234.56" {
		t.Errorf("amount = %q, want coerced %q", got, "1234.56")
	}
	if first.Status != StatusCoerced {
		t.Errorf("status = %q, want %q", first.Status, StatusCoerced)
	}
	if !containsCoercion(first.Coercions, "amount") {
		t.Errorf("coercions = %v, want note for amount", first.Coercions)
	}

	second := ds.Records[1]
	if second.Status != StatusInvalid {
		t.Errorf("status = %q, want %q", second.Status, StatusInvalid)
	}
	if !containsReason(second.Reasons, ReasonBadAmount) {
		t.Errorf("reasons = %v, want to contain %q", second.Reasons, ReasonBadAmount)
	}
}

func TestRunPipeline_DateCoercedToCanonicalForm(t *testing.T) {
	in := customerTable([]string{"1", "a@test.com", "01/15/2023"})

	ds := mustRun(t, CustomerTable, CustomerKeyColumn, CustomerSpecs(), in)

	rec := ds.Records[0]
	if got := ds.Field(rec, "signup_date"); got != "2023-01-15" {
		t.Errorf("signup_date = %q, want canonical %q", got, "2023-01-15")
	}
	if rec.Status != StatusCoerced {
		t.Errorf("status = %q, want %q", rec.Status, StatusCoerced)
	}
}

func TestRunPipeline_EmailCaseNormalized(t *testing.T) {
	in := customerTable([]string{"1", "  User@Example.COM ", "2023-01-01"})

	ds := mustRun(t, CustomerTable, CustomerKeyColumn, CustomerSpecs(), in)

	rec := ds.Records[0]
	if got := ds.Field(rec, "email"); got != "user@example.com" {
		t.Errorf("email = %q, want %q", got, "user@example.com")
	}
	if rec.Status != StatusCoerced {
		t.Errorf("status = %q, want %q", rec.Status, StatusCoerced)
	}
	if !containsCoercion(rec.Coercions, "email") {
		t.Errorf("coercions = %v, want note for email", rec.Coercions)
	}
}

func TestRunPipeline_MissingRequiredColumns(t *testing.T) {
	in := Table{
		Headers: []string{"customer_id", "signup_date"},
		Rows:    [][]string{{"1", "2023-01-01"}},
	}

	_, err := RunPipeline(context.Background(), CustomerTable, CustomerKeyColumn, CustomerSpecs(), in, DefaultRules())

	var missing *MissingColumnsError
	if !errors.As(err, &missing) {
		t.Fatalf("error = %v, want *MissingColumnsError", err)
	}
	if len(missing.Columns) != 1 || missing.Columns[0] != "email" {
		t.Errorf("missing columns = %v, want [email]", missing.Columns)
	}
}

func TestRunPipeline_EmptyTable(t *testing.T) {
	in := customerTable()

	_, err := RunPipeline(context.Background(), CustomerTable, CustomerKeyColumn, CustomerSpecs(), in, DefaultRules())
	if !errors.Is(err, ErrEmptyTable) {
		t.Errorf("error = %v, want ErrEmptyTable", err)
	}
}

func TestRunPipeline_SkipsBlankRows(t *testing.T) {
	in := customerTable(
		[]string{"1", "a@test.com", "2023-01-01"},
		[]string{"", "", ""},
		[]string{"2", "b@test.com", "2023-01-02"},
	)

	ds := mustRun(t, CustomerTable, CustomerKeyColumn, CustomerSpecs(), in)

	if len(ds.Records) != 2 {
		t.Fatalf("got %d records, want 2 (blank row skipped)", len(ds.Records))
	}
	// Line numbers still point at the source file positions.
	if ds.Records[1].Line != 4 {
		t.Errorf("second record line = %d, want 4", ds.Records[1].Line)
	}
}

func TestRunPipeline_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	in := customerTable([]string{"1", "a@test.com", "2023-01-01"})

	_, err := RunPipeline(ctx, CustomerTable, CustomerKeyColumn, CustomerSpecs(), in, DefaultRules())
	if err == nil {
		t.Fatal("RunPipeline() error = nil, want cancellation error")
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func containsReason(reasons []string, want string) bool {
	for _, r := range reasons {
		if r == want {
			return true
		}
	}
	return false
}

func containsCoercion(coercions []Coercion, field string) bool {
	for _, c := range coercions {
		if c.Field == field {
			return true
		}
	}
	return false
}
