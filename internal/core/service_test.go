package core

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

func TestService_ReconcileRequiresBothTables(t *testing.T) {
	s := NewService(DefaultRules())

	if _, err := s.Reconcile(false); !errors.Is(err, ErrDatasetMissing) {
		t.Errorf("Reconcile() error = %v, want ErrDatasetMissing", err)
	}

	if _, err := s.LoadCustomers(context.Background(), customerTable(
		[]string{"1", "a@x.com", "2023-01-01"},
	)); err != nil {
		t.Fatalf("LoadCustomers() error = %v", err)
	}

	if _, err := s.Reconcile(false); !errors.Is(err, ErrDatasetMissing) {
		t.Errorf("Reconcile() with only customers error = %v, want ErrDatasetMissing", err)
	}
}

func TestService_EndToEnd(t *testing.T) {
	s := NewService(DefaultRules())
	ctx := context.Background()

	if _, err := s.LoadCustomers(ctx, customerTable(
		[]string{"1", "a@x.com", "2023-01-01"},
	)); err != nil {
		t.Fatalf("LoadCustomers() error = %v", err)
	}

	if _, err := s.LoadOrders(ctx, orderTable(
		[]string{"10", "2", "100.0", "2023-01-01"},
	)); err != nil {
		t.Fatalf("LoadOrders() error = %v", err)
	}

	report, err := s.Reconcile(false)
	if err != nil {
		t.Fatalf("Reconcile() error = %v", err)
	}

	// The order references customer 2, which does not exist; customer 1
	// has no orders.
	if report.Summary.OrdersWithoutCustomers != 1 {
		t.Errorf("orders_without_customers = %d, want 1", report.Summary.OrdersWithoutCustomers)
	}
	if report.Summary.CustomersWithoutOrders != 1 {
		t.Errorf("customers_without_orders = %d, want 1", report.Summary.CustomersWithoutOrders)
	}

	full, err := s.Reconcile(true)
	if err != nil {
		t.Fatalf("Reconcile(full) error = %v", err)
	}
	if len(full.CustomersWithoutOrders) != 1 || full.CustomersWithoutOrders[0].ID != "1" {
		t.Errorf("childless detail = %+v, want customer 1", full.CustomersWithoutOrders)
	}
}

func TestService_Idempotence(t *testing.T) {
	customers := customerTable(
		[]string{"1", "a@x.com", "01/05/2023"},
		[]string{"2", "bad-email", "2023-01-02"},
	)
	orders := orderTable(
		[]string{"10", "1", "$100.00", "2023-01-01"},
		[]string{"20", "3", "oops", "not-a-date"},
	)

	run := func() (*TableReport, *TableReport, *ReconcileReport) {
		s := NewService(DefaultRules())
		ctx := context.Background()

		cr, err := s.LoadCustomers(ctx, customers)
		if err != nil {
			t.Fatalf("LoadCustomers() error = %v", err)
		}
		or, err := s.LoadOrders(ctx, orders)
		if err != nil {
			t.Fatalf("LoadOrders() error = %v", err)
		}
		rr, err := s.Reconcile(true)
		if err != nil {
			t.Fatalf("Reconcile() error = %v", err)
		}
		return cr, or, rr
	}

	cr1, or1, rr1 := run()
	cr2, or2, rr2 := run()

	// Batch IDs are fresh per run; everything else must be identical.
	cr1.BatchID, cr2.BatchID = "", ""
	or1.BatchID, or2.BatchID = "", ""

	if !reflect.DeepEqual(cr1, cr2) {
		t.Errorf("customer reports differ between identical runs:\n%+v\n%+v", cr1, cr2)
	}
	if !reflect.DeepEqual(or1, or2) {
		t.Errorf("order reports differ between identical runs:\n%+v\n%+v", or1, or2)
	}
	if !reflect.DeepEqual(rr1, rr2) {
		t.Errorf("reconcile reports differ between identical runs:\n%+v\n%+v", rr1, rr2)
	}
}

func TestService_FailedLoadKeepsPreviousDataset(t *testing.T) {
	s := NewService(DefaultRules())
	ctx := context.Background()

	if _, err := s.LoadCustomers(ctx, customerTable(
		[]string{"1", "a@x.com", "2023-01-01"},
	)); err != nil {
		t.Fatalf("LoadCustomers() error = %v", err)
	}

	_, err := s.LoadCustomers(ctx, customerTable(
		[]string{"7", "a@x.com", "2023-01-01"},
		[]string{"7", "b@x.com", "2023-01-02"},
	))
	if err == nil {
		t.Fatal("LoadCustomers() with duplicates: error = nil, want failure")
	}

	// The earlier dataset must still be servable.
	table, err := s.CleanedCustomers()
	if err != nil {
		t.Fatalf("CleanedCustomers() error = %v", err)
	}
	if len(table.Rows) != 1 || table.Rows[0][0] != "1" {
		t.Errorf("cleaned customers = %+v, want the original single record", table.Rows)
	}
}

func TestService_CleanedTablesCarryQualityColumns(t *testing.T) {
	s := NewService(DefaultRules())
	ctx := context.Background()

	if _, err := s.LoadCustomers(ctx, customerTable(
		[]string{"1", "a@x.com", "2023-01-01"},
		[]string{"2", "nope", "2023-01-02"},
	)); err != nil {
		t.Fatalf("LoadCustomers() error = %v", err)
	}

	table, err := s.CleanedCustomers()
	if err != nil {
		t.Fatalf("CleanedCustomers() error = %v", err)
	}

	n := len(table.Headers)
	if table.Headers[n-2] != "_status" || table.Headers[n-1] != "_reasons" {
		t.Fatalf("headers = %v, want trailing _status/_reasons", table.Headers)
	}
	if got := table.Rows[0][n-2]; got != string(StatusValid) {
		t.Errorf("row 0 status = %q, want %q", got, StatusValid)
	}
	if got := table.Rows[1][n-2]; got != string(StatusInvalid) {
		t.Errorf("row 1 status = %q, want %q", got, StatusInvalid)
	}
	if got := table.Rows[1][n-1]; got != ReasonBadEmail {
		t.Errorf("row 1 reasons = %q, want %q", got, ReasonBadEmail)
	}
}

func TestService_Reset(t *testing.T) {
	s := NewService(DefaultRules())
	ctx := context.Background()

	if _, err := s.LoadCustomers(ctx, customerTable(
		[]string{"1", "a@x.com", "2023-01-01"},
	)); err != nil {
		t.Fatalf("LoadCustomers() error = %v", err)
	}

	s.Reset()

	if _, err := s.CleanedCustomers(); !errors.Is(err, ErrDatasetMissing) {
		t.Errorf("CleanedCustomers() after reset error = %v, want ErrDatasetMissing", err)
	}
}
