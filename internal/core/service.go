package core

import (
	"context"
	"log/slog"
	"strings"
	"sync"
)

// Service runs the data-quality pipeline and holds the cleaned datasets
// of the current session so they can be reconciled and downloaded. Each
// load replaces the previous dataset for that table; no state survives a
// restart.
type Service struct {
	rules Rules

	mu        sync.RWMutex
	customers *Dataset
	orders    *Dataset
}

// NewService creates a Service with the given pipeline rules.
func NewService(rules Rules) *Service {
	return &Service{rules: rules}
}

// LoadCustomers cleans and validates the customer table, stores the
// resulting dataset, and returns its report. A structural failure
// (duplicate identifier, missing columns, empty table) leaves any
// previously loaded customer dataset untouched.
func (s *Service) LoadCustomers(ctx context.Context, in Table) (*TableReport, error) {
	ds, err := RunPipeline(ctx, CustomerTable, CustomerKeyColumn, CustomerSpecs(), in, s.rules)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.customers = ds
	s.mu.Unlock()

	report := BuildTableReport(ds)
	slog.Info("customers loaded",
		"batch_id", ds.BatchID,
		"total", report.TotalRows,
		"valid", report.ValidRows,
		"coerced", report.CoercedRows,
		"invalid", report.InvalidRows,
	)
	return report, nil
}

// LoadOrders cleans and validates the order table, stores the resulting
// dataset, and returns its report.
func (s *Service) LoadOrders(ctx context.Context, in Table) (*TableReport, error) {
	ds, err := RunPipeline(ctx, OrderTable, OrderKeyColumn, OrderSpecs(), in, s.rules)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.orders = ds
	s.mu.Unlock()

	report := BuildTableReport(ds)
	slog.Info("orders loaded",
		"batch_id", ds.BatchID,
		"total", report.TotalRows,
		"valid", report.ValidRows,
		"coerced", report.CoercedRows,
		"invalid", report.InvalidRows,
	)
	return report, nil
}

// Reconcile cross-references the loaded datasets and returns the report.
// Both tables must have been loaded; otherwise ErrDatasetMissing.
func (s *Service) Reconcile(full bool) (*ReconcileReport, error) {
	s.mu.RLock()
	customers, orders := s.customers, s.orders
	s.mu.RUnlock()

	if customers == nil || orders == nil {
		return nil, ErrDatasetMissing
	}

	rec := ReconcileTables(customers, orders)
	return BuildReconcileReport(customers, orders, rec, full), nil
}

// CleanedCustomers returns the cleaned customer table for download.
func (s *Service) CleanedCustomers() (*Table, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.customers == nil {
		return nil, ErrDatasetMissing
	}
	return exportTable(s.customers), nil
}

// CleanedOrders returns the cleaned order table for download.
func (s *Service) CleanedOrders() (*Table, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.orders == nil {
		return nil, ErrDatasetMissing
	}
	return exportTable(s.orders), nil
}

// Reset clears both loaded datasets.
func (s *Service) Reset() {
	s.mu.Lock()
	s.customers = nil
	s.orders = nil
	s.mu.Unlock()

	slog.Info("datasets reset")
}

// exportTable renders a dataset as a table: the original columns with the
// normalized values, plus _status and _reasons columns so quality flags
// survive the round trip.
func exportTable(d *Dataset) *Table {
	headers := make([]string, 0, len(d.Headers)+2)
	headers = append(headers, d.Headers...)
	headers = append(headers, "_status", "_reasons")

	rows := make([][]string, 0, len(d.Records))
	for _, rec := range d.Records {
		row := make([]string, len(d.Headers), len(d.Headers)+2)
		copy(row, rec.Row)
		row = append(row, string(rec.Status), strings.Join(rec.Reasons, "; "))
		rows = append(rows, row)
	}

	return &Table{Headers: headers, Rows: rows}
}
