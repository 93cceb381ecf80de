package core

// report.go aggregates pipeline and reconciliation outputs into the
// report structures returned to the I/O layer. Pure aggregation: no
// randomness, no external state.

// BuildTableReport aggregates a cleaned dataset into its per-table report.
// Every record of the dataset appears exactly once in the detail.
func BuildTableReport(d *Dataset) *TableReport {
	r := &TableReport{
		BatchID:   d.BatchID,
		Table:     d.Name,
		TotalRows: len(d.Records),
		Records:   d.Records,
	}

	for _, rec := range d.Records {
		switch rec.Status {
		case StatusValid:
			r.ValidRows++
		case StatusCoerced:
			r.CoercedRows++
		case StatusInvalid:
			r.InvalidRows++
		}
	}

	return r
}

// BuildReconcileReport assembles the reconciliation report. The summary
// is always present; per-record detail is included only when full is set.
func BuildReconcileReport(customers, orders *Dataset, rec Reconciliation, full bool) *ReconcileReport {
	report := &ReconcileReport{
		Summary: ReconcileSummary{
			TotalCustomers:         len(customers.Records),
			TotalOrders:            len(orders.Records),
			OrdersWithoutCustomers: len(rec.OrphanedOrders),
			CustomersWithoutOrders: len(rec.ChildlessCustomers),
			MatchedPairs:           len(rec.Matched),
		},
	}

	if full {
		report.OrdersWithoutCustomers = rec.OrphanedOrders
		report.CustomersWithoutOrders = rec.ChildlessCustomers
		report.Matched = rec.Matched
	}

	return report
}
