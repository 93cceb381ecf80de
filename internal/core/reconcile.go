package core

// reconcile.go cross-references the cleaned customer and order datasets
// by customer identifier. Matching is exact and case-sensitive. Output
// order follows input order, so identical inputs produce identical
// reconciliations.

// Reconciliation holds the cross-table sets computed by ReconcileTables.
type Reconciliation struct {
	// OrphanedOrders are orders whose customer reference matches no
	// customer identifier.
	OrphanedOrders []RecordOutcome

	// ChildlessCustomers are customers no order references.
	ChildlessCustomers []RecordOutcome

	// Matched pairs each order with the customer its reference resolved to.
	Matched []MatchedPair
}

// ReconcileTables computes orphaned orders, childless customers, and
// matched pairs for the two datasets. Records with an empty identifier
// were already flagged by the validator and take no part in matching; an
// order with an empty customer reference is likewise not counted as
// orphaned, since there is no reference to resolve.
func ReconcileTables(customers, orders *Dataset) Reconciliation {
	known := make(map[string]struct{}, len(customers.Records))
	for _, rec := range customers.Records {
		if rec.ID != "" {
			known[rec.ID] = struct{}{}
		}
	}

	var rec Reconciliation
	referenced := make(map[string]struct{}, len(orders.Records))
	for _, ord := range orders.Records {
		ref := orders.Field(ord, OrderCustomerRefColumn)
		if ref == "" {
			continue
		}
		referenced[ref] = struct{}{}

		if _, ok := known[ref]; ok {
			rec.Matched = append(rec.Matched, MatchedPair{OrderID: ord.ID, CustomerID: ref})
		} else {
			rec.OrphanedOrders = append(rec.OrphanedOrders, ord)
		}
	}

	for _, cust := range customers.Records {
		if cust.ID == "" {
			continue
		}
		if _, ok := referenced[cust.ID]; !ok {
			rec.ChildlessCustomers = append(rec.ChildlessCustomers, cust)
		}
	}

	return rec
}
