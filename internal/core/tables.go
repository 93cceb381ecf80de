package core

// Table names and key columns. Matching between the two tables is done
// on exact, case-sensitive identifier equality.
const (
	CustomerTable = "customers"
	OrderTable    = "orders"

	CustomerKeyColumn = "customer_id"
	OrderKeyColumn    = "order_id"

	// OrderCustomerRefColumn is the order column referencing a customer.
	OrderCustomerRefColumn = "customer_id"
)

// CustomerSpecs returns the field specifications for the customer table.
// Column names are matched case-insensitively against the CSV header.
func CustomerSpecs() []FieldSpec {
	return []FieldSpec{
		{Name: "customer_id", Type: FieldID, Required: true},
		{Name: "email", Type: FieldEmail, Required: true},
		{Name: "signup_date", Type: FieldDate, AllowEmpty: true},
	}
}

// OrderSpecs returns the field specifications for the order table.
func OrderSpecs() []FieldSpec {
	return []FieldSpec{
		{Name: "order_id", Type: FieldID, Required: true},
		{Name: "customer_id", Type: FieldID, Required: true},
		{Name: "amount", Type: FieldNumeric, Required: true},
		{Name: "order_date", Type: FieldDate, AllowEmpty: true},
	}
}
