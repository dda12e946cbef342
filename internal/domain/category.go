package domain

// Category is a user-defined spending bucket with a monthly budget.
// Seeded with a starter set on first run; created and updated only through
// explicit user action, never by the pipeline.
type Category struct {
	ID     int64   `json:"id"`
	Name   string  `json:"name"`
	Budget float64 `json:"budget"`
}

// Expense is a persisted transaction row. Identifier is derived once at
// insert time and never recomputed, even when the row is edited.
type Expense struct {
	ID         int64   `json:"id"`
	Merchant   string  `json:"merchant"`
	Amount     float64 `json:"amount"`
	Date       string  `json:"date"` // ISO date, "YYYY-MM-DD"
	Category   string  `json:"category"`
	Identifier string  `json:"-"`
}
