package domain

// Transaction is one raw transaction candidate produced by an extractor.
// It carries no identity beyond its own fields and is never persisted
// directly; the importer derives the dedup identifier at insert time.
type Transaction struct {
	Merchant string  `json:"merchant"` // business or person the purchase was made from
	Amount   float64 `json:"amount"`   // total amount of the transaction
	Date     string  `json:"date"`     // ISO date, "YYYY-MM-DD"
}

// CategorizedTransaction is a Transaction after classification. Immutable
// once produced; the category is always a member of the vocabulary that was
// live at classification time, or the Uncategorized sentinel.
type CategorizedTransaction struct {
	Transaction
	Category string `json:"category"`
}

// Uncategorized is the sentinel category assigned when classification
// cannot produce a valid vocabulary member.
const Uncategorized = "Uncategorized"
