package models

// Expense represents a shared cost fronted by one group member.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string `json:"id"`

	// GroupID is the group this expense belongs to.
	GroupID string `json:"group_id"`

	// Title is the human-readable label for the expense.
	Title string `json:"title"`

	// AmountRaw is the amount in the currency the expense was entered in.
	// Must be positive.
	AmountRaw float64 `json:"amount_raw"`

	// CurrencyCode is the ISO-4217 code AmountRaw is denominated in.
	CurrencyCode string `json:"currency_code"`

	// AmountInGroupCurrency is AmountRaw converted into the group's standard
	// currency at create/edit time. It is cached here, never recomputed on read.
	AmountInGroupCurrency float64 `json:"amount_in_group_currency"`

	// PayerUID is the user who fronted the money.
	PayerUID string `json:"payer_uid"`

	// Participants are the users who share the cost, payer included.
	// Order-irrelevant; duplicates are a data-entry error.
	Participants []string `json:"participants"`

	// CreatedAt is the Unix timestamp when the expense was created.
	// Used only for ordering.
	CreatedAt int64 `json:"created_at"`
}
