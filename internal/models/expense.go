package models

import "time"

type Expense struct {
	ID            string    `json:"id" db:"id"`
	Description   string    `json:"description" db:"description"`
	Category      *string   `json:"category,omitempty" db:"category"`
	Amount        float64   `json:"amount" db:"amount"`
	ExpenseDate   time.Time `json:"expense_date" db:"expense_date"`
	PaymentMethod *string   `json:"payment_method,omitempty" db:"payment_method"`
	Notes         *string   `json:"notes,omitempty" db:"notes"`
	CreatedBy     *string   `json:"created_by,omitempty" db:"created_by"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

// IncomeEntry is an ad-hoc income record outside the invoicing cycle.
type IncomeEntry struct {
	ID          string    `json:"id" db:"id"`
	Description string    `json:"description" db:"description"`
	Amount      float64   `json:"amount" db:"amount"`
	IncomeDate  time.Time `json:"income_date" db:"income_date"`
	Notes       *string   `json:"notes,omitempty" db:"notes"`
	CreatedBy   *string   `json:"created_by,omitempty" db:"created_by"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
