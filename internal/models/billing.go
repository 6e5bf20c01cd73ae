package models

import "time"

type BillingPlan struct {
	ID            string    `json:"id" db:"id"`
	ClientID      string    `json:"client_id" db:"client_id"`
	MonthlyAmount float64   `json:"monthly_amount" db:"monthly_amount"`
	DueDay        int       `json:"due_day" db:"due_day"`
	SetupFee      *float64  `json:"setup_fee,omitempty" db:"setup_fee"`
	Status        string    `json:"status" db:"status"` // enum: active, inactive
	Notes         *string   `json:"notes,omitempty" db:"notes"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

type InvoiceStatus string

const (
	InvoiceStatusPending  InvoiceStatus = "pending"
	InvoiceStatusPaid     InvoiceStatus = "paid"
	InvoiceStatusOverdue  InvoiceStatus = "overdue"
	InvoiceStatusCanceled InvoiceStatus = "canceled"
)

type Invoice struct {
	ID            string        `json:"id" db:"id"`
	ClientID      string        `json:"client_id" db:"client_id"`
	ClientName    string        `json:"client_name,omitempty" db:"client_name"`
	BillingPlanID *string       `json:"billing_plan_id,omitempty" db:"billing_plan_id"`
	InvoiceNumber string        `json:"invoice_number" db:"invoice_number"`
	Month         int           `json:"month" db:"month"`
	Year          int           `json:"year" db:"year"`
	Amount        float64       `json:"amount" db:"amount"`
	DueDate       time.Time     `json:"due_date" db:"due_date"`
	Status        InvoiceStatus `json:"status" db:"status"`
	PaidAt        *time.Time    `json:"paid_at,omitempty" db:"paid_at"`
	PaymentMethod *string       `json:"payment_method,omitempty" db:"payment_method"`
	Description   *string       `json:"description,omitempty" db:"description"`
	CreatedBy     *string       `json:"created_by,omitempty" db:"created_by"`
	CreatedAt     time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at" db:"updated_at"`
}

type Payment struct {
	ID            string    `json:"id" db:"id"`
	InvoiceID     string    `json:"invoice_id" db:"invoice_id"`
	Amount        float64   `json:"amount" db:"amount"`
	PaymentDate   time.Time `json:"payment_date" db:"payment_date"`
	PaymentMethod *string   `json:"payment_method,omitempty" db:"payment_method"`
	Notes         *string   `json:"notes,omitempty" db:"notes"`
	ConfirmedBy   string    `json:"confirmed_by" db:"confirmed_by"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}
