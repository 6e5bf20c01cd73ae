package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/prodexy/opsboard-api/internal/models"
)

type BillingRepository interface {
	// Billing plan methods
	CreatePlan(ctx context.Context, plan models.BillingPlan) (models.BillingPlan, error)
	ListPlansByClient(ctx context.Context, clientID string) ([]models.BillingPlan, error)
	UpdatePlan(ctx context.Context, plan models.BillingPlan) (models.BillingPlan, error)
	DeletePlan(ctx context.Context, planID string) error

	// Invoice methods
	CreateInvoice(ctx context.Context, invoice models.Invoice) (models.Invoice, error)
	ListInvoices(ctx context.Context) ([]models.Invoice, error)
	GetInvoice(ctx context.Context, invoiceID string) (models.Invoice, error)
	MarkInvoicePaid(ctx context.Context, invoiceID, confirmedBy, paymentMethod string) (models.Invoice, error)
	ListPendingInvoices(ctx context.Context, limit int) ([]models.Invoice, error)
	GenerateForClientMonth(ctx context.Context, clientID string, month, year int) error

	// Aggregation
	RevenueBetween(ctx context.Context, from, to time.Time) (float64, error)
}

type billingRepository struct {
	db *sql.DB
}

func NewBillingRepository(db *sql.DB) BillingRepository {
	return &billingRepository{db: db}
}

func (r *billingRepository) CreatePlan(ctx context.Context, plan models.BillingPlan) (models.BillingPlan, error) {
	const query = `
		INSERT INTO billing_plans (client_id, monthly_amount, due_day, setup_fee, status, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		plan.ClientID,
		plan.MonthlyAmount,
		plan.DueDay,
		plan.SetupFee,
		plan.Status,
		plan.Notes,
	).Scan(&plan.ID, &plan.CreatedAt, &plan.UpdatedAt)
	return plan, err
}

func (r *billingRepository) ListPlansByClient(ctx context.Context, clientID string) ([]models.BillingPlan, error) {
	const query = `
		SELECT id, client_id, monthly_amount, due_day, setup_fee, status, notes, created_at, updated_at
		FROM billing_plans
		WHERE client_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var plans []models.BillingPlan
	for rows.Next() {
		var plan models.BillingPlan
		if err := rows.Scan(
			&plan.ID,
			&plan.ClientID,
			&plan.MonthlyAmount,
			&plan.DueDay,
			&plan.SetupFee,
			&plan.Status,
			&plan.Notes,
			&plan.CreatedAt,
			&plan.UpdatedAt,
		); err != nil {
			return nil, err
		}
		plans = append(plans, plan)
	}
	return plans, rows.Err()
}

func (r *billingRepository) UpdatePlan(ctx context.Context, plan models.BillingPlan) (models.BillingPlan, error) {
	const query = `
		UPDATE billing_plans
		SET monthly_amount = $2, due_day = $3, setup_fee = $4, status = $5, notes = $6, updated_at = now()
		WHERE id = $1
		RETURNING client_id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		plan.ID,
		plan.MonthlyAmount,
		plan.DueDay,
		plan.SetupFee,
		plan.Status,
		plan.Notes,
	).Scan(&plan.ClientID, &plan.CreatedAt, &plan.UpdatedAt)
	return plan, err
}

func (r *billingRepository) DeletePlan(ctx context.Context, planID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM billing_plans WHERE id = $1`, planID)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

const invoiceColumns = `
	i.id, i.client_id, c.name, i.billing_plan_id, i.invoice_number, i.month, i.year,
	i.amount, i.due_date, i.status, i.paid_at, i.payment_method, i.description,
	i.created_by, i.created_at, i.updated_at`

func (r *billingRepository) CreateInvoice(ctx context.Context, invoice models.Invoice) (models.Invoice, error) {
	const query = `
		INSERT INTO invoices (client_id, billing_plan_id, invoice_number, month, year, amount, due_date, status, description, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at`

	if invoice.Status == "" {
		invoice.Status = models.InvoiceStatusPending
	}
	err := r.db.QueryRowContext(ctx, query,
		invoice.ClientID,
		invoice.BillingPlanID,
		invoice.InvoiceNumber,
		invoice.Month,
		invoice.Year,
		invoice.Amount,
		invoice.DueDate,
		invoice.Status,
		invoice.Description,
		invoice.CreatedBy,
	).Scan(&invoice.ID, &invoice.CreatedAt, &invoice.UpdatedAt)
	return invoice, err
}

func (r *billingRepository) ListInvoices(ctx context.Context) ([]models.Invoice, error) {
	const query = `
		SELECT ` + invoiceColumns + `
		FROM invoices i
		JOIN clients c ON i.client_id = c.id
		ORDER BY i.due_date DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectInvoices(rows)
}

func (r *billingRepository) GetInvoice(ctx context.Context, invoiceID string) (models.Invoice, error) {
	const query = `
		SELECT ` + invoiceColumns + `
		FROM invoices i
		JOIN clients c ON i.client_id = c.id
		WHERE i.id = $1`

	return scanInvoice(r.db.QueryRowContext(ctx, query, invoiceID))
}

// MarkInvoicePaid flips the invoice status and records a payment row. The two
// writes are separate statements; a payment insert failure leaves the status
// update in place and is surfaced to the caller.
func (r *billingRepository) MarkInvoicePaid(ctx context.Context, invoiceID, confirmedBy, paymentMethod string) (models.Invoice, error) {
	const updateQuery = `
		UPDATE invoices i
		SET status = 'paid', paid_at = now(), payment_method = $2, updated_at = now()
		FROM clients c
		WHERE i.id = $1 AND i.client_id = c.id
		RETURNING ` + invoiceColumns

	invoice, err := scanInvoice(r.db.QueryRowContext(ctx, updateQuery, invoiceID, paymentMethod))
	if err != nil {
		return models.Invoice{}, err
	}

	const paymentQuery = `
		INSERT INTO payments (invoice_id, amount, payment_date, payment_method, confirmed_by)
		VALUES ($1, $2, now(), $3, $4)`
	if _, err := r.db.ExecContext(ctx, paymentQuery, invoice.ID, invoice.Amount, paymentMethod, confirmedBy); err != nil {
		return invoice, err
	}

	return invoice, nil
}

func (r *billingRepository) ListPendingInvoices(ctx context.Context, limit int) ([]models.Invoice, error) {
	if limit <= 0 || limit > 50 {
		limit = 5
	}

	const query = `
		SELECT ` + invoiceColumns + `
		FROM invoices i
		JOIN clients c ON i.client_id = c.id
		WHERE i.status = 'pending'
		ORDER BY i.due_date
		LIMIT $1`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectInvoices(rows)
}

// GenerateForClientMonth invokes the invoice-generation routine owned by the
// database. The server treats it as opaque.
func (r *billingRepository) GenerateForClientMonth(ctx context.Context, clientID string, month, year int) error {
	_, err := r.db.ExecContext(ctx, `SELECT generate_invoice_for_client_month($1, $2, $3)`, clientID, month, year)
	return err
}

func (r *billingRepository) RevenueBetween(ctx context.Context, from, to time.Time) (float64, error) {
	const query = `
		SELECT COALESCE(SUM(amount), 0)
		FROM payments
		WHERE payment_date >= $1 AND payment_date <= $2`

	var total float64
	err := r.db.QueryRowContext(ctx, query, from, to).Scan(&total)
	return total, err
}

func scanInvoice(scanner interface {
	Scan(dest ...interface{}) error
}) (models.Invoice, error) {
	var invoice models.Invoice
	err := scanner.Scan(
		&invoice.ID,
		&invoice.ClientID,
		&invoice.ClientName,
		&invoice.BillingPlanID,
		&invoice.InvoiceNumber,
		&invoice.Month,
		&invoice.Year,
		&invoice.Amount,
		&invoice.DueDate,
		&invoice.Status,
		&invoice.PaidAt,
		&invoice.PaymentMethod,
		&invoice.Description,
		&invoice.CreatedBy,
		&invoice.CreatedAt,
		&invoice.UpdatedAt,
	)
	return invoice, err
}

func collectInvoices(rows *sql.Rows) ([]models.Invoice, error) {
	var invoices []models.Invoice
	for rows.Next() {
		invoice, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, invoice)
	}
	return invoices, rows.Err()
}
