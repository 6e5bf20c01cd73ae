package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/prodexy/opsboard-api/internal/models"
)

type ExpenseRepository interface {
	Create(ctx context.Context, expense models.Expense) (models.Expense, error)
	List(ctx context.Context) ([]models.Expense, error)
	Update(ctx context.Context, expense models.Expense) (models.Expense, error)
	Delete(ctx context.Context, expenseID string) error
	TotalBetween(ctx context.Context, from, to time.Time) (float64, error)
}

type expenseRepository struct {
	db *sql.DB
}

func NewExpenseRepository(db *sql.DB) ExpenseRepository {
	return &expenseRepository{db: db}
}

const expenseColumns = `id, description, category, amount, expense_date, payment_method, notes, created_by, created_at, updated_at`

func (r *expenseRepository) Create(ctx context.Context, expense models.Expense) (models.Expense, error) {
	const query = `
		INSERT INTO expenses (description, category, amount, expense_date, payment_method, notes, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		expense.Description,
		expense.Category,
		expense.Amount,
		expense.ExpenseDate,
		expense.PaymentMethod,
		expense.Notes,
		expense.CreatedBy,
	).Scan(&expense.ID, &expense.CreatedAt, &expense.UpdatedAt)
	return expense, err
}

func (r *expenseRepository) List(ctx context.Context) ([]models.Expense, error) {
	const query = `
		SELECT ` + expenseColumns + `
		FROM expenses
		ORDER BY expense_date DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var expenses []models.Expense
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, expense)
	}
	return expenses, rows.Err()
}

func (r *expenseRepository) Update(ctx context.Context, expense models.Expense) (models.Expense, error) {
	const query = `
		UPDATE expenses
		SET description = $2, category = $3, amount = $4, expense_date = $5,
		    payment_method = $6, notes = $7, updated_at = now()
		WHERE id = $1
		RETURNING ` + expenseColumns

	row := r.db.QueryRowContext(ctx, query,
		expense.ID,
		expense.Description,
		expense.Category,
		expense.Amount,
		expense.ExpenseDate,
		expense.PaymentMethod,
		expense.Notes,
	)
	return scanExpense(row)
}

func (r *expenseRepository) Delete(ctx context.Context, expenseID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = $1`, expenseID)
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

func (r *expenseRepository) TotalBetween(ctx context.Context, from, to time.Time) (float64, error) {
	const query = `
		SELECT COALESCE(SUM(amount), 0)
		FROM expenses
		WHERE expense_date >= $1 AND expense_date <= $2`

	var total float64
	err := r.db.QueryRowContext(ctx, query, from, to).Scan(&total)
	return total, err
}

func scanExpense(scanner interface {
	Scan(dest ...interface{}) error
}) (models.Expense, error) {
	var expense models.Expense
	err := scanner.Scan(
		&expense.ID,
		&expense.Description,
		&expense.Category,
		&expense.Amount,
		&expense.ExpenseDate,
		&expense.PaymentMethod,
		&expense.Notes,
		&expense.CreatedBy,
		&expense.CreatedAt,
		&expense.UpdatedAt,
	)
	return expense, err
}
