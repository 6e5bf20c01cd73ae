package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/prodexy/opsboard-api/internal/models"
)

type IncomeRepository interface {
	Create(ctx context.Context, entry models.IncomeEntry) (models.IncomeEntry, error)
	List(ctx context.Context) ([]models.IncomeEntry, error)
	Delete(ctx context.Context, entryID string) error
	TotalBetween(ctx context.Context, from, to time.Time) (float64, error)
}

type incomeRepository struct {
	db *sql.DB
}

func NewIncomeRepository(db *sql.DB) IncomeRepository {
	return &incomeRepository{db: db}
}

func (r *incomeRepository) Create(ctx context.Context, entry models.IncomeEntry) (models.IncomeEntry, error) {
	const query = `
		INSERT INTO income_entries (description, amount, income_date, notes, created_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		entry.Description,
		entry.Amount,
		entry.IncomeDate,
		entry.Notes,
		entry.CreatedBy,
	).Scan(&entry.ID, &entry.CreatedAt)
	return entry, err
}

func (r *incomeRepository) List(ctx context.Context) ([]models.IncomeEntry, error) {
	const query = `
		SELECT id, description, amount, income_date, notes, created_by, created_at
		FROM income_entries
		ORDER BY income_date DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.IncomeEntry
	for rows.Next() {
		var entry models.IncomeEntry
		if err := rows.Scan(&entry.ID, &entry.Description, &entry.Amount, &entry.IncomeDate, &entry.Notes, &entry.CreatedBy, &entry.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (r *incomeRepository) Delete(ctx context.Context, entryID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM income_entries WHERE id = $1`, entryID)
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

func (r *incomeRepository) TotalBetween(ctx context.Context, from, to time.Time) (float64, error) {
	const query = `
		SELECT COALESCE(SUM(amount), 0)
		FROM income_entries
		WHERE income_date >= $1 AND income_date <= $2`

	var total float64
	err := r.db.QueryRowContext(ctx, query, from, to).Scan(&total)
	return total, err
}
