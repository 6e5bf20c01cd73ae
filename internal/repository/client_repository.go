package repository

import (
	"context"
	"database/sql"

	"github.com/prodexy/opsboard-api/internal/models"
)

type ClientRepository interface {
	Create(ctx context.Context, client models.Client) (models.Client, error)
	List(ctx context.Context) ([]models.Client, error)
	Get(ctx context.Context, clientID string) (models.Client, error)
	Update(ctx context.Context, client models.Client) (models.Client, error)
	Delete(ctx context.Context, clientID string) error
}

type clientRepository struct {
	db *sql.DB
}

func NewClientRepository(db *sql.DB) ClientRepository {
	return &clientRepository{db: db}
}

const clientColumns = `id, name, email, phone, company, project_service, status, trello_link, notes, created_by, created_at, updated_at`

func (r *clientRepository) Create(ctx context.Context, client models.Client) (models.Client, error) {
	const query = `
		INSERT INTO clients (name, email, phone, company, project_service, status, trello_link, notes, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + clientColumns

	row := r.db.QueryRowContext(ctx, query,
		client.Name,
		client.Email,
		client.Phone,
		client.Company,
		client.ProjectService,
		client.Status,
		client.TrelloLink,
		client.Notes,
		client.CreatedBy,
	)
	return scanClient(row)
}

func (r *clientRepository) List(ctx context.Context) ([]models.Client, error) {
	const query = `
		SELECT ` + clientColumns + `
		FROM clients
		ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clients []models.Client
	for rows.Next() {
		client, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		clients = append(clients, client)
	}
	return clients, rows.Err()
}

func (r *clientRepository) Get(ctx context.Context, clientID string) (models.Client, error) {
	const query = `
		SELECT ` + clientColumns + `
		FROM clients
		WHERE id = $1`

	return scanClient(r.db.QueryRowContext(ctx, query, clientID))
}

func (r *clientRepository) Update(ctx context.Context, client models.Client) (models.Client, error) {
	const query = `
		UPDATE clients
		SET name = $2, email = $3, phone = $4, company = $5, project_service = $6,
		    status = $7, trello_link = $8, notes = $9, updated_at = now()
		WHERE id = $1
		RETURNING ` + clientColumns

	row := r.db.QueryRowContext(ctx, query,
		client.ID,
		client.Name,
		client.Email,
		client.Phone,
		client.Company,
		client.ProjectService,
		client.Status,
		client.TrelloLink,
		client.Notes,
	)
	return scanClient(row)
}

func (r *clientRepository) Delete(ctx context.Context, clientID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM clients WHERE id = $1`, clientID)
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

func scanClient(scanner interface {
	Scan(dest ...interface{}) error
}) (models.Client, error) {
	var client models.Client
	err := scanner.Scan(
		&client.ID,
		&client.Name,
		&client.Email,
		&client.Phone,
		&client.Company,
		&client.ProjectService,
		&client.Status,
		&client.TrelloLink,
		&client.Notes,
		&client.CreatedBy,
		&client.CreatedAt,
		&client.UpdatedAt,
	)
	return client, err
}
