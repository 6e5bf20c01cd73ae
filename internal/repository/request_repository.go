package repository

import (
	"context"
	"database/sql"

	"github.com/prodexy/opsboard-api/internal/models"
)

type RequestRepository interface {
	Create(ctx context.Context, request models.Request) (models.Request, error)
	List(ctx context.Context) ([]models.Request, error)
	Get(ctx context.Context, requestID string) (models.Request, error)
	UpdateStatus(ctx context.Context, requestID string, status models.RequestStatus) (models.Request, error)
	Assign(ctx context.Context, requestID, userID string) (models.Request, error)
	ListUrgentOpen(ctx context.Context, limit int) ([]models.Request, error)

	AddComment(ctx context.Context, comment models.RequestComment) (models.RequestComment, error)
	ListComments(ctx context.Context, requestID string) ([]models.RequestComment, error)
}

type requestRepository struct {
	db *sql.DB
}

func NewRequestRepository(db *sql.DB) RequestRepository {
	return &requestRepository{db: db}
}

const requestColumns = `
	r.id, r.client_id, c.name, r.title, r.description, r.type, r.priority, r.status,
	r.created_by, r.assigned_to, a.name, r.trello_link, r.created_at, r.updated_at`

const requestJoins = `
	FROM requests r
	JOIN clients c ON r.client_id = c.id
	LEFT JOIN profiles a ON r.assigned_to = a.id`

func (r *requestRepository) Create(ctx context.Context, request models.Request) (models.Request, error) {
	const query = `
		INSERT INTO requests (client_id, title, description, type, priority, status, created_by, assigned_to, trello_link)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at`

	if request.Status == "" {
		request.Status = models.RequestStatusOpen
	}
	err := r.db.QueryRowContext(ctx, query,
		request.ClientID,
		request.Title,
		request.Description,
		request.Type,
		request.Priority,
		request.Status,
		request.CreatedBy,
		request.AssignedTo,
		request.TrelloLink,
	).Scan(&request.ID, &request.CreatedAt, &request.UpdatedAt)
	return request, err
}

func (r *requestRepository) List(ctx context.Context) ([]models.Request, error) {
	const query = `
		SELECT ` + requestColumns + requestJoins + `
		ORDER BY r.created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRequests(rows)
}

func (r *requestRepository) Get(ctx context.Context, requestID string) (models.Request, error) {
	const query = `
		SELECT ` + requestColumns + requestJoins + `
		WHERE r.id = $1`

	return scanRequest(r.db.QueryRowContext(ctx, query, requestID))
}

func (r *requestRepository) UpdateStatus(ctx context.Context, requestID string, status models.RequestStatus) (models.Request, error) {
	const query = `
		UPDATE requests
		SET status = $2, updated_at = now()
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, requestID, status)
	if err != nil {
		return models.Request{}, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return models.Request{}, err
	}
	if rows == 0 {
		return models.Request{}, sql.ErrNoRows
	}
	return r.Get(ctx, requestID)
}

// Assign persists the assignee on the request row. Concurrent assignments to
// the same request race at the store level; last write wins.
func (r *requestRepository) Assign(ctx context.Context, requestID, userID string) (models.Request, error) {
	const query = `
		UPDATE requests
		SET assigned_to = $2, updated_at = now()
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, requestID, userID)
	if err != nil {
		return models.Request{}, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return models.Request{}, err
	}
	if rows == 0 {
		return models.Request{}, sql.ErrNoRows
	}
	return r.Get(ctx, requestID)
}

func (r *requestRepository) ListUrgentOpen(ctx context.Context, limit int) ([]models.Request, error) {
	if limit <= 0 || limit > 50 {
		limit = 5
	}

	const query = `
		SELECT ` + requestColumns + requestJoins + `
		WHERE r.priority IN ('high', 'urgent')
		  AND r.status NOT IN ('done', 'canceled')
		ORDER BY r.created_at DESC
		LIMIT $1`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRequests(rows)
}

func (r *requestRepository) AddComment(ctx context.Context, comment models.RequestComment) (models.RequestComment, error) {
	const query = `
		INSERT INTO request_comments (request_id, message, created_by)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		comment.RequestID,
		comment.Message,
		comment.CreatedBy,
	).Scan(&comment.ID, &comment.CreatedAt)
	return comment, err
}

func (r *requestRepository) ListComments(ctx context.Context, requestID string) ([]models.RequestComment, error) {
	const query = `
		SELECT rc.id, rc.request_id, rc.message, rc.created_by, p.name, rc.created_at
		FROM request_comments rc
		JOIN profiles p ON rc.created_by = p.id
		WHERE rc.request_id = $1
		ORDER BY rc.created_at`

	rows, err := r.db.QueryContext(ctx, query, requestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []models.RequestComment
	for rows.Next() {
		var comment models.RequestComment
		if err := rows.Scan(&comment.ID, &comment.RequestID, &comment.Message, &comment.CreatedBy, &comment.AuthorName, &comment.CreatedAt); err != nil {
			return nil, err
		}
		comments = append(comments, comment)
	}
	return comments, rows.Err()
}

func scanRequest(scanner interface {
	Scan(dest ...interface{}) error
}) (models.Request, error) {
	var request models.Request
	err := scanner.Scan(
		&request.ID,
		&request.ClientID,
		&request.ClientName,
		&request.Title,
		&request.Description,
		&request.Type,
		&request.Priority,
		&request.Status,
		&request.CreatedBy,
		&request.AssignedTo,
		&request.AssigneeName,
		&request.TrelloLink,
		&request.CreatedAt,
		&request.UpdatedAt,
	)
	return request, err
}

func collectRequests(rows *sql.Rows) ([]models.Request, error) {
	var requests []models.Request
	for rows.Next() {
		request, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, request)
	}
	return requests, rows.Err()
}
