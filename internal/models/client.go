package models

import "time"

type Client struct {
	ID             string    `json:"id" db:"id"`
	Name           string    `json:"name" db:"name"`
	Email          *string   `json:"email,omitempty" db:"email"`
	Phone          string    `json:"phone" db:"phone"`
	Company        *string   `json:"company,omitempty" db:"company"`
	ProjectService *string   `json:"project_service,omitempty" db:"project_service"`
	Status         string    `json:"status" db:"status"` // enum: active, inactive
	TrelloLink     *string   `json:"trello_link,omitempty" db:"trello_link"`
	Notes          *string   `json:"notes,omitempty" db:"notes"`
	CreatedBy      *string   `json:"created_by,omitempty" db:"created_by"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}
