package models

import "time"

type NotificationType string

const (
	NotificationTypeRequestAssigned NotificationType = "request_assigned"
	NotificationTypeInvoiceCreated  NotificationType = "invoice_created"
)

// ReferenceType tags what entity a notification points at. Notifications hold
// a plain (type, id) pair rather than a foreign key; the consumer resolves it.
type ReferenceType string

const (
	ReferenceTypeRequest ReferenceType = "request"
	ReferenceTypeInvoice ReferenceType = "invoice"
)

// Notification is one in-app inbox entry. Immutable after creation except for
// the read state.
type Notification struct {
	ID          string           `json:"id" db:"id"`
	UserID      string           `json:"user_id" db:"user_id"`
	Type        NotificationType `json:"type" db:"type"`
	Title       string           `json:"title" db:"title"`
	Message     string           `json:"message" db:"message"`
	RelatedID   *string          `json:"related_id,omitempty" db:"related_id"`
	RelatedType *ReferenceType   `json:"related_type,omitempty" db:"related_type"`
	IsRead      bool             `json:"is_read" db:"is_read"`
	ReadAt      *time.Time       `json:"read_at,omitempty" db:"read_at"`
	CreatedAt   time.Time        `json:"created_at" db:"created_at"`
}
