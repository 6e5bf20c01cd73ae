package models

import "time"

type RequestType string

const (
	RequestTypeBug         RequestType = "bug"
	RequestTypeAdjustment  RequestType = "adjustment"
	RequestTypeImprovement RequestType = "improvement"
	RequestTypeSupport     RequestType = "support"
)

type RequestPriority string

const (
	RequestPriorityLow    RequestPriority = "low"
	RequestPriorityMedium RequestPriority = "medium"
	RequestPriorityHigh   RequestPriority = "high"
	RequestPriorityUrgent RequestPriority = "urgent"
)

type RequestStatus string

const (
	RequestStatusOpen       RequestStatus = "open"
	RequestStatusTriage     RequestStatus = "triage"
	RequestStatusInProgress RequestStatus = "in_progress"
	RequestStatusBlocked    RequestStatus = "blocked"
	RequestStatusDone       RequestStatus = "done"
	RequestStatusCanceled   RequestStatus = "canceled"
)

var validRequestTypes = map[RequestType]bool{
	RequestTypeBug:         true,
	RequestTypeAdjustment:  true,
	RequestTypeImprovement: true,
	RequestTypeSupport:     true,
}

var validRequestPriorities = map[RequestPriority]bool{
	RequestPriorityLow:    true,
	RequestPriorityMedium: true,
	RequestPriorityHigh:   true,
	RequestPriorityUrgent: true,
}

var validRequestStatuses = map[RequestStatus]bool{
	RequestStatusOpen:       true,
	RequestStatusTriage:     true,
	RequestStatusInProgress: true,
	RequestStatusBlocked:    true,
	RequestStatusDone:       true,
	RequestStatusCanceled:   true,
}

func IsValidRequestType(t RequestType) bool         { return validRequestTypes[t] }
func IsValidRequestPriority(p RequestPriority) bool { return validRequestPriorities[p] }
func IsValidRequestStatus(s RequestStatus) bool     { return validRequestStatuses[s] }

// Request is a support/incident ticket raised against a client.
type Request struct {
	ID           string          `json:"id" db:"id"`
	ClientID     string          `json:"client_id" db:"client_id"`
	ClientName   string          `json:"client_name,omitempty" db:"client_name"`
	Title        string          `json:"title" db:"title"`
	Description  string          `json:"description" db:"description"`
	Type         RequestType     `json:"type" db:"type"`
	Priority     RequestPriority `json:"priority" db:"priority"`
	Status       RequestStatus   `json:"status" db:"status"`
	CreatedBy    string          `json:"created_by" db:"created_by"`
	AssignedTo   *string         `json:"assigned_to,omitempty" db:"assigned_to"`
	AssigneeName *string         `json:"assignee_name,omitempty" db:"assignee_name"`
	TrelloLink   *string         `json:"trello_link,omitempty" db:"trello_link"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at" db:"updated_at"`
}

type RequestComment struct {
	ID         string    `json:"id" db:"id"`
	RequestID  string    `json:"request_id" db:"request_id"`
	Message    string    `json:"message" db:"message"`
	CreatedBy  string    `json:"created_by" db:"created_by"`
	AuthorName string    `json:"author_name,omitempty" db:"author_name"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}
