package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/prodexy/opsboard-api/internal/authz"
	"github.com/prodexy/opsboard-api/internal/models"
	"github.com/prodexy/opsboard-api/internal/notification"
	"github.com/prodexy/opsboard-api/internal/repository"
	"github.com/rs/zerolog"
)

// RequestHandler serves the support/incident request endpoints. Creating a
// request with an assignee and reassigning an existing one are the two event
// producers: after the primary write commits, notifying the assignee is best
// effort and can never undo that write.
type RequestHandler struct {
	repo          repository.RequestRepository
	notifications notification.Service
	logger        zerolog.Logger
}

func NewRequestHandler(repo repository.RequestRepository, notifications notification.Service, logger zerolog.Logger) *RequestHandler {
	return &RequestHandler{
		repo:          repo,
		notifications: notifications,
		logger:        logger.With().Str("handler", "request").Logger(),
	}
}

func (h *RequestHandler) List(w http.ResponseWriter, r *http.Request) {
	requests, err := h.repo.List(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list requests")
		http.Error(w, "Failed to list requests", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"requests": requests})
}

func (h *RequestHandler) Get(w http.ResponseWriter, r *http.Request) {
	requestID := mux.Vars(r)["requestID"]

	request, err := h.repo.Get(r.Context(), requestID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "Request not found", http.StatusNotFound)
			return
		}
		h.logger.Error().Err(err).Str("request_id", requestID).Msg("failed to get request")
		http.Error(w, "Failed to get request", http.StatusInternalServerError)
		return
	}

	comments, err := h.repo.ListComments(r.Context(), requestID)
	if err != nil {
		h.logger.Error().Err(err).Str("request_id", requestID).Msg("failed to list comments")
		http.Error(w, "Failed to list comments", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"request":  request,
		"comments": comments,
	})
}

func (h *RequestHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := authz.UserIDFromRequest(r)
	if !ok {
		http.Error(w, "Missing user context", http.StatusUnauthorized)
		return
	}

	var payload struct {
		ClientID    string  `json:"client_id"`
		Title       string  `json:"title"`
		Description string  `json:"description"`
		Type        string  `json:"type"`
		Priority    string  `json:"priority"`
		AssignedTo  *string `json:"assigned_to"`
		TrelloLink  *string `json:"trello_link"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	payload.Title = strings.TrimSpace(payload.Title)
	if payload.ClientID == "" || payload.Title == "" {
		http.Error(w, "Client and title are required", http.StatusBadRequest)
		return
	}
	if !models.IsValidRequestType(models.RequestType(payload.Type)) {
		http.Error(w, "Invalid request type", http.StatusBadRequest)
		return
	}
	if !models.IsValidRequestPriority(models.RequestPriority(payload.Priority)) {
		http.Error(w, "Invalid request priority", http.StatusBadRequest)
		return
	}

	request, err := h.repo.Create(r.Context(), models.Request{
		ClientID:    payload.ClientID,
		Title:       payload.Title,
		Description: payload.Description,
		Type:        models.RequestType(payload.Type),
		Priority:    models.RequestPriority(payload.Priority),
		Status:      models.RequestStatusOpen,
		CreatedBy:   userID,
		AssignedTo:  payload.AssignedTo,
		TrelloLink:  payload.TrelloLink,
	})
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to create request")
		http.Error(w, "Failed to create request: "+err.Error(), http.StatusInternalServerError)
		return
	}

	// The request exists at this point; notifying the assignee is best effort.
	if request.AssignedTo != nil {
		h.notifyAssignee(r, *request.AssignedTo, request)
	}

	writeJSON(w, http.StatusCreated, request)
}

func (h *RequestHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	requestID := mux.Vars(r)["requestID"]

	var payload struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if !models.IsValidRequestStatus(models.RequestStatus(payload.Status)) {
		http.Error(w, "Invalid request status", http.StatusBadRequest)
		return
	}

	request, err := h.repo.UpdateStatus(r.Context(), requestID, models.RequestStatus(payload.Status))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "Request not found", http.StatusNotFound)
			return
		}
		h.logger.Error().Err(err).Str("request_id", requestID).Msg("failed to update request status")
		http.Error(w, "Failed to update request status", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, request)
}

func (h *RequestHandler) Assign(w http.ResponseWriter, r *http.Request) {
	requestID := mux.Vars(r)["requestID"]

	var payload struct {
		UserID string `json:"user_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if payload.UserID == "" {
		http.Error(w, "User ID is required", http.StatusBadRequest)
		return
	}

	request, err := h.repo.Assign(r.Context(), requestID, payload.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "Request not found", http.StatusNotFound)
			return
		}
		h.logger.Error().Err(err).Str("request_id", requestID).Msg("failed to assign request")
		http.Error(w, "Failed to assign request", http.StatusInternalServerError)
		return
	}

	h.notifyAssignee(r, payload.UserID, request)

	writeJSON(w, http.StatusOK, request)
}

func (h *RequestHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	userID, ok := authz.UserIDFromRequest(r)
	if !ok {
		http.Error(w, "Missing user context", http.StatusUnauthorized)
		return
	}
	requestID := mux.Vars(r)["requestID"]

	var payload struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	payload.Message = strings.TrimSpace(payload.Message)
	if payload.Message == "" {
		http.Error(w, "Message is required", http.StatusBadRequest)
		return
	}

	comment, err := h.repo.AddComment(r.Context(), models.RequestComment{
		RequestID: requestID,
		Message:   payload.Message,
		CreatedBy: userID,
	})
	if err != nil {
		h.logger.Error().Err(err).Str("request_id", requestID).Msg("failed to add comment")
		http.Error(w, "Failed to add comment: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, comment)
}

func (h *RequestHandler) notifyAssignee(r *http.Request, userID string, request models.Request) {
	if err := h.notifications.NotifyRequestAssigned(r.Context(), userID, request); err != nil {
		h.logger.Warn().
			Err(err).
			Str("request_id", request.ID).
			Str("assignee", userID).
			Msg("assignment persisted but notification failed")
	}
}
