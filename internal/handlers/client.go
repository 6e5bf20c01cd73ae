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
	"github.com/prodexy/opsboard-api/internal/repository"
	"github.com/rs/zerolog"
)

type ClientHandler struct {
	repo   repository.ClientRepository
	logger zerolog.Logger
}

type clientPayload struct {
	Name           string  `json:"name"`
	Email          *string `json:"email"`
	Phone          string  `json:"phone"`
	Company        *string `json:"company"`
	ProjectService *string `json:"project_service"`
	Status         string  `json:"status"`
	TrelloLink     *string `json:"trello_link"`
	Notes          *string `json:"notes"`
}

func NewClientHandler(repo repository.ClientRepository, logger zerolog.Logger) *ClientHandler {
	return &ClientHandler{
		repo:   repo,
		logger: logger.With().Str("handler", "client").Logger(),
	}
}

func (h *ClientHandler) List(w http.ResponseWriter, r *http.Request) {
	clients, err := h.repo.List(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list clients")
		http.Error(w, "Failed to list clients", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"clients": clients})
}

func (h *ClientHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := authz.UserIDFromRequest(r)
	if !ok {
		http.Error(w, "Missing user context", http.StatusUnauthorized)
		return
	}

	var payload clientPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	payload.Name = strings.TrimSpace(payload.Name)
	if payload.Name == "" {
		http.Error(w, "Client name is required", http.StatusBadRequest)
		return
	}
	if payload.Status == "" {
		payload.Status = "active"
	}

	client, err := h.repo.Create(r.Context(), models.Client{
		Name:           payload.Name,
		Email:          payload.Email,
		Phone:          payload.Phone,
		Company:        payload.Company,
		ProjectService: payload.ProjectService,
		Status:         payload.Status,
		TrelloLink:     payload.TrelloLink,
		Notes:          payload.Notes,
		CreatedBy:      &userID,
	})
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to create client")
		http.Error(w, "Failed to create client: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, client)
}

func (h *ClientHandler) Update(w http.ResponseWriter, r *http.Request) {
	clientID := mux.Vars(r)["clientID"]

	var payload clientPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	payload.Name = strings.TrimSpace(payload.Name)
	if payload.Name == "" {
		http.Error(w, "Client name is required", http.StatusBadRequest)
		return
	}

	client, err := h.repo.Update(r.Context(), models.Client{
		ID:             clientID,
		Name:           payload.Name,
		Email:          payload.Email,
		Phone:          payload.Phone,
		Company:        payload.Company,
		ProjectService: payload.ProjectService,
		Status:         payload.Status,
		TrelloLink:     payload.TrelloLink,
		Notes:          payload.Notes,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "Client not found", http.StatusNotFound)
			return
		}
		h.logger.Error().Err(err).Str("client_id", clientID).Msg("failed to update client")
		http.Error(w, "Failed to update client", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, client)
}

func (h *ClientHandler) Delete(w http.ResponseWriter, r *http.Request) {
	clientID := mux.Vars(r)["clientID"]

	if err := h.repo.Delete(r.Context(), clientID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "Client not found", http.StatusNotFound)
			return
		}
		h.logger.Error().Err(err).Str("client_id", clientID).Msg("failed to delete client")
		http.Error(w, "Failed to delete client", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
