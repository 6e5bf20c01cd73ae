package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/prodexy/opsboard-api/internal/authz"
	"github.com/prodexy/opsboard-api/internal/models"
	"github.com/prodexy/opsboard-api/internal/repository"
	"github.com/rs/zerolog"
)

type IncomeHandler struct {
	repo   repository.IncomeRepository
	logger zerolog.Logger
}

func NewIncomeHandler(repo repository.IncomeRepository, logger zerolog.Logger) *IncomeHandler {
	return &IncomeHandler{
		repo:   repo,
		logger: logger.With().Str("handler", "income").Logger(),
	}
}

func (h *IncomeHandler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.repo.List(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list income entries")
		http.Error(w, "Failed to list income entries", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"income_entries": entries})
}

func (h *IncomeHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := authz.UserIDFromRequest(r)
	if !ok {
		http.Error(w, "Missing user context", http.StatusUnauthorized)
		return
	}

	var payload struct {
		Description string  `json:"description"`
		Amount      float64 `json:"amount"`
		IncomeDate  string  `json:"income_date"`
		Notes       *string `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	payload.Description = strings.TrimSpace(payload.Description)
	if payload.Description == "" || payload.Amount <= 0 {
		http.Error(w, "Description and a positive amount are required", http.StatusBadRequest)
		return
	}
	date, err := time.Parse("2006-01-02", payload.IncomeDate)
	if err != nil {
		http.Error(w, "Income date must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	entry, err := h.repo.Create(r.Context(), models.IncomeEntry{
		Description: payload.Description,
		Amount:      payload.Amount,
		IncomeDate:  date,
		Notes:       payload.Notes,
		CreatedBy:   &userID,
	})
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to create income entry")
		http.Error(w, "Failed to create income entry: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

func (h *IncomeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	entryID := mux.Vars(r)["entryID"]

	if err := h.repo.Delete(r.Context(), entryID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "Income entry not found", http.StatusNotFound)
			return
		}
		h.logger.Error().Err(err).Str("entry_id", entryID).Msg("failed to delete income entry")
		http.Error(w, "Failed to delete income entry", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
