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

type ExpenseHandler struct {
	repo   repository.ExpenseRepository
	logger zerolog.Logger
}

type expensePayload struct {
	Description   string  `json:"description"`
	Category      *string `json:"category"`
	Amount        float64 `json:"amount"`
	ExpenseDate   string  `json:"expense_date"`
	PaymentMethod *string `json:"payment_method"`
	Notes         *string `json:"notes"`
}

func NewExpenseHandler(repo repository.ExpenseRepository, logger zerolog.Logger) *ExpenseHandler {
	return &ExpenseHandler{
		repo:   repo,
		logger: logger.With().Str("handler", "expense").Logger(),
	}
}

func (p expensePayload) validate() (time.Time, error) {
	if strings.TrimSpace(p.Description) == "" {
		return time.Time{}, errors.New("description is required")
	}
	if p.Amount <= 0 {
		return time.Time{}, errors.New("amount must be positive")
	}
	date, err := time.Parse("2006-01-02", p.ExpenseDate)
	if err != nil {
		return time.Time{}, errors.New("expense date must be YYYY-MM-DD")
	}
	return date, nil
}

func (h *ExpenseHandler) List(w http.ResponseWriter, r *http.Request) {
	expenses, err := h.repo.List(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list expenses")
		http.Error(w, "Failed to list expenses", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"expenses": expenses})
}

func (h *ExpenseHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := authz.UserIDFromRequest(r)
	if !ok {
		http.Error(w, "Missing user context", http.StatusUnauthorized)
		return
	}

	var payload expensePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	date, err := payload.validate()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	expense, err := h.repo.Create(r.Context(), models.Expense{
		Description:   strings.TrimSpace(payload.Description),
		Category:      payload.Category,
		Amount:        payload.Amount,
		ExpenseDate:   date,
		PaymentMethod: payload.PaymentMethod,
		Notes:         payload.Notes,
		CreatedBy:     &userID,
	})
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to create expense")
		http.Error(w, "Failed to create expense: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, expense)
}

func (h *ExpenseHandler) Update(w http.ResponseWriter, r *http.Request) {
	expenseID := mux.Vars(r)["expenseID"]

	var payload expensePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	date, err := payload.validate()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	expense, err := h.repo.Update(r.Context(), models.Expense{
		ID:            expenseID,
		Description:   strings.TrimSpace(payload.Description),
		Category:      payload.Category,
		Amount:        payload.Amount,
		ExpenseDate:   date,
		PaymentMethod: payload.PaymentMethod,
		Notes:         payload.Notes,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "Expense not found", http.StatusNotFound)
			return
		}
		h.logger.Error().Err(err).Str("expense_id", expenseID).Msg("failed to update expense")
		http.Error(w, "Failed to update expense", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, expense)
}

func (h *ExpenseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	expenseID := mux.Vars(r)["expenseID"]

	if err := h.repo.Delete(r.Context(), expenseID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "Expense not found", http.StatusNotFound)
			return
		}
		h.logger.Error().Err(err).Str("expense_id", expenseID).Msg("failed to delete expense")
		http.Error(w, "Failed to delete expense", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
