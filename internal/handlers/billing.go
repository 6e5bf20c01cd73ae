package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/prodexy/opsboard-api/internal/authz"
	"github.com/prodexy/opsboard-api/internal/models"
	"github.com/prodexy/opsboard-api/internal/repository"
	"github.com/rs/zerolog"
)

type BillingHandler struct {
	repo   repository.BillingRepository
	logger zerolog.Logger
}

func NewBillingHandler(repo repository.BillingRepository, logger zerolog.Logger) *BillingHandler {
	return &BillingHandler{
		repo:   repo,
		logger: logger.With().Str("handler", "billing").Logger(),
	}
}

func (h *BillingHandler) ListPlans(w http.ResponseWriter, r *http.Request) {
	clientID := mux.Vars(r)["clientID"]

	plans, err := h.repo.ListPlansByClient(r.Context(), clientID)
	if err != nil {
		h.logger.Error().Err(err).Str("client_id", clientID).Msg("failed to list billing plans")
		http.Error(w, "Failed to list billing plans", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"plans": plans})
}

func (h *BillingHandler) CreatePlan(w http.ResponseWriter, r *http.Request) {
	clientID := mux.Vars(r)["clientID"]

	var payload struct {
		MonthlyAmount float64  `json:"monthly_amount"`
		DueDay        int      `json:"due_day"`
		SetupFee      *float64 `json:"setup_fee"`
		Status        string   `json:"status"`
		Notes         *string  `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if payload.MonthlyAmount <= 0 {
		http.Error(w, "Monthly amount must be positive", http.StatusBadRequest)
		return
	}
	if payload.DueDay < 1 || payload.DueDay > 28 {
		http.Error(w, "Due day must be between 1 and 28", http.StatusBadRequest)
		return
	}
	if payload.Status == "" {
		payload.Status = "active"
	}

	plan, err := h.repo.CreatePlan(r.Context(), models.BillingPlan{
		ClientID:      clientID,
		MonthlyAmount: payload.MonthlyAmount,
		DueDay:        payload.DueDay,
		SetupFee:      payload.SetupFee,
		Status:        payload.Status,
		Notes:         payload.Notes,
	})
	if err != nil {
		h.logger.Error().Err(err).Str("client_id", clientID).Msg("failed to create billing plan")
		http.Error(w, "Failed to create billing plan: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, plan)
}

func (h *BillingHandler) UpdatePlan(w http.ResponseWriter, r *http.Request) {
	planID := mux.Vars(r)["planID"]

	var payload struct {
		MonthlyAmount float64  `json:"monthly_amount"`
		DueDay        int      `json:"due_day"`
		SetupFee      *float64 `json:"setup_fee"`
		Status        string   `json:"status"`
		Notes         *string  `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if payload.MonthlyAmount <= 0 {
		http.Error(w, "Monthly amount must be positive", http.StatusBadRequest)
		return
	}
	if payload.DueDay < 1 || payload.DueDay > 28 {
		http.Error(w, "Due day must be between 1 and 28", http.StatusBadRequest)
		return
	}
	if payload.Status == "" {
		payload.Status = "active"
	}

	plan, err := h.repo.UpdatePlan(r.Context(), models.BillingPlan{
		ID:            planID,
		MonthlyAmount: payload.MonthlyAmount,
		DueDay:        payload.DueDay,
		SetupFee:      payload.SetupFee,
		Status:        payload.Status,
		Notes:         payload.Notes,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "Billing plan not found", http.StatusNotFound)
			return
		}
		h.logger.Error().Err(err).Str("plan_id", planID).Msg("failed to update billing plan")
		http.Error(w, "Failed to update billing plan", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

func (h *BillingHandler) DeletePlan(w http.ResponseWriter, r *http.Request) {
	planID := mux.Vars(r)["planID"]

	if err := h.repo.DeletePlan(r.Context(), planID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "Billing plan not found", http.StatusNotFound)
			return
		}
		h.logger.Error().Err(err).Str("plan_id", planID).Msg("failed to delete billing plan")
		http.Error(w, "Failed to delete billing plan", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *BillingHandler) ListInvoices(w http.ResponseWriter, r *http.Request) {
	invoices, err := h.repo.ListInvoices(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list invoices")
		http.Error(w, "Failed to list invoices", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"invoices": invoices})
}

func (h *BillingHandler) CreateInvoice(w http.ResponseWriter, r *http.Request) {
	userID, ok := authz.UserIDFromRequest(r)
	if !ok {
		http.Error(w, "Missing user context", http.StatusUnauthorized)
		return
	}

	var payload struct {
		ClientID    string  `json:"client_id"`
		Amount      float64 `json:"amount"`
		DueDate     string  `json:"due_date"`
		Description *string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if payload.ClientID == "" || payload.Amount <= 0 {
		http.Error(w, "Client and a positive amount are required", http.StatusBadRequest)
		return
	}
	dueDate, err := time.Parse("2006-01-02", payload.DueDate)
	if err != nil {
		http.Error(w, "Due date must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	invoice, err := h.repo.CreateInvoice(r.Context(), models.Invoice{
		ClientID:      payload.ClientID,
		InvoiceNumber: fmt.Sprintf("INV-%s", strings.ToUpper(uuid.NewString()[:8])),
		Month:         int(dueDate.Month()),
		Year:          dueDate.Year(),
		Amount:        payload.Amount,
		DueDate:       dueDate,
		Status:        models.InvoiceStatusPending,
		Description:   payload.Description,
		CreatedBy:     &userID,
	})
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to create invoice")
		http.Error(w, "Failed to create invoice: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, invoice)
}

// MarkPaid updates the invoice and records a payment. The payment insert is
// not transactional with the status update; a failure there is surfaced but
// the paid status stays.
func (h *BillingHandler) MarkPaid(w http.ResponseWriter, r *http.Request) {
	userID, ok := authz.UserIDFromRequest(r)
	if !ok {
		http.Error(w, "Missing user context", http.StatusUnauthorized)
		return
	}
	invoiceID := mux.Vars(r)["invoiceID"]

	var payload struct {
		PaymentMethod string `json:"payment_method"`
	}
	if r.Body != nil {
		json.NewDecoder(r.Body).Decode(&payload)
	}
	if payload.PaymentMethod == "" {
		payload.PaymentMethod = "manual"
	}

	invoice, err := h.repo.MarkInvoicePaid(r.Context(), invoiceID, userID, payload.PaymentMethod)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "Invoice not found", http.StatusNotFound)
			return
		}
		h.logger.Error().Err(err).Str("invoice_id", invoiceID).Msg("failed to mark invoice paid")
		http.Error(w, "Failed to mark invoice paid", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, invoice)
}

// GenerateMonthly calls the database-owned invoice generation routine for one
// client and month.
func (h *BillingHandler) GenerateMonthly(w http.ResponseWriter, r *http.Request) {
	clientID := mux.Vars(r)["clientID"]

	var payload struct {
		Month int `json:"month"`
		Year  int `json:"year"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	now := time.Now()
	if payload.Month == 0 {
		payload.Month = int(now.Month())
	}
	if payload.Year == 0 {
		payload.Year = now.Year()
	}
	if payload.Month < 1 || payload.Month > 12 {
		http.Error(w, "Month must be between 1 and 12", http.StatusBadRequest)
		return
	}

	if err := h.repo.GenerateForClientMonth(r.Context(), clientID, payload.Month, payload.Year); err != nil {
		h.logger.Error().Err(err).Str("client_id", clientID).Msg("invoice generation failed")
		http.Error(w, "Failed to generate invoices: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
