package handlers

import (
	"net/http"
	"time"

	"github.com/prodexy/opsboard-api/internal/models"
	"github.com/prodexy/opsboard-api/internal/repository"
	"github.com/rs/zerolog"
)

type DashboardHandler struct {
	billing  repository.BillingRepository
	income   repository.IncomeRepository
	expenses repository.ExpenseRepository
	requests repository.RequestRepository
	logger   zerolog.Logger
}

type dashboardSummary struct {
	Revenue         float64          `json:"revenue"`
	Expenses        float64          `json:"expenses"`
	Profit          float64          `json:"profit"`
	PendingInvoices []models.Invoice `json:"pending_invoices"`
	UrgentRequests  []models.Request `json:"urgent_requests"`
}

func NewDashboardHandler(
	billing repository.BillingRepository,
	income repository.IncomeRepository,
	expenses repository.ExpenseRepository,
	requests repository.RequestRepository,
	logger zerolog.Logger,
) *DashboardHandler {
	return &DashboardHandler{
		billing:  billing,
		income:   income,
		expenses: expenses,
		requests: requests,
		logger:   logger.With().Str("handler", "dashboard").Logger(),
	}
}

// Summary aggregates the current month: revenue is confirmed payments plus
// ad-hoc income entries.
func (h *DashboardHandler) Summary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	now := time.Now()
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	endOfMonth := startOfMonth.AddDate(0, 1, 0).Add(-time.Second)

	revenue, err := h.billing.RevenueBetween(ctx, startOfMonth, endOfMonth)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to sum revenue")
		http.Error(w, "Failed to build dashboard summary", http.StatusInternalServerError)
		return
	}

	income, err := h.income.TotalBetween(ctx, startOfMonth, endOfMonth)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to sum income entries")
		http.Error(w, "Failed to build dashboard summary", http.StatusInternalServerError)
		return
	}

	expenses, err := h.expenses.TotalBetween(ctx, startOfMonth, endOfMonth)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to sum expenses")
		http.Error(w, "Failed to build dashboard summary", http.StatusInternalServerError)
		return
	}

	pending, err := h.billing.ListPendingInvoices(ctx, 5)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list pending invoices")
		http.Error(w, "Failed to build dashboard summary", http.StatusInternalServerError)
		return
	}

	urgent, err := h.requests.ListUrgentOpen(ctx, 5)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list urgent requests")
		http.Error(w, "Failed to build dashboard summary", http.StatusInternalServerError)
		return
	}

	total := revenue + income
	writeJSON(w, http.StatusOK, dashboardSummary{
		Revenue:         total,
		Expenses:        expenses,
		Profit:          total - expenses,
		PendingInvoices: pending,
		UrgentRequests:  urgent,
	})
}
