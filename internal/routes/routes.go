package routes

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prodexy/opsboard-api/internal/authz"
	"github.com/prodexy/opsboard-api/internal/handlers"
	"github.com/prodexy/opsboard-api/internal/models"
)

// NewRouter sets up the API routes
func NewRouter(
	auth *handlers.AuthHandler,
	users *handlers.UserHandler,
	clients *handlers.ClientHandler,
	billing *handlers.BillingHandler,
	expenses *handlers.ExpenseHandler,
	income *handlers.IncomeHandler,
	requests *handlers.RequestHandler,
	notifications *handlers.NotificationHandler,
	pushH *handlers.PushHandler,
	dashboard *handlers.DashboardHandler,
) *mux.Router {
	router := mux.NewRouter()

	// Health check route
	router.HandleFunc("/health", handlers.HealthCheck).Methods(http.MethodGet)

	// Public auth endpoints
	router.HandleFunc("/api/signup", auth.SignUp).Methods(http.MethodPost)
	router.HandleFunc("/api/login", auth.Login).Methods(http.MethodPost)

	// Everything below requires a valid token.
	api := router.PathPrefix("/api").Subrouter()
	api.Use(auth.JWTMiddleware)

	api.HandleFunc("/users", users.List).Methods(http.MethodGet)

	api.HandleFunc("/clients", clients.List).Methods(http.MethodGet)
	api.HandleFunc("/clients", clients.Create).Methods(http.MethodPost)
	api.HandleFunc("/clients/{clientID}", clients.Update).Methods(http.MethodPut)
	api.Handle("/clients/{clientID}",
		authz.RequireRoleHandler(models.RoleAdmin, http.HandlerFunc(clients.Delete))).Methods(http.MethodDelete)

	api.HandleFunc("/clients/{clientID}/billing-plans", billing.ListPlans).Methods(http.MethodGet)
	api.HandleFunc("/clients/{clientID}/billing-plans", billing.CreatePlan).Methods(http.MethodPost)
	api.HandleFunc("/billing-plans/{planID}", billing.UpdatePlan).Methods(http.MethodPut)
	api.Handle("/billing-plans/{planID}",
		authz.RequireRoleHandler(models.RoleAdmin, http.HandlerFunc(billing.DeletePlan))).Methods(http.MethodDelete)
	api.HandleFunc("/clients/{clientID}/invoices/generate", billing.GenerateMonthly).Methods(http.MethodPost)

	api.HandleFunc("/invoices", billing.ListInvoices).Methods(http.MethodGet)
	api.HandleFunc("/invoices", billing.CreateInvoice).Methods(http.MethodPost)
	api.HandleFunc("/invoices/{invoiceID}/pay", billing.MarkPaid).Methods(http.MethodPost)

	api.HandleFunc("/expenses", expenses.List).Methods(http.MethodGet)
	api.HandleFunc("/expenses", expenses.Create).Methods(http.MethodPost)
	api.HandleFunc("/expenses/{expenseID}", expenses.Update).Methods(http.MethodPut)
	api.HandleFunc("/expenses/{expenseID}", expenses.Delete).Methods(http.MethodDelete)

	api.HandleFunc("/income-entries", income.List).Methods(http.MethodGet)
	api.HandleFunc("/income-entries", income.Create).Methods(http.MethodPost)
	api.HandleFunc("/income-entries/{entryID}", income.Delete).Methods(http.MethodDelete)

	api.HandleFunc("/requests", requests.List).Methods(http.MethodGet)
	api.HandleFunc("/requests", requests.Create).Methods(http.MethodPost)
	api.HandleFunc("/requests/{requestID}", requests.Get).Methods(http.MethodGet)
	api.HandleFunc("/requests/{requestID}/status", requests.UpdateStatus).Methods(http.MethodPut)
	api.HandleFunc("/requests/{requestID}/assign", requests.Assign).Methods(http.MethodPost)
	api.HandleFunc("/requests/{requestID}/comments", requests.AddComment).Methods(http.MethodPost)

	api.HandleFunc("/notifications", notifications.List).Methods(http.MethodGet)
	api.HandleFunc("/notifications/read-all", notifications.MarkAllRead).Methods(http.MethodPost)
	api.HandleFunc("/notifications/{notificationID}/read", notifications.MarkRead).Methods(http.MethodPost)
	api.HandleFunc("/notifications/{notificationID}", notifications.Delete).Methods(http.MethodDelete)

	api.HandleFunc("/push/subscribe", pushH.Subscribe).Methods(http.MethodPost)
	api.HandleFunc("/push/unsubscribe", pushH.Unsubscribe).Methods(http.MethodPost)
	api.HandleFunc("/push/vapid-public-key", pushH.VAPIDPublicKey).Methods(http.MethodGet)
	api.HandleFunc("/push/send", pushH.Send).Methods(http.MethodPost)

	api.HandleFunc("/dashboard/summary", dashboard.Summary).Methods(http.MethodGet)

	return router
}
