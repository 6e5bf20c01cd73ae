package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	h "github.com/gorilla/handlers"
	"github.com/pressly/goose/v3"
	"github.com/prodexy/opsboard-api/internal/config"
	"github.com/prodexy/opsboard-api/internal/handlers"
	"github.com/prodexy/opsboard-api/internal/middleware"
	"github.com/prodexy/opsboard-api/internal/migration"
	"github.com/prodexy/opsboard-api/internal/notification"
	"github.com/prodexy/opsboard-api/internal/push"
	"github.com/prodexy/opsboard-api/internal/repository"
	"github.com/prodexy/opsboard-api/internal/routes"
	"github.com/rs/zerolog"

	_ "github.com/lib/pq" // PostgreSQL driver
)

type application struct {
	config        *config.Config
	db            *sql.DB
	pushQueue     *push.Queue
	logger        zerolog.Logger
	notifications notification.Service
}

func main() {
	// Set up structured, level-based logging.
	consoleWriter := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen}
	logger := zerolog.New(consoleWriter).With().Timestamp().Logger()

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.SetFlags(0)
	log.SetOutput(logger)

	gooseAdapter := migration.NewGooseAdapter(logger)
	goose.SetLogger(gooseAdapter)

	// Load configuration.
	cfg := config.Load()

	// Initialize database connection.
	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to the database")
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Fatal().Err(err).Msg("Failed to ping database")
	}

	// Run database migrations.
	migration.RunMigrations(cfg.DatabaseURL, logger)

	// Initialize the push pipeline. Without VAPID keys the dispatcher still
	// runs; every delivery attempt fails at the transport and is logged.
	if !cfg.Push.Enabled() {
		logger.Warn().Msg("VAPID keys not configured; web push deliveries will fail")
	}
	subscriptionRepo := repository.NewSubscriptionRepository(db)
	sender := push.NewWebPushSender(cfg.Push)
	dispatcher := push.NewDispatcher(subscriptionRepo, sender, logger)
	pushQueue := push.NewQueue(dispatcher, cfg.Push.QueueSize, logger)

	// Initialize notification service.
	notificationRepo := repository.NewNotificationRepository(db)
	notificationService := notification.NewService(notificationRepo, pushQueue, logger)

	// Create the application instance.
	app := &application{
		config:        cfg,
		db:            db,
		pushQueue:     pushQueue,
		logger:        logger,
		notifications: notificationService,
	}

	// Start the push worker in a separate goroutine.
	stopWorker := app.startPushWorker(logger)

	// Initialize the HTTP router and middleware.
	router := app.initRouter(subscriptionRepo, dispatcher, logger)
	loggedRouter := middleware.LoggingMiddleware(app.logger)(router)
	corsHandler := h.CORS(
		h.AllowedOrigins([]string{cfg.AllowedOrigin}),
		h.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		h.AllowedHeaders([]string{"Content-Type", "Authorization"}),
		h.AllowCredentials(),
	)(loggedRouter)

	// Start the HTTP server and handle graceful shutdown.
	app.startServer(corsHandler, stopWorker, logger)

	logger.Info().Msg("Application terminated.")
}

// initRouter sets up all HTTP handlers and returns the router.
func (app *application) initRouter(subscriptionRepo repository.SubscriptionRepository, dispatcher *push.Dispatcher, logger zerolog.Logger) http.Handler {
	// Repositories
	userRepo := repository.NewUserRepository(app.db)
	clientRepo := repository.NewClientRepository(app.db)
	billingRepo := repository.NewBillingRepository(app.db)
	expenseRepo := repository.NewExpenseRepository(app.db)
	incomeRepo := repository.NewIncomeRepository(app.db)
	requestRepo := repository.NewRequestRepository(app.db)

	// Handlers
	authHandler := handlers.NewAuthHandler(userRepo, app.config.JWTSecret, logger)
	userHandler := handlers.NewUserHandler(userRepo, logger)
	clientHandler := handlers.NewClientHandler(clientRepo, logger)
	billingHandler := handlers.NewBillingHandler(billingRepo, logger)
	expenseHandler := handlers.NewExpenseHandler(expenseRepo, logger)
	incomeHandler := handlers.NewIncomeHandler(incomeRepo, logger)
	requestHandler := handlers.NewRequestHandler(requestRepo, app.notifications, logger)
	notificationHandler := handlers.NewNotificationHandler(app.notifications, logger)
	pushHandler := handlers.NewPushHandler(subscriptionRepo, dispatcher, app.config.Push.VAPIDPublicKey, logger)
	dashboardHandler := handlers.NewDashboardHandler(billingRepo, incomeRepo, expenseRepo, requestRepo, logger)

	return routes.NewRouter(authHandler, userHandler, clientHandler, billingHandler, expenseHandler, incomeHandler, requestHandler, notificationHandler, pushHandler, dashboardHandler)
}

// startPushWorker runs the push queue worker in a goroutine and returns a
// function that stops it.
func (app *application) startPushWorker(logger zerolog.Logger) func() {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		logger.Info().Msg("Starting push worker...")
		app.pushQueue.Run(ctx)
		close(done)
	}()

	return func() {
		cancel()
		<-done
	}
}

// startServer launches the HTTP server and handles graceful shutdown.
func (app *application) startServer(handler http.Handler, stopWorker func(), logger zerolog.Logger) {
	server := &http.Server{
		Addr:    ":" + app.config.ServerPort,
		Handler: handler,
	}

	// Channel to listen for server errors
	serverErrCh := make(chan error, 1)
	go func() {
		logger.Info().Msgf("Server listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrCh <- err
		}
	}()

	// Wait for an interrupt signal or a server error.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logger.Info().Msgf("Received signal: %s. Shutting down...", sig)
	case err := <-serverErrCh:
		logger.Error().Err(err).Msg("Server error occurred")
	}

	// Gracefully shut down the HTTP server.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("HTTP server shutdown error")
	} else {
		logger.Info().Msg("HTTP server shutdown complete.")
	}

	// Stop the push worker.
	logger.Info().Msg("Stopping push worker...")
	stopWorker()
	logger.Info().Msg("Push worker stopped.")
}
