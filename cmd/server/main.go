package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/simpleaccounting/backend/internal/audit"
	"github.com/simpleaccounting/backend/internal/config"
	"github.com/simpleaccounting/backend/internal/database"
	"github.com/simpleaccounting/backend/internal/events"
	"github.com/simpleaccounting/backend/internal/handlers"
	"github.com/simpleaccounting/backend/internal/logger"
	mW "github.com/simpleaccounting/backend/internal/middleware"
	"github.com/simpleaccounting/backend/internal/query"
	"github.com/simpleaccounting/backend/internal/repository"
	"github.com/simpleaccounting/backend/internal/services"
)

func main() {
	envFile := flag.String("env", ".env", "optional dotenv file")
	flag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		bootLog := logger.New("info", "console")
		bootLog.Fatal().Err(err).Msg("failed to load config")
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Format)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.OpenPostgres(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	var bus events.Bus
	if redisClient := database.OpenRedis(ctx, cfg.Redis, log); redisClient != nil {
		defer redisClient.Close()
		bus = events.NewRedisBus(redisClient, log)
	} else {
		log.Warn().Msg("redis unavailable, delivering events in-process")
		bus = events.NewLocalBus(log)
	}
	publisher := events.NewPublisher(bus, log)
	defer publisher.Wait()

	for _, topic := range []string{events.TopicIncomeSaved, events.TopicExpenseSaved, events.TopicInvoicePaid} {
		err := bus.Subscribe(ctx, topic, func(_ context.Context, e events.Event) {
			log.Debug().Str("topic", e.Topic).Str("event_id", e.ID).Msg("event received")
		})
		if err != nil {
			log.Warn().Err(err).Str("topic", topic).Msg("failed to subscribe")
		}
	}

	// Repositories
	workspaceRepo := repository.NewWorkspaceRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	documentRepo := repository.NewDocumentRepository(db)
	taxRepo := repository.NewTaxRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	incomeRepo := repository.NewIncomeRepository(db)
	expenseRepo := repository.NewExpenseRepository(db)

	// Services
	auditLogger := audit.NewLogger(log)
	finalizer := services.NewRecordFinalizer(categoryRepo, documentRepo, taxRepo)
	workspaceService := services.NewWorkspaceService(workspaceRepo)
	incomeService := services.NewIncomeService(finalizer, incomeRepo, invoiceRepo, database.NewTxManager(db), publisher, auditLogger)
	expenseService := services.NewExpenseService(finalizer, expenseRepo, publisher, auditLogger)
	taxService := services.NewTaxService(taxRepo)

	pages := query.NewResolver(cfg.Pagination.DefaultLimit, cfg.Pagination.MaxLimit)
	incomeHandler := handlers.NewIncomeHandler(incomeService, workspaceService, pages)
	expenseHandler := handlers.NewExpenseHandler(expenseService, workspaceService, pages)
	taxHandler := handlers.NewTaxHandler(taxService, workspaceService, pages)

	// Setup router
	r := chi.NewRouter()

	r.Use(mW.SecurityHeaders)
	r.Use(middleware.RealIP)
	r.Use(mW.RequestLogger(log))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", mW.RequestIDHeader},
		ExposedHeaders:   []string{"Link", mW.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	r.Get("/health", handlers.Health(db, log))

	r.Route("/api/workspaces/{workspaceId}", func(r chi.Router) {
		r.Use(mW.Auth(cfg.JWT.SecretKey))

		incomeHandler.Routes(r)
		expenseHandler.Routes(r)
		taxHandler.Routes(r)
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}
	log.Info().Msg("server exited")
}
