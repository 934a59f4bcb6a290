package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/robfig/cron/v3"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"golang.org/x/sync/errgroup"

	"medgenie/internal/config"
	"medgenie/internal/domain/entity"
	fsrepo "medgenie/internal/infra/adapter/persistence/firestore"
	pgrepo "medgenie/internal/infra/adapter/persistence/postgres"
	"medgenie/internal/infra/db"
	"medgenie/internal/infra/summarizer"
	"medgenie/internal/observability/logging"
	"medgenie/internal/observability/metrics"
	"medgenie/internal/observability/tracing"
	"medgenie/internal/repository"
	"medgenie/internal/resilience/circuitbreaker"
	visitUC "medgenie/internal/usecase/visit"

	hhttp "medgenie/internal/handler/http"
	"medgenie/internal/handler/http/requestid"
	"medgenie/internal/handler/http/respond"
	hvisit "medgenie/internal/handler/http/visit"
	pkgconfig "medgenie/pkg/config"

	_ "medgenie/docs" // swagger docs
)

// @title           MedGenie API
// @version         1.0
// @description     Clinical visit summarization REST API.
// @description     Summarizes visit notes, records diagnoses, and serves per-patient visit history.

// @contact.name   API Support
// @contact.email  support@example.com

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /

func main() {
	logger := initLogger()

	cfg, err := config.LoadServiceConfig()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	// Root context for background goroutines and in-flight requests.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, database, closeStore := initStore(ctx, logger, cfg)
	defer closeStore()

	svc := visitUC.Service{
		Repo:         store,
		Summarizer:   initSummarizer(logger, cfg),
		HistoryLimit: cfg.History.Limit,
	}

	version := getVersion()
	mux := setupRoutes(svc, store, database, version)
	handler := applyMiddleware(logger, mux)

	statsCron := startStatsRefresher(ctx, logger, store)

	runServer(ctx, logger, cfg, handler, version, func() {
		cancel()
		statsCron.Stop()
	})
}

// initLogger initializes and returns the process-wide structured logger.
// LOG_FORMAT=text switches to the human-readable handler for local work;
// the default is JSON. The level comes from LOG_LEVEL.
func initLogger() *slog.Logger {
	var logger *slog.Logger
	if os.Getenv("LOG_FORMAT") == "text" {
		logger = logging.NewTextLogger()
	} else {
		logger = logging.NewLogger()
	}
	slog.SetDefault(logger)
	return logger
}

// getVersion returns the application version from environment or default.
func getVersion() string {
	version := os.Getenv("VERSION")
	if version == "" {
		version = "dev"
	}
	return version
}

// initStore builds the visit repository for the configured backend.
// The returned *sql.DB is non-nil only for the Postgres backend, where the
// health endpoint reads pool statistics from it. A store that cannot be
// reached at startup is fatal: the service must not come up without its
// record store.
func initStore(ctx context.Context, logger *slog.Logger, cfg *config.ServiceConfig) (repository.VisitRepository, *sql.DB, func()) {
	switch cfg.Store.Type {
	case config.StorePostgres:
		database := db.Open()
		if err := db.MigrateUp(database); err != nil {
			logger.Error("failed to migrate database", slog.Any("error", err))
			os.Exit(1)
		}
		store := pgrepo.NewVisitRepo(circuitbreaker.NewDBCircuitBreaker(database))
		logger.Info("visit store initialized", slog.String("backend", cfg.Store.Type))
		return store, database, func() {
			if err := database.Close(); err != nil {
				logger.Error("failed to close database", slog.Any("error", err))
			}
		}

	default: // config.StoreFirestore, enforced by cfg.Validate
		client, err := fsrepo.NewClient(ctx, cfg.Store.ProjectID, cfg.Store.CredentialsFile)
		if err != nil {
			logger.Error("failed to initialize Firestore client",
				slog.String("credentials_file", cfg.Store.CredentialsFile),
				slog.Any("error", err))
			os.Exit(1)
		}
		store := fsrepo.NewVisitRepo(client, cfg.Store.Collection)
		logger.Info("visit store initialized",
			slog.String("backend", cfg.Store.Type),
			slog.String("collection", cfg.Store.Collection))
		return store, nil, func() {
			if err := client.Close(); err != nil {
				logger.Error("failed to close Firestore client", slog.Any("error", err))
			}
		}
	}
}

// initSummarizer builds the configured summarization provider. Providers
// that call a hosted model fail closed on a missing API key: a silently
// broken summarizer would degrade every stored record to the truncation
// fallback without anyone noticing.
func initSummarizer(logger *slog.Logger, cfg *config.ServiceConfig) visitUC.Summarizer {
	switch cfg.Summarizer.Type {
	case config.SummarizerClaude:
		key := os.Getenv("ANTHROPIC_API_KEY")
		if key == "" {
			logger.Error("ANTHROPIC_API_KEY must be set for the claude summarizer")
			os.Exit(1)
		}
		return summarizer.NewClaude(key)

	case config.SummarizerOpenAI:
		key := os.Getenv("OPENAI_API_KEY")
		if key == "" {
			logger.Error("OPENAI_API_KEY must be set for the openai summarizer")
			os.Exit(1)
		}
		oaCfg, err := summarizer.LoadOpenAIConfig()
		if err != nil {
			logger.Error("failed to load OpenAI summarizer configuration", slog.Any("error", err))
			os.Exit(1)
		}
		return summarizer.NewOpenAI(key, oaCfg)

	case config.SummarizerNoop:
		logger.Warn("using noop summarizer, summaries will be truncated input")
		return summarizer.NewNoOp()

	default: // config.SummarizerHuggingFace, enforced by cfg.Validate
		key := os.Getenv("HUGGINGFACE_API_KEY")
		if key == "" {
			logger.Error("HUGGINGFACE_API_KEY must be set for the huggingface summarizer")
			os.Exit(1)
		}
		return summarizer.NewHuggingFace(key)
	}
}

// setupRoutes registers the public API routes and the operational endpoints.
func setupRoutes(svc visitUC.Service, store hvisit.StoreProber, database *sql.DB, version string) *http.ServeMux {
	mux := http.NewServeMux()
	hvisit.Register(mux, svc, store)

	mux.Handle("GET    /healthz", &hhttp.HealthHandler{Store: store, Version: version, DB: database})
	mux.Handle("GET    /readyz", &hhttp.ReadyHandler{Store: store})
	mux.Handle("GET    /livez", &hhttp.LiveHandler{})
	mux.Handle("GET    /metrics", hhttp.MetricsHandler())

	if pkgconfig.GetEnvBool("SWAGGER_ENABLED", true) {
		mux.Handle("/swagger/", httpSwagger.WrapHandler)
	}

	return mux
}

// applyMiddleware wraps the handler with the middleware chain.
// Request order: input validation → request ID → tracing → recovery →
// logging → metrics → body limit → timeout → routes. Metrics and tracing
// sit outside the timeout so a 504 written by the timeout path is recorded
// with the status the client actually saw.
func applyMiddleware(logger *slog.Logger, handler http.Handler) http.Handler {
	requestTimeout := pkgconfig.GetEnvDuration("REQUEST_TIMEOUT", 90*time.Second)

	// Apply in reverse order (innermost to outermost).
	chain := handler
	chain = hhttp.Timeout(requestTimeout)(chain)
	chain = hhttp.LimitRequestBody(1 << 20)(chain) // 1MB limit
	chain = hhttp.MetricsMiddleware(chain)
	chain = hhttp.Logging(logger)(chain)
	chain = hhttp.Recover(logger)(chain)
	chain = tracing.Middleware(chain)
	chain = requestid.Middleware(chain)
	chain = hhttp.InputValidation()(chain)

	return chain
}

// startStatsRefresher schedules periodic recomputation of the per-status
// visit count gauges. A failed refresh logs a warning and keeps the
// previous gauge values.
func startStatsRefresher(ctx context.Context, logger *slog.Logger, repo repository.VisitRepository) *cron.Cron {
	schedule := pkgconfig.GetEnvString("STATS_REFRESH_SCHEDULE", "@every 1m")

	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		refreshVisitStats(ctx, logger, repo)
	})
	if err != nil {
		logger.Error("failed to schedule stats refresh",
			slog.String("schedule", schedule),
			slog.Any("error", err))
		os.Exit(1)
	}
	c.Start()

	logger.Info("visit stats refresher started", slog.String("schedule", schedule))
	return c
}

// refreshVisitStats recomputes the visits_total gauge for each status.
// The two counts run concurrently against the store.
func refreshVisitStats(ctx context.Context, logger *slog.Logger, repo repository.VisitRepository) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	eg, egCtx := errgroup.WithContext(ctx)
	for _, status := range []string{entity.StatusPendingDiagnosis, entity.StatusCompleted} {
		eg.Go(func() error {
			count, err := repo.CountByStatus(egCtx, status)
			if err != nil {
				return fmt.Errorf("count %s visits: %w", status, err)
			}
			metrics.UpdateVisitsTotal(status, count)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		logger.Warn("visit stats refresh failed", slog.String("error", respond.SanitizeError(err)))
	}
}

// runServer starts the HTTP server and handles graceful shutdown.
func runServer(ctx context.Context, logger *slog.Logger, cfg *config.ServiceConfig, handler http.Handler, version string, stopBackground func()) {
	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout, // Prevent Slowloris attacks
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		logger.Info("server starting",
			slog.String("addr", cfg.Server.Addr),
			slog.String("store", cfg.Store.Type),
			slog.String("summarizer", cfg.Summarizer.Type),
			slog.String("version", version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server...")

	stopBackground()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", slog.Any("error", err))
	}
	logger.Info("server stopped")
}
