// Package app provides application-level wiring and dependency injection.
// It turns a Config into a fully-connected HTTP handler plus the background
// pieces (session sweeper, history store) that main() starts and stops.
package app

import (
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"quackview/internal/api"
	"quackview/internal/config"
	"quackview/internal/db"
	"quackview/internal/db/repository"
	"quackview/internal/middleware"
	"quackview/internal/service/analyze"
	"quackview/internal/service/export"
	"quackview/internal/service/history"
	"quackview/internal/session"
)

// Services groups the service pointers the API handler needs.
type Services struct {
	Analyze *analyze.Service
	Export  *export.Service
	History *history.Service
}

// App holds the fully-wired application.
type App struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Router   chi.Router
	Sessions *session.Registry
	Sweeper  *session.Sweeper
	Services Services

	historyDB *sql.DB
}

// New wires the history store, session registry, services, and router from
// the provided configuration.
func New(cfg *config.Config, logger *slog.Logger) (*App, error) {
	historyDB, err := db.OpenSQLite(cfg.HistoryDBPath)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	if err := db.RunMigrations(historyDB); err != nil {
		historyDB.Close()
		return nil, fmt.Errorf("migrate history db: %w", err)
	}

	historyRepo := repository.NewQueryHistoryRepo(historyDB)

	registry := session.NewRegistry(cfg.SessionTTL, cfg.TmpDir, logger)
	sweeper := session.NewSweeper(registry, logger)

	services := Services{
		Analyze: analyze.NewService(registry, historyRepo, logger),
		Export:  export.NewService(registry, logger),
		History: history.NewService(historyRepo),
	}

	handler := api.NewHandler(
		registry,
		services.Analyze,
		services.Export,
		services.History,
		cfg.MaxUploadBytes,
		logger,
	)

	return &App{
		Cfg:       cfg,
		Logger:    logger,
		Router:    buildRouter(cfg, logger, handler),
		Sessions:  registry,
		Sweeper:   sweeper,
		Services:  services,
		historyDB: historyDB,
	}, nil
}

// Start launches the background session sweeper.
func (a *App) Start() error {
	return a.Sweeper.Start()
}

// Shutdown stops the sweeper, closes every live session, and closes the
// history store.
func (a *App) Shutdown() {
	a.Sweeper.Stop()
	a.Sessions.CloseAll()
	if err := a.historyDB.Close(); err != nil {
		a.Logger.Warn("history db close failed", "error", err)
	}
}

func buildRouter(cfg *config.Config, logger *slog.Logger, handler *api.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger.With("component", "http")))
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
	r.Use(middleware.RateLimiter(middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		Burst:             cfg.RateLimitBurst,
	}))

	r.Mount("/", handler.Routes())
	return r
}
