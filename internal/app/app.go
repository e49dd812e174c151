// Package app wires configuration, storage, the model clients and the
// services into one runnable application.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/alexanderramin/inbox/internal/api"
	"github.com/alexanderramin/inbox/internal/config"
	"github.com/alexanderramin/inbox/internal/db"
	"github.com/alexanderramin/inbox/internal/events"
	"github.com/alexanderramin/inbox/internal/intelligence"
	"github.com/alexanderramin/inbox/internal/llm"
	"github.com/alexanderramin/inbox/internal/repository"
	"github.com/alexanderramin/inbox/internal/service"
)

// App is the wired application. Close releases the database.
type App struct {
	Config *config.Config
	Logger *slog.Logger
	Intake service.IntakeService
	Drafts service.DraftService
	Bus    *events.Bus

	db *sql.DB
}

// New opens the database and builds every service. logOut receives
// structured logs; nil discards them.
func New(cfg *config.Config, logOut io.Writer) (*App, error) {
	logger := newLogger(logOut, cfg.Debug)

	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	client, ocr, err := newModelClients(cfg.LLM, logger)
	if err != nil {
		database.Close()
		return nil, err
	}

	uow := db.NewSQLiteUnitOfWork(database)
	drafts := repository.NewSQLitePendingDraftRepo(database)
	sessions := repository.NewSQLiteClarificationRepo(database)
	observer := service.NewSlogUseCaseObserver(logger)

	bus := events.NewBus(events.WithLogger(logger))
	bus.Handle(events.LogHandler(logger))

	analyzer := intelligence.NewIntakeAnalyzer(client, ocr, intelligence.WithAnalyzerLogger(logger))
	return &App{
		Config: cfg,
		Logger: logger,
		Intake: service.NewIntakeService(analyzer, drafts, sessions, uow,
			service.WithIntakePolicy(cfg.Policy),
			service.WithIntakeObserver(observer),
		),
		Drafts: service.NewDraftService(drafts, uow,
			service.WithEventPublisher(bus),
			service.WithDraftObserver(observer),
		),
		Bus: bus,
		db:  database,
	}, nil
}

func newLogger(w io.Writer, debug bool) *slog.Logger {
	if w == nil {
		return slog.New(slog.DiscardHandler)
	}
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// newModelClients picks the completion and image-to-text clients. With the
// model disabled every submission is kept as a note.
func newModelClients(cfg llm.LLMConfig, logger *slog.Logger) (llm.LLMClient, llm.ImageTextExtractor, error) {
	if !cfg.Enabled {
		return llm.NewDisabledClient(), nil, nil
	}
	var observer llm.Observer = llm.NoopObserver{}
	if cfg.LogCalls {
		observer = llm.NewLogObserver(logger)
	}
	client, err := llm.NewClient(cfg, observer)
	if err != nil {
		return nil, nil, fmt.Errorf("configuring model client: %w", err)
	}
	// Vision runs against a local Ollama model regardless of the completion provider.
	var ocr llm.ImageTextExtractor
	if cfg.Provider == llm.ProviderOllama && cfg.VisionModel != "" {
		ocr = llm.NewOllamaVisionClient(cfg, observer)
	}
	return client, ocr, nil
}

// Serve runs the HTTP API on addr until ctx is cancelled.
func (a *App) Serve(ctx context.Context, addr string) error {
	handler := api.NewHandler(a.Intake, a.Drafts, a.Bus,
		api.WithLogger(a.Logger),
		api.WithMaintenanceToken(a.Config.MaintenanceToken),
	)
	srv := &http.Server{
		Addr:              addr,
		Handler:           api.NewRouter(handler, a.Config.Debug),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info("http_listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return fmt.Errorf("serving http: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		a.Logger.Info("http_shutdown")
		return srv.Shutdown(shutdownCtx)
	}
}

func (a *App) Close() error {
	return a.db.Close()
}
