package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"obsidian-relay/internal/config"
	"obsidian-relay/internal/deeplink"
	"obsidian-relay/internal/handler"
	"obsidian-relay/internal/markdown"
	"obsidian-relay/internal/middleware"
	"obsidian-relay/internal/repository"
	"obsidian-relay/internal/service"
	"obsidian-relay/internal/view"
	"obsidian-relay/pkg/hash"

	_ "github.com/go-kivik/kivik/v4/couchdb"

	"github.com/go-kivik/kivik/v4"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

func main() {
	if len(os.Args) == 3 && os.Args[1] == "hash-token" {
		hashed, err := hash.Hash(os.Args[2])
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Println(hashed)
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg)

	if cfg.Publish.Token == "" && cfg.Publish.TokenHash == "" {
		logger.Warn().Msg("PUBLISH_TOKEN is not set; publish API will reject every request")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	repo, err := openRepository(ctx, cfg, logger)
	cancel()
	if err != nil {
		logger.Fatal().Err(err).Str("driver", cfg.Store.Driver).Msg("Failed to open note store")
	}
	defer repo.Close()

	renderer, err := markdown.New(cfg.Render.Engine)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to build markdown renderer")
	}

	pages, err := view.New(view.Options{
		AppName:    view.AppName(cfg.DeepLink.Scheme),
		DateLocale: cfg.Render.DateLocale,
		DateLayout: cfg.Render.DateLayout,
		CodeCSS:    markdown.ChromaCSS(),
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load page templates")
	}

	publishService := service.NewPublishService(repo)

	routes := handler.Routes(handler.RouteDeps{
		Redirects:    handler.NewRedirectHandler(deeplink.NewBuilder(cfg.DeepLink.Scheme), pages, logger),
		Pages:        handler.NewPageHandler(publishService, renderer, pages, logger),
		Publish:      handler.NewPublishHandler(publishService, logger),
		PublishToken: cfg.Publish.Token,
		TokenHash:    cfg.Publish.TokenHash,
	})

	r := handler.NewRouter(routes,
		mux.MiddlewareFunc(middleware.RequestIDMiddleware()),
		mux.MiddlewareFunc(middleware.LoggerMiddleware(logger)),
		mux.MiddlewareFunc(middleware.RecoverMiddleware(logger)),
		mux.MiddlewareFunc(middleware.CORSMiddleware(
			cfg.CORS.AllowedOrigins,
			cfg.CORS.AllowedMethods,
			cfg.CORS.AllowedHeaders,
		)),
	)

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().
			Str("addr", srv.Addr).
			Str("env", cfg.Server.Env).
			Str("store", cfg.Store.Driver).
			Str("markdown", cfg.Render.Engine).
			Msg("Starting obsidian relay")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
		return
	}

	logger.Info().Msg("Server stopped gracefully")
}

func newLogger(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	var logger zerolog.Logger
	if cfg.Logging.Format == "console" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	} else {
		logger = zerolog.New(os.Stdout)
	}

	return logger.Level(level).With().Timestamp().Str("service", "obsidian-relay").Logger()
}

func openRepository(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (repository.PublishedNoteRepository, error) {
	switch cfg.Store.Driver {
	case config.StoreMemory:
		logger.Warn().Msg("Using in-memory note store; published notes are lost on restart")
		return repository.NewMemoryPublishedNoteRepository(), nil

	case config.StoreSQLite:
		db, err := repository.OpenSQLite(ctx, cfg.Store.SQLitePath)
		if err != nil {
			return nil, err
		}
		return repository.NewSQLitePublishedNoteRepository(db), nil

	case config.StorePostgres:
		pool, err := repository.OpenPostgres(ctx, cfg.Store.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return repository.NewPostgresPublishedNoteRepository(pool), nil

	default:
		client, err := kivik.New("couch", cfg.Database.CouchURL())
		if err != nil {
			return nil, fmt.Errorf("failed to connect to CouchDB: %w", err)
		}

		created, err := repository.EnsureCouchDB(ctx, client, cfg.Database.Name)
		if err != nil {
			return nil, err
		}
		if created {
			logger.Info().Str("db", cfg.Database.Name).Msg("Created database")
		}
		logger.Info().
			Str("host", cfg.Database.Host).
			Str("port", cfg.Database.Port).
			Msg("Connected to CouchDB")

		return repository.NewCouchPublishedNoteRepository(client, cfg.Database.Name), nil
	}
}
