// Command dbtranslate serves the database content translation API.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/jkowal/dbtranslate/internal/cache"
	"github.com/jkowal/dbtranslate/internal/config"
	"github.com/jkowal/dbtranslate/internal/handler/api"
	"github.com/jkowal/dbtranslate/internal/i18n"
	"github.com/jkowal/dbtranslate/internal/logging"
	"github.com/jkowal/dbtranslate/internal/middleware"
	"github.com/jkowal/dbtranslate/internal/scheduler"
	"github.com/jkowal/dbtranslate/internal/service"
	"github.com/jkowal/dbtranslate/internal/session"
	"github.com/jkowal/dbtranslate/internal/store"
	"github.com/jkowal/dbtranslate/internal/translate"
)

const version = "0.1.0"

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println("dbtranslate " + version)
		return
	}

	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// .env is optional; the environment wins either way.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	var inner slog.Handler
	if cfg.IsDevelopment() {
		inner = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})
	} else {
		inner = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})
	}
	logger := slog.New(logging.NewContextHandler(inner))
	slog.SetDefault(logger)

	logger.Info("starting dbtranslate", "version", version, "env", cfg.Env)

	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := store.Migrate(db); err != nil {
		return err
	}

	ctx := context.Background()
	if err := store.Seed(ctx, db, cfg.DoSeed); err != nil {
		return err
	}

	q := store.New(db)

	languages := cache.NewLanguages(q, logger)
	locales, err := languages.Locales(ctx)
	if err != nil {
		return err
	}
	if err := i18n.Init(logger, locales, cfg.DefaultLocale); err != nil {
		return err
	}

	var backend cache.Backend
	if cfg.UseRedisCache() {
		backend, err = cache.NewRedis(ctx, cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("connecting to redis: %w", err)
		}
		logger.Info("translation cache backed by redis")
	} else {
		backend = cache.NewMemory()
	}
	defer backend.Close()

	translations := cache.NewTranslations(backend, cfg.CacheTTL, logger)
	resolver := translate.NewResolver(q, translations)
	cascade := service.NewCascade(db, logger)

	sm := session.New(db, cfg.IsDevelopment())
	sessions := session.NewManager(sm, q)

	sched := scheduler.New(q, logger)
	if err := sched.Start(); err != nil {
		return err
	}
	defer sched.Stop()

	apiHandler := api.NewHandler(q, cascade, resolver, sessions, languages, translations, logger)

	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(limiter.Handler)
	r.Use(sm.LoadAndSave)
	r.Use(middleware.Language(sessions))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			http.Error(w, "unhealthy", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Mount("/api/v1", apiHandler.Routes())

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		logger.Info("shutting down", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}

	logger.Info("stopped")
	return nil
}
