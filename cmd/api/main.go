package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"captable/internal/api"
	"captable/internal/config"
	"captable/internal/logger"
	"captable/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadServer(".env")
	if err != nil {
		return err
	}
	log := logger.New(cfg.Verbose)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	st, err := openStore(ctx, log, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	if cfg.Production {
		gin.SetMode(gin.ReleaseMode)
	}
	router := api.NewRouter(api.Options{
		Store:          st,
		Log:            log,
		ShareLinkTTL:   cfg.ShareLinkTTL,
		AllowedOrigins: cfg.AllowedOrigins,
		ScenarioDir:    cfg.ScenarioDir,
	})

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("starting API server", "addr", httpServer.Addr, "production", cfg.Production)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server error", "error", err)
			cancel()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("error shutting down HTTP server", "error", err)
	}
	return nil
}

func openStore(ctx context.Context, log *slog.Logger, cfg *config.Server) (store.Store, error) {
	if cfg.DatabaseURL == "" {
		log.Warn("DATABASE_URL not set, scenarios are kept in memory")
		return store.NewMemoryStore(clockwork.NewRealClock()), nil
	}
	st, err := store.NewPostgresStore(ctx, log, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("open postgres store: %w", err)
	}
	log.Info("using postgres store")
	return st, nil
}
