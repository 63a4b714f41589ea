/*
main.go - Application entry point

PURPOSE:
  Starts the cash book server: loads configuration from the environment
  (optionally via .env), builds the chosen store, wires the journal and
  handlers, and runs the HTTP server with graceful shutdown.

STARTUP SEQUENCE:
  1. Load .env (if present) and environment config
  2. Build the store (json | sqlite | memory)
  3. Wire journal, authenticator, handler, router
  4. Serve with graceful shutdown on SIGINT/SIGTERM

CONFIGURATION (environment):
  PORT            HTTP port (default 8080)
  STORE_DRIVER    json | sqlite | memory (default json)
  DATA_DIR        JSON store directory (default ./data)
  DB_PATH         SQLite path (default ./data/kas.db)
  ADMIN_PASSWORD  Shared admin password (empty = admin surface disabled)
  JWT_SECRET      Token signing secret (required with ADMIN_PASSWORD)

SEE ALSO:
  - config/config.go: Full variable list
  - api/server.go:    Router configuration
*/
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/ryanekop/cashflow-kos-alhafidz/api"
	"github.com/ryanekop/cashflow-kos-alhafidz/billing"
	memstore "github.com/ryanekop/cashflow-kos-alhafidz/billing/store"
	"github.com/ryanekop/cashflow-kos-alhafidz/config"
	"github.com/ryanekop/cashflow-kos-alhafidz/journal"
	"github.com/ryanekop/cashflow-kos-alhafidz/store/jsonfile"
	"github.com/ryanekop/cashflow-kos-alhafidz/store/sqlite"
)

func main() {
	// Missing .env is fine; the environment may carry everything.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	store, closeStore, err := buildStore(cfg)
	if err != nil {
		log.Fatalf("store: %v", err)
	}
	defer closeStore()

	jnl := journal.New(store)
	auth := api.NewAuthenticator(cfg.Auth.AdminPassword, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	handler := api.NewHandler(store, jnl, auth)
	router := api.NewRouter(handler, cfg.Server.AllowedOrigins)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Printf("%s listening on http://localhost:%d (store: %s)", cfg.App.Name, cfg.App.Port, cfg.Store.Driver)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	log.Println("server stopped")
}

func buildStore(cfg *config.Config) (billing.Store, func(), error) {
	switch cfg.Store.Driver {
	case "json":
		s, err := jsonfile.New(cfg.Store.DataDir)
		if err != nil {
			return nil, nil, err
		}
		return s, func() {}, nil
	case "sqlite":
		s, err := sqlite.New(cfg.Store.DBPath)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { s.Close() }, nil
	case "memory":
		return memstore.NewMemory(), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}
