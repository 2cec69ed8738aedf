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

	"github.com/tmun/divvy/internal/auth"
	"github.com/tmun/divvy/internal/config"
	"github.com/tmun/divvy/internal/handler"
	"github.com/tmun/divvy/internal/observability"
	"github.com/tmun/divvy/internal/service"
	"github.com/tmun/divvy/internal/storage/sqlite"
	"github.com/tmun/divvy/pkg/logging"
)

func main() {
	cfg := config.Load()

	logging.SetupWithLevel(logging.ParseLevel(cfg.LogLevel))

	// Initialize SQLite storage
	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)
	authenticator := auth.NewPasswordAuthenticator(store)
	metrics := observability.NewMetrics()

	groupService := service.NewGroupService(store)
	router := handler.NewRouter(handler.Services{
		Auth:        service.NewAuthService(authenticator, jwtManager),
		Groups:      groupService,
		Expenses:    service.NewExpenseService(store, groupService),
		Settlements: service.NewSettlementService(store, groupService, metrics),
		JWT:         jwtManager,
		Metrics:     metrics,
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Server starting", "address", addr, "url", fmt.Sprintf("http://localhost%s", addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt, then drain in-flight requests
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	slog.Info("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Shutdown failed", "error", err)
	}
}
