package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/dmehra2102/prod-golang-projects/healthwallet/internal/config"
	v1 "github.com/dmehra2102/prod-golang-projects/healthwallet/internal/handler/v1"
	"github.com/dmehra2102/prod-golang-projects/healthwallet/internal/repository"
	"github.com/dmehra2102/prod-golang-projects/healthwallet/internal/service"
	"github.com/dmehra2102/prod-golang-projects/healthwallet/internal/storage"
	"github.com/dmehra2102/prod-golang-projects/healthwallet/pkg/auth"
	"github.com/dmehra2102/prod-golang-projects/healthwallet/pkg/database"
	"github.com/dmehra2102/prod-golang-projects/healthwallet/pkg/logger"
	"github.com/dmehra2102/prod-golang-projects/healthwallet/pkg/metrics"
	"github.com/dmehra2102/prod-golang-projects/healthwallet/pkg/tracer"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "fatal:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	tp, err := tracer.Init(cfg.Tracing)
	if err != nil {
		return fmt.Errorf("initializing tracer: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		_ = tp.Shutdown(ctx)
	}()

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return err
	}

	if err := database.Migrate(db, log); err != nil {
		return err
	}

	var store storage.Store
	switch cfg.Storage.Backend {
	case "s3":
		store, err = storage.NewS3Store(context.Background(), cfg.Storage)
	default:
		store, err = storage.NewLocalStore(cfg.Storage)
	}
	if err != nil {
		return fmt.Errorf("initializing blob store: %w", err)
	}

	userRepo := repository.NewUserRepository(db)
	reportRepo := repository.NewReportRepository(db)
	vitalRepo := repository.NewVitalRepository(db)
	shareRepo := repository.NewShareRepository(db)

	jwtManager := auth.NewJWTManager(cfg.JWT)
	col := metrics.NewCollector("healthwallet")

	router := v1.NewRouter(v1.RouterDeps{
		Config:     cfg,
		Log:        log,
		Metrics:    col,
		JWTManager: jwtManager,
		Auth:       service.NewAuthService(userRepo, jwtManager, log),
		Reports:    service.NewReportService(reportRepo, shareRepo, store, log),
		Shares:     service.NewShareService(shareRepo, reportRepo, userRepo, log),
		Vitals:     service.NewVitalsService(vitalRepo, log),
		DB:         db,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		log.Info("shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}

	log.Info("server stopped")
	return nil
}
