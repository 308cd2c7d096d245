// File: cmd/server/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/iyunix/go-chatrelay/internal/config"
	"github.com/iyunix/go-chatrelay/internal/services"
	"github.com/iyunix/go-chatrelay/internal/storage"
)

func main() {
	logger := services.NewLogger("chatrelay")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.WithError(err).Fatal("invalid configuration")
	}

	db, err := storage.Open(cfg.DBDriver, cfg.DBDSN, logger)
	if err != nil {
		logger.WithError(err).Fatal("database open failed")
	}
	if err := storage.Migrate(db); err != nil {
		logger.WithError(err).Fatal("database migration failed")
	}

	app, err := InitializeApplication(cfg, logger, db)
	if err != nil {
		logger.WithError(err).Fatal("application wiring failed")
	}
	defer app.Close()

	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           app.Handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.WithFields(logrus.Fields{
		"addr":           srv.Addr,
		"env":            cfg.Environment,
		"db_driver":      cfg.DBDriver,
		"storage_region": cfg.StorageRegion,
		"pusher":         cfg.PusherEnabled(),
	}).Info("server starting")

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("server startup failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down server gracefully")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	// Hijacked websocket connections are not tracked by Shutdown.
	app.Hub.Close()
	if err := srv.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("server shutdown failed")
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
	logger.Info("server stopped")
}
