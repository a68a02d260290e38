package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/time/rate"

	"github.com/ahmethakanbesel/price-tracker/internal/config"
	"github.com/ahmethakanbesel/price-tracker/internal/fetch"
	"github.com/ahmethakanbesel/price-tracker/internal/monitor"
	"github.com/ahmethakanbesel/price-tracker/internal/notify"
	"github.com/ahmethakanbesel/price-tracker/internal/parse"
	"github.com/ahmethakanbesel/price-tracker/internal/platform/sqlite"
	"github.com/ahmethakanbesel/price-tracker/internal/product"
	productrepo "github.com/ahmethakanbesel/price-tracker/internal/repository/product"
	"github.com/ahmethakanbesel/price-tracker/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Root context: cancelled on SIGINT/SIGTERM so the scheduler and any
	// in-flight page fetches stop promptly during graceful shutdown.
	rootCtx, rootCancel := context.WithCancel(context.Background())
	defer rootCancel()

	// Open database
	db, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	repo := productrepo.NewRepository(db.DB)

	// Fetcher with a politeness limiter shared by all tracked sites.
	fetcher := fetch.New(
		fetch.WithTimeout(cfg.FetchTimeout),
		fetch.WithLimiter(rate.NewLimiter(rate.Every(time.Second), 5)),
	)

	svc := product.NewService(repo, fetcher, parse.NewRegistry())

	// Notifier: email when SMTP is fully configured, log output otherwise.
	var notifier notify.Notifier
	emailCfg := notify.EmailConfig{
		Host:      cfg.SMTP.Host,
		Port:      cfg.SMTP.Port,
		Username:  cfg.SMTP.Username,
		Password:  cfg.SMTP.Password,
		Sender:    cfg.SMTP.Sender,
		Recipient: cfg.SMTP.Recipient,
	}
	if emailCfg.Configured() {
		notifier = notify.NewEmailNotifier(emailCfg)
		slog.Info("email alerts enabled", "recipient", emailCfg.Recipient)
	} else {
		notifier = notify.NewLogNotifier()
		slog.Warn("smtp not configured, alerts will only be logged")
	}

	// Scheduler: periodic check cycles in the background.
	scheduler := monitor.New(repo, svc, notifier,
		monitor.WithInterval(cfg.CheckInterval),
		monitor.WithParallelism(cfg.Workers),
	)
	schedulerDone := make(chan struct{})
	go func() {
		scheduler.Run(rootCtx)
		close(schedulerDone)
	}()

	// HTTP server — rootCtx is used as BaseContext so every request context
	// inherits from it and is cancelled on shutdown.
	srv := server.New(rootCtx, cfg.Port, svc, scheduler)

	// Graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	slog.Info("server started", "port", cfg.Port)
	<-done

	// Cancel root context first so the scheduler finishes its in-flight
	// product checks and stops before the next sleep.
	rootCancel()
	<-schedulerDone

	// Then drain connections with a deadline.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
	slog.Info("server stopped")
}
