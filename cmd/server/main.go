package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/allinsys/contactforms/internal/config"
	"github.com/allinsys/contactforms/internal/logging"
	"github.com/allinsys/contactforms/internal/metrics"
	"github.com/allinsys/contactforms/internal/repository"
	"github.com/allinsys/contactforms/internal/server"
	"github.com/allinsys/contactforms/internal/service"
	"github.com/allinsys/contactforms/internal/tasks"
	"github.com/allinsys/contactforms/internal/telemetry"
	"github.com/allinsys/contactforms/internal/version"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger configuration
	logConfig := &logging.LogConfig{
		Level:      cfg.LogLevel,
		File:       cfg.LogFile,
		MaxSize:    cfg.LogMaxSize,
		MaxBackups: cfg.LogMaxBackups,
		MaxAge:     cfg.LogMaxAge,
	}
	if err := logging.InitLogger(logConfig); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logger := logging.GetGlobalLogger()
	defer logger.Close()

	logger.Info("Starting contact forms API %s in %s mode", version.Info(), cfg.Environment)

	ctx := context.Background()

	shutdownTracing, err := telemetry.Init(ctx, telemetry.Config{
		ServiceVersion: version.Version,
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		SampleRatio:    cfg.OTelSampleRate,
	})
	if err != nil {
		logger.Error("Failed to initialize tracing: %v", err)
		os.Exit(1)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	repo, closeStore, err := repository.Open(ctx, cfg, m)
	if err != nil {
		logger.Error("Failed to open %s store: %v", cfg.StoreDriver, err)
		os.Exit(1)
	}
	logger.Info("Using %s store", cfg.StoreDriver)

	var opts []service.ContactServiceOption
	if telegram := service.NewTelegramService(cfg.TelegramBotToken, cfg.TelegramChatID); telegram != nil {
		opts = append(opts, service.WithNotifier(telegram))
		logger.Info("Telegram notifications enabled")
	}
	contactService := service.NewContactService(repo, cfg.PhoneRegion, m, opts...)

	recaptcha := service.NewRecaptchaService(cfg.RecaptchaSecretKey, cfg.RecaptchaMinScore)
	if recaptcha == nil {
		logger.Warn("RECAPTCHA_SECRET_KEY not set, submissions are not checked for spam")
	}

	monitor := tasks.NewStoreMonitor(repo, m, cfg.StoreMonitorInterval)
	monitor.Start()

	srv := server.NewServer(cfg, server.Dependencies{
		ContactService: contactService,
		Recaptcha:      recaptcha,
		Metrics:        m,
		Gatherer:       reg,
	})

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	exitCode := 0
	select {
	case sig := <-quit:
		logger.Info("Received signal %s, shutting down", sig)
	case err := <-serverErr:
		if err != nil {
			logger.Error("Server error: %v", err)
			exitCode = 1
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed: %v", err)
		exitCode = 1
	}
	monitor.Stop()
	contactService.Wait()
	if err := closeStore(); err != nil {
		logger.Error("Failed to close store: %v", err)
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Error("Failed to flush traces: %v", err)
	}

	logger.Info("Server stopped")
	if exitCode != 0 {
		cancel()
		logger.Close()
		os.Exit(exitCode)
	}
}
