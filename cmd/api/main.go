package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/riveroslabs/merchant-console-backend/api/routes"
	authsvc "github.com/riveroslabs/merchant-console-backend/internal/auth"
	"github.com/riveroslabs/merchant-console-backend/internal/customers"
	"github.com/riveroslabs/merchant-console-backend/internal/paymentprofiles"
	"github.com/riveroslabs/merchant-console-backend/internal/subscriptions"
	"github.com/riveroslabs/merchant-console-backend/pkg/authnet"
	"github.com/riveroslabs/merchant-console-backend/pkg/config"
	"github.com/riveroslabs/merchant-console-backend/pkg/logger"
	"github.com/riveroslabs/merchant-console-backend/pkg/metrics"
	pkgredis "github.com/riveroslabs/merchant-console-backend/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if err := cfg.App.ValidatePublicBaseURL(); err != nil {
		log.Fatalf("config: %v", err)
	}

	logg := logger.New(logger.Options{
		ServiceName: "merchant-console-api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})
	ctx := context.Background()

	var redisClient *pkgredis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = pkgredis.New(ctx, cfg.Redis)
		if err != nil {
			logg.Error(ctx, "redis unavailable", err)
			os.Exit(1)
		}
		defer func() { _ = redisClient.Close() }()
	} else {
		logg.Warn(ctx, "redis not configured, login rate limiting disabled")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	gatewayMetrics := metrics.NewGatewayMetrics(registry)

	gateway, err := authnet.NewClient(cfg.Gateway, logg, authnet.WithMetrics(gatewayMetrics))
	if err != nil {
		logg.Error(ctx, "gateway client init failed", err)
		os.Exit(1)
	}

	authService, err := authsvc.NewService(cfg.Staff, cfg.JWT)
	if err != nil {
		logg.Error(ctx, "auth service init failed", err)
		os.Exit(1)
	}
	customersService, err := customers.NewService(gateway)
	if err != nil {
		logg.Error(ctx, "customers service init failed", err)
		os.Exit(1)
	}
	paymentProfilesService, err := paymentprofiles.NewService(gateway, cfg.App.PublicBaseURL)
	if err != nil {
		logg.Error(ctx, "payment profiles service init failed", err)
		os.Exit(1)
	}
	subscriptionsService, err := subscriptions.NewService(gateway)
	if err != nil {
		logg.Error(ctx, "subscriptions service init failed", err)
		os.Exit(1)
	}

	router := routes.New(routes.Dependencies{
		Config:                 cfg,
		Logger:                 logg,
		Redis:                  redisClient,
		Registry:               registry,
		AuthService:            authService,
		CustomersService:       customersService,
		PaymentProfilesService: paymentProfilesService,
		SubscriptionsService:   subscriptionsService,
	})

	server := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       90 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logg.Info(logg.WithFields(ctx, map[string]any{
			"port":        cfg.App.Port,
			"environment": cfg.App.Env,
			"gateway_env": gateway.Environment(),
		}), "server starting")
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "server failed", err)
			os.Exit(1)
		}
	case sig := <-stop:
		logg.Info(logg.WithField(ctx, "signal", sig.String()), "shutting down")
		shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
			os.Exit(1)
		}
	}

	logg.Info(ctx, "server stopped")
}
