package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/vanshika/campusnav/backend/internal/auth"
	"github.com/vanshika/campusnav/backend/internal/config"
	"github.com/vanshika/campusnav/backend/internal/logging"
	"github.com/vanshika/campusnav/backend/internal/navigation"
	"github.com/vanshika/campusnav/backend/internal/repository"
	"github.com/vanshika/campusnav/backend/internal/server"
	"github.com/vanshika/campusnav/backend/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Logging)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := repository.Open(ctx, cfg, logging.Component(logger, "store"))
	if err != nil {
		logger.Error("failed to open store", "driver", cfg.Store.Driver, "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			logger.Warn("closing store failed", "error", err)
		}
	}()

	nav := navigation.New(store, navigation.Options{
		WalkingSpeed: cfg.Navigation.WalkingSpeed,
		StoreTimeout: cfg.Navigation.StoreTimeout,
	}, logging.Component(logger, "navigation"))
	campus := service.NewCampusService(store, nav, logging.Component(logger, "service"))

	secret := []byte(cfg.Auth.JWTSecret)
	if len(secret) == 0 {
		logger.Warn("JWT_SECRET is not set; signing with a random key, tokens will not survive a restart")
		if secret, err = auth.RandomSecret(); err != nil {
			logger.Error("failed to generate token secret", "error", err)
			os.Exit(1)
		}
	}
	issuer, err := auth.NewIssuer(secret, cfg.Auth.TokenTTL)
	if err != nil {
		logger.Error("failed to configure token issuer", "error", err)
		os.Exit(1)
	}
	users := service.NewUserService(store, issuer, logging.Component(logger, "users"))

	router := server.NewRouter(logger, server.RouterDependencies{
		Health:           server.StoreHealthService{Store: store},
		API:              server.NewAPIHandlers(logger, campus),
		Auth:             server.NewAuthHandlers(logger, users),
		AllowedOrigins:   cfg.HTTP.AllowedOrigins(),
		AllowCredentials: cfg.HTTP.AllowCredentials,
	})

	srv := server.New(logger, cfg.HTTP, router)
	if err := srv.Run(ctx); err != nil {
		logger.Error("server stopped unexpectedly", "error", err)
		stop()
		os.Exit(1)
	}
	logger.Info("server stopped")
}
