package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vanshika/campusnav/backend/internal/config"
	"github.com/vanshika/campusnav/backend/internal/logging"
	"github.com/vanshika/campusnav/backend/internal/navigation"
	"github.com/vanshika/campusnav/backend/internal/repository"
	"github.com/vanshika/campusnav/backend/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "navctl",
		Short: "Administer the campus navigation store",
		Long: "navctl generates, seeds and queries campus navigation data and manages\n" +
			"user accounts. The store is selected with the same environment variables\n" +
			"as the server (STORE_DRIVER, SQLITE_PATH, GRAPH_*).",
		SilenceUsage: true,
	}
	root.AddCommand(newGenerateCmd(), newSeedCmd(), newPathCmd(), newUserCmd())
	return root
}

// campus bundles an opened store with the services built on top of it.
type campus struct {
	logger  *slog.Logger
	store   repository.Store
	service *service.CampusService
}

func openCampus(ctx context.Context) (*campus, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger := logging.Component(logging.New(cfg.Logging), "navctl")

	store, err := repository.Open(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	nav := navigation.New(store, navigation.Options{
		WalkingSpeed: cfg.Navigation.WalkingSpeed,
		StoreTimeout: cfg.Navigation.StoreTimeout,
	}, logger)

	return &campus{
		logger:  logger,
		store:   store,
		service: service.NewCampusService(store, nav, logger),
	}, nil
}

func (c *campus) Close() {
	if err := c.store.Close(context.Background()); err != nil {
		c.logger.Warn("closing store failed", "error", err)
	}
}
