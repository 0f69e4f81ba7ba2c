package repository

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vanshika/campusnav/backend/internal/config"
	"github.com/vanshika/campusnav/backend/internal/graph"
)

// Open builds the Store selected by cfg.Store.Driver, verifying it is
// reachable and that its schema exists. The caller owns the returned store and must Close it.
func Open(ctx context.Context, cfg config.Config, logger *slog.Logger) (Store, error) {
	switch cfg.Store.Driver {
	case config.DriverMemory:
		logger.Warn("using in-memory store; data is lost on exit")
		return NewMemory(), nil

	case config.DriverSQLite:
		store, err := NewSQLite(ctx, cfg.Store.SQLitePath)
		if err != nil {
			return nil, err
		}
		logger.Info("opened sqlite store", "path", cfg.Store.SQLitePath)
		return store, nil

	case config.DriverNeo4j:
		client, err := graph.NewNeo4jClient(ctx, graph.Options{
			URI:            cfg.Graph.URI,
			Database:       cfg.Graph.Database,
			Username:       cfg.Graph.Username,
			Password:       cfg.Graph.Password,
			MaxConnections: cfg.Graph.MaxConnections,
		})
		if err != nil {
			return nil, err
		}
		store := NewNeo4j(client)
		if err := store.EnsureSchema(ctx); err != nil {
			_ = client.Close(ctx)
			return nil, err
		}
		logger.Info("connected to graph", "uri", cfg.Graph.URI, "database", cfg.Graph.Database)
		return store, nil
	}
	return nil, fmt.Errorf("unsupported store driver %q", cfg.Store.Driver)
}
