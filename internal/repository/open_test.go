package repository

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/vanshika/campusnav/backend/internal/config"
)

func TestOpen(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := context.Background()

	tests := []struct {
		name    string
		store   config.StoreConfig
		wantErr bool
	}{
		{name: "memory", store: config.StoreConfig{Driver: config.DriverMemory}},
		{name: "sqlite", store: config.StoreConfig{Driver: config.DriverSQLite, SQLitePath: filepath.Join(t.TempDir(), "nav.db")}},
		{name: "unknown", store: config.StoreConfig{Driver: "etcd"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := Open(ctx, config.Config{Store: tt.store}, logger)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("open: %v", err)
			}
			defer store.Close(ctx)
			if err := store.Ping(ctx); err != nil {
				t.Fatalf("ping: %v", err)
			}
		})
	}
}
