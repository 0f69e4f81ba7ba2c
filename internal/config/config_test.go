package config

import (
	"slices"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"SERVER_HOST", "SERVER_PORT", "STORE_DRIVER", "SQLITE_PATH", "GRAPH_URI",
		"NAV_WALKING_SPEED", "NAV_STORE_TIMEOUT", "JWT_SECRET", "TOKEN_TTL", "SERVER_ALLOWED_ORIGINS",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.HTTP.Port != defaultPort || cfg.HTTP.Host != defaultHost {
		t.Errorf("unexpected http config %+v", cfg.HTTP)
	}
	if cfg.Store.Driver != DriverSQLite || cfg.Store.SQLitePath != defaultSQLitePath {
		t.Errorf("unexpected store config %+v", cfg.Store)
	}
	if cfg.Navigation.WalkingSpeed != 1.4 || cfg.Navigation.StoreTimeout != defaultStoreTimeout {
		t.Errorf("unexpected navigation config %+v", cfg.Navigation)
	}
	if cfg.Auth.JWTSecret != "" || cfg.Auth.TokenTTL != 30*time.Minute {
		t.Errorf("unexpected auth config %+v", cfg.Auth)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("STORE_DRIVER", "Memory")
	t.Setenv("NAV_WALKING_SPEED", "1.2")
	t.Setenv("NAV_STORE_TIMEOUT", "250ms")
	t.Setenv("SERVER_SHUTDOWN_TIMEOUT", "3s")
	t.Setenv("SERVER_ALLOWED_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("JWT_SECRET", "signing-key")
	t.Setenv("TOKEN_TTL", "45m")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Store.Driver != DriverMemory {
		t.Errorf("driver = %q", cfg.Store.Driver)
	}
	if cfg.Navigation.WalkingSpeed != 1.2 || cfg.Navigation.StoreTimeout != 250*time.Millisecond {
		t.Errorf("unexpected navigation config %+v", cfg.Navigation)
	}
	if cfg.HTTP.ShutdownTimeout != 3*time.Second {
		t.Errorf("shutdown timeout = %v", cfg.HTTP.ShutdownTimeout)
	}
	if got := cfg.HTTP.AllowedOrigins(); !slices.Equal(got, []string{"https://a.example", "https://b.example"}) {
		t.Errorf("origins = %v", got)
	}
	if cfg.Auth.JWTSecret != "signing-key" || cfg.Auth.TokenTTL != 45*time.Minute {
		t.Errorf("unexpected auth config %+v", cfg.Auth)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "unknown driver", env: map[string]string{"STORE_DRIVER": "postgres"}},
		{name: "neo4j without uri", env: map[string]string{"STORE_DRIVER": "neo4j", "GRAPH_URI": ""}},
		{name: "zero walking speed", env: map[string]string{"NAV_WALKING_SPEED": "0"}},
		{name: "nan walking speed", env: map[string]string{"NAV_WALKING_SPEED": "NaN"}},
		{name: "bad timeout", env: map[string]string{"NAV_STORE_TIMEOUT": "soon"}},
		{name: "port out of range", env: map[string]string{"SERVER_PORT": "70000"}},
		{name: "bad token ttl", env: map[string]string{"TOKEN_TTL": "forever"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("STORE_DRIVER", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := Load(); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}
