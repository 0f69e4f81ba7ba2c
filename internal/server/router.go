package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/vanshika/campusnav/backend/internal/domain"
)

// RouterDependencies collects handler dependencies.
type RouterDependencies struct {
	Health           HealthService
	API              *APIHandlers
	Auth             *AuthHandlers
	AllowedOrigins   []string
	AllowCredentials bool
}

// NewRouter wires the HTTP routes exposed by the backend API. Reads are
// public; every mutation requires a bearer token for an admin account.
func NewRouter(logger *slog.Logger, deps RouterDependencies) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(loggingMiddleware(logger))
	r.Use(middleware.Recoverer)
	if len(deps.AllowedOrigins) > 0 {
		r.Use(corsMiddleware(deps.AllowedOrigins, deps.AllowCredentials))
	}

	r.Get("/healthz", healthHandler(logger, deps.Health))

	if deps.Auth != nil {
		r.Post("/token", deps.Auth.login)
		r.Route("/users", func(r chi.Router) {
			r.Post("/", deps.Auth.register)
			r.With(requireRole(deps.Auth, "")).Get("/me", deps.Auth.me)
		})
	}

	api := deps.API
	if api == nil {
		return r
	}
	admin := requireRole(deps.Auth, domain.RoleAdmin)

	r.Route("/locations", func(r chi.Router) {
		r.Get("/", api.listLocations)
		r.Get("/{id}", api.getLocation)
		r.Get("/{id}/connections", api.locationNeighbors)
		r.With(admin).Post("/", api.createLocation)
		r.With(admin).Put("/{id}", api.updateLocation)
		r.With(admin).Delete("/{id}", api.deleteLocation)
	})

	r.Get("/path", api.findPath)

	r.Route("/poi", func(r chi.Router) {
		r.Get("/", api.listPOIs)
		r.Get("/{id}", api.getPOI)
		r.With(admin).Post("/", api.createPOI)
		r.With(admin).Put("/{id}", api.updatePOI)
		r.With(admin).Delete("/{id}", api.deletePOI)
	})

	r.Route("/emergency", func(r chi.Router) {
		r.Get("/", api.listEmergencyServices)
		r.Get("/{id}", api.getEmergencyService)
		r.With(admin).Post("/", api.createEmergencyService)
		r.With(admin).Put("/{id}", api.updateEmergencyService)
		r.With(admin).Delete("/{id}", api.deleteEmergencyService)
	})

	return r
}

func healthHandler(logger *slog.Logger, health HealthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		payload := map[string]any{
			"status": "ok",
		}

		if health != nil {
			if err := health.Probe(ctx); err != nil {
				logger.Error("health probe failed", "error", err)
				status = http.StatusServiceUnavailable
				payload["status"] = "degraded"
				payload["error"] = err.Error()
			}
		}

		respondJSON(w, status, payload)
	}
}

func loggingMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &responseRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			logger.Info("request completed",
				"request_id", middleware.GetReqID(r.Context()),
				"method", r.Method,
				"path", r.URL.Path,
				"remote", r.RemoteAddr,
				"status", rec.status,
				"duration_ms", time.Since(start).Milliseconds(),
			)
		})
	}
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(data)
}

type responseRecorder struct {
	http.ResponseWriter
	status int
}

func (r *responseRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func corsMiddleware(allowedOrigins []string, allowCredentials bool) func(http.Handler) http.Handler {
	normalized := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		origin = strings.TrimSpace(origin)
		if origin == "" {
			continue
		}
		normalized[origin] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" || (!containsOrigin(normalized, origin) && !containsOrigin(normalized, "*")) {
				if r.Method == http.MethodOptions && origin != "" {
					w.WriteHeader(http.StatusForbidden)
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Add("Vary", "Origin")
			if allowCredentials {
				w.Header().Set("Access-Control-Allow-Credentials", "true")
			}
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-Id")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func containsOrigin(set map[string]struct{}, origin string) bool {
	_, ok := set[origin]
	return ok
}
