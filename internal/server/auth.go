package server

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/vanshika/campusnav/backend/internal/domain"
	"github.com/vanshika/campusnav/backend/internal/service"
)

type contextKey int

const userContextKey contextKey = iota

// userFromContext returns the account attached by the auth middleware.
func userFromContext(ctx context.Context) (domain.User, bool) {
	user, ok := ctx.Value(userContextKey).(domain.User)
	return user, ok
}

func bearerToken(r *http.Request) (string, bool) {
	token, found := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	token = strings.TrimSpace(token)
	return token, found && token != ""
}

// AuthHandlers serves login and registration and guards protected routes.
type AuthHandlers struct {
	logger *slog.Logger
	users  *service.UserService
}

// NewAuthHandlers constructs an AuthHandlers instance.
func NewAuthHandlers(logger *slog.Logger, users *service.UserService) *AuthHandlers {
	return &AuthHandlers{logger: logger, users: users}
}

// requireRole rejects requests without a valid bearer token (401) and, when
// role is not empty, requests from accounts holding another role (403).
// With no auth handlers configured every guarded route is refused.
func requireRole(a *AuthHandlers, role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if a == nil {
				writeError(w, http.StatusForbidden, "authentication is disabled")
				return
			}
			token, ok := bearerToken(r)
			if !ok {
				w.Header().Set("WWW-Authenticate", "Bearer")
				writeError(w, http.StatusUnauthorized, "not authenticated")
				return
			}
			user, err := a.users.Authenticate(r.Context(), token)
			if err != nil {
				writeServiceError(a.logger, w, r, err, "failed to authenticate")
				return
			}
			if role != "" && user.Role != role {
				writeError(w, http.StatusForbidden, service.ErrForbidden.Error())
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userContextKey, user)))
		})
	}
}

// login implements the OAuth2 password grant: a form-encoded username and
// password in, a bearer token out.
func (a *AuthHandlers) login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form payload")
		return
	}
	username, password := r.PostForm.Get("username"), r.PostForm.Get("password")
	if username == "" || password == "" {
		writeError(w, http.StatusBadRequest, "username and password are required")
		return
	}

	tok, err := a.users.Login(r.Context(), username, password)
	if err != nil {
		writeServiceError(a.logger, w, r, err, "failed to log in")
		return
	}
	respondJSON(w, http.StatusOK, tokenResponse{
		AccessToken: tok.Value,
		TokenType:   "bearer",
		ExpiresIn:   int(a.users.TokenTTL() / time.Second),
	})
}

// register creates an account. A bearer token is optional; it only matters
// when the request asks for the admin role.
func (a *AuthHandlers) register(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload: "+err.Error())
		return
	}

	var caller *domain.User
	if token, ok := bearerToken(r); ok {
		user, err := a.users.Authenticate(r.Context(), token)
		if err != nil {
			writeServiceError(a.logger, w, r, err, "failed to authenticate")
			return
		}
		caller = &user
	}

	user, err := a.users.Register(r.Context(), service.RegisterInput(req), caller)
	if err != nil {
		writeServiceError(a.logger, w, r, err, "failed to create user")
		return
	}
	respondJSON(w, http.StatusCreated, newUserResponse(user))
}

func (a *AuthHandlers) me(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	respondJSON(w, http.StatusOK, newUserResponse(user))
}
