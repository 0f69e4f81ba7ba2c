package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/vanshika/campusnav/backend/internal/auth"
	"github.com/vanshika/campusnav/backend/internal/domain"
)

var (
	// ErrInvalidCredentials is returned by Login for an unknown user, a wrong
	// password or a disabled account, without saying which.
	ErrInvalidCredentials = errors.New("incorrect username or password")
	// ErrForbidden is returned when the caller's role does not allow the call.
	ErrForbidden = errors.New("not enough permissions")
)

const (
	minPasswordLength = 8
	maxUsernameLength = 50
	maxEmailLength    = 100
)

// UserStore is the storage contract required by the user service.
type UserStore interface {
	CreateUser(ctx context.Context, user domain.User) (domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)
}

// RegisterInput is a sign-up request. An empty Role means domain.RoleUser.
type RegisterInput struct {
	Username string
	Email    string
	Password string
	Role     string
}

// UserService manages accounts, logins and the access tokens they yield.
type UserService struct {
	store  UserStore
	tokens *auth.Issuer
	logger *slog.Logger

	// dummyHash is compared against when the username is unknown so a
	// failed login costs the same either way.
	dummyHash func() string
}

// NewUserService constructs a UserService. tokens may be nil when the
// caller only provisions accounts.
func NewUserService(store UserStore, tokens *auth.Issuer, logger *slog.Logger) *UserService {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserService{
		store:  store,
		tokens: tokens,
		logger: logger,
		dummyHash: sync.OnceValue(func() string {
			hash, _ := auth.HashPassword("campusnav-placeholder")
			return hash
		}),
	}
}

// Register creates an account on behalf of caller, which is nil for an
// anonymous sign-up. Only an admin caller may create another admin.
func (s *UserService) Register(ctx context.Context, in RegisterInput, caller *domain.User) (domain.User, error) {
	in = normalizeRegistration(in)
	if in.Role == domain.RoleAdmin && (caller == nil || caller.Role != domain.RoleAdmin) {
		return domain.User{}, ErrForbidden
	}
	return s.Provision(ctx, in)
}

// Provision creates an account with whatever role in names. It is the
// trusted path used by operator tooling to bootstrap the first admin.
func (s *UserService) Provision(ctx context.Context, in RegisterInput) (domain.User, error) {
	in = normalizeRegistration(in)
	if err := validateRegistration(in); err != nil {
		return domain.User{}, err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return domain.User{}, err
	}
	user, err := s.store.CreateUser(ctx, domain.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         in.Role,
		IsActive:     true,
	})
	if err != nil {
		return domain.User{}, storeError(err)
	}
	s.logger.Info("user registered", "user_id", user.ID, "username", user.Username, "role", user.Role)
	return user, nil
}

// Login checks the password and issues an access token.
func (s *UserService) Login(ctx context.Context, username, password string) (auth.Token, error) {
	user, err := s.store.GetUserByUsername(ctx, strings.TrimSpace(username))
	if errors.Is(err, domain.ErrNotFound) {
		_, _ = auth.CheckPassword(s.dummyHash(), password)
		return auth.Token{}, ErrInvalidCredentials
	}
	if err != nil {
		return auth.Token{}, storeError(err)
	}

	ok, err := auth.CheckPassword(user.PasswordHash, password)
	if err != nil {
		s.logger.Error("stored password hash is unusable", "user_id", user.ID, "error", err)
		return auth.Token{}, ErrInvalidCredentials
	}
	if !ok || !user.IsActive {
		return auth.Token{}, ErrInvalidCredentials
	}
	return s.tokens.Issue(user.Username, user.Role)
}

// Authenticate resolves an access token to the current state of its account.
// The role comes from the store, so a demotion applies to live tokens.
func (s *UserService) Authenticate(ctx context.Context, raw string) (domain.User, error) {
	claims, err := s.tokens.Verify(raw)
	if err != nil {
		return domain.User{}, err
	}
	user, err := s.store.GetUserByUsername(ctx, claims.Subject)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.User{}, auth.ErrInvalidToken
	}
	if err != nil {
		return domain.User{}, storeError(err)
	}
	if !user.IsActive {
		return domain.User{}, auth.ErrInvalidToken
	}
	return user, nil
}

// TokenTTL reports the lifetime of issued access tokens.
func (s *UserService) TokenTTL() time.Duration {
	return s.tokens.TTL()
}

func normalizeRegistration(in RegisterInput) RegisterInput {
	in.Username = sanitizeString(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Role = normalizeType(in.Role)
	if in.Role == "" {
		in.Role = domain.RoleUser
	}
	return in
}

func validateRegistration(in RegisterInput) error {
	if in.Username == "" || len(in.Username) > maxUsernameLength {
		return invalidf("username must be 1 to %d characters", maxUsernameLength)
	}
	local, host, found := strings.Cut(in.Email, "@")
	if !found || local == "" || host == "" || len(in.Email) > maxEmailLength {
		return invalidf("invalid email format")
	}
	if len(in.Password) < minPasswordLength || len(in.Password) > auth.MaxPasswordBytes {
		return invalidf("password must be %d to %d bytes", minPasswordLength, auth.MaxPasswordBytes)
	}
	switch in.Role {
	case domain.RoleUser, domain.RoleAdmin:
	default:
		return invalidf("unknown role %q", in.Role)
	}
	return nil
}
