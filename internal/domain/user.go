package domain

import "time"

// Roles a user account can hold. Only admins may change campus data.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is an account that can log in. PasswordHash holds a bcrypt hash and
// never leaves the service layer.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	Role         string
	IsActive     bool
	CreatedAt    time.Time
}
