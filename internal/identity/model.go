package identity

import (
	"strings"
	"time"
)

// User represents a registered wallet owner.
type User struct {
	ID           string
	FullName     string
	Email        string
	PasswordHash []byte
	CreatedAt    time.Time
}

// Credentials request structure.
type Credentials struct {
	Email    string
	Password string
}

// NormalizeEmail lowercases and trims an email address so lookups and
// uniqueness checks are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
