package auth

import (
	"errors"
	"time"

	"github.com/hanan-raza/mini-revolut/internal/config"
	"github.com/hanan-raza/mini-revolut/internal/identity"
)

// Service issues and verifies the stateless access tokens carried by every
// authenticated request.
type Service struct {
	cfg config.Config
}

// NewService creates a token service bound to the configured secret and TTL.
func NewService(cfg config.Config) *Service {
	return &Service{cfg: cfg}
}

// IssueToken signs an access token for the user and returns it with its
// lifetime in seconds.
func (s *Service) IssueToken(user identity.User) (string, int64, error) {
	now := time.Now()
	claims := map[string]any{
		"sub":   user.ID,
		"email": user.Email,
		"iat":   now.Unix(),
		"exp":   now.Add(s.cfg.TokenTTL).Unix(),
	}
	token, err := SignHS256(claims, []byte(s.cfg.JWTSecret))
	if err != nil {
		return "", 0, err
	}
	return token, int64(s.cfg.TokenTTL.Seconds()), nil
}

// VerifyToken checks signature and expiry and returns the subject user id.
func (s *Service) VerifyToken(token string) (string, error) {
	claims, err := ParseAndVerifyHS256(token, []byte(s.cfg.JWTSecret))
	if err != nil {
		return "", err
	}
	exp, ok := claims["exp"].(float64)
	if !ok || time.Now().Unix() >= int64(exp) {
		return "", errors.New("token expired")
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return "", errors.New("missing subject claim")
	}
	return sub, nil
}
