package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/hanan-raza/mini-revolut/internal/account"
	"github.com/hanan-raza/mini-revolut/internal/ledger"
)

// ErrInvalidCredentials covers both unknown emails and wrong passwords, so a
// login attempt cannot probe which addresses are registered.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Service manages the user lifecycle. Registration provisions the wallet
// account alongside the user record.
type Service struct {
	repo            Repository
	accounts        account.Store
	startingBalance int64
}

// NewService creates a new identity service. Every registered user receives an
// account credited with startingBalance cents.
func NewService(repo Repository, accounts account.Store, startingBalance int64) *Service {
	return &Service{repo: repo, accounts: accounts, startingBalance: startingBalance}
}

// RegisterInput captures data required to register a user.
type RegisterInput struct {
	FullName string
	Email    string
	Password string
}

// Register creates a user with a hashed password and provisions their account.
func (s *Service) Register(ctx context.Context, input RegisterInput) (User, error) {
	fullName := strings.TrimSpace(input.FullName)
	if fullName == "" {
		return User{}, errors.New("full name is required")
	}
	email := NormalizeEmail(input.Email)
	if !strings.Contains(email, "@") {
		return User{}, errors.New("a valid email is required")
	}
	if len(input.Password) < 8 {
		return User{}, errors.New("password must be at least 8 characters")
	}

	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return User{}, ErrEmailTaken
	} else if !errors.Is(err, ErrNotFound) {
		return User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}

	user := User{
		ID:           uuid.NewString(),
		FullName:     fullName,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return User{}, err
	}

	if err := s.accounts.Create(ctx, account.Account{
		ID:        user.ID,
		Balance:   s.startingBalance,
		Currency:  ledger.CurrencyEUR,
		CreatedAt: user.CreatedAt,
	}); err != nil {
		return User{}, fmt.Errorf("provision account: %w", err)
	}

	return user, nil
}

// Authenticate verifies the credentials against the stored bcrypt hash.
func (s *Service) Authenticate(ctx context.Context, creds Credentials) (User, error) {
	user, err := s.repo.FindByEmail(ctx, NormalizeEmail(creds.Email))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, ErrInvalidCredentials
		}
		return User{}, err
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(creds.Password)); err != nil {
		return User{}, ErrInvalidCredentials
	}

	return user, nil
}
