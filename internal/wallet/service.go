package wallet

import (
	"context"

	"github.com/hanan-raza/mini-revolut/internal/account"
	"github.com/hanan-raza/mini-revolut/internal/identity"
	"github.com/hanan-raza/mini-revolut/internal/ledger"
)

// recentActivityLimit is how many transactions the dashboard shows.
const recentActivityLimit = 50

// Service exposes the read-only wallet views: current balance and the
// dashboard aggregation of profile, balance and recent activity.
type Service struct {
	users    identity.Repository
	accounts account.Store
	log      ledger.Log
}

// NewService builds a wallet read service.
func NewService(users identity.Repository, accounts account.Store, log ledger.Log) *Service {
	return &Service{users: users, accounts: accounts, log: log}
}

// Balance returns the current EUR balance for the account.
func (s *Service) Balance(ctx context.Context, accountID string) (int64, error) {
	return s.accounts.Balance(ctx, accountID)
}

// Summary is the profile slice of the dashboard.
type Summary struct {
	ID       string
	FullName string
	Email    string
}

// Dashboard aggregates everything the landing view needs.
type Dashboard struct {
	User    Summary
	Balance int64
	Recent  []ledger.Transaction
}

// Dashboard composes the account summary, wallet balance and most recent
// transactions. Returns identity.ErrNotFound if the user vanished between
// authentication and this read.
func (s *Service) Dashboard(ctx context.Context, accountID string) (Dashboard, error) {
	user, err := s.users.FindByID(ctx, accountID)
	if err != nil {
		return Dashboard{}, err
	}

	balance, err := s.accounts.Balance(ctx, accountID)
	if err != nil {
		return Dashboard{}, err
	}

	page, err := s.log.Query(ctx, ledger.Query{AccountID: accountID, Limit: recentActivityLimit})
	if err != nil {
		return Dashboard{}, err
	}

	return Dashboard{
		User:    Summary{ID: user.ID, FullName: user.FullName, Email: user.Email},
		Balance: balance,
		Recent:  page.Transactions,
	}, nil
}
