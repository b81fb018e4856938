package account

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound occurs when the referenced account does not exist.
	ErrNotFound = errors.New("account not found")

	// ErrInsufficientFunds occurs when a debit would push the balance below zero.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrExists occurs when creating an account that is already provisioned.
	ErrExists = errors.New("account already exists")
)

// Account holds the EUR balance for a single wallet owner. The id matches the
// owning user's id.
type Account struct {
	ID        string
	Balance   int64 // EUR cents, never negative
	Currency  string
	CreatedAt time.Time
}

// Store persists account balances. Balances are mutated exclusively through
// AtomicAdjust; the interface deliberately offers no way to write a balance
// that was previously read.
type Store interface {
	Create(ctx context.Context, acc Account) error
	Get(ctx context.Context, id string) (Account, error)
	Balance(ctx context.Context, id string) (int64, error)

	// AtomicAdjust applies delta to the balance as a single conditional atomic
	// step and returns the resulting balance. With requireFunds set, a negative
	// delta that would take the balance below zero is rejected as a whole with
	// ErrInsufficientFunds. Concurrent adjustments to the same account
	// serialize; adjustments to different accounts are independent.
	AtomicAdjust(ctx context.Context, id string, delta int64, requireFunds bool) (int64, error)
}
