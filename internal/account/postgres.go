package account

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hanan-raza/mini-revolut/internal/infra"
)

// PostgresStore persists accounts in PostgreSQL. Every balance mutation is a
// single conditional UPDATE, so two concurrent adjustments on the same row
// serialize inside the database without lost updates.
type PostgresStore struct {
	db infra.Querier
}

// NewPostgresStore builds a Postgres-backed account store.
func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

// Create inserts a new account row.
func (s *PostgresStore) Create(ctx context.Context, acc Account) error {
	id, err := uuid.Parse(acc.ID)
	if err != nil {
		return fmt.Errorf("parse account id: %w", err)
	}
	_, err = s.db.Exec(ctx, `INSERT INTO accounts (id, balance, currency, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $4)`, id, acc.Balance, acc.Currency, acc.CreatedAt.UTC())
	return err
}

// Get fetches account state by id.
func (s *PostgresStore) Get(ctx context.Context, id string) (Account, error) {
	accountID, err := uuid.Parse(id)
	if err != nil {
		return Account{}, ErrNotFound
	}
	row := s.db.QueryRow(ctx, `SELECT id, balance, currency, created_at FROM accounts WHERE id = $1`, accountID)

	var (
		acc       Account
		idVal     uuid.UUID
		createdAt time.Time
	)
	if err := row.Scan(&idVal, &acc.Balance, &acc.Currency, &createdAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Account{}, ErrNotFound
		}
		return Account{}, err
	}
	acc.ID = idVal.String()
	acc.CreatedAt = createdAt.UTC()
	return acc, nil
}

// Balance returns the current balance for the account.
func (s *PostgresStore) Balance(ctx context.Context, id string) (int64, error) {
	accountID, err := uuid.Parse(id)
	if err != nil {
		return 0, ErrNotFound
	}
	var balance int64
	if err := s.db.QueryRow(ctx, `SELECT balance FROM accounts WHERE id = $1`, accountID).Scan(&balance); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, err
	}
	return balance, nil
}

// AtomicAdjust applies the delta with a single conditional UPDATE. When the
// guarded update matches no row, a follow-up existence probe distinguishes a
// missing account from insufficient funds.
func (s *PostgresStore) AtomicAdjust(ctx context.Context, id string, delta int64, requireFunds bool) (int64, error) {
	accountID, err := uuid.Parse(id)
	if err != nil {
		return 0, ErrNotFound
	}

	query := `UPDATE accounts SET balance = balance + $1, updated_at = now()
        WHERE id = $2 RETURNING balance`
	if requireFunds {
		query = `UPDATE accounts SET balance = balance + $1, updated_at = now()
        WHERE id = $2 AND balance + $1 >= 0 RETURNING balance`
	}

	var balance int64
	if err := s.db.QueryRow(ctx, query, delta, accountID).Scan(&balance); err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return 0, fmt.Errorf("adjust balance: %w", err)
		}
		var exists bool
		if probeErr := s.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM accounts WHERE id = $1)`, accountID).Scan(&exists); probeErr != nil {
			return 0, fmt.Errorf("probe account: %w", probeErr)
		}
		if exists {
			return 0, ErrInsufficientFunds
		}
		return 0, ErrNotFound
	}
	return balance, nil
}
