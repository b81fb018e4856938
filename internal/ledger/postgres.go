package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hanan-raza/mini-revolut/internal/account"
	"github.com/hanan-raza/mini-revolut/internal/infra"
)

// PgxPool is the pool surface the ledger needs; pgxmock satisfies it in tests.
type PgxPool interface {
	infra.Querier
	Begin(ctx context.Context) (pgx.Tx, error)
}

// PostgresLedger persists the transaction log in PostgreSQL and executes
// transfers inside a database transaction spanning both account rows.
type PostgresLedger struct {
	db PgxPool
}

// NewPostgresLedger builds a Postgres-backed transaction log and transfer unit.
func NewPostgresLedger(db *pgxpool.Pool) *PostgresLedger {
	return &PostgresLedger{db: db}
}

// Append stores a new immutable transaction record and returns it with its
// assigned id and creation timestamp.
func (l *PostgresLedger) Append(ctx context.Context, tx Transaction) (Transaction, error) {
	return insertEntry(ctx, l.db, tx)
}

// Query returns one page of transactions involving the account, newest first,
// ordered by (created_at desc, id desc) with the id breaking timestamp ties.
func (l *PostgresLedger) Query(ctx context.Context, q Query) (Page, error) {
	accountID, err := uuid.Parse(q.AccountID)
	if err != nil {
		return Page{}, account.ErrNotFound
	}

	var (
		conds []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	switch q.Direction {
	case DirectionSent:
		conds = append(conds, "sender = "+arg(accountID))
	case DirectionReceived:
		conds = append(conds, "receiver = "+arg(accountID))
	default:
		p := arg(accountID)
		conds = append(conds, fmt.Sprintf("(sender = %s OR receiver = %s)", p, p))
	}

	if q.Kind != "" {
		conds = append(conds, "kind = "+arg(string(q.Kind)))
	}

	if cur, ok := decodeCursor(q.Cursor); ok {
		if curID, err := uuid.Parse(cur.ID); err == nil {
			ts := arg(cur.CreatedAt)
			conds = append(conds, fmt.Sprintf("(created_at < %s OR (created_at = %s AND id < %s))", ts, ts, arg(curID)))
		}
	}

	limit := clampLimit(q.Limit)
	query := `SELECT id, kind, sender, receiver, amount, currency, status, created_at
        FROM transactions WHERE ` + strings.Join(conds, " AND ") +
		` ORDER BY created_at DESC, id DESC LIMIT ` + arg(limit+1)

	rows, err := l.db.Query(ctx, query, args...)
	if err != nil {
		return Page{}, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var entries []Transaction
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return Page{}, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return Page{}, fmt.Errorf("iterate transactions: %w", err)
	}

	return buildPage(entries, limit), nil
}

// Transfer moves the amount between the two accounts and records the attempt,
// all inside one database transaction. An attempt rejected for insufficient
// funds commits only its failed record; any other failure rolls everything back.
func (l *PostgresLedger) Transfer(ctx context.Context, senderID, receiverID string, amount int64) (TransferResult, error) {
	senderUUID, err := uuid.Parse(senderID)
	if err != nil {
		return TransferResult{}, account.ErrNotFound
	}
	receiverUUID, err := uuid.Parse(receiverID)
	if err != nil {
		return TransferResult{}, account.ErrNotFound
	}

	tx, err := l.db.Begin(ctx)
	if err != nil {
		return TransferResult{}, fmt.Errorf("begin transfer: %w", err)
	}
	defer tx.Rollback(ctx) // nolint:errcheck

	senderBalance, err := lockBalance(ctx, tx, senderUUID)
	if err != nil {
		return TransferResult{}, err
	}
	receiverBalance, err := lockBalance(ctx, tx, receiverUUID)
	if err != nil {
		return TransferResult{}, err
	}

	entry := Transaction{
		Kind:     KindTransfer,
		Sender:   senderID,
		Receiver: receiverID,
		Amount:   amount,
		Currency: CurrencyEUR,
	}

	if senderBalance < amount {
		entry.Status = StatusFailed
		rec, err := insertEntry(ctx, tx, entry)
		if err != nil {
			return TransferResult{}, err
		}
		if err := tx.Commit(ctx); err != nil {
			return TransferResult{}, fmt.Errorf("commit failed transfer record: %w", err)
		}
		return TransferResult{Transaction: rec, SenderBalance: senderBalance, ReceiverBalance: receiverBalance}, account.ErrInsufficientFunds
	}

	if _, err := tx.Exec(ctx, `UPDATE accounts SET balance = balance - $1, updated_at = now() WHERE id = $2`, amount, senderUUID); err != nil {
		return TransferResult{}, fmt.Errorf("debit sender: %w", err)
	}
	if _, err := tx.Exec(ctx, `UPDATE accounts SET balance = balance + $1, updated_at = now() WHERE id = $2`, amount, receiverUUID); err != nil {
		return TransferResult{}, fmt.Errorf("credit receiver: %w", err)
	}

	entry.Status = StatusCompleted
	rec, err := insertEntry(ctx, tx, entry)
	if err != nil {
		return TransferResult{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return TransferResult{}, fmt.Errorf("commit transfer: %w", err)
	}

	return TransferResult{
		Transaction:     rec,
		SenderBalance:   senderBalance - amount,
		ReceiverBalance: receiverBalance + amount,
	}, nil
}

func lockBalance(ctx context.Context, tx pgx.Tx, id uuid.UUID) (int64, error) {
	var balance int64
	if err := tx.QueryRow(ctx, `SELECT balance FROM accounts WHERE id = $1 FOR UPDATE`, id).Scan(&balance); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, account.ErrNotFound
		}
		return 0, fmt.Errorf("lock account %s: %w", id, err)
	}
	return balance, nil
}

func insertEntry(ctx context.Context, q infra.Querier, tx Transaction) (Transaction, error) {
	sender, err := nullableID(tx.Sender)
	if err != nil {
		return Transaction{}, fmt.Errorf("parse sender id: %w", err)
	}
	receiver, err := nullableID(tx.Receiver)
	if err != nil {
		return Transaction{}, fmt.Errorf("parse receiver id: %w", err)
	}
	if tx.Currency == "" {
		tx.Currency = CurrencyEUR
	}

	tx.ID = uuid.NewString()
	tx.CreatedAt = time.Now().UTC()

	_, err = q.Exec(ctx, `INSERT INTO transactions (id, kind, sender, receiver, amount, currency, status, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		uuid.MustParse(tx.ID), string(tx.Kind), sender, receiver, tx.Amount, tx.Currency, string(tx.Status), tx.CreatedAt)
	if err != nil {
		return Transaction{}, fmt.Errorf("append transaction: %w", err)
	}
	return tx, nil
}

func scanEntry(rows pgx.Rows) (Transaction, error) {
	var (
		entry            Transaction
		id               uuid.UUID
		sender, receiver *uuid.UUID
		kind, status     string
		createdAt        time.Time
	)
	if err := rows.Scan(&id, &kind, &sender, &receiver, &entry.Amount, &entry.Currency, &status, &createdAt); err != nil {
		return Transaction{}, fmt.Errorf("scan transaction: %w", err)
	}
	entry.ID = id.String()
	entry.Kind = Kind(kind)
	entry.Status = Status(status)
	entry.CreatedAt = createdAt.UTC()
	if sender != nil {
		entry.Sender = sender.String()
	}
	if receiver != nil {
		entry.Receiver = receiver.String()
	}
	return entry, nil
}

// buildPage trims the extra row fetched beyond the limit and derives the
// pagination metadata from it.
func buildPage(entries []Transaction, limit int) Page {
	page := Page{HasMore: len(entries) > limit}
	if page.HasMore {
		entries = entries[:limit]
	}
	page.Transactions = entries
	if len(entries) > 0 {
		last := entries[len(entries)-1]
		page.NextCursor = encodeCursor(last.CreatedAt, last.ID)
	}
	return page
}

func nullableID(s string) (*uuid.UUID, error) {
	if s == "" {
		return nil, nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
