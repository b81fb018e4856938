package ledger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"

	"github.com/hanan-raza/mini-revolut/internal/account"
)

func newMockLedger(t *testing.T) (*PostgresLedger, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	t.Cleanup(mock.Close)
	return &PostgresLedger{db: mock}, mock
}

func anyInsertArgs() []any {
	args := make([]any, 8)
	for i := range args {
		args[i] = pgxmock.AnyArg()
	}
	return args
}

func TestPostgresLedgerAppend(t *testing.T) {
	led, mock := newMockLedger(t)
	receiver := uuid.NewString()

	mock.ExpectExec(`INSERT INTO transactions`).
		WithArgs(anyInsertArgs()...).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	tx, err := led.Append(context.Background(), Transaction{
		Kind:     KindDeposit,
		Receiver: receiver,
		Amount:   5_000,
		Status:   StatusCompleted,
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if tx.ID == "" || tx.CreatedAt.IsZero() {
		t.Fatalf("append did not assign id and timestamp: %+v", tx)
	}
	if tx.Currency != CurrencyEUR {
		t.Fatalf("expected EUR default, got %s", tx.Currency)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestPostgresLedgerQuery(t *testing.T) {
	led, mock := newMockLedger(t)
	accountID := uuid.New()
	other := uuid.New()
	now := time.Now().UTC()

	rows := pgxmock.NewRows([]string{"id", "kind", "sender", "receiver", "amount", "currency", "status", "created_at"}).
		AddRow(uuid.New(), "transfer", &accountID, &other, int64(2_000), "EUR", "completed", now).
		AddRow(uuid.New(), "deposit", (*uuid.UUID)(nil), &accountID, int64(5_000), "EUR", "completed", now.Add(-time.Minute))

	mock.ExpectQuery(`FROM transactions WHERE \(sender = \$1 OR receiver = \$1\)\s+ORDER BY created_at DESC, id DESC`).
		WithArgs(accountID, DefaultPageSize+1).
		WillReturnRows(rows)

	page, err := led.Query(context.Background(), Query{AccountID: accountID.String()})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(page.Transactions) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(page.Transactions))
	}
	if page.HasMore {
		t.Fatalf("expected HasMore=false")
	}
	if page.Transactions[1].Sender != "" {
		t.Fatalf("deposit should carry no sender: %+v", page.Transactions[1])
	}
	if page.NextCursor == "" {
		t.Fatalf("expected a next cursor for a non-empty page")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestPostgresLedgerQueryKindFilter(t *testing.T) {
	led, mock := newMockLedger(t)
	accountID := uuid.New()

	mock.ExpectQuery(`kind = \$2`).
		WithArgs(accountID, "withdrawal", MaxPageSize+1).
		WillReturnRows(pgxmock.NewRows([]string{"id", "kind", "sender", "receiver", "amount", "currency", "status", "created_at"}))

	page, err := led.Query(context.Background(), Query{AccountID: accountID.String(), Kind: KindWithdrawal, Limit: 500})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(page.Transactions) != 0 || page.HasMore || page.NextCursor != "" {
		t.Fatalf("expected empty page, got %+v", page)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestPostgresLedgerTransferCommitsAsOneUnit(t *testing.T) {
	led, mock := newMockLedger(t)
	sender := uuid.New()
	receiver := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT balance FROM accounts WHERE id = \$1 FOR UPDATE`).
		WithArgs(sender).
		WillReturnRows(pgxmock.NewRows([]string{"balance"}).AddRow(int64(50_000)))
	mock.ExpectQuery(`SELECT balance FROM accounts WHERE id = \$1 FOR UPDATE`).
		WithArgs(receiver).
		WillReturnRows(pgxmock.NewRows([]string{"balance"}).AddRow(int64(10_000)))
	mock.ExpectExec(`UPDATE accounts SET balance = balance - \$1`).
		WithArgs(int64(20_000), sender).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(`UPDATE accounts SET balance = balance \+ \$1`).
		WithArgs(int64(20_000), receiver).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(`INSERT INTO transactions`).
		WithArgs(anyInsertArgs()...).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()
	mock.ExpectRollback()

	res, err := led.Transfer(context.Background(), sender.String(), receiver.String(), 20_000)
	if err != nil {
		t.Fatalf("transfer: %v", err)
	}
	if res.SenderBalance != 30_000 || res.ReceiverBalance != 30_000 {
		t.Fatalf("unexpected balances: %+v", res)
	}
	if res.Transaction.Status != StatusCompleted {
		t.Fatalf("expected completed record, got %s", res.Transaction.Status)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestPostgresLedgerTransferInsufficientCommitsFailedRecord(t *testing.T) {
	led, mock := newMockLedger(t)
	sender := uuid.New()
	receiver := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT balance FROM accounts WHERE id = \$1 FOR UPDATE`).
		WithArgs(sender).
		WillReturnRows(pgxmock.NewRows([]string{"balance"}).AddRow(int64(1_000)))
	mock.ExpectQuery(`SELECT balance FROM accounts WHERE id = \$1 FOR UPDATE`).
		WithArgs(receiver).
		WillReturnRows(pgxmock.NewRows([]string{"balance"}).AddRow(int64(0)))
	mock.ExpectExec(`INSERT INTO transactions`).
		WithArgs(anyInsertArgs()...).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()
	mock.ExpectRollback()

	res, err := led.Transfer(context.Background(), sender.String(), receiver.String(), 20_000)
	if !errors.Is(err, account.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
	if res.Transaction.Status != StatusFailed {
		t.Fatalf("expected failed record, got %+v", res.Transaction)
	}
	if res.SenderBalance != 1_000 || res.ReceiverBalance != 0 {
		t.Fatalf("balances must be untouched: %+v", res)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestPostgresLedgerTransferUnknownSenderRollsBack(t *testing.T) {
	led, mock := newMockLedger(t)
	sender := uuid.New()
	receiver := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT balance FROM accounts WHERE id = \$1 FOR UPDATE`).
		WithArgs(sender).
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectRollback()

	if _, err := led.Transfer(context.Background(), sender.String(), receiver.String(), 1_000); !errors.Is(err, account.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
