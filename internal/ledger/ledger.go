package ledger

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrInvalidAmount occurs when an operation is requested with a non-positive amount.
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrSelfTransfer occurs when sender and recipient are the same account.
	ErrSelfTransfer = errors.New("cannot transfer to yourself")
)

// CurrencyEUR is the single denomination every balance and transaction uses.
const CurrencyEUR = "EUR"

// Kind classifies a transaction record.
type Kind string

const (
	KindDeposit    Kind = "deposit"
	KindWithdrawal Kind = "withdrawal"
	KindTransfer   Kind = "transfer"
)

// Status records the outcome of the attempted operation.
type Status string

const (
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Transaction is one immutable entry in the transaction log. Deposits carry
// only a receiver, withdrawals only a sender, transfers both.
type Transaction struct {
	ID        string
	Kind      Kind
	Sender    string // account id, empty for deposits
	Receiver  string // account id, empty for withdrawals
	Amount    int64  // EUR cents, always > 0
	Currency  string
	Status    Status
	CreatedAt time.Time
}

// Direction restricts a query to one side of the ledger.
type Direction string

const (
	DirectionSent     Direction = "sent"
	DirectionReceived Direction = "received"
)

const (
	// DefaultPageSize applies when a query does not request a limit.
	DefaultPageSize = 20
	// MaxPageSize caps the page size regardless of what was requested.
	MaxPageSize = 50
)

// Query selects transactions involving one account, newest first.
type Query struct {
	AccountID string
	Kind      Kind      // optional kind filter
	Direction Direction // optional: sent (sender only) or received (receiver only)
	Cursor    string    // opaque cursor from a previous page; malformed values are ignored
	Limit     int       // clamped to MaxPageSize, DefaultPageSize when zero
}

// Page is one slice of query results in strict (createdAt desc, id desc) order.
type Page struct {
	Transactions []Transaction
	NextCursor   string
	HasMore      bool
}

// Log is the append-only record of every balance-affecting event. Entries are
// never updated or deleted.
type Log interface {
	// Append assigns an id and creation timestamp, stores the entry immutably
	// and returns the stored record.
	Append(ctx context.Context, tx Transaction) (Transaction, error)
	Query(ctx context.Context, q Query) (Page, error)
}

// TransferResult captures the outcome of a transfer unit. On insufficient
// funds the failed attempt is still recorded and returned alongside the error.
type TransferResult struct {
	Transaction     Transaction
	SenderBalance   int64
	ReceiverBalance int64
}

// Transferer executes the debit, credit and log append of a transfer as one
// atomic all-or-nothing unit spanning both accounts.
type Transferer interface {
	Transfer(ctx context.Context, senderID, receiverID string, amount int64) (TransferResult, error)
}

func clampLimit(n int) int {
	switch {
	case n <= 0:
		return DefaultPageSize
	case n > MaxPageSize:
		return MaxPageSize
	default:
		return n
	}
}
