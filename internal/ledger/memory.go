package ledger

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hanan-raza/mini-revolut/internal/account"
)

// Memory is an in-memory ledger backend: account store, transaction log and
// transfer unit behind a single lock. It backs development mode and unit
// tests; the shared lock makes every transfer observably atomic.
type Memory struct {
	mu       sync.RWMutex
	accounts map[string]account.Account
	entries  []Transaction
}

var (
	_ account.Store = (*Memory)(nil)
	_ Log           = (*Memory)(nil)
	_ Transferer    = (*Memory)(nil)
)

// NewMemory creates an empty in-memory ledger backend.
func NewMemory() *Memory {
	return &Memory{accounts: make(map[string]account.Account)}
}

// Create provisions a new account.
func (m *Memory) Create(_ context.Context, acc account.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.accounts[acc.ID]; exists {
		return account.ErrExists
	}
	m.accounts[acc.ID] = acc
	return nil
}

// Get fetches account state by id.
func (m *Memory) Get(_ context.Context, id string) (account.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	acc, ok := m.accounts[id]
	if !ok {
		return account.Account{}, account.ErrNotFound
	}
	return acc, nil
}

// Balance returns the current balance for the account.
func (m *Memory) Balance(_ context.Context, id string) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	acc, ok := m.accounts[id]
	if !ok {
		return 0, account.ErrNotFound
	}
	return acc.Balance, nil
}

// AtomicAdjust applies the delta under the backend lock, rejecting guarded
// debits that would take the balance below zero.
func (m *Memory) AtomicAdjust(_ context.Context, id string, delta int64, requireFunds bool) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	acc, ok := m.accounts[id]
	if !ok {
		return 0, account.ErrNotFound
	}
	if requireFunds && acc.Balance+delta < 0 {
		return 0, account.ErrInsufficientFunds
	}
	acc.Balance += delta
	m.accounts[id] = acc
	return acc.Balance, nil
}

// Append stores a new immutable transaction record.
func (m *Memory) Append(_ context.Context, tx Transaction) (Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.append(tx), nil
}

func (m *Memory) append(tx Transaction) Transaction {
	tx.ID = uuid.NewString()
	tx.CreatedAt = time.Now().UTC()
	if tx.Currency == "" {
		tx.Currency = CurrencyEUR
	}
	m.entries = append(m.entries, tx)
	return tx
}

// Query pages through the account's transactions, newest first.
func (m *Memory) Query(_ context.Context, q Query) (Page, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var matched []Transaction
	for _, entry := range m.entries {
		if !matches(entry, q) {
			continue
		}
		matched = append(matched, entry)
	}

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})

	if cur, ok := decodeCursor(q.Cursor); ok {
		matched = afterCursor(matched, cur)
	}

	limit := clampLimit(q.Limit)
	if len(matched) > limit+1 {
		matched = matched[:limit+1]
	}
	return buildPage(matched, limit), nil
}

func matches(entry Transaction, q Query) bool {
	switch q.Direction {
	case DirectionSent:
		if entry.Sender != q.AccountID {
			return false
		}
	case DirectionReceived:
		if entry.Receiver != q.AccountID {
			return false
		}
	default:
		if entry.Sender != q.AccountID && entry.Receiver != q.AccountID {
			return false
		}
	}
	if q.Kind != "" && entry.Kind != q.Kind {
		return false
	}
	return true
}

// afterCursor drops everything at or above the cursor position in the
// (createdAt desc, id desc) order. Entries are already sorted.
func afterCursor(entries []Transaction, cur cursor) []Transaction {
	idx := sort.Search(len(entries), func(i int) bool {
		e := entries[i]
		if !e.CreatedAt.Equal(cur.CreatedAt) {
			return e.CreatedAt.Before(cur.CreatedAt)
		}
		return e.ID < cur.ID
	})
	return entries[idx:]
}

// Transfer executes the debit, credit and record append under one lock
// acquisition, so no concurrent reader observes a partial move.
func (m *Memory) Transfer(_ context.Context, senderID, receiverID string, amount int64) (TransferResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sender, ok := m.accounts[senderID]
	if !ok {
		return TransferResult{}, account.ErrNotFound
	}
	receiver, ok := m.accounts[receiverID]
	if !ok {
		return TransferResult{}, account.ErrNotFound
	}

	entry := Transaction{
		Kind:     KindTransfer,
		Sender:   senderID,
		Receiver: receiverID,
		Amount:   amount,
		Currency: CurrencyEUR,
	}

	if sender.Balance < amount {
		entry.Status = StatusFailed
		rec := m.append(entry)
		return TransferResult{Transaction: rec, SenderBalance: sender.Balance, ReceiverBalance: receiver.Balance}, account.ErrInsufficientFunds
	}

	sender.Balance -= amount
	receiver.Balance += amount
	m.accounts[senderID] = sender
	m.accounts[receiverID] = receiver

	entry.Status = StatusCompleted
	rec := m.append(entry)

	return TransferResult{
		Transaction:     rec,
		SenderBalance:   sender.Balance,
		ReceiverBalance: receiver.Balance,
	}, nil
}
