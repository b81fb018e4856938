package ledger

import (
	"context"
	"fmt"

	"github.com/hanan-raza/mini-revolut/internal/account"
)

// Engine orchestrates all balance mutations. Deposits and withdrawals pair a
// conditional atomic adjust with a log append; transfers delegate to the
// Transferer so that both balances and the record commit as one unit.
type Engine struct {
	accounts  account.Store
	log       Log
	transfers Transferer
}

// NewEngine builds a ledger engine over the given backends.
func NewEngine(accounts account.Store, log Log, transfers Transferer) *Engine {
	return &Engine{accounts: accounts, log: log, transfers: transfers}
}

// Deposit credits the account and records a completed deposit. Returns the new
// balance and the stored transaction.
func (e *Engine) Deposit(ctx context.Context, accountID string, amount int64) (int64, Transaction, error) {
	if amount <= 0 {
		return 0, Transaction{}, ErrInvalidAmount
	}

	balance, err := e.accounts.AtomicAdjust(ctx, accountID, amount, false)
	if err != nil {
		return 0, Transaction{}, err
	}

	tx, err := e.log.Append(ctx, Transaction{
		Kind:     KindDeposit,
		Receiver: accountID,
		Amount:   amount,
		Currency: CurrencyEUR,
		Status:   StatusCompleted,
	})
	if err != nil {
		return 0, Transaction{}, fmt.Errorf("record deposit: %w", err)
	}
	return balance, tx, nil
}

// Withdraw debits the account if funds suffice and records a completed
// withdrawal. A rejected withdrawal leaves no trace in the log.
func (e *Engine) Withdraw(ctx context.Context, accountID string, amount int64) (int64, Transaction, error) {
	if amount <= 0 {
		return 0, Transaction{}, ErrInvalidAmount
	}

	balance, err := e.accounts.AtomicAdjust(ctx, accountID, -amount, true)
	if err != nil {
		return 0, Transaction{}, err
	}

	tx, err := e.log.Append(ctx, Transaction{
		Kind:     KindWithdrawal,
		Sender:   accountID,
		Amount:   amount,
		Currency: CurrencyEUR,
		Status:   StatusCompleted,
	})
	if err != nil {
		return 0, Transaction{}, fmt.Errorf("record withdrawal: %w", err)
	}
	return balance, tx, nil
}

// Transfer moves amount from sender to receiver. Validation happens before any
// mutation; the transfer unit itself commits debit, credit and record together
// or not at all. An attempt rejected for insufficient funds is still recorded
// with a failed status for auditability.
func (e *Engine) Transfer(ctx context.Context, senderID, receiverID string, amount int64) (TransferResult, error) {
	if amount <= 0 {
		return TransferResult{}, ErrInvalidAmount
	}
	if senderID == receiverID {
		return TransferResult{}, ErrSelfTransfer
	}
	if _, err := e.accounts.Balance(ctx, receiverID); err != nil {
		return TransferResult{}, err
	}

	return e.transfers.Transfer(ctx, senderID, receiverID, amount)
}

// History exposes the transaction log query for the surrounding read layers.
func (e *Engine) History(ctx context.Context, q Query) (Page, error) {
	return e.log.Query(ctx, q)
}
