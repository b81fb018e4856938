package payments

import (
	"context"
	"errors"
	"fmt"

	"github.com/hanan-raza/mini-revolut/internal/identity"
	"github.com/hanan-raza/mini-revolut/internal/ledger"
	"github.com/hanan-raza/mini-revolut/internal/notification"
)

// ErrRecipientNotFound occurs when the recipient email resolves to no account.
var ErrRecipientNotFound = errors.New("recipient not found")

// Service resolves transfer recipients and drives the ledger engine. Recipient
// lookup by email is directory work and stays outside the engine itself.
type Service struct {
	engine   *ledger.Engine
	users    identity.Repository
	notifier notification.Notifier
}

// NewService constructs a payment service.
func NewService(engine *ledger.Engine, users identity.Repository, notifier notification.Notifier) *Service {
	return &Service{engine: engine, users: users, notifier: notifier}
}

// TransferInput captures the data needed to move funds between users.
type TransferInput struct {
	SenderID       string
	RecipientEmail string
	Amount         int64
}

// Transfer resolves the recipient and executes the atomic transfer unit. On
// insufficient funds the returned result still carries the failed record the
// ledger kept for audit.
func (s *Service) Transfer(ctx context.Context, input TransferInput) (ledger.TransferResult, error) {
	if input.Amount <= 0 {
		return ledger.TransferResult{}, ledger.ErrInvalidAmount
	}

	recipient, err := s.users.FindByEmail(ctx, identity.NormalizeEmail(input.RecipientEmail))
	if err != nil {
		if errors.Is(err, identity.ErrNotFound) {
			return ledger.TransferResult{}, ErrRecipientNotFound
		}
		return ledger.TransferResult{}, err
	}
	if recipient.ID == input.SenderID {
		return ledger.TransferResult{}, ledger.ErrSelfTransfer
	}

	res, err := s.engine.Transfer(ctx, input.SenderID, recipient.ID, input.Amount)
	if err != nil {
		return res, err
	}

	if s.notifier != nil {
		_ = s.notifier.Send(ctx, notification.Message{
			Kind:        notification.KindTransferReceived,
			Destination: recipient.ID,
			Body:        fmt.Sprintf("You received %d.%02d EUR", input.Amount/100, input.Amount%100),
		})
	}

	return res, nil
}
