package payments

import (
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/hanan-raza/mini-revolut/internal/account"
	"github.com/hanan-raza/mini-revolut/internal/ledger"
)

// Handler exposes the transfer endpoint.
type Handler struct {
	service *Service
}

// NewHandler constructs a payment handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type transferRequest struct {
	RecipientEmail string `json:"recipient_email"`
	Amount         int64  `json:"amount"`
}

type transferResponse struct {
	TransactionID string    `json:"transaction_id"`
	Status        string    `json:"status"`
	SenderBalance int64     `json:"sender_balance"`
	CreatedAt     time.Time `json:"created_at"`
}

// Transfer moves funds from the authenticated user to the recipient email.
func (h *Handler) Transfer(c *fiber.Ctx) error {
	var req transferRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	uid, _ := c.Locals("user_id").(string)

	res, err := h.service.Transfer(c.UserContext(), TransferInput{
		SenderID:       uid,
		RecipientEmail: req.RecipientEmail,
		Amount:         req.Amount,
	})
	if err != nil {
		switch {
		case errors.Is(err, ledger.ErrInvalidAmount):
			return fiber.NewError(http.StatusBadRequest, "Amount must be > 0")
		case errors.Is(err, ledger.ErrSelfTransfer):
			return fiber.NewError(http.StatusBadRequest, "Cannot transfer to yourself")
		case errors.Is(err, ErrRecipientNotFound):
			return fiber.NewError(http.StatusNotFound, "Recipient not found")
		case errors.Is(err, account.ErrInsufficientFunds):
			return fiber.NewError(http.StatusBadRequest, "Insufficient funds")
		case errors.Is(err, account.ErrNotFound):
			return fiber.NewError(http.StatusNotFound, "Account not found")
		default:
			return fiber.NewError(http.StatusInternalServerError, "Transfer failed")
		}
	}

	return c.Status(http.StatusCreated).JSON(transferResponse{
		TransactionID: res.Transaction.ID,
		Status:        string(res.Transaction.Status),
		SenderBalance: res.SenderBalance,
		CreatedAt:     res.Transaction.CreatedAt,
	})
}
