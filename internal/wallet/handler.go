package wallet

import (
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/hanan-raza/mini-revolut/internal/account"
	"github.com/hanan-raza/mini-revolut/internal/identity"
	"github.com/hanan-raza/mini-revolut/internal/ledger"
)

// Handler exposes wallet HTTP endpoints for the authenticated user.
type Handler struct {
	engine  *ledger.Engine
	service *Service
}

// NewHandler builds a wallet HTTP handler.
func NewHandler(engine *ledger.Engine, service *Service) *Handler {
	return &Handler{engine: engine, service: service}
}

type amountRequest struct {
	Amount int64 `json:"amount"`
}

type transactionResponse struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Sender    string    `json:"sender,omitempty"`
	Receiver  string    `json:"receiver,omitempty"`
	Amount    int64     `json:"amount"`
	Currency  string    `json:"currency"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

func toTransactionResponse(tx ledger.Transaction) transactionResponse {
	return transactionResponse{
		ID:        tx.ID,
		Kind:      string(tx.Kind),
		Sender:    tx.Sender,
		Receiver:  tx.Receiver,
		Amount:    tx.Amount,
		Currency:  tx.Currency,
		Status:    string(tx.Status),
		CreatedAt: tx.CreatedAt,
	}
}

func toTransactionResponses(txs []ledger.Transaction) []transactionResponse {
	out := make([]transactionResponse, 0, len(txs))
	for _, tx := range txs {
		out = append(out, toTransactionResponse(tx))
	}
	return out
}

// Balance returns the authenticated user's balance.
func (h *Handler) Balance(c *fiber.Ctx) error {
	uid, _ := c.Locals("user_id").(string)
	balance, err := h.service.Balance(c.UserContext(), uid)
	if err != nil {
		if errors.Is(err, account.ErrNotFound) {
			return fiber.NewError(http.StatusNotFound, "Account not found")
		}
		return fiber.NewError(http.StatusInternalServerError, "Could not read balance")
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"currency": "EUR", "balance": balance})
}

// Deposit credits the authenticated user's account.
func (h *Handler) Deposit(c *fiber.Ctx) error {
	uid, _ := c.Locals("user_id").(string)
	var req amountRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	balance, tx, err := h.engine.Deposit(c.UserContext(), uid, req.Amount)
	if err != nil {
		return mutationError(err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"balance":     balance,
		"transaction": toTransactionResponse(tx),
	})
}

// Withdraw debits the authenticated user's account.
func (h *Handler) Withdraw(c *fiber.Ctx) error {
	uid, _ := c.Locals("user_id").(string)
	var req amountRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	balance, tx, err := h.engine.Withdraw(c.UserContext(), uid, req.Amount)
	if err != nil {
		return mutationError(err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"balance":     balance,
		"transaction": toTransactionResponse(tx),
	})
}

// Transactions lists the authenticated user's history with cursor pagination.
func (h *Handler) Transactions(c *fiber.Ctx) error {
	uid, _ := c.Locals("user_id").(string)
	page, err := h.engine.History(c.UserContext(), ledger.Query{
		AccountID: uid,
		Kind:      ledger.Kind(c.Query("type")),
		Direction: ledger.Direction(c.Query("direction")),
		Cursor:    c.Query("cursor"),
		Limit:     c.QueryInt("limit"),
	})
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, "Could not retrieve transaction history")
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"transactions": toTransactionResponses(page.Transactions),
		"next_cursor":  page.NextCursor,
		"has_more":     page.HasMore,
	})
}

// Dashboard returns the profile, balance and recent activity in one response.
func (h *Handler) Dashboard(c *fiber.Ctx) error {
	uid, _ := c.Locals("user_id").(string)
	dash, err := h.service.Dashboard(c.UserContext(), uid)
	if err != nil {
		if errors.Is(err, identity.ErrNotFound) || errors.Is(err, account.ErrNotFound) {
			return fiber.NewError(http.StatusNotFound, "Account not found")
		}
		return fiber.NewError(http.StatusInternalServerError, "Could not load dashboard")
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"user": fiber.Map{
			"id":        dash.User.ID,
			"full_name": dash.User.FullName,
			"email":     dash.User.Email,
		},
		"wallet": fiber.Map{
			"currency": "EUR",
			"balance":  dash.Balance,
		},
		"transactions": toTransactionResponses(dash.Recent),
	})
}

func mutationError(err error) error {
	switch {
	case errors.Is(err, ledger.ErrInvalidAmount):
		return fiber.NewError(http.StatusBadRequest, "Amount must be > 0")
	case errors.Is(err, account.ErrInsufficientFunds):
		return fiber.NewError(http.StatusBadRequest, "Insufficient funds")
	case errors.Is(err, account.ErrNotFound):
		return fiber.NewError(http.StatusNotFound, "Account not found")
	default:
		return fiber.NewError(http.StatusInternalServerError, "Operation failed")
	}
}
