package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/hanan-raza/mini-revolut/internal/wallet"
)

// RegisterWalletRoutes wires wallet, history and dashboard endpoints.
func RegisterWalletRoutes(r fiber.Router, h *wallet.Handler) {
	r.Get("/wallet/balance", h.Balance)
	r.Post("/wallet/deposit", h.Deposit)
	r.Post("/wallet/withdraw", h.Withdraw)
	r.Get("/transactions", h.Transactions)
	r.Get("/dashboard", h.Dashboard)
}
