package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/hanan-raza/mini-revolut/internal/payments"
)

// RegisterTransferRoutes wires the P2P transfer endpoint.
func RegisterTransferRoutes(r fiber.Router, h *payments.Handler) {
	r.Post("/transfers", h.Transfer)
}
