package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/coinharbor/coinharbor/internal/funding"
)

// RegisterFundingRoutes wires the owner-facing origination and reporting endpoints.
func RegisterFundingRoutes(r fiber.Router, h *funding.Handler) {
	r.Post("/owners/:ownerId/deposits", h.Deposit)
	r.Post("/owners/:ownerId/withdrawals", h.Withdraw)
	r.Post("/owners/:ownerId/exchanges", h.Exchange)
	r.Get("/owners/:ownerId/balances", h.Balances)
	r.Get("/owners/:ownerId/transactions", h.Transactions)
}
