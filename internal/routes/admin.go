package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/coinharbor/coinharbor/internal/admin"
)

// RegisterAdminRoutes wires the back-office review endpoints.
func RegisterAdminRoutes(r fiber.Router, h *admin.Handler) {
	r.Get("/transactions", h.List)
	r.Post("/transactions/:id/approve", h.Approve)
	r.Post("/transactions/:id/reject", h.Reject)
	r.Get("/stats", h.Stats)
}
