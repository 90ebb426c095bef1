package admin

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/coinharbor/coinharbor/internal/balance"
	"github.com/coinharbor/coinharbor/internal/funding"
	"github.com/coinharbor/coinharbor/internal/ledger"
	"github.com/coinharbor/coinharbor/internal/transaction"
)

var reviewsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "backoffice_transaction_reviews_total",
	Help: "Admin approve/reject decisions, labeled by action and outcome",
}, []string{"action", "outcome"})

// Handler exposes the back-office HTTP endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs an admin handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type reviewRequest struct {
	ExternalReference string `json:"external_reference"`
}

// Approve settles a pending transaction.
func (h *Handler) Approve(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	// The body is optional; an empty body means no settlement reference.
	var req reviewRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(http.StatusBadRequest, err.Error())
		}
	}

	txn, err := h.service.Approve(c.UserContext(), id, req.ExternalReference)
	if err != nil {
		reviewsTotal.WithLabelValues("approve", outcomeLabel(err)).Inc()
		return reviewError(err)
	}
	reviewsTotal.WithLabelValues("approve", "completed").Inc()
	return c.Status(http.StatusOK).JSON(funding.ToTransactionResponse(txn))
}

// Reject fails a pending transaction.
func (h *Handler) Reject(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	txn, err := h.service.Reject(c.UserContext(), id)
	if err != nil {
		reviewsTotal.WithLabelValues("reject", outcomeLabel(err)).Inc()
		return reviewError(err)
	}
	reviewsTotal.WithLabelValues("reject", "failed").Inc()
	return c.Status(http.StatusOK).JSON(funding.ToTransactionResponse(txn))
}

// List pages through the full transaction log, newest first.
func (h *Handler) List(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	offset := c.QueryInt("offset", 0)

	page, err := h.service.List(c.UserContext(), limit, offset)
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}

	out := make([]funding.TransactionResponse, 0, len(page.Transactions))
	for _, txn := range page.Transactions {
		out = append(out, funding.ToTransactionResponse(txn))
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"transactions": out,
		"total":        page.Total,
		"has_more":     page.HasMore,
	})
}

// Stats returns the pending count and settled volume per currency.
func (h *Handler) Stats(c *fiber.Ctx) error {
	summary, err := h.service.Stats(c.UserContext())
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}

	volume := make(map[string]string, len(summary.CompletedVolume))
	for currency, amount := range summary.CompletedVolume {
		volume[currency] = amount.String()
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"pending_count":    summary.PendingCount,
		"completed_volume": volume,
		"generated_at":     summary.GeneratedAt,
	})
}

func parseID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return 0, fiber.NewError(http.StatusBadRequest, "invalid transaction id")
	}
	return id, nil
}

func reviewError(err error) error {
	switch {
	case errors.Is(err, transaction.ErrNotFound):
		return fiber.NewError(http.StatusNotFound, err.Error())
	case errors.Is(err, transaction.ErrInvalidState):
		return fiber.NewError(http.StatusConflict, err.Error())
	case errors.Is(err, balance.ErrInsufficientBalance):
		return fiber.NewError(http.StatusBadRequest, err.Error())
	case errors.Is(err, ledger.ErrStorage):
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	default:
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
}

func outcomeLabel(err error) string {
	switch {
	case errors.Is(err, transaction.ErrNotFound):
		return "not_found"
	case errors.Is(err, transaction.ErrInvalidState):
		return "invalid_state"
	default:
		return "error"
	}
}
