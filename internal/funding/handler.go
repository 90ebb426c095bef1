package funding

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/coinharbor/coinharbor/internal/balance"
)

// Handler exposes the owner-facing HTTP endpoints for originating
// transactions and reading balances.
type Handler struct {
	service *Service
}

// NewHandler constructs a funding handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Deposit records a pending deposit announcement.
func (h *Handler) Deposit(c *fiber.Ctx) error {
	ownerID := c.Params("ownerId")
	var req DepositRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid amount")
	}

	txn, err := h.service.RequestDeposit(c.UserContext(), DepositInput{
		OwnerID:     ownerID,
		Currency:    req.Currency,
		Amount:      amount,
		FromAddress: req.FromAddress,
	})
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	return c.Status(http.StatusCreated).JSON(ToTransactionResponse(txn))
}

// Withdraw debits the owner and records a pending withdrawal.
func (h *Handler) Withdraw(c *fiber.Ctx) error {
	ownerID := c.Params("ownerId")
	var req WithdrawalRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid amount")
	}

	txn, err := h.service.RequestWithdrawal(c.UserContext(), WithdrawalInput{
		OwnerID:   ownerID,
		Currency:  req.Currency,
		Amount:    amount,
		ToAddress: req.ToAddress,
	})
	if err != nil {
		if errors.Is(err, balance.ErrInsufficientBalance) {
			return fiber.NewError(http.StatusUnprocessableEntity, err.Error())
		}
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	return c.Status(http.StatusCreated).JSON(ToTransactionResponse(txn))
}

// Exchange records a settled conversion between two of the owner's balances.
func (h *Handler) Exchange(c *fiber.Ctx) error {
	ownerID := c.Params("ownerId")
	var req ExchangeRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid amount")
	}
	rate, err := decimal.NewFromString(req.Rate)
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid rate")
	}

	txn, err := h.service.RecordExchange(c.UserContext(), ExchangeInput{
		OwnerID:      ownerID,
		FromCurrency: req.FromCurrency,
		ToCurrency:   req.ToCurrency,
		Amount:       amount,
		Rate:         rate,
	})
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	return c.Status(http.StatusCreated).JSON(ToTransactionResponse(txn))
}

// Balances lists the owner's balances.
func (h *Handler) Balances(c *fiber.Ctx) error {
	ownerID := c.Params("ownerId")
	records, err := h.service.Balances(c.UserContext(), ownerID)
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}

	out := make([]BalanceResponse, 0, len(records))
	for _, rec := range records {
		out = append(out, BalanceResponse{
			Currency:      rec.Currency,
			Available:     rec.Available.String(),
			Locked:        rec.Locked.String(),
			LinkedAddress: rec.LinkedAddress,
		})
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"owner_id": ownerID, "balances": out})
}

// Transactions lists the owner's transaction history, newest first.
func (h *Handler) Transactions(c *fiber.Ctx) error {
	ownerID := c.Params("ownerId")
	txns, err := h.service.Transactions(c.UserContext(), ownerID)
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}

	out := make([]TransactionResponse, 0, len(txns))
	for _, txn := range txns {
		out = append(out, ToTransactionResponse(txn))
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"owner_id": ownerID, "transactions": out})
}
