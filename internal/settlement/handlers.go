package settlement

import (
	"errors"

	"gsefl-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *Service
}

type orderBody struct {
	AccountID string `json:"account_id"`
	Ticker    string `json:"ticker"`
	Quantity  int64  `json:"quantity"`
}

// Buy POST /api/v1/trades/buy
func (h *Handlers) Buy(c *fiber.Ctx) error {
	var body orderBody
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "account_id, ticker and quantity are required", fiber.StatusBadRequest, nil)
	}
	if body.AccountID == "" || body.Ticker == "" || body.Quantity == 0 {
		return response.Error(c, "account_id, ticker and quantity are required", fiber.StatusBadRequest, nil)
	}
	accountID, err := uuid.Parse(body.AccountID)
	if err != nil {
		return response.Error(c, "Invalid UUID format for account_id", fiber.StatusBadRequest, nil)
	}

	receipt, err := h.Service.ExecuteBuy(c.Context(), accountID, body.Ticker, body.Quantity)
	if err != nil {
		return response.Error(c, err.Error(), statusForError(err), nil)
	}
	return response.Success(c, "Trade successful", receipt)
}

// Sell POST /api/v1/trades/sell
func (h *Handlers) Sell(c *fiber.Ctx) error {
	var body orderBody
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "account_id, ticker and quantity are required", fiber.StatusBadRequest, nil)
	}
	if body.AccountID == "" || body.Ticker == "" || body.Quantity == 0 {
		return response.Error(c, "account_id, ticker and quantity are required", fiber.StatusBadRequest, nil)
	}
	accountID, err := uuid.Parse(body.AccountID)
	if err != nil {
		return response.Error(c, "Invalid UUID format for account_id", fiber.StatusBadRequest, nil)
	}

	receipt, err := h.Service.ExecuteSell(c.Context(), accountID, body.Ticker, body.Quantity)
	if err != nil {
		return response.Error(c, err.Error(), statusForError(err), nil)
	}
	return response.Success(c, "Sale successful", receipt)
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, ErrInvalidOrder), errors.Is(err, ErrInsufficientFunds), errors.Is(err, ErrInsufficientShares):
		return fiber.StatusBadRequest
	case errors.Is(err, ErrUnknownTicker), errors.Is(err, ErrAccountNotFound), errors.Is(err, ErrNoPosition):
		return fiber.StatusNotFound
	case errors.Is(err, ErrConflict):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}
