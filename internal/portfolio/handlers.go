package portfolio

import (
	"errors"

	"gsefl-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *Service
}

// GetHoldings GET /api/v1/accounts/:id/holdings
func (h *Handlers) GetHoldings(c *fiber.Ctx) error {
	accountID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid UUID format for account id", fiber.StatusBadRequest, nil)
	}

	portfolio, err := h.Service.GetPortfolio(c.Context(), accountID)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return response.Error(c, err.Error(), fiber.StatusNotFound, nil)
		}
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Portfolio retrieved", portfolio)
}

// GetTransactions GET /api/v1/accounts/:id/transactions
func (h *Handlers) GetTransactions(c *fiber.Ctx) error {
	accountID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid UUID format for account id", fiber.StatusBadRequest, nil)
	}

	txs, err := h.Service.GetTransactionHistory(c.Context(), accountID)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return response.Error(c, err.Error(), fiber.StatusNotFound, nil)
		}
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Transactions retrieved", txs)
}
