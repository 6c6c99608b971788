package stocks

import (
	"gsefl-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *Service
}

// ListStocks GET /api/v1/stocks
func (h *Handlers) ListStocks(c *fiber.Ctx) error {
	securities, err := h.Service.List(c.Context())
	if err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Stocks retrieved", securities)
}
