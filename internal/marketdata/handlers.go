package marketdata

import (
	"gsefl-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service  *Service
	AdminKey string
}

// AdminSync POST /api/v1/market/admin-sync — triggers a sync batch on demand.
// The scheduled path is cmd/sync; this endpoint exists for operators.
func (h *Handlers) AdminSync(c *fiber.Ctx) error {
	if h.AdminKey == "" || c.Get("X-Admin-Key") != h.AdminKey {
		return response.Error(c, "Unauthorized", fiber.StatusUnauthorized, nil)
	}

	report, err := h.Service.SyncMarketData(c.Context())
	if err != nil {
		return response.Error(c, err.Error(), fiber.StatusBadGateway, nil)
	}
	return response.Success(c, "Market sync complete", report)
}
