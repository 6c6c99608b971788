package leaderboard

import (
	"gsefl-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *Service
}

// GetLeaderboard GET /api/v1/leaderboard?limit=N
func (h *Handlers) GetLeaderboard(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", defaultLimit)

	entries, err := h.Service.GetLeaderboard(c.Context(), limit)
	if err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Leaderboard retrieved", entries)
}
