package accounts

import (
	"errors"

	"gsefl-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *Service
}

// CreateAccount POST /api/v1/accounts
func (h *Handlers) CreateAccount(c *fiber.Ctx) error {
	var body struct {
		Username string `json:"username"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "username is required", fiber.StatusBadRequest, nil)
	}
	if body.Username == "" {
		return response.Error(c, "username is required", fiber.StatusBadRequest, nil)
	}

	account, err := h.Service.Create(c.Context(), body.Username)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidUsername):
			return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
		case errors.Is(err, ErrUsernameTaken):
			return response.Error(c, err.Error(), fiber.StatusConflict, nil)
		default:
			return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
		}
	}
	return response.SuccessCreated(c, "Account created", account)
}

// GetAccount GET /api/v1/accounts/:id
func (h *Handlers) GetAccount(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid UUID format for account id", fiber.StatusBadRequest, nil)
	}

	account, err := h.Service.Get(c.Context(), id)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return response.Error(c, err.Error(), fiber.StatusNotFound, nil)
		}
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Account retrieved", account)
}
