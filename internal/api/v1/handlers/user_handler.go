package handlers

import (
	"strings"

	fiber "github.com/gofiber/fiber/v2"

	"github.com/vmplane/vmplane/internal/services"
	"github.com/vmplane/vmplane/internal/types"
)

// UserHandler handles authentication endpoints
type UserHandler struct {
	auth *services.Auth
}

// NewUserHandler creates a new user handler
func NewUserHandler(auth *services.Auth) *UserHandler {
	return &UserHandler{auth: auth}
}

// Login verifies credentials and issues a bearer token
func (h *UserHandler) Login(c *fiber.Ctx) error {
	var req types.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	token, err := h.auth.Login(c.Context(), req.Username, req.Password)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid credentials",
		})
	}

	return c.JSON(types.LoginResponse{Token: token})
}

// Logout revokes the bearer token of the current request
func (h *UserHandler) Logout(c *fiber.Ctx) error {
	token := strings.TrimPrefix(c.Get(fiber.HeaderAuthorization), "Bearer ")
	h.auth.Logout(token)
	return c.JSON(fiber.Map{"message": "Logged out"})
}
