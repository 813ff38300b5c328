package handlers

import (
	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"

	"foodintel/middleware"
	"foodintel/models"
)

// HandleLogin authenticates the dashboard user and returns a JWT token.
// POST /api/v1/auth/login
func (h *Handlers) HandleLogin(c *fiber.Ctx) error {
	if h.Auth.Username == "" || h.Auth.PasswordHash == "" || h.Auth.JWTSecret == "" {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"success": false, "kind": "config", "message": "Dashboard login is not configured"})
	}

	var req models.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Cannot parse JSON")
	}
	if req.Username == "" || req.Password == "" {
		return badRequest(c, "Missing required fields (username, password)")
	}

	if req.Username != h.Auth.Username {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "message": "Invalid credentials"})
	}
	if err := bcrypt.CompareHashAndPassword([]byte(h.Auth.PasswordHash), []byte(req.Password)); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "message": "Invalid credentials"})
	}

	token, err := middleware.CreateToken([]byte(h.Auth.JWTSecret), req.Username, h.Auth.Role, h.Auth.TokenTTL)
	if err != nil {
		h.Log.Error().Err(err).Str("user", req.Username).Msg("could not sign token")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Could not sign token"})
	}

	h.Log.WithUser(req.Username).Info().Msg("dashboard login")
	return c.JSON(fiber.Map{
		"success":     true,
		"accessToken": token,
		"user":        fiber.Map{"username": req.Username, "role": h.Auth.Role},
	})
}
