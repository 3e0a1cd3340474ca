package auth

import (
	"errors"
	"time"

	"oficina-backend/internal/apperr"

	"github.com/gofiber/fiber/v2"
)

type UnlockRequest struct {
	Code string `json:"code"`
}

type UnlockResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Unlocked  bool      `json:"unlocked"`
}

// POST /api/auth/unlock
func UnlockHandler(secret string, gate *Gate) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body UnlockRequest
		if err := c.BodyParser(&body); err != nil {
			return apperr.Validation("Corpo da requisição inválido")
		}

		st, err := gate.Attempt(c.UserContext(), body.Code)
		if errors.Is(err, ErrInvalidCode) {
			return apperr.Unauthorized("Código inválido")
		}
		if err != nil {
			return apperr.Store("Falha ao registrar o acesso", err)
		}

		token, err := GenerateToken(secret, gate.now(), *st.ExpiresAt)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível gerar o token")
		}

		return c.JSON(UnlockResponse{Token: token, ExpiresAt: *st.ExpiresAt, Unlocked: true})
	}
}

// POST /api/auth/logout
func LogoutHandler(gate *Gate) fiber.Handler {
	return func(c *fiber.Ctx) error {
		st, err := gate.Logout(c.UserContext())
		if err != nil {
			return apperr.Store("Falha ao encerrar o acesso", err)
		}
		return c.JSON(st)
	}
}

// GET /api/auth/status
func StatusHandler(gate *Gate) fiber.Handler {
	return func(c *fiber.Ctx) error {
		st, err := gate.Load(c.UserContext())
		if err != nil {
			return apperr.Store("Falha ao consultar o acesso", err)
		}
		return c.JSON(st)
	}
}
