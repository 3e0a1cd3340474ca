package auth

import (
	"strings"

	"oficina-backend/internal/apperr"

	"github.com/gofiber/fiber/v2"
)

// RequireGate admits requests carrying a valid bearer token while the gate
// is open. Logging out locks every outstanding token at once.
func RequireGate(secret string, gate *Gate) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return apperr.Unauthorized("Acesso bloqueado")
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			return apperr.Unauthorized("Authorization deve ser 'Bearer <token>'")
		}

		if _, err := ParseToken(secret, parts[1], gate.now); err != nil {
			return apperr.Unauthorized("Token inválido ou expirado")
		}

		st, err := gate.Load(c.UserContext())
		if err != nil {
			return apperr.Store("Falha ao consultar o acesso", err)
		}
		if !st.Unlocked {
			return apperr.Unauthorized("Acesso bloqueado")
		}
		return c.Next()
	}
}
