package clients

import (
	"context"

	"oficina-backend/internal/apperr"

	"github.com/gofiber/fiber/v2"
)

// GET /api/clients
func ListClientsHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p := svc.Page()
		p.Load(c.UserContext())
		return c.JSON(p.View())
	}
}

// POST /api/clients
func CreateClientHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateClientRequest
		if err := c.BodyParser(&body); err != nil {
			return apperr.Validation("Corpo da requisição inválido")
		}
		if err := body.Validate(); err != nil {
			return err
		}

		p := svc.Page()
		if err := p.Submit(c.UserContext(), func(ctx context.Context) error {
			return svc.Create(ctx, body)
		}); err != nil {
			return err
		}

		return c.Status(fiber.StatusCreated).JSON(p.View())
	}
}
