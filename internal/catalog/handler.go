package catalog

import (
	"context"

	"oficina-backend/internal/apperr"

	"github.com/gofiber/fiber/v2"
)

func parseItem(c *fiber.Ctx) (ItemRequest, error) {
	var body ItemRequest
	if err := c.BodyParser(&body); err != nil {
		return body, apperr.Validation("Corpo da requisição inválido")
	}
	if err := body.Validate(); err != nil {
		return body, err
	}
	return body, nil
}

// GET /api/products
func ListProductsHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p := svc.ProductsPage()
		p.Load(c.UserContext())
		return c.JSON(p.View())
	}
}

// POST /api/products
func CreateProductHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		body, err := parseItem(c)
		if err != nil {
			return err
		}

		p := svc.ProductsPage()
		if err := p.Submit(c.UserContext(), func(ctx context.Context) error {
			return svc.CreateProduct(ctx, body)
		}); err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(p.View())
	}
}

// GET /api/services
func ListServicesHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p := svc.ServicesPage()
		p.Load(c.UserContext())
		return c.JSON(p.View())
	}
}

// POST /api/services
func CreateServiceHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		body, err := parseItem(c)
		if err != nil {
			return err
		}

		p := svc.ServicesPage()
		if err := p.Submit(c.UserContext(), func(ctx context.Context) error {
			return svc.CreateService(ctx, body)
		}); err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(p.View())
	}
}
