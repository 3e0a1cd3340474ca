package expense

import (
	"context"

	"oficina-backend/internal/apperr"
	"oficina-backend/internal/models"
	"oficina-backend/internal/page"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type InvestmentsResponse struct {
	page.View[models.Investment]
	Total decimal.Decimal `json:"total"`
}

func respond(p *page.Page[models.Investment]) InvestmentsResponse {
	return InvestmentsResponse{View: p.View(), Total: Total(p.Records())}
}

// GET /api/investments?from=2026-01-01&to=2026-01-31
func ListInvestmentsHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		period, err := svc.ParsePeriod(c.Query("from"), c.Query("to"))
		if err != nil {
			return err
		}

		p := svc.Page(period)
		p.Load(c.UserContext())
		return c.JSON(respond(p))
	}
}

// POST /api/investments
func CreateInvestmentHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateInvestmentRequest
		if err := c.BodyParser(&body); err != nil {
			return apperr.Validation("Corpo da requisição inválido")
		}
		if err := body.Validate(); err != nil {
			return err
		}

		p := svc.Page(Period{})
		if err := p.Submit(c.UserContext(), func(ctx context.Context) error {
			return svc.Create(ctx, body)
		}); err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(respond(p))
	}
}
