package budget

import (
	"context"
	"fmt"
	"strconv"

	"oficina-backend/internal/apperr"
	"oficina-backend/internal/budget/export"

	"github.com/gofiber/fiber/v2"
)

// Exporter produces the downloadable document for a quote.
type Exporter interface {
	Export(ctx context.Context, q export.Quote) (export.Document, error)
}

func parseID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, apperr.Validation("ID inválido")
	}
	return uint(id), nil
}

func parseFilter(c *fiber.Ctx) (Filter, error) {
	var f Filter
	for _, q := range []struct {
		key string
		dst *int
	}{{"month", &f.Month}, {"year", &f.Year}} {
		raw := c.Query(q.key)
		if raw == "" {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			return Filter{}, apperr.Validation(fmt.Sprintf("Parâmetro %s inválido", q.key))
		}
		*q.dst = v
	}
	if raw := c.Query("client_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return Filter{}, apperr.Validation("Parâmetro client_id inválido")
		}
		f.ClientID = uint(id)
	}
	return f, f.Validate()
}

// GET /api/budgets?client_id=&month=&year=
func ListBudgetsHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		f, err := parseFilter(c)
		if err != nil {
			return err
		}
		p := svc.Page(f)
		p.Load(c.UserContext())
		return c.JSON(p.View())
	}
}

// POST /api/budgets
func CreateBudgetHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateBudgetRequest
		if err := c.BodyParser(&body); err != nil {
			return apperr.Validation("Corpo da requisição inválido")
		}
		if err := body.Validate(); err != nil {
			return err
		}

		p := svc.Page(Filter{})
		if err := p.Submit(c.UserContext(), func(ctx context.Context) error {
			return svc.Create(ctx, body)
		}); err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(p.View())
	}
}

// POST /api/budgets/:id/close
func CloseBudgetHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return err
		}

		p := svc.Page(Filter{})
		if err := p.Submit(c.UserContext(), func(ctx context.Context) error {
			return svc.Close(ctx, id)
		}); err != nil {
			return err
		}
		return c.JSON(p.View())
	}
}

// GET /api/budgets/:id/pdf
func ExportBudgetHandler(svc *Service, exp Exporter) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return err
		}
		q, err := svc.Quote(c.UserContext(), id)
		if err != nil {
			return err
		}
		doc, err := exp.Export(c.UserContext(), q)
		if err != nil {
			svc.log.Errorw("quote export failed", "budget_id", id, "error", err)
			return err
		}

		c.Set(fiber.HeaderContentType, "application/pdf")
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, doc.Filename))
		return c.Send(doc.Content)
	}
}
