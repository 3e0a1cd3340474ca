package inventory

import (
	"context"
	"strconv"

	"oficina-backend/internal/apperr"
	"oficina-backend/internal/models"
	"oficina-backend/internal/page"

	"github.com/gofiber/fiber/v2"
)

type UpdateMarginRequest struct {
	Margin page.Field `json:"margin"`
}

type ReconcileResponse struct {
	Item StockItemView `json:"item"`
	page.View[StockItemView]
}

func parseID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, apperr.Validation("id inválido")
	}
	return uint(id), nil
}

// GET /api/stock-items
func ListStockItemsHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p := svc.Page()
		p.Load(c.UserContext())
		return c.JSON(p.View())
	}
}

// POST /api/stock-items (multipart)
// target: "new" or the id of an existing item
// name, description, cost_price, quantity, margin, photo (file, optional)
func ReconcileStockHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		target, err := ParseTarget(c.FormValue("target"))
		if err != nil {
			return err
		}

		in := Incoming{
			Name:        c.FormValue("name"),
			Description: c.FormValue("description"),
			CostPrice:   page.Field(c.FormValue("cost_price")).Decimal(),
			Quantity:    page.Field(c.FormValue("quantity")).Int(),
			Margin:      page.Field(c.FormValue("margin")).Decimal(),
		}
		if err := in.validate(target); err != nil {
			return err
		}

		if form, err := c.MultipartForm(); err == nil {
			if files := form.File["photo"]; len(files) > 0 {
				fh := files[0]
				f, err := fh.Open()
				if err != nil {
					return apperr.Upload("Foto não pôde ser lida", err)
				}
				defer f.Close()
				in.Photo = &Photo{
					Filename:    fh.Filename,
					ContentType: fh.Header.Get("Content-Type"),
					Body:        f,
				}
			}
		}

		var item models.StockItem
		p := svc.Page()
		if err := p.Submit(c.UserContext(), func(ctx context.Context) error {
			var err error
			item, err = svc.Reconcile(ctx, target, in)
			return err
		}); err != nil {
			return err
		}

		return c.Status(fiber.StatusCreated).JSON(ReconcileResponse{
			Item: StockItemView{StockItem: item, SalePrice: item.SalePrice()},
			View: p.View(),
		})
	}
}

// PATCH /api/stock-items/:id/margin
func UpdateMarginHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return err
		}

		var body UpdateMarginRequest
		if err := c.BodyParser(&body); err != nil {
			return apperr.Validation("Corpo da requisição inválido")
		}

		p := svc.Page()
		if err := p.Submit(c.UserContext(), func(ctx context.Context) error {
			return svc.UpdateMargin(ctx, id, body.Margin.Decimal())
		}); err != nil {
			return err
		}
		return c.JSON(p.View())
	}
}

// GET /api/stock-items/:id/history
func StockHistoryHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return err
		}

		entries, err := svc.History(c.UserContext(), id)
		if err != nil {
			return err
		}
		return c.JSON(entries)
	}
}
