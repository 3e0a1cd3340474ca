// Package dashboard serves the home page chart: revenue and expense for the
// trailing twelve months.
package dashboard

import (
	"context"

	"oficina-backend/internal/apperr"
	"oficina-backend/internal/report"

	"github.com/gofiber/fiber/v2"
)

// TrailingReporter is satisfied by *report.Service.
type TrailingReporter interface {
	Trailing(ctx context.Context) (report.Report, error)
}

type ChartResponse struct {
	Labels  []string      `json:"labels"`
	Revenue []float64     `json:"revenue"`
	Expense []float64     `json:"expense"`
	Profit  []float64     `json:"profit"`
	Totals  report.Bucket `json:"totals"`
}

func NewChartResponse(r report.Report) ChartResponse {
	resp := ChartResponse{
		Labels:  make([]string, 0, len(r.Buckets)),
		Revenue: make([]float64, 0, len(r.Buckets)),
		Expense: make([]float64, 0, len(r.Buckets)),
		Profit:  make([]float64, 0, len(r.Buckets)),
		Totals:  r.Totals,
	}
	for _, b := range r.Buckets {
		resp.Labels = append(resp.Labels, b.Key)
		resp.Revenue = append(resp.Revenue, b.Revenue.InexactFloat64())
		resp.Expense = append(resp.Expense, b.Expense.InexactFloat64())
		resp.Profit = append(resp.Profit, b.Profit.InexactFloat64())
	}
	return resp
}

// GET /api/dashboard/chart
func ChartHandler(svc TrailingReporter) fiber.Handler {
	return func(c *fiber.Ctx) error {
		r, err := svc.Trailing(c.UserContext())
		if err != nil {
			return err
		}
		return c.JSON(NewChartResponse(r))
	}
}

// GET /api/dashboard/chart.svg?width=&height=
func ChartSVGHandler(svc TrailingReporter) fiber.Handler {
	return func(c *fiber.Ctx) error {
		r, err := svc.Trailing(c.UserContext())
		if err != nil {
			return err
		}
		data := NewChartResponse(r)

		svg, err := Bars(c.QueryInt("width"), c.QueryInt("height"), data.Revenue, data.Expense, data.Labels, BarOpts{
			Title: "Receita x Despesa (12 meses)",
		})
		if err != nil {
			return apperr.Render("Falha ao gerar o gráfico", err)
		}
		c.Set(fiber.HeaderContentType, "image/svg+xml")
		return c.SendString(svg)
	}
}
