package report

import (
	"bytes"

	"oficina-backend/internal/apperr"

	"github.com/gofiber/fiber/v2"
)

// GET /api/reports
func ReportHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		r, err := svc.All(c.UserContext())
		if err != nil {
			return err
		}
		return c.JSON(r)
	}
}

// GET /api/reports/export.xlsx
func ExportReportHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		r, err := svc.All(c.UserContext())
		if err != nil {
			return err
		}
		var buf bytes.Buffer
		if err := WriteXLSX(&buf, r); err != nil {
			return apperr.Render("Falha ao gerar a planilha", err)
		}
		c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="relatorio.xlsx"`)
		return c.Send(buf.Bytes())
	}
}
