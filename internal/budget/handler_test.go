package budget

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"oficina-backend/internal/apperr"
	"oficina-backend/internal/budget/export"
	"oficina-backend/internal/models"
	"oficina-backend/internal/page"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubExporter struct{ err error }

func (s stubExporter) Export(_ context.Context, q export.Quote) (export.Document, error) {
	if s.err != nil {
		return export.Document{}, apperr.Render("Falha ao gerar o PDF", s.err)
	}
	return export.Document{Filename: export.Filename(q.ID), Content: []byte("%PDF " + q.ClientName)}, nil
}

func newTestApp(f fixture, exp Exporter) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(apperr.KindOf(err).Status()).JSON(fiber.Map{"error": err.Error()})
		},
	})
	app.Get("/api/budgets", ListBudgetsHandler(f.svc))
	app.Post("/api/budgets", CreateBudgetHandler(f.svc))
	app.Post("/api/budgets/:id/close", CloseBudgetHandler(f.svc))
	app.Get("/api/budgets/:id/pdf", ExportBudgetHandler(f.svc, exp))
	return app
}

func decodeBudgets(t *testing.T, r io.Reader) page.View[models.Budget] {
	t.Helper()
	var v page.View[models.Budget]
	require.NoError(t, json.NewDecoder(r).Decode(&v))
	return v
}

func TestCreateBudgetHandler(t *testing.T) {
	f := newFixture(t)
	app := newTestApp(f, stubExporter{})

	body := fmt.Sprintf(`{"client_id":%d,"items":[{"type":"product","ref_id":%d}]}`, f.client.ID, f.product.ID)
	req := httptest.NewRequest(http.MethodPost, "/api/budgets", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	view := decodeBudgets(t, resp.Body)
	require.Len(t, view.Records, 1)
	assert.Equal(t, "Pastilha de freio", view.Records[0].LineItems[0].Name)

	req = httptest.NewRequest(http.MethodPost, "/api/budgets", strings.NewReader(fmt.Sprintf(`{"client_id":%d,"items":[]}`, f.client.ID)))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestListAndCloseBudgetHandlers(t *testing.T) {
	f := newFixture(t)
	app := newTestApp(f, stubExporter{})
	b := f.seed(t, f.client.ID, time.Date(2024, 4, 15, 12, 0, 0, 0, time.Local), models.BudgetStatusPending)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/budgets?month=4&year=2024", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decodeBudgets(t, resp.Body).Records, 1)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/budgets?month=5&year=2024", nil))
	require.NoError(t, err)
	assert.Empty(t, decodeBudgets(t, resp.Body).Records)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/budgets?month=abc", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/budgets/%d/close", b.ID), nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, models.BudgetStatusClosed, decodeBudgets(t, resp.Body).Records[0].Status)

	resp, err = app.Test(httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/budgets/%d/close", b.ID), nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestExportBudgetHandler(t *testing.T) {
	f := newFixture(t)
	b := f.seed(t, f.client.ID, time.Now(), models.BudgetStatusPending)

	app := newTestApp(f, stubExporter{})
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/budgets/%d/pdf", b.ID), nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), fmt.Sprintf("orcamento_%d.pdf", b.ID))
	content, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "%PDF Maria", string(content))

	failing := newTestApp(f, stubExporter{err: errors.New("gotenberg down")})
	resp, err = failing.Test(httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/budgets/%d/pdf", b.ID), nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/budgets/999/pdf", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
