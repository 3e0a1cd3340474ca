package report

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"oficina-backend/internal/apperr"
	"oficina-backend/internal/models"
	"oficina-backend/internal/store/storetest"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func seedReportData(t *testing.T, db *gorm.DB) {
	t.Helper()
	loc := time.Local
	client := models.Client{Name: "Maria"}
	require.NoError(t, db.Create(&client).Error)

	closed := closedBudget(time.Date(2024, 3, 10, 9, 0, 0, 0, loc), "500")
	closed.ClientID = client.ID
	closed.Total = dec("500")
	pending := closedBudget(time.Date(2024, 3, 11, 9, 0, 0, 0, loc), "800")
	pending.ClientID = client.ID
	pending.Status = models.BudgetStatusPending
	old := closedBudget(time.Date(2021, 1, 5, 9, 0, 0, 0, loc), "40")
	old.ClientID = client.ID

	for _, b := range []*models.Budget{&closed, &pending, &old} {
		require.NoError(t, db.Create(b).Error)
	}
	inv := investment(time.Date(2024, 3, 20, 9, 0, 0, 0, loc), "200")
	require.NoError(t, db.Create(&inv).Error)
}

func newTestService(t *testing.T) *Service {
	t.Helper()
	s, db := storetest.Open(t)
	seedReportData(t, db)
	svc := NewService(s, zap.NewNop().Sugar())
	svc.now = func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.Local) }
	return svc
}

func bucketByKey(r Report, key string) (Bucket, bool) {
	for _, b := range r.Buckets {
		if b.Key == key {
			return b, true
		}
	}
	return Bucket{}, false
}

func TestTrailingReport(t *testing.T) {
	svc := newTestService(t)

	r, err := svc.Trailing(context.Background())
	require.NoError(t, err)
	require.Len(t, r.Buckets, WindowMonths)

	mar, ok := bucketByKey(r, "2024-03")
	require.True(t, ok)
	assert.True(t, mar.Revenue.Equal(dec("500")))
	assert.True(t, mar.Expense.Equal(dec("200")))
	assert.True(t, mar.Profit.Equal(dec("300")))
	_, ok = bucketByKey(r, "2021-01")
	assert.False(t, ok)
}

func TestAllReport(t *testing.T) {
	svc := newTestService(t)

	r, err := svc.All(context.Background())
	require.NoError(t, err)
	require.Len(t, r.Buckets, 2)
	assert.Equal(t, "2021-01", r.Buckets[0].Key)
	assert.Equal(t, "2024-03", r.Buckets[1].Key)
	assert.True(t, r.Totals.Revenue.Equal(dec("540")))
}

func TestWriteXLSX(t *testing.T) {
	r := Report{
		Buckets: []Bucket{{Key: "2024-03", Revenue: dec("500"), Expense: dec("200"), Profit: dec("300")}},
		Totals:  Bucket{Key: "total", Revenue: dec("500"), Expense: dec("200"), Profit: dec("300")},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, r))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Mês", "Receita", "Despesa", "Lucro"}, rows[0])
	assert.Equal(t, []string{"2024-03", "500", "200", "300"}, rows[1])
	assert.Equal(t, "Total", rows[2][0])
}

func TestReportHandlers(t *testing.T) {
	svc := newTestService(t)
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(apperr.KindOf(err).Status()).JSON(fiber.Map{"error": err.Error()})
		},
	})
	app.Get("/api/reports", ReportHandler(svc))
	app.Get("/api/reports/export.xlsx", ExportReportHandler(svc))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/reports", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var r Report
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&r))
	assert.Len(t, r.Buckets, 2)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/reports/export.xlsx", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "relatorio.xlsx")
}
