package clients

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"oficina-backend/internal/apperr"
	"oficina-backend/internal/models"
	"oficina-backend/internal/page"
	"oficina-backend/internal/store/storetest"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	s, _ := storetest.Open(t)
	svc := NewService(s, zap.NewNop().Sugar())

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(apperr.KindOf(err).Status()).JSON(fiber.Map{"error": err.Error()})
		},
	})
	app.Get("/api/clients", ListClientsHandler(svc))
	app.Post("/api/clients", CreateClientHandler(svc))
	return app
}

func postClient(t *testing.T, app *fiber.App, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/clients", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func decodeView(t *testing.T, r io.Reader) page.View[models.Client] {
	t.Helper()
	var v page.View[models.Client]
	require.NoError(t, json.NewDecoder(r).Decode(&v))
	return v
}

func TestCreateClientReturnsRefreshedList(t *testing.T) {
	app := newTestApp(t)

	resp := postClient(t, app, `{"name":"Oficina do Zé","description":"frota"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	postClient(t, app, `{"name":"Maria"}`)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/clients", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	view := decodeView(t, resp.Body)
	assert.Equal(t, page.StateIdle, view.State)
	require.Len(t, view.Records, 2)
	assert.Equal(t, "Maria", view.Records[0].Name)
	assert.Equal(t, "Oficina do Zé", view.Records[1].Name)
}

func TestCreateClientRequiresName(t *testing.T) {
	app := newTestApp(t)

	resp := postClient(t, app, `{"name":"   "}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/clients", nil))
	require.NoError(t, err)
	assert.Empty(t, decodeView(t, resp.Body).Records)
}
