package http_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apphttp "github.com/jhoicas/Produccion-api/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// RBAC del router — las rutas que mueven stock real exigen supervisión
// ──────────────────────────────────────────────────────────────────────────────

// buildRouterApp monta el router real. Los use cases quedan sin backend: estos
// tests comprueban el corte por rol antes de llegar a la lógica de dominio.
func buildRouterApp() *fiber.App {
	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{JWTSecret: testJWTSecret})
	return app
}

func postJSON(t *testing.T, app *fiber.App, path, authHeader, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
	req.Header.Set("Authorization", authHeader)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestRouter_AsientoManualSoloSupervision(t *testing.T) {
	app := buildRouterApp()

	resp := postJSON(t, app, "/api/inventory/transactions", tokenForRole(t, "operario"), `{`)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode,
		"operario no debe registrar asientos manuales en el libro")

	// Supervisor pasa el RBAC: el cuerpo inválido corta en el parseo (400),
	// es decir, el middleware dejó pasar la petición hasta el handler.
	resp = postJSON(t, app, "/api/inventory/transactions", tokenForRole(t, "supervisor"), `{`)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRouter_RecalculoSoloSupervision(t *testing.T) {
	app := buildRouterApp()

	resp := postJSON(t, app, "/api/inventory/items/itm-1/recalculate", tokenForRole(t, "operario"), ``)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestRouter_PublicarYCerrarSoloSupervision(t *testing.T) {
	app := buildRouterApp()

	for _, path := range []string{
		"/api/jobs/job-1/post-output",
		"/api/jobs/job-1/complete",
	} {
		resp := postJSON(t, app, path, tokenForRole(t, "operario"), `{`)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode,
			"operario no debe poder %s", path)
		resp.Body.Close()
	}

	// Admin pasa el RBAC de post-output; el cuerpo inválido corta en 400.
	resp := postJSON(t, app, "/api/jobs/job-1/post-output", tokenForRole(t, "admin"), `{`)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
