package gate_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Integral-X/meditrack-backend/config"
	"github.com/Integral-X/meditrack-backend/internal/feature"
	"github.com/Integral-X/meditrack-backend/internal/feature/gate"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func guardedApp(t *testing.T, flags feature.Evaluator, flagName string) *fiber.App {
	t.Helper()

	app := fiber.New()
	app.Get("/guarded", gate.RequireFeature(flags, flagName), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	return app
}

func get(t *testing.T, app *fiber.App) (int, []byte) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp.StatusCode, data
}

func TestRequireFeature_AllowsWhenEnabled(t *testing.T) {
	flags := feature.NewService(&config.Config{UnleashMock: true})
	t.Cleanup(func() { _ = flags.Close() })

	app := guardedApp(t, flags, "medication-reminders")

	code, body := get(t, app)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", string(body))
}

func TestRequireFeature_DeniesWhenDisabled(t *testing.T) {
	// Degraded fallback: every flag evaluates to disabled.
	flags := feature.NewService(&config.Config{
		UnleashURL:     "http://localhost:4242/api/",
		UnleashAppName: "meditrack-backend",
	})
	t.Cleanup(func() { _ = flags.Close() })

	app := guardedApp(t, flags, "medication-reminders")

	code, body := get(t, app)
	assert.Equal(t, http.StatusForbidden, code)

	var payload map[string]string
	require.NoError(t, json.Unmarshal(body, &payload))
	// The denial names the flag; it is not a security-sensitive secret.
	assert.Equal(t, "feature medication-reminders is not enabled", payload["error"])
}

func TestRequireFeature_NoFlagDeclaredAllowsUnconditionally(t *testing.T) {
	flags := feature.NewService(&config.Config{
		UnleashURL:     "http://localhost:4242/api/",
		UnleashAppName: "meditrack-backend",
	})
	t.Cleanup(func() { _ = flags.Close() })

	app := guardedApp(t, flags, "")

	code, _ := get(t, app)
	assert.Equal(t, http.StatusOK, code)
}
