package handler_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Integral-X/meditrack-backend/config"
	"github.com/Integral-X/meditrack-backend/internal/feature"
	"github.com/Integral-X/meditrack-backend/internal/feature/handler"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFeatureApp(t *testing.T, cfg *config.Config) *fiber.App {
	t.Helper()

	flags := feature.NewService(cfg)
	t.Cleanup(func() { _ = flags.Close() })

	app := fiber.New()
	handler.RegisterRoutes(app, handler.NewFeatureHandler(flags))

	return app
}

func getJSON(t *testing.T, app *fiber.App, path string) (int, map[string]interface{}) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &body))

	return resp.StatusCode, body
}

func TestGetAllFeatures(t *testing.T) {
	app := newFeatureApp(t, &config.Config{UnleashMock: true})

	t.Run("mock list", func(t *testing.T) {
		code, body := getJSON(t, app, "/features")
		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, true, body["success"])
		assert.Equal(t, float64(2), body["total"])
		assert.NotContains(t, body, "context")

		data, ok := body["data"].([]interface{})
		require.True(t, ok)
		assert.Len(t, data, 2)
	})

	t.Run("query context is echoed", func(t *testing.T) {
		code, body := getJSON(t, app, "/features?userId=u1&environment=test")
		assert.Equal(t, http.StatusOK, code)

		ctx, ok := body["context"].(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, "u1", ctx["userId"])
		assert.Equal(t, "test", ctx["environment"])
	})
}

func TestCheckFeature(t *testing.T) {
	app := newFeatureApp(t, &config.Config{UnleashMock: true})

	code, body := getJSON(t, app, "/features/check/medication-reminders?userId=u1")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "medication-reminders", body["feature"])
	assert.Equal(t, true, body["enabled"])

	ctx, ok := body["context"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "u1", ctx["userId"])
	assert.NotContains(t, ctx, "environment")
}

func TestRefreshFeatures(t *testing.T) {
	app := newFeatureApp(t, &config.Config{UnleashMock: true})

	code, body := getJSON(t, app, "/features/refresh")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Feature flags refresh initiated", body["message"])
	assert.NotEmpty(t, body["timestamp"])
}

func TestGetStatus(t *testing.T) {
	t.Run("mock mode counts its fixed list", func(t *testing.T) {
		app := newFeatureApp(t, &config.Config{UnleashMock: true})

		code, body := getJSON(t, app, "/features/status")
		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, true, body["success"])

		unleashStatus, ok := body["unleash"].(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, true, unleashStatus["connected"])
		assert.Equal(t, float64(2), unleashStatus["totalFeatures"])
		assert.Equal(t, float64(1), unleashStatus["enabledFeatures"])
		assert.Equal(t, float64(1), unleashStatus["disabledFeatures"])
	})

	t.Run("degraded fallback reports no features", func(t *testing.T) {
		// No API token: the client falls back to the all-disabled evaluator.
		app := newFeatureApp(t, &config.Config{
			UnleashURL:     "http://localhost:4242/api/",
			UnleashAppName: "meditrack-backend",
		})

		code, body := getJSON(t, app, "/features/status")
		assert.Equal(t, http.StatusOK, code)

		unleashStatus, ok := body["unleash"].(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, true, unleashStatus["connected"])
		assert.Equal(t, float64(0), unleashStatus["totalFeatures"])
	})
}
