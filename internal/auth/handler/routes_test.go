package handler_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRegisterRoutes verifies that the auth routes are mounted.
func TestRegisterRoutes(t *testing.T) {
	app, _ := newTestApp(t)

	testCases := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/auth/login"},
		{http.MethodPost, "/auth/refresh"},
		{http.MethodPost, "/auth/logout"},
	}

	for _, tc := range testCases {
		t.Run(fmt.Sprintf("%s_%s_exists", tc.method, tc.path), func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			resp, err := app.Test(req)
			require.NoError(t, err)

			// We only care that the route exists; the handlers themselves
			// return 400/401 for the empty request.
			assert.NotEqual(t, http.StatusNotFound, resp.StatusCode)
		})
	}

	t.Run("unknown route is 404", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/auth/register", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})
}
