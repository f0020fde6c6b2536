// Package gate guards routes behind feature flags.
package gate

import (
	autherror "github.com/Integral-X/meditrack-backend/internal/errors"
	"github.com/Integral-X/meditrack-backend/internal/feature"
	"github.com/gofiber/fiber/v2"
)

// RequireFeature returns a middleware that denies the route with 403 when the
// named flag evaluates to disabled. An empty name declares no gate and allows
// unconditionally. No request context is threaded into the evaluation;
// context-aware gating is an extension point.
func RequireFeature(flags feature.Evaluator, name string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if name == "" {
			return c.Next()
		}

		if !flags.IsEnabled(name, nil) {
			err := &autherror.FeatureDisabledError{Feature: name}
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": err.Error(),
			})
		}

		return c.Next()
	}
}
