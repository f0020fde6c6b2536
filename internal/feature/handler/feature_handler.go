package handler

import (
	"time"

	"github.com/Integral-X/meditrack-backend/internal/feature"
	"github.com/gofiber/fiber/v2"
)

// FeatureHandler exposes the flag inspection endpoints.
type FeatureHandler struct {
	flags feature.Evaluator
}

func NewFeatureHandler(flags feature.Evaluator) *FeatureHandler {
	return &FeatureHandler{flags: flags}
}

// GetAllFeatures lists every flag definition with its enabled state under the
// optional userId/environment query context.
func (h *FeatureHandler) GetAllFeatures(c *fiber.Ctx) error {
	ctx := contextFromQuery(c)
	features := h.flags.GetAllFeatures(ctx)

	resp := fiber.Map{
		"success": true,
		"data":    features,
		"total":   len(features),
	}
	if payload := contextPayload(ctx); payload != nil {
		resp["context"] = payload
	}

	return c.JSON(resp)
}

// CheckFeature reports the enabled state of a single flag.
func (h *FeatureHandler) CheckFeature(c *fiber.Ctx) error {
	name := c.Params("name")
	ctx := contextFromQuery(c)
	enabled := h.flags.IsEnabled(name, ctx)

	resp := fiber.Map{
		"success": true,
		"feature": name,
		"enabled": enabled,
	}
	if payload := contextPayload(ctx); payload != nil {
		resp["context"] = payload
	}

	return c.JSON(resp)
}

// RefreshFeatures requests an out-of-band flag resynchronization.
func (h *FeatureHandler) RefreshFeatures(c *fiber.Ctx) error {
	h.flags.Refresh()

	return c.JSON(fiber.Map{
		"success":   true,
		"message":   "Feature flags refresh initiated",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// GetStatus reports the flag client's connection state and flag counts.
func (h *FeatureHandler) GetStatus(c *fiber.Ctx) error {
	features := h.flags.GetAllFeatures(nil)

	enabled := 0
	for _, f := range features {
		if f.Enabled {
			enabled++
		}
	}

	return c.JSON(fiber.Map{
		"success": true,
		"unleash": fiber.Map{
			"connected":        h.flags.IsReady(),
			"totalFeatures":    len(features),
			"enabledFeatures":  enabled,
			"disabledFeatures": len(features) - enabled,
		},
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func contextFromQuery(c *fiber.Ctx) *feature.Context {
	userID := c.Query("userId")
	environment := c.Query("environment")
	if userID == "" && environment == "" {
		return nil
	}
	return &feature.Context{UserID: userID, Environment: environment}
}

func contextPayload(ctx *feature.Context) fiber.Map {
	if ctx == nil {
		return nil
	}
	payload := fiber.Map{}
	if ctx.UserID != "" {
		payload["userId"] = ctx.UserID
	}
	if ctx.Environment != "" {
		payload["environment"] = ctx.Environment
	}
	return payload
}
