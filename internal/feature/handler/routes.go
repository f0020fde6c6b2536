package handler

import (
	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(app *fiber.App, h *FeatureHandler) {
	features := app.Group("/features")
	features.Get("/", h.GetAllFeatures)
	features.Get("/check/:name", h.CheckFeature)
	features.Get("/refresh", h.RefreshFeatures)
	features.Get("/status", h.GetStatus)
}
