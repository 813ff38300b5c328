package handlers

import (
	"github.com/gofiber/fiber/v2"

	"foodintel/models"
)

// HandleCapabilities reports which collaborators are configured.
// GET /api/v1/capabilities
func (h *Handlers) HandleCapabilities(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"success": true, "data": h.Caps})
}

// HandleCatalog returns the beverage categories with their recommended
// flavors and brands.
// GET /api/v1/catalog
func (h *Handlers) HandleCatalog(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"success": true, "data": h.Catalog.Categories})
}

// HandleAnalyzeMarket runs a market analysis. Trend and shopping sections
// carry their own state, so a failing provider does not fail the request.
// POST /api/v1/market/analyze
func (h *Handlers) HandleAnalyzeMarket(c *fiber.Ctx) error {
	var req models.AnalysisRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Cannot parse JSON")
	}

	analysis, err := h.Market.Analyze(c.UserContext(), req)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "data": analysis})
}
