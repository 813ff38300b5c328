package handlers

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"foodintel/services"
)

// HandleCollectShopping collects food listings for a keyword.
// POST /api/v1/shopping/collect
func (h *Handlers) HandleCollectShopping(c *fiber.Ctx) error {
	var req services.CollectRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Cannot parse JSON")
	}

	rows, err := h.Shopping.Collect(c.UserContext(), req)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "data": rows, "count": len(rows)})
}

// HandleExportShopping runs a collection and returns it as a CSV download.
// POST /api/v1/shopping/export
func (h *Handlers) HandleExportShopping(c *fiber.Ctx) error {
	var req services.CollectRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Cannot parse JSON")
	}

	rows, err := h.Shopping.Collect(c.UserContext(), req)
	if err != nil {
		return h.respondError(c, err)
	}
	data, err := services.CollectedCSV(rows)
	if err != nil {
		return h.respondError(c, err)
	}

	name := fmt.Sprintf("shopping_%s.csv", time.Now().Format("20060102_1504"))
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, name))
	return c.Send(data)
}
