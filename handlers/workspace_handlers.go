package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"foodintel/models"
	"foodintel/production"
	"foodintel/services"
)

// HandleListRisks returns the process risk checklist.
// GET /api/v1/workspace/risks?step=배합
func (h *Handlers) HandleListRisks(c *fiber.Ctx) error {
	items, counts := services.Risks(c.Query("step"))
	return c.JSON(fiber.Map{"success": true, "data": items, "counts": counts, "steps": services.ProcessSteps})
}

// HandleRegisterRisk validates and acknowledges a new risk entry.
// POST /api/v1/workspace/risks
func (h *Handlers) HandleRegisterRisk(c *fiber.Ctx) error {
	var item models.RiskItem
	if err := c.BodyParser(&item); err != nil {
		return badRequest(c, "Cannot parse JSON")
	}
	if err := services.ValidateRisk(item); err != nil {
		return h.respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": fmt.Sprintf("[%s] '%s' 리스크가 등록되었습니다.", item.Step, item.Item),
	})
}

// HandleProductionPlan computes material requirements for a production run.
// POST /api/v1/workspace/production-plan
func (h *Handlers) HandleProductionPlan(c *fiber.Ctx) error {
	var req models.ProductionPlanRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Cannot parse JSON")
	}
	plan, err := production.Plan(req)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "data": plan})
}

// HandleListLibrary returns the library documents of a category.
// GET /api/v1/workspace/library?category=시장조사
func (h *Handlers) HandleListLibrary(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"success":    true,
		"data":       services.LibraryItems(c.Query("category")),
		"categories": services.LibraryCategories,
	})
}

// HandleRegisterLibraryItem validates and acknowledges a new document.
// POST /api/v1/workspace/library
func (h *Handlers) HandleRegisterLibraryItem(c *fiber.Ctx) error {
	var item models.LibraryItem
	if err := c.BodyParser(&item); err != nil {
		return badRequest(c, "Cannot parse JSON")
	}
	if err := services.ValidateLibraryItem(item); err != nil {
		return h.respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "message": "자료가 등록되었습니다."})
}

// HandleLibrarySummary returns the document count per category.
// GET /api/v1/workspace/library/summary
func (h *Handlers) HandleLibrarySummary(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"success": true, "data": services.LibrarySummary()})
}
