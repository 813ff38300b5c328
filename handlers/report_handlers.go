package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"foodintel/models"
)

// HandleStrategyReport generates the market strategy report.
// POST /api/v1/market/report
func (h *Handlers) HandleStrategyReport(c *fiber.Ctx) error {
	var req models.StrategyReportRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Cannot parse JSON")
	}

	h.Log.Info().Str("category", req.Analysis.Category).Msg("generating strategy report")
	report, err := h.Reports.GenerateStrategyReport(c.UserContext(), req.Analysis)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "data": report})
}

// HandleListReports lists recent reports.
// GET /api/v1/reports?limit=20
func (h *Handlers) HandleListReports(c *fiber.Ctx) error {
	items, err := h.Reports.ListReports(c.UserContext(), c.QueryInt("limit", 20))
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "data": items, "archived": h.Caps.Archive})
}

// HandleExportReport downloads an archived report as plain text.
// GET /api/v1/reports/:reportId/export
func (h *Handlers) HandleExportReport(c *fiber.Ctx) error {
	name, body, err := h.Reports.ExportReport(c.UserContext(), c.Params("reportId"))
	if err != nil {
		return h.respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "text/plain; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, name))
	return c.Send(body)
}

// HandleDevReportDraft drafts a new-product development report.
// POST /api/v1/workspace/dev-report/draft
func (h *Handlers) HandleDevReportDraft(c *fiber.Ctx) error {
	var form models.DevReportForm
	if err := c.BodyParser(&form); err != nil {
		return badRequest(c, "Cannot parse JSON")
	}

	report, err := h.Reports.GenerateDevelopmentDraft(c.UserContext(), form)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "data": report})
}

// HandleSaveDevReport acknowledges a development report save.
// POST /api/v1/workspace/dev-report
func (h *Handlers) HandleSaveDevReport(c *fiber.Ctx) error {
	var form models.DevReportForm
	if err := c.BodyParser(&form); err != nil {
		return badRequest(c, "Cannot parse JSON")
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": fmt.Sprintf("[%s] %s 보고서가 저장되었습니다.", form.ProductName(), form.Version),
	})
}
