package routes

import (
	"runtime/debug"

	"github.com/gofiber/fiber/v2"

	"foodintel/handlers"
	"foodintel/middleware"
)

// SetupRoutes defines all the routes for the application.
func SetupRoutes(app *fiber.App, h *handlers.Handlers) {
	caps := h.Caps

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"success": true, "status": "ok"})
	})
	app.Get("/version", func(c *fiber.Ctx) error {
		info, ok := debug.ReadBuildInfo()
		if !ok {
			return c.Status(500).SendString("no build information available")
		}
		return c.SendString(info.String())
	})

	api := app.Group("/api/v1")

	// --- Public Routes ---
	api.Post("/auth/login", h.HandleLogin)
	api.Get("/capabilities", h.HandleCapabilities)

	jwt := middleware.JWT([]byte(h.Auth.JWTSecret))
	staff := middleware.CheckRole("staff", "admin")

	api.Get("/catalog", jwt, staff, h.HandleCatalog)

	// --- Market Analysis ---
	market := api.Group("/market", jwt, staff)
	market.Post("/analyze", middleware.RequireCapability(caps.Trend || caps.Commerce, "Trend and commerce search"), h.HandleAnalyzeMarket)
	market.Post("/report", middleware.RequireCapability(caps.LLM, "Text generation"), h.HandleStrategyReport)

	// --- Shopping Collection ---
	shopping := api.Group("/shopping", jwt, staff, middleware.RequireCapability(caps.Commerce, "Commerce search"))
	shopping.Post("/collect", h.HandleCollectShopping)
	shopping.Post("/export", h.HandleExportShopping)

	// --- Product Registry ---
	api.Get("/registry/records", jwt, staff, middleware.RequireCapability(caps.Registry, "Food-safety registry"), h.HandleRegistryRecords)

	// --- Reports ---
	api.Get("/reports", jwt, staff, h.HandleListReports)
	api.Get("/reports/:reportId/export", jwt, staff, middleware.RequireCapability(caps.Archive, "Report archive"), h.HandleExportReport)

	// --- Workspace ---
	workspace := api.Group("/workspace", jwt, staff)
	workspace.Post("/dev-report/draft", middleware.RequireCapability(caps.LLM, "Text generation"), h.HandleDevReportDraft)
	workspace.Post("/dev-report", h.HandleSaveDevReport)
	workspace.Get("/risks", h.HandleListRisks)
	workspace.Post("/risks", h.HandleRegisterRisk)
	workspace.Post("/production-plan", h.HandleProductionPlan)
	workspace.Get("/library", h.HandleListLibrary)
	workspace.Post("/library", h.HandleRegisterLibraryItem)
	workspace.Get("/library/summary", h.HandleLibrarySummary)
}
