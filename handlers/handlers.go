package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"foodintel/apperr"
	"foodintel/catalog"
	"foodintel/config"
	"foodintel/database"
	"foodintel/logger"
	"foodintel/services"
)

// Handlers holds the dependencies of the HTTP handlers.
type Handlers struct {
	Auth     config.AuthConfig
	Caps     config.Capabilities
	Catalog  *catalog.Catalog
	Market   *services.MarketService
	Reports  *services.ReportService
	Shopping *services.ShoppingService
	Registry *services.RegistryService
	Log      *logger.Logger
}

// New fills in the defaults of h and returns it.
func New(h Handlers) *Handlers {
	if h.Log == nil {
		h.Log = logger.Default()
	}
	if h.Catalog == nil {
		h.Catalog = catalog.MustDefault()
	}
	return &h
}

// respondError writes err in the response envelope with the status matching
// its kind. Empty and insufficient-data results are informational and
// answered with 200.
func (h *Handlers) respondError(c *fiber.Ctx, err error) error {
	kind := apperr.KindOf(err)
	msg := apperr.MessageOf(err)

	switch {
	case errors.Is(err, database.ErrReportNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "Report not found"})
	case kind == apperr.KindEmpty:
		return c.JSON(fiber.Map{"success": true, "state": "empty", "message": msg, "data": []any{}})
	case kind == apperr.KindInsufficientData:
		return c.JSON(fiber.Map{"success": true, "state": "insufficient_data", "message": msg})
	}

	status := fiber.StatusInternalServerError
	switch kind {
	case apperr.KindValidation:
		status = fiber.StatusBadRequest
	case apperr.KindConfig:
		status = fiber.StatusServiceUnavailable
	case apperr.KindProvider, apperr.KindTransport:
		status = fiber.StatusBadGateway
	case apperr.KindTimeout:
		status = fiber.StatusGatewayTimeout
	}

	if status >= fiber.StatusInternalServerError {
		h.Log.Error().Err(err).Str("path", c.Path()).Int("status", status).Msg("request failed")
	}
	if kind == "" {
		msg = "Internal server error"
	}
	return c.Status(status).JSON(fiber.Map{"success": false, "kind": string(kind), "message": msg})
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "kind": string(apperr.KindValidation), "message": message})
}
