package handlers

import (
	"github.com/gofiber/fiber/v2"

	"foodintel/models"
	"foodintel/services"
)

// HandleRegistryRecords queries the product registry and returns one page of
// the filtered records.
// GET /api/v1/registry/records?start=1&end=100&productName=&filter=&page=1&pageSize=20
func (h *Handlers) HandleRegistryRecords(c *fiber.Ctx) error {
	req := services.RegistrySearch{
		RegistryQuery: models.RegistryQuery{
			Start:        c.QueryInt("start", 1),
			End:          c.QueryInt("end", 100),
			BusinessName: c.Query("businessName"),
			ProductName:  c.Query("productName"),
			ReportNumber: c.Query("reportNumber"),
		},
		Filter:   c.Query("filter"),
		Page:     c.QueryInt("page", 1),
		PageSize: c.QueryInt("pageSize", 20),
	}

	page, err := h.Registry.Search(c.UserContext(), req)
	if err != nil {
		return h.respondError(c, err)
	}

	state := "ok"
	if page.Fetched == 0 {
		state = "empty"
	}
	return c.JSON(fiber.Map{
		"success":    true,
		"state":      state,
		"data":       page.Data,
		"pagination": page.Pagination,
		"fetched":    page.Fetched,
		"totalCount": page.TotalCount,
	})
}
