package handlers

import (
	"mcadesk/internal/services/dashboard"
	"mcadesk/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

type DashboardHandler struct {
	dashboardService dashboard.Service
}

func NewDashboardHandler(dashboardService dashboard.Service) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
	}
}

// GetPipeline returns deal counts and totals per stage
func (h *DashboardHandler) GetPipeline(c *fiber.Ctx) error {
	summary, err := h.dashboardService.GetPipelineSummary(c.UserContext())
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, "Pipeline summary retrieved successfully", summary)
}
