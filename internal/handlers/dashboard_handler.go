package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/civicgrid/backend/internal/models"
	"github.com/civicgrid/backend/internal/services"
	"github.com/civicgrid/backend/pkg/utils"
)

// DashboardHandler serves the manager dashboard: worker roster,
// department complaints, SLA views, stats, and the heatmap.
type DashboardHandler struct {
	dashboardService services.DashboardService
	slaMonitor       services.SLAMonitor
}

func NewDashboardHandler(dashboardService services.DashboardService, slaMonitor services.SLAMonitor) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		slaMonitor:       slaMonitor,
	}
}

func (h *DashboardHandler) Workers(c *fiber.Ctx) error {
	deptCode, _ := c.Locals("department_code").(string)

	workers, err := h.dashboardService.Workers(c.Context(), deptCode)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, err.Error())
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "Workers retrieved", workers)
}

func (h *DashboardHandler) Complaints(c *fiber.Ctx) error {
	deptCode, _ := c.Locals("department_code").(string)

	filter := models.ComplaintFilter{}
	if status := c.Query("status"); status != "" {
		ws := models.WorkStatus(status)
		filter.WorkStatus = &ws
	}
	if sla := c.Query("sla_status"); sla != "" {
		ss := models.SLAStatus(sla)
		filter.SLAStatus = &ss
	}
	if workerIDStr := c.Query("worker_id"); workerIDStr != "" {
		workerID, err := uuid.Parse(workerIDStr)
		if err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid worker ID")
		}
		filter.WorkerID = &workerID
	}

	complaints, err := h.dashboardService.Complaints(c.Context(), deptCode, filter)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, err.Error())
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "Complaints retrieved", complaints)
}

func (h *DashboardHandler) SLAViolations(c *fiber.Ctx) error {
	deptCode, _ := c.Locals("department_code").(string)

	overview, err := h.dashboardService.SLAOverview(c.Context(), deptCode)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, err.Error())
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "SLA overview retrieved", overview)
}

func (h *DashboardHandler) Stats(c *fiber.Ctx) error {
	deptCode, _ := c.Locals("department_code").(string)

	stats, err := h.dashboardService.Stats(c.Context(), deptCode)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, err.Error())
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "Stats retrieved", stats)
}

func (h *DashboardHandler) Heatmap(c *fiber.Ctx) error {
	// Managers get their department's heatmap; a city-wide view is
	// available to them via ?all=true.
	deptCode, _ := c.Locals("department_code").(string)
	if c.QueryBool("all") {
		deptCode = ""
	}

	points, err := h.dashboardService.Heatmap(c.Context(), deptCode)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, err.Error())
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "Heatmap retrieved", points)
}

func (h *DashboardHandler) Analytics(c *fiber.Ctx) error {
	analytics, err := h.dashboardService.Analytics(c.Context())
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, err.Error())
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "Analytics retrieved", analytics)
}

// CheckSLA triggers one deadline sweep outside the background schedule.
func (h *DashboardHandler) CheckSLA(c *fiber.Ctx) error {
	result, err := h.slaMonitor.CheckDeadlines(c.Context())
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, err.Error())
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "SLA check completed", result)
}
