package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/civicgrid/backend/internal/database"
	"github.com/civicgrid/backend/internal/models"
	"github.com/civicgrid/backend/internal/repository"
	"github.com/civicgrid/backend/pkg/utils"
)

// DepartmentHandler exposes the routing catalog citizens pick a
// department from, plus manager-side creation.
type DepartmentHandler struct {
	repo            repository.DepartmentRepository
	slaCache        *database.SLACache
	defaultSLAHours int
	validator       *validator.Validate
}

func NewDepartmentHandler(repo repository.DepartmentRepository, slaCache *database.SLACache, defaultSLAHours int) *DepartmentHandler {
	return &DepartmentHandler{
		repo:            repo,
		slaCache:        slaCache,
		defaultSLAHours: defaultSLAHours,
		validator:       validator.New(),
	}
}

func (h *DepartmentHandler) List(c *fiber.Ctx) error {
	departments, err := h.repo.List(c.Context())
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, err.Error())
	}

	responses := make([]models.DepartmentResponse, len(departments))
	for i := range departments {
		responses[i] = models.ToDepartmentResponse(&departments[i])
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "Departments retrieved", responses)
}

func (h *DepartmentHandler) Create(c *fiber.Ctx) error {
	var req models.DepartmentCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if err := h.validator.Struct(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, err.Error())
	}

	department := &models.Department{
		Code:     req.Code,
		Name:     req.Name,
		SLAHours: req.SLAHours,
	}
	if department.SLAHours == 0 {
		department.SLAHours = h.defaultSLAHours
	}

	if err := h.repo.Create(c.Context(), department); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, err.Error())
	}

	// Drop any stale cached SLA hours for this code.
	if h.slaCache != nil {
		h.slaCache.Invalidate(c.Context(), department.Code)
	}

	return utils.SuccessResponse(c, fiber.StatusCreated, "Department created", models.ToDepartmentResponse(department))
}
