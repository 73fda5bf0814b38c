package handlers

import (
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/civicgrid/backend/internal/models"
	"github.com/civicgrid/backend/internal/services"
	"github.com/civicgrid/backend/pkg/utils"
)

type ComplaintHandler struct {
	complaintService services.ComplaintService
	validator        *validator.Validate
}

func NewComplaintHandler(complaintService services.ComplaintService) *ComplaintHandler {
	return &ComplaintHandler{
		complaintService: complaintService,
		validator:        validator.New(),
	}
}

func (h *ComplaintHandler) Submit(c *fiber.Ctx) error {
	userID, ok := c.Locals("user_id").(uuid.UUID)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, "User not authenticated")
	}

	var req models.ComplaintCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if err := h.validator.Struct(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, err.Error())
	}

	result, err := h.complaintService.Submit(c.Context(), userID, &req)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, err.Error())
	}

	return utils.SuccessResponse(c, fiber.StatusCreated, "Complaint submitted", result)
}

func (h *ComplaintHandler) Mine(c *fiber.Ctx) error {
	userID, ok := c.Locals("user_id").(uuid.UUID)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, "User not authenticated")
	}

	complaints, err := h.complaintService.ListByReporter(c.Context(), userID)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, err.Error())
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "Complaints retrieved", complaints)
}

func (h *ComplaintHandler) Assigned(c *fiber.Ctx) error {
	userID, ok := c.Locals("user_id").(uuid.UUID)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, "User not authenticated")
	}

	complaints, err := h.complaintService.ListByWorker(c.Context(), userID)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, err.Error())
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "Assigned complaints retrieved", complaints)
}

func (h *ComplaintHandler) WorkerSLA(c *fiber.Ctx) error {
	userID, ok := c.Locals("user_id").(uuid.UUID)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, "User not authenticated")
	}

	overview, err := h.complaintService.SLAForWorker(c.Context(), userID)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, err.Error())
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "SLA overview retrieved", overview)
}

func (h *ComplaintHandler) Detail(c *fiber.Ctx) error {
	userID, ok := c.Locals("user_id").(uuid.UUID)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, "User not authenticated")
	}
	role, _ := c.Locals("role").(string)

	id, err := parseComplaintID(c)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid complaint ID")
	}

	// Managers are scoped to their own department.
	deptCode, _ := c.Locals("department_code").(string)

	detail, err := h.complaintService.Detail(c.Context(), id, userID, models.Role(role), deptCode)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrComplaintNotFound):
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Complaint not found")
		case errors.Is(err, services.ErrForbidden):
			return utils.ErrorResponse(c, fiber.StatusForbidden, "Not allowed to view this complaint")
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, err.Error())
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "Complaint retrieved", detail)
}

// Toggle advances the complaint's work status on behalf of its assignee.
func (h *ComplaintHandler) Toggle(c *fiber.Ctx) error {
	userID, ok := c.Locals("user_id").(uuid.UUID)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, "User not authenticated")
	}

	id, err := parseComplaintID(c)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid complaint ID")
	}

	result, err := h.complaintService.Toggle(c.Context(), id, userID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrComplaintNotFound):
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Complaint not found")
		case errors.Is(err, services.ErrForbidden):
			return utils.ErrorResponse(c, fiber.StatusForbidden, "Complaint is not assigned to you")
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, err.Error())
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "Status updated", result)
}

func (h *ComplaintHandler) Delete(c *fiber.Ctx) error {
	deptCode, _ := c.Locals("department_code").(string)

	id, err := parseComplaintID(c)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid complaint ID")
	}

	if err := h.complaintService.ManagerDelete(c.Context(), id, deptCode); err != nil {
		switch {
		case errors.Is(err, services.ErrComplaintNotFound):
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Complaint not found")
		case errors.Is(err, services.ErrForbidden):
			return utils.ErrorResponse(c, fiber.StatusForbidden, "Complaint belongs to another department")
		case errors.Is(err, services.ErrNotDeletable):
			return utils.ErrorResponse(c, fiber.StatusConflict, "Completed complaints cannot be deleted")
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, err.Error())
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "Complaint deleted", nil)
}

func parseComplaintID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
