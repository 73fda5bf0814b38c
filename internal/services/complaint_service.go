package services

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/civicgrid/backend/internal/models"
	"github.com/civicgrid/backend/internal/repository"
)

// PhotoStore is the slice of object storage complaint submission needs.
type PhotoStore interface {
	UploadComplaintPhoto(ctx context.Context, payload string) (string, error)
}

type ComplaintService interface {
	Submit(ctx context.Context, reporterID uuid.UUID, req *models.ComplaintCreateRequest) (*models.SubmitResponse, error)
	Toggle(ctx context.Context, complaintID uint, workerID uuid.UUID) (*models.ToggleResponse, error)
	Detail(ctx context.Context, complaintID uint, userID uuid.UUID, role models.Role, departmentCode string) (*models.ComplaintDetailResponse, error)
	ListByReporter(ctx context.Context, reporterID uuid.UUID) ([]models.ComplaintResponse, error)
	ListByWorker(ctx context.Context, workerID uuid.UUID) ([]models.ComplaintResponse, error)
	SLAForWorker(ctx context.Context, workerID uuid.UUID) (*models.WorkerSLAResponse, error)
	ManagerDelete(ctx context.Context, complaintID uint, managerDepartment string) error
}

type complaintService struct {
	complaintRepo  repository.ComplaintRepository
	assignmentRepo repository.AssignmentRepository
	deadlines      DeadlineService
	notifications  NotificationService
	photos         PhotoStore
}

func NewComplaintService(
	complaintRepo repository.ComplaintRepository,
	assignmentRepo repository.AssignmentRepository,
	deadlines DeadlineService,
	notifications NotificationService,
	photos PhotoStore,
) ComplaintService {
	return &complaintService{
		complaintRepo:  complaintRepo,
		assignmentRepo: assignmentRepo,
		deadlines:      deadlines,
		notifications:  notifications,
		photos:         photos,
	}
}

// Submit files a complaint, computes its deadline, and tries to hand it
// to the least-loaded worker in the department. Photo upload and
// assignment are both best-effort: a complaint is never lost because
// storage is down or every worker is at capacity.
func (s *complaintService) Submit(ctx context.Context, reporterID uuid.UUID, req *models.ComplaintCreateRequest) (*models.SubmitResponse, error) {
	now := time.Now()

	complaint := &models.Complaint{
		ReporterID:     reporterID,
		Name:           req.Name,
		Phone:          req.Phone,
		Address:        req.Address,
		Description:    req.Description,
		DepartmentCode: req.DepartmentCode,
		Latitude:       req.Latitude,
		Longitude:      req.Longitude,
		WorkStatus:     models.WorkStatusPending,
		SLAStatus:      models.SLAOnTrack,
		Deadline:       s.deadlines.DeadlineFor(ctx, req.DepartmentCode, now),
	}

	if req.PhotoData != "" && s.photos != nil {
		url, err := s.photos.UploadComplaintPhoto(ctx, req.PhotoData)
		if err != nil {
			log.Printf("Photo upload failed, filing complaint without it: %v", err)
		} else {
			complaint.PhotoURL = &url
		}
	}

	if err := s.complaintRepo.Create(ctx, complaint); err != nil {
		return nil, err
	}

	resp := &models.SubmitResponse{}

	worker, err := s.assignmentRepo.AssignLeastLoaded(ctx, req.DepartmentCode, complaint.ID, models.ReasonAssigned)
	if err != nil {
		log.Printf("Assignment failed for complaint %d, left pending: %v", complaint.ID, err)
	} else if worker != nil {
		complaint.WorkerID = &worker.ID
		complaint.WorkStatus = models.WorkStatusInProgress
		resp.AssignedTo = &worker.ID
		resp.WorkerName = worker.Name
	}

	resp.Complaint = models.ToComplaintResponse(complaint)
	return resp, nil
}

// Toggle advances the complaint's status for its assignee. Completion
// frees a capacity slot, so it triggers a best-effort backfill: the
// oldest pending unassigned complaint in the department is handed to
// the same worker and they are notified.
func (s *complaintService) Toggle(ctx context.Context, complaintID uint, workerID uuid.UUID) (*models.ToggleResponse, error) {
	complaint, previous, completed, err := s.assignmentRepo.ToggleStatus(ctx, complaintID, workerID, time.Now())
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrComplaintNotFound):
			return nil, ErrComplaintNotFound
		case errors.Is(err, repository.ErrNotAssignee):
			return nil, ErrForbidden
		}
		return nil, err
	}

	resp := &models.ToggleResponse{
		Complaint:      models.ToComplaintResponse(complaint),
		PreviousStatus: previous,
	}

	if completed {
		picked, err := s.assignmentRepo.Backfill(ctx, complaint.DepartmentCode, workerID)
		if err != nil {
			log.Printf("Backfill failed after completing complaint %d: %v", complaintID, err)
		} else if picked != nil {
			s.notifications.NotifyAutoAssigned(ctx, workerID, picked.ID)
			resp.AutoAssigned = &models.AutoAssignment{
				ComplaintID: picked.ID,
				WorkerID:    workerID,
			}
		}
	}

	return resp, nil
}

func (s *complaintService) Detail(ctx context.Context, complaintID uint, userID uuid.UUID, role models.Role, departmentCode string) (*models.ComplaintDetailResponse, error) {
	complaint, err := s.complaintRepo.FindByID(ctx, complaintID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrComplaintNotFound
		}
		return nil, err
	}

	switch role {
	case models.RoleCitizen:
		if complaint.ReporterID != userID {
			return nil, ErrForbidden
		}
	case models.RoleWorker:
		if complaint.WorkerID == nil || *complaint.WorkerID != userID {
			return nil, ErrForbidden
		}
	case models.RoleManager:
		if complaint.DepartmentCode != departmentCode {
			return nil, ErrForbidden
		}
	default:
		return nil, ErrForbidden
	}

	resp := models.ToComplaintDetailResponse(complaint)
	return &resp, nil
}

func (s *complaintService) ListByReporter(ctx context.Context, reporterID uuid.UUID) ([]models.ComplaintResponse, error) {
	complaints, err := s.complaintRepo.ListByReporter(ctx, reporterID)
	if err != nil {
		return nil, err
	}
	return models.ToComplaintResponses(complaints), nil
}

func (s *complaintService) ListByWorker(ctx context.Context, workerID uuid.UUID) ([]models.ComplaintResponse, error) {
	complaints, err := s.complaintRepo.ListByWorker(ctx, workerID)
	if err != nil {
		return nil, err
	}
	return models.ToComplaintResponses(complaints), nil
}

// SLAForWorker splits the worker's active complaints by SLA state. The
// underlying list is deadline-ordered, so each bucket stays
// most-urgent-first.
func (s *complaintService) SLAForWorker(ctx context.Context, workerID uuid.UUID) (*models.WorkerSLAResponse, error) {
	complaints, err := s.complaintRepo.ListByWorker(ctx, workerID)
	if err != nil {
		return nil, err
	}

	resp := &models.WorkerSLAResponse{
		Violated: []models.ComplaintResponse{},
		Warning:  []models.ComplaintResponse{},
		OnTrack:  []models.ComplaintResponse{},
	}
	for i := range complaints {
		c := models.ToComplaintResponse(&complaints[i])
		switch complaints[i].SLAStatus {
		case models.SLAViolated:
			resp.Violated = append(resp.Violated, c)
		case models.SLAWarning:
			resp.Warning = append(resp.Warning, c)
		default:
			resp.OnTrack = append(resp.OnTrack, c)
		}
	}
	return resp, nil
}

// ManagerDelete removes a complaint from the manager's own department.
// Completed complaints are immutable history and cannot be deleted.
func (s *complaintService) ManagerDelete(ctx context.Context, complaintID uint, managerDepartment string) error {
	complaint, err := s.complaintRepo.FindByID(ctx, complaintID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrComplaintNotFound
		}
		return err
	}
	if complaint.DepartmentCode != managerDepartment {
		return ErrForbidden
	}

	err = s.assignmentRepo.ReleaseForDelete(ctx, complaintID)
	switch {
	case errors.Is(err, repository.ErrComplaintNotFound):
		return ErrComplaintNotFound
	case errors.Is(err, repository.ErrNotDeletable):
		return ErrNotDeletable
	}
	return err
}
