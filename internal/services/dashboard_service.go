package services

import (
	"context"

	"github.com/civicgrid/backend/internal/models"
	"github.com/civicgrid/backend/internal/repository"
)

// DashboardService serves the manager's read-side views: roster,
// department complaint lists, SLA views, stats, heatmap, and the
// city-wide analytics rollup.
type DashboardService interface {
	Workers(ctx context.Context, departmentCode string) ([]models.WorkerResponse, error)
	Complaints(ctx context.Context, departmentCode string, filter models.ComplaintFilter) ([]models.ComplaintResponse, error)
	SLAOverview(ctx context.Context, departmentCode string) (*models.SLAOverviewResponse, error)
	Stats(ctx context.Context, departmentCode string) (*models.DepartmentStatsResponse, error)
	Heatmap(ctx context.Context, departmentCode string) ([]models.HeatmapPoint, error)
	Analytics(ctx context.Context) (*models.AnalyticsResponse, error)
}

type dashboardService struct {
	complaintRepo repository.ComplaintRepository
	userRepo      repository.UserRepository
}

func NewDashboardService(complaintRepo repository.ComplaintRepository, userRepo repository.UserRepository) DashboardService {
	return &dashboardService{
		complaintRepo: complaintRepo,
		userRepo:      userRepo,
	}
}

func (s *dashboardService) Workers(ctx context.Context, departmentCode string) ([]models.WorkerResponse, error) {
	workers, err := s.userRepo.ListWorkersByDepartment(ctx, departmentCode)
	if err != nil {
		return nil, err
	}

	responses := make([]models.WorkerResponse, len(workers))
	for i := range workers {
		responses[i] = models.ToWorkerResponse(&workers[i])
	}
	return responses, nil
}

func (s *dashboardService) Complaints(ctx context.Context, departmentCode string, filter models.ComplaintFilter) ([]models.ComplaintResponse, error) {
	complaints, err := s.complaintRepo.ListByDepartment(ctx, departmentCode, filter)
	if err != nil {
		return nil, err
	}
	return models.ToComplaintResponses(complaints), nil
}

// SLAOverview groups the department's at-risk complaints: violations
// split by work status (oldest violation first) and warnings (nearest
// deadline first).
func (s *dashboardService) SLAOverview(ctx context.Context, departmentCode string) (*models.SLAOverviewResponse, error) {
	pending, err := s.complaintRepo.ViolationsByDepartment(ctx, departmentCode, models.WorkStatusPending)
	if err != nil {
		return nil, err
	}
	inProgress, err := s.complaintRepo.ViolationsByDepartment(ctx, departmentCode, models.WorkStatusInProgress)
	if err != nil {
		return nil, err
	}
	warnings, err := s.complaintRepo.WarningsByDepartment(ctx, departmentCode)
	if err != nil {
		return nil, err
	}

	return &models.SLAOverviewResponse{
		PendingViolations:    models.ToComplaintResponses(pending),
		InProgressViolations: models.ToComplaintResponses(inProgress),
		Warnings:             models.ToComplaintResponses(warnings),
	}, nil
}

func (s *dashboardService) Stats(ctx context.Context, departmentCode string) (*models.DepartmentStatsResponse, error) {
	workerCount, err := s.userRepo.CountWorkersByDepartment(ctx, departmentCode)
	if err != nil {
		return nil, err
	}
	statusCounts, err := s.complaintRepo.CountByStatus(ctx, departmentCode)
	if err != nil {
		return nil, err
	}
	slaCounts, err := s.complaintRepo.CountBySLA(ctx, departmentCode)
	if err != nil {
		return nil, err
	}

	return &models.DepartmentStatsResponse{
		TotalWorkers: workerCount,
		Complaints:   statusCounts,
		SLA:          slaCounts,
	}, nil
}

func (s *dashboardService) Heatmap(ctx context.Context, departmentCode string) ([]models.HeatmapPoint, error) {
	return s.complaintRepo.HeatmapPoints(ctx, departmentCode)
}

func (s *dashboardService) Analytics(ctx context.Context) (*models.AnalyticsResponse, error) {
	total, err := s.complaintRepo.CountByStatus(ctx, "")
	if err != nil {
		return nil, err
	}
	byDept, err := s.complaintRepo.CountAllByDepartment(ctx)
	if err != nil {
		return nil, err
	}

	return &models.AnalyticsResponse{
		Total:        total,
		ByDepartment: byDept,
	}, nil
}
