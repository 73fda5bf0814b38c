package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/civicgrid/backend/internal/models"
)

type ComplaintRepository interface {
	Create(ctx context.Context, complaint *models.Complaint) error
	FindByID(ctx context.Context, id uint) (*models.Complaint, error)
	Update(ctx context.Context, complaint *models.Complaint) error
	ListByReporter(ctx context.Context, reporterID uuid.UUID) ([]models.Complaint, error)
	ListByWorker(ctx context.Context, workerID uuid.UUID) ([]models.Complaint, error)
	ListByDepartment(ctx context.Context, departmentCode string, filter models.ComplaintFilter) ([]models.Complaint, error)

	// SLA views, ordered most-urgent-first.
	ViolationsByDepartment(ctx context.Context, departmentCode string, status models.WorkStatus) ([]models.Complaint, error)
	WarningsByDepartment(ctx context.Context, departmentCode string) ([]models.Complaint, error)

	// SLA sweep primitives.
	MarkSLAWarnings(ctx context.Context, now time.Time, window time.Duration) (int64, error)
	MarkSLAViolations(ctx context.Context, now time.Time) ([]models.Complaint, error)

	// Dashboard aggregates.
	CountByStatus(ctx context.Context, departmentCode string) (models.StatusCounts, error)
	CountBySLA(ctx context.Context, departmentCode string) (models.SLACounts, error)
	CountAllByDepartment(ctx context.Context) (map[string]models.StatusCounts, error)
	HeatmapPoints(ctx context.Context, departmentCode string) ([]models.HeatmapPoint, error)
}

type complaintRepository struct {
	db *gorm.DB
}

func NewComplaintRepository(db *gorm.DB) ComplaintRepository {
	return &complaintRepository{db: db}
}

func (r *complaintRepository) Create(ctx context.Context, complaint *models.Complaint) error {
	return r.db.WithContext(ctx).Create(complaint).Error
}

func (r *complaintRepository) FindByID(ctx context.Context, id uint) (*models.Complaint, error) {
	var complaint models.Complaint
	err := r.db.WithContext(ctx).
		Preload("Worker").
		First(&complaint, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &complaint, nil
}

func (r *complaintRepository) Update(ctx context.Context, complaint *models.Complaint) error {
	return r.db.WithContext(ctx).Save(complaint).Error
}

func (r *complaintRepository) ListByReporter(ctx context.Context, reporterID uuid.UUID) ([]models.Complaint, error) {
	var complaints []models.Complaint
	err := r.db.WithContext(ctx).
		Preload("Worker").
		Where("reporter_id = ?", reporterID).
		Order("created_at DESC").
		Find(&complaints).Error
	return complaints, err
}

func (r *complaintRepository) ListByWorker(ctx context.Context, workerID uuid.UUID) ([]models.Complaint, error) {
	var complaints []models.Complaint
	err := r.db.WithContext(ctx).
		Where("worker_id = ? AND work_status IN ?", workerID, models.ActiveWorkStatuses()).
		Order("deadline ASC").
		Find(&complaints).Error
	return complaints, err
}

func (r *complaintRepository) ListByDepartment(ctx context.Context, departmentCode string, filter models.ComplaintFilter) ([]models.Complaint, error) {
	query := r.db.WithContext(ctx).
		Preload("Worker").
		Where("department_code = ?", departmentCode)

	if filter.WorkStatus != nil {
		query = query.Where("work_status = ?", *filter.WorkStatus)
	}
	if filter.SLAStatus != nil {
		query = query.Where("sla_status = ?", *filter.SLAStatus)
	}
	if filter.WorkerID != nil {
		query = query.Where("worker_id = ?", *filter.WorkerID)
	}

	var complaints []models.Complaint
	err := query.Order("created_at DESC").Find(&complaints).Error
	return complaints, err
}

// ViolationsByDepartment lists violated complaints in a given work
// status, oldest violation first.
func (r *complaintRepository) ViolationsByDepartment(ctx context.Context, departmentCode string, status models.WorkStatus) ([]models.Complaint, error) {
	var complaints []models.Complaint
	err := r.db.WithContext(ctx).
		Preload("Worker").
		Where("department_code = ? AND sla_status = ? AND work_status = ?",
			departmentCode, models.SLAViolated, status).
		Order("sla_violated_at ASC").
		Find(&complaints).Error
	return complaints, err
}

// WarningsByDepartment lists complaints approaching their deadline,
// nearest deadline first.
func (r *complaintRepository) WarningsByDepartment(ctx context.Context, departmentCode string) ([]models.Complaint, error) {
	var complaints []models.Complaint
	err := r.db.WithContext(ctx).
		Preload("Worker").
		Where("department_code = ? AND sla_status = ? AND work_status IN ?",
			departmentCode, models.SLAWarning, models.ActiveWorkStatuses()).
		Order("deadline ASC").
		Find(&complaints).Error
	return complaints, err
}

// MarkSLAWarnings flips On Track complaints to Warning once they are
// within the warning window of their deadline.
func (r *complaintRepository) MarkSLAWarnings(ctx context.Context, now time.Time, window time.Duration) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.Complaint{}).
		Where("sla_status = ? AND work_status IN ? AND deadline > ? AND deadline <= ?",
			models.SLAOnTrack, models.ActiveWorkStatuses(), now, now.Add(window)).
		Update("sla_status", models.SLAWarning)
	return result.RowsAffected, result.Error
}

// MarkSLAViolations flips past-deadline active complaints to Violated in
// a single conditional update, stamping sla_violated_at, then reads back
// the rows stamped in this pass so the caller can notify their workers.
// The status predicate lives in the update itself, so a complaint
// completed by a concurrent toggle no longer matches and keeps its
// Completed status. Already-violated rows are left untouched.
func (r *complaintRepository) MarkSLAViolations(ctx context.Context, now time.Time) ([]models.Complaint, error) {
	result := r.db.WithContext(ctx).Model(&models.Complaint{}).
		Where("sla_status IN ? AND work_status IN ? AND deadline <= ?",
			[]models.SLAStatus{models.SLAOnTrack, models.SLAWarning},
			models.ActiveWorkStatuses(), now).
		Updates(map[string]interface{}{
			"sla_status":      models.SLAViolated,
			"sla_violated_at": now,
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}

	var violated []models.Complaint
	err := r.db.WithContext(ctx).
		Where("sla_status = ? AND sla_violated_at = ?", models.SLAViolated, now).
		Find(&violated).Error
	if err != nil {
		return nil, err
	}
	return violated, nil
}

func (r *complaintRepository) CountByStatus(ctx context.Context, departmentCode string) (models.StatusCounts, error) {
	var counts models.StatusCounts
	var rows []struct {
		WorkStatus models.WorkStatus
		Count      int64
	}

	query := r.db.WithContext(ctx).Model(&models.Complaint{}).
		Select("work_status, count(*) as count").
		Group("work_status")
	if departmentCode != "" {
		query = query.Where("department_code = ?", departmentCode)
	}
	if err := query.Find(&rows).Error; err != nil {
		return counts, err
	}

	for _, row := range rows {
		counts.Total += row.Count
		switch row.WorkStatus {
		case models.WorkStatusPending:
			counts.Pending = row.Count
		case models.WorkStatusInProgress:
			counts.InProgress = row.Count
		case models.WorkStatusComplete:
			counts.Complete = row.Count
		}
	}
	return counts, nil
}

func (r *complaintRepository) CountBySLA(ctx context.Context, departmentCode string) (models.SLACounts, error) {
	var counts models.SLACounts
	var rows []struct {
		SLAStatus models.SLAStatus
		Count     int64
	}

	query := r.db.WithContext(ctx).Model(&models.Complaint{}).
		Select("sla_status, count(*) as count").
		Group("sla_status")
	if departmentCode != "" {
		query = query.Where("department_code = ?", departmentCode)
	}
	if err := query.Find(&rows).Error; err != nil {
		return counts, err
	}

	var total, met int64
	for _, row := range rows {
		total += row.Count
		switch row.SLAStatus {
		case models.SLAViolated:
			counts.Violations = row.Count
		case models.SLAWarning:
			counts.Warnings = row.Count
		case models.SLAOnTrack:
			counts.OnTrack = row.Count
			met += row.Count
		case models.SLACompleted:
			met += row.Count
		}
	}
	// Warnings still count as compliant until the deadline actually passes.
	if total > 0 {
		counts.ComplianceRate = formatPercent(met+counts.Warnings, total)
	} else {
		counts.ComplianceRate = "100.0%"
	}
	return counts, nil
}

func formatPercent(part, total int64) string {
	return fmt.Sprintf("%.1f%%", float64(part)/float64(total)*100)
}

func (r *complaintRepository) CountAllByDepartment(ctx context.Context) (map[string]models.StatusCounts, error) {
	var rows []struct {
		DepartmentCode string
		WorkStatus     models.WorkStatus
		Count          int64
	}
	err := r.db.WithContext(ctx).Model(&models.Complaint{}).
		Select("department_code, work_status, count(*) as count").
		Group("department_code, work_status").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	byDept := make(map[string]models.StatusCounts)
	for _, row := range rows {
		counts := byDept[row.DepartmentCode]
		counts.Total += row.Count
		switch row.WorkStatus {
		case models.WorkStatusPending:
			counts.Pending += row.Count
		case models.WorkStatusInProgress:
			counts.InProgress += row.Count
		case models.WorkStatusComplete:
			counts.Complete += row.Count
		}
		byDept[row.DepartmentCode] = counts
	}
	return byDept, nil
}

// HeatmapPoints returns coordinates of geotagged active complaints.
// Violated complaints weigh double so hotspots with stale work stand out.
func (r *complaintRepository) HeatmapPoints(ctx context.Context, departmentCode string) ([]models.HeatmapPoint, error) {
	query := r.db.WithContext(ctx).Model(&models.Complaint{}).
		Where("latitude IS NOT NULL AND longitude IS NOT NULL").
		Where("work_status IN ?", models.ActiveWorkStatuses())
	if departmentCode != "" {
		query = query.Where("department_code = ?", departmentCode)
	}

	var complaints []models.Complaint
	if err := query.Find(&complaints).Error; err != nil {
		return nil, err
	}

	points := make([]models.HeatmapPoint, 0, len(complaints))
	for _, c := range complaints {
		weight := 1.0
		if c.SLAStatus == models.SLAViolated {
			weight = 2.0
		}
		points = append(points, models.HeatmapPoint{
			Latitude:  *c.Latitude,
			Longitude: *c.Longitude,
			Weight:    weight,
		})
	}
	return points, nil
}
