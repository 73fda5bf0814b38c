package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/civicgrid/backend/internal/models"
	"github.com/civicgrid/backend/internal/repository"
)

// Hand-written fakes. Each method delegates to an optional function
// field so tests only stub what they exercise.

type fakeComplaintRepo struct {
	createFn           func(ctx context.Context, c *models.Complaint) error
	findByIDFn         func(ctx context.Context, id uint) (*models.Complaint, error)
	listByReporterFn   func(ctx context.Context, reporterID uuid.UUID) ([]models.Complaint, error)
	listByWorkerFn     func(ctx context.Context, workerID uuid.UUID) ([]models.Complaint, error)
	markWarningsFn     func(ctx context.Context, now time.Time, window time.Duration) (int64, error)
	markViolationsFn   func(ctx context.Context, now time.Time) ([]models.Complaint, error)
	violationsByDeptFn func(ctx context.Context, dept string, status models.WorkStatus) ([]models.Complaint, error)
	warningsByDeptFn   func(ctx context.Context, dept string) ([]models.Complaint, error)
}

func (f *fakeComplaintRepo) Create(ctx context.Context, c *models.Complaint) error {
	if f.createFn != nil {
		return f.createFn(ctx, c)
	}
	return nil
}

func (f *fakeComplaintRepo) FindByID(ctx context.Context, id uint) (*models.Complaint, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, nil
}

func (f *fakeComplaintRepo) Update(ctx context.Context, c *models.Complaint) error { return nil }

func (f *fakeComplaintRepo) ListByReporter(ctx context.Context, reporterID uuid.UUID) ([]models.Complaint, error) {
	if f.listByReporterFn != nil {
		return f.listByReporterFn(ctx, reporterID)
	}
	return nil, nil
}

func (f *fakeComplaintRepo) ListByWorker(ctx context.Context, workerID uuid.UUID) ([]models.Complaint, error) {
	if f.listByWorkerFn != nil {
		return f.listByWorkerFn(ctx, workerID)
	}
	return nil, nil
}

func (f *fakeComplaintRepo) ListByDepartment(ctx context.Context, dept string, filter models.ComplaintFilter) ([]models.Complaint, error) {
	return nil, nil
}

func (f *fakeComplaintRepo) ViolationsByDepartment(ctx context.Context, dept string, status models.WorkStatus) ([]models.Complaint, error) {
	if f.violationsByDeptFn != nil {
		return f.violationsByDeptFn(ctx, dept, status)
	}
	return nil, nil
}

func (f *fakeComplaintRepo) WarningsByDepartment(ctx context.Context, dept string) ([]models.Complaint, error) {
	if f.warningsByDeptFn != nil {
		return f.warningsByDeptFn(ctx, dept)
	}
	return nil, nil
}

func (f *fakeComplaintRepo) MarkSLAWarnings(ctx context.Context, now time.Time, window time.Duration) (int64, error) {
	if f.markWarningsFn != nil {
		return f.markWarningsFn(ctx, now, window)
	}
	return 0, nil
}

func (f *fakeComplaintRepo) MarkSLAViolations(ctx context.Context, now time.Time) ([]models.Complaint, error) {
	if f.markViolationsFn != nil {
		return f.markViolationsFn(ctx, now)
	}
	return nil, nil
}

func (f *fakeComplaintRepo) CountByStatus(ctx context.Context, dept string) (models.StatusCounts, error) {
	return models.StatusCounts{}, nil
}

func (f *fakeComplaintRepo) CountBySLA(ctx context.Context, dept string) (models.SLACounts, error) {
	return models.SLACounts{}, nil
}

func (f *fakeComplaintRepo) CountAllByDepartment(ctx context.Context) (map[string]models.StatusCounts, error) {
	return nil, nil
}

func (f *fakeComplaintRepo) HeatmapPoints(ctx context.Context, dept string) ([]models.HeatmapPoint, error) {
	return nil, nil
}

var _ repository.ComplaintRepository = (*fakeComplaintRepo)(nil)

type fakeAssignmentRepo struct {
	assignFn   func(ctx context.Context, dept string, complaintID uint, reason models.AssignmentReason) (*models.User, error)
	toggleFn   func(ctx context.Context, complaintID uint, workerID uuid.UUID, now time.Time) (*models.Complaint, models.WorkStatus, bool, error)
	backfillFn func(ctx context.Context, dept string, workerID uuid.UUID) (*models.Complaint, error)
	releaseFn  func(ctx context.Context, complaintID uint) error
}

func (f *fakeAssignmentRepo) AssignLeastLoaded(ctx context.Context, dept string, complaintID uint, reason models.AssignmentReason) (*models.User, error) {
	if f.assignFn != nil {
		return f.assignFn(ctx, dept, complaintID, reason)
	}
	return nil, nil
}

func (f *fakeAssignmentRepo) ToggleStatus(ctx context.Context, complaintID uint, workerID uuid.UUID, now time.Time) (*models.Complaint, models.WorkStatus, bool, error) {
	if f.toggleFn != nil {
		return f.toggleFn(ctx, complaintID, workerID, now)
	}
	return nil, "", false, nil
}

func (f *fakeAssignmentRepo) Backfill(ctx context.Context, dept string, workerID uuid.UUID) (*models.Complaint, error) {
	if f.backfillFn != nil {
		return f.backfillFn(ctx, dept, workerID)
	}
	return nil, nil
}

func (f *fakeAssignmentRepo) ReleaseForDelete(ctx context.Context, complaintID uint) error {
	if f.releaseFn != nil {
		return f.releaseFn(ctx, complaintID)
	}
	return nil
}

var _ repository.AssignmentRepository = (*fakeAssignmentRepo)(nil)

type fakeDepartmentRepo struct {
	findByCodeFn func(ctx context.Context, code string) (*models.Department, error)
}

func (f *fakeDepartmentRepo) Create(ctx context.Context, d *models.Department) error { return nil }

func (f *fakeDepartmentRepo) FindByCode(ctx context.Context, code string) (*models.Department, error) {
	if f.findByCodeFn != nil {
		return f.findByCodeFn(ctx, code)
	}
	return nil, nil
}

func (f *fakeDepartmentRepo) List(ctx context.Context) ([]models.Department, error) {
	return nil, nil
}

var _ repository.DepartmentRepository = (*fakeDepartmentRepo)(nil)

// recordingNotifier captures emitted notifications instead of writing
// them anywhere.
type recordingNotifier struct {
	autoAssigned [][2]interface{}
	violated     [][2]interface{}
	warned       [][2]interface{}
}

func (r *recordingNotifier) NotifyAutoAssigned(ctx context.Context, workerID uuid.UUID, complaintID uint) {
	r.autoAssigned = append(r.autoAssigned, [2]interface{}{workerID, complaintID})
}

func (r *recordingNotifier) NotifySLAWarning(ctx context.Context, workerID uuid.UUID, complaintID uint) {
	r.warned = append(r.warned, [2]interface{}{workerID, complaintID})
}

func (r *recordingNotifier) NotifySLAViolated(ctx context.Context, workerID uuid.UUID, complaintID uint) {
	r.violated = append(r.violated, [2]interface{}{workerID, complaintID})
}

func (r *recordingNotifier) List(ctx context.Context, workerID uuid.UUID, unreadOnly bool) ([]models.NotificationResponse, error) {
	return nil, nil
}

func (r *recordingNotifier) MarkRead(ctx context.Context, id uuid.UUID, workerID uuid.UUID) error {
	return nil
}

var _ NotificationService = (*recordingNotifier)(nil)

type fakePhotoStore struct {
	uploadFn func(ctx context.Context, payload string) (string, error)
}

func (f *fakePhotoStore) UploadComplaintPhoto(ctx context.Context, payload string) (string, error) {
	if f.uploadFn != nil {
		return f.uploadFn(ctx, payload)
	}
	return "http://minio.local/complaint-images/complaints/test.jpg", nil
}

var _ PhotoStore = (*fakePhotoStore)(nil)

type fixedDeadlines struct {
	deadline time.Time
}

func (f fixedDeadlines) DeadlineFor(ctx context.Context, departmentCode string, filedAt time.Time) time.Time {
	return f.deadline
}

var _ DeadlineService = fixedDeadlines{}
