package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/civicgrid/backend/internal/models"
)

var (
	ErrComplaintNotFound = errors.New("complaint not found")
	ErrNotAssignee       = errors.New("complaint is not assigned to this worker")
	ErrNotDeletable      = errors.New("only pending or in-progress complaints can be deleted")
)

// AssignmentRepository owns every write that touches a worker's assigned
// set together with a complaint row. Each method runs in one transaction
// with row locks, so concurrent submissions and toggles cannot overfill
// a worker or double-assign a complaint.
type AssignmentRepository interface {
	// AssignLeastLoaded picks the least-loaded worker in the department
	// with spare capacity and hands them the complaint. Returns (nil, nil)
	// when every worker is at capacity or the department has no workers.
	AssignLeastLoaded(ctx context.Context, departmentCode string, complaintID uint, reason models.AssignmentReason) (*models.User, error)

	// ToggleStatus advances the complaint's work status on behalf of its
	// assignee and keeps the worker's assigned set in step. A pending
	// unassigned complaint is claimed instead: a worker in its department
	// takes ownership and the complaint moves to In Progress.
	ToggleStatus(ctx context.Context, complaintID uint, workerID uuid.UUID, now time.Time) (*models.Complaint, models.WorkStatus, bool, error)

	// Backfill hands the worker the oldest pending unassigned complaint
	// in the department, provided they are below capacity. Returns
	// (nil, nil) when there is nothing to hand out or no spare capacity.
	Backfill(ctx context.Context, departmentCode string, workerID uuid.UUID) (*models.Complaint, error)

	// ReleaseForDelete removes the complaint from its worker's set and
	// its assignment history, then soft-deletes the row.
	ReleaseForDelete(ctx context.Context, complaintID uint) error
}

type assignmentRepository struct {
	db       *gorm.DB
	capacity int
}

func NewAssignmentRepository(db *gorm.DB, capacity int) AssignmentRepository {
	return &assignmentRepository{db: db, capacity: capacity}
}

func (r *assignmentRepository) AssignLeastLoaded(ctx context.Context, departmentCode string, complaintID uint, reason models.AssignmentReason) (*models.User, error) {
	var assigned *models.User

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var workers []models.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("role = ? AND department_code = ?", models.RoleWorker, departmentCode).
			Order("id ASC").
			Find(&workers).Error; err != nil {
			return err
		}

		worker := models.SelectLeastLoaded(workers, r.capacity)
		if worker == nil {
			return nil
		}

		var complaint models.Complaint
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&complaint, "id = ?", complaintID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrComplaintNotFound
			}
			return err
		}
		if complaint.WorkerID != nil {
			// Lost the race to another submitter; nothing to do.
			return nil
		}

		if err := assignLocked(tx, worker, &complaint, reason); err != nil {
			return err
		}
		assigned = worker
		return nil
	})
	if err != nil {
		return nil, err
	}
	return assigned, nil
}

func (r *assignmentRepository) ToggleStatus(ctx context.Context, complaintID uint, workerID uuid.UUID, now time.Time) (*models.Complaint, models.WorkStatus, bool, error) {
	var (
		updated   *models.Complaint
		previous  models.WorkStatus
		completed bool
	)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var complaint models.Complaint
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&complaint, "id = ?", complaintID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrComplaintNotFound
			}
			return err
		}
		var worker models.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&worker, "id = ?", workerID).Error; err != nil {
			return err
		}

		if complaint.WorkerID == nil {
			// Pending work nobody was handed (every worker was at
			// capacity when it came in) can be picked up directly.
			if !models.CanClaim(&complaint, &worker) {
				return ErrNotAssignee
			}
			previous = complaint.WorkStatus
			if err := assignLocked(tx, &worker, &complaint, models.ReasonAssigned); err != nil {
				return err
			}
			updated = &complaint
			return nil
		}
		if *complaint.WorkerID != workerID {
			return ErrNotAssignee
		}

		previous = complaint.WorkStatus
		next, done := models.NextWorkStatus(complaint.WorkStatus)
		complaint.WorkStatus = next

		assignedSet := models.ParseAssignedSet(worker.AssignedIDs)

		if done {
			secs := int64(now.Sub(complaint.CreatedAt).Seconds())
			complaint.TimeToResolveSecs = &secs
			complaint.SLAStatus = models.SLACompleted
			assignedSet = models.RemoveAssigned(assignedSet, complaint.ID)
		} else if previous == models.WorkStatusComplete {
			// Reopened: the complaint re-enters the worker's set and its
			// SLA state is recomputed against the original deadline.
			complaint.TimeToResolveSecs = nil
			if now.After(complaint.Deadline) {
				complaint.SLAStatus = models.SLAViolated
				if complaint.SLAViolatedAt == nil {
					t := now
					complaint.SLAViolatedAt = &t
				}
			} else {
				complaint.SLAStatus = models.SLAOnTrack
			}
			assignedSet = models.AppendAssigned(assignedSet, complaint.ID)
		}

		worker.AssignedIDs = models.EncodeAssignedSet(assignedSet)
		if err := tx.Save(&worker).Error; err != nil {
			return err
		}
		if err := tx.Save(&complaint).Error; err != nil {
			return err
		}

		updated = &complaint
		completed = done
		return nil
	})
	if err != nil {
		return nil, "", false, err
	}
	return updated, previous, completed, nil
}

func (r *assignmentRepository) Backfill(ctx context.Context, departmentCode string, workerID uuid.UUID) (*models.Complaint, error) {
	var picked *models.Complaint

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var worker models.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&worker, "id = ?", workerID).Error; err != nil {
			return err
		}
		if worker.Load() >= r.capacity {
			return nil
		}

		var complaint models.Complaint
		err := tx.Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
			Where("department_code = ? AND work_status = ? AND worker_id IS NULL",
				departmentCode, models.WorkStatusPending).
			Order("created_at ASC").
			First(&complaint).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}

		if err := assignLocked(tx, &worker, &complaint, models.ReasonAutoAssigned); err != nil {
			return err
		}
		picked = &complaint
		return nil
	})
	if err != nil {
		return nil, err
	}
	return picked, nil
}

func (r *assignmentRepository) ReleaseForDelete(ctx context.Context, complaintID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var complaint models.Complaint
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&complaint, "id = ?", complaintID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrComplaintNotFound
			}
			return err
		}
		if complaint.WorkStatus == models.WorkStatusComplete {
			return ErrNotDeletable
		}

		if complaint.WorkerID != nil {
			var worker models.User
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				First(&worker, "id = ?", *complaint.WorkerID).Error; err != nil {
				return err
			}
			assignedSet := models.ParseAssignedSet(worker.AssignedIDs)
			worker.AssignedIDs = models.EncodeAssignedSet(models.RemoveAssigned(assignedSet, complaint.ID))
			if err := tx.Save(&worker).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("complaint_id = ?", complaint.ID).
			Delete(&models.AssignmentEvent{}).Error; err != nil {
			return err
		}
		return tx.Delete(&complaint).Error
	})
}

// assignLocked writes the three sides of an assignment: the worker's
// set, the complaint's worker pointer and status, and the history row.
// Assigned complaints are immediately In Progress. Callers must hold
// locks on both rows.
func assignLocked(tx *gorm.DB, worker *models.User, complaint *models.Complaint, reason models.AssignmentReason) error {
	assignedSet := models.ParseAssignedSet(worker.AssignedIDs)
	worker.AssignedIDs = models.EncodeAssignedSet(models.AppendAssigned(assignedSet, complaint.ID))
	if err := tx.Save(worker).Error; err != nil {
		return err
	}

	complaint.WorkerID = &worker.ID
	complaint.WorkStatus = models.WorkStatusInProgress
	if err := tx.Save(complaint).Error; err != nil {
		return err
	}

	event := models.AssignmentEvent{
		WorkerID:    worker.ID,
		ComplaintID: complaint.ID,
		Reason:      reason,
	}
	return tx.Create(&event).Error
}
