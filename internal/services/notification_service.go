package services

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/civicgrid/backend/internal/models"
	"github.com/civicgrid/backend/internal/repository"
)

// NotificationService emits and reads worker notifications. Emission is
// best-effort: failures are logged and swallowed so the triggering
// operation still succeeds.
type NotificationService interface {
	NotifyAutoAssigned(ctx context.Context, workerID uuid.UUID, complaintID uint)
	NotifySLAWarning(ctx context.Context, workerID uuid.UUID, complaintID uint)
	NotifySLAViolated(ctx context.Context, workerID uuid.UUID, complaintID uint)
	List(ctx context.Context, workerID uuid.UUID, unreadOnly bool) ([]models.NotificationResponse, error)
	MarkRead(ctx context.Context, id uuid.UUID, workerID uuid.UUID) error
}

type notificationService struct {
	notificationRepo repository.NotificationRepository
}

func NewNotificationService(notificationRepo repository.NotificationRepository) NotificationService {
	return &notificationService{notificationRepo: notificationRepo}
}

func (s *notificationService) NotifyAutoAssigned(ctx context.Context, workerID uuid.UUID, complaintID uint) {
	s.emit(ctx, workerID, complaintID, models.NotifyAutoAssigned,
		fmt.Sprintf("Complaint #%d was automatically assigned to you", complaintID))
}

func (s *notificationService) NotifySLAWarning(ctx context.Context, workerID uuid.UUID, complaintID uint) {
	s.emit(ctx, workerID, complaintID, models.NotifySLAWarning,
		fmt.Sprintf("Complaint #%d is approaching its deadline", complaintID))
}

func (s *notificationService) NotifySLAViolated(ctx context.Context, workerID uuid.UUID, complaintID uint) {
	s.emit(ctx, workerID, complaintID, models.NotifySLAViolated,
		fmt.Sprintf("Complaint #%d has violated its SLA deadline", complaintID))
}

func (s *notificationService) emit(ctx context.Context, workerID uuid.UUID, complaintID uint, kind models.NotificationKind, message string) {
	notification := &models.Notification{
		WorkerID:    workerID,
		ComplaintID: complaintID,
		Kind:        kind,
		Message:     message,
	}
	if err := s.notificationRepo.Create(ctx, notification); err != nil {
		log.Printf("Failed to emit %s notification for complaint %d: %v", kind, complaintID, err)
	}
}

func (s *notificationService) List(ctx context.Context, workerID uuid.UUID, unreadOnly bool) ([]models.NotificationResponse, error) {
	notifications, err := s.notificationRepo.ListByWorker(ctx, workerID, unreadOnly)
	if err != nil {
		return nil, err
	}
	return models.ToNotificationResponses(notifications), nil
}

func (s *notificationService) MarkRead(ctx context.Context, id uuid.UUID, workerID uuid.UUID) error {
	return s.notificationRepo.MarkRead(ctx, id, workerID)
}
