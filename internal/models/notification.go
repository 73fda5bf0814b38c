package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationKind string

const (
	NotifyAutoAssigned NotificationKind = "auto-assigned"
	NotifySLAWarning   NotificationKind = "sla-warning"
	NotifySLAViolated  NotificationKind = "sla-violated"
)

// Notification is an in-app message for a worker. Emission is always
// best-effort: a failed insert never fails the operation that caused it.
type Notification struct {
	ID          uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	WorkerID    uuid.UUID        `gorm:"type:uuid;index;not null" json:"worker_id"`
	ComplaintID uint             `gorm:"index;not null" json:"complaint_id"`
	Kind        NotificationKind `gorm:"size:20;not null" json:"kind"`
	Message     string           `gorm:"size:500" json:"message"`
	Read        bool             `gorm:"default:false;index" json:"read"`
	ReadAt      *time.Time       `json:"read_at"`
	CreatedAt   time.Time        `json:"created_at"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}

type NotificationResponse struct {
	ID          uuid.UUID        `json:"id"`
	ComplaintID uint             `json:"complaint_id"`
	Kind        NotificationKind `json:"kind"`
	Message     string           `json:"message"`
	Read        bool             `json:"read"`
	ReadAt      *time.Time       `json:"read_at,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
}

func ToNotificationResponse(n *Notification) NotificationResponse {
	return NotificationResponse{
		ID:          n.ID,
		ComplaintID: n.ComplaintID,
		Kind:        n.Kind,
		Message:     n.Message,
		Read:        n.Read,
		ReadAt:      n.ReadAt,
		CreatedAt:   n.CreatedAt,
	}
}

func ToNotificationResponses(notifications []Notification) []NotificationResponse {
	responses := make([]NotificationResponse, len(notifications))
	for i := range notifications {
		responses[i] = ToNotificationResponse(&notifications[i])
	}
	return responses
}
