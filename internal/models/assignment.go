package models

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AssignmentReason string

const (
	ReasonAssigned     AssignmentReason = "Assigned"
	ReasonAutoAssigned AssignmentReason = "Auto-Assigned"
)

// AssignmentEvent is the append-only history of work handed to a worker.
// Rows are only ever inserted, except when a manager deletes a complaint,
// which removes that complaint's rows symmetrically with the assigned set.
type AssignmentEvent struct {
	ID          uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	WorkerID    uuid.UUID        `gorm:"type:uuid;index;not null" json:"worker_id"`
	ComplaintID uint             `gorm:"index;not null" json:"complaint_id"`
	Reason      AssignmentReason `gorm:"size:20;not null" json:"reason"`
	CreatedAt   time.Time        `json:"created_at"`
}

func (e *AssignmentEvent) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// ParseAssignedSet normalizes a persisted assigned-complaint set to a
// slice of complaint ids. Two representations exist in the wild: a JSON
// integer array (the current format) and a comma-delimited string left
// over from earlier records. Malformed entries are skipped, not errors,
// so a half-corrupted row still yields a usable load count.
func ParseAssignedSet(raw string) []uint {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "null" {
		return nil
	}

	if strings.HasPrefix(raw, "[") {
		var ids []uint
		if err := json.Unmarshal([]byte(raw), &ids); err == nil {
			return ids
		}
		// Fall through: arrays written by older clients sometimes hold
		// stringified numbers.
		var loose []interface{}
		if err := json.Unmarshal([]byte(raw), &loose); err != nil {
			return nil
		}
		ids = make([]uint, 0, len(loose))
		for _, entry := range loose {
			switch v := entry.(type) {
			case float64:
				if v >= 0 {
					ids = append(ids, uint(v))
				}
			case string:
				if n, err := strconv.ParseUint(strings.TrimSpace(v), 10, 64); err == nil {
					ids = append(ids, uint(n))
				}
			}
		}
		return ids
	}

	parts := strings.Split(raw, ",")
	ids := make([]uint, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if v, err := strconv.ParseUint(p, 10, 64); err == nil {
			ids = append(ids, uint(v))
		}
	}
	return ids
}

// EncodeAssignedSet serializes an assigned set in the current (JSON
// array) representation. nil encodes as an empty array so the legacy
// comma format is never written back.
func EncodeAssignedSet(ids []uint) string {
	if ids == nil {
		ids = []uint{}
	}
	data, _ := json.Marshal(ids)
	return string(data)
}

// AppendAssigned adds a complaint id to the set if not already present.
func AppendAssigned(ids []uint, complaintID uint) []uint {
	for _, id := range ids {
		if id == complaintID {
			return ids
		}
	}
	return append(ids, complaintID)
}

// RemoveAssigned drops a complaint id from the set, preserving order.
func RemoveAssigned(ids []uint, complaintID uint) []uint {
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id != complaintID {
			out = append(out, id)
		}
	}
	return out
}

// CanClaim reports whether a worker may pick up an unassigned complaint
// directly: only pending work in the worker's own department qualifies.
// Capacity is not checked here; a direct pickup is a deliberate act by
// the worker, unlike automatic selection.
func CanClaim(c *Complaint, w *User) bool {
	return c.WorkerID == nil &&
		c.WorkStatus == WorkStatusPending &&
		w.Role == RoleWorker &&
		w.DepartmentCode == c.DepartmentCode
}

// SelectLeastLoaded picks the worker with strictly minimum load, provided
// that minimum is below the capacity threshold; workers at or above
// capacity are never selected. Ties go to the earliest worker in the
// given slice, so callers that want a deterministic outcome must order
// the roster (the assignment repository orders by worker id).
func SelectLeastLoaded(workers []User, capacity int) *User {
	var selected *User
	minLoad := capacity
	for i := range workers {
		load := workers[i].Load()
		if load < minLoad {
			minLoad = load
			selected = &workers[i]
		}
	}
	return selected
}
