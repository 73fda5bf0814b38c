package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type WorkStatus string

const (
	WorkStatusPending    WorkStatus = "Pending"
	WorkStatusInProgress WorkStatus = "In Progress"
	WorkStatusComplete   WorkStatus = "Complete"
)

type SLAStatus string

const (
	SLAOnTrack   SLAStatus = "On Track"
	SLAWarning   SLAStatus = "Warning"
	SLAViolated  SLAStatus = "Violated"
	SLACompleted SLAStatus = "Completed"
)

// Complaint is a citizen-filed report routed to a department. The id is
// store-assigned and monotonic. WorkerID mirrors membership in the
// worker's assigned set; the two are only ever written together.
type Complaint struct {
	ID             uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	ReporterID     uuid.UUID  `gorm:"type:uuid;index;not null" json:"reporter_id"`
	Reporter       *User      `gorm:"foreignKey:ReporterID" json:"reporter,omitempty"`
	Name           string     `gorm:"size:200" json:"name"`
	Phone          string     `gorm:"size:20" json:"phone"`
	Address        string     `gorm:"size:500" json:"address"`
	Description    string     `gorm:"type:text" json:"description"`
	DepartmentCode string     `gorm:"size:50;index;not null" json:"department_code"`
	Latitude       *float64   `gorm:"type:decimal(10,8)" json:"latitude"`
	Longitude      *float64   `gorm:"type:decimal(11,8)" json:"longitude"`
	PhotoURL       *string    `gorm:"size:500" json:"photo_url"`
	WorkStatus     WorkStatus `gorm:"size:20;default:'Pending';index" json:"work_status"`
	WorkerID       *uuid.UUID `gorm:"type:uuid;index" json:"worker_id"`
	Worker         *User      `gorm:"foreignKey:WorkerID" json:"worker,omitempty"`

	// SLA tracking
	Deadline          time.Time  `gorm:"index" json:"deadline"`
	SLAStatus         SLAStatus  `gorm:"size:20;default:'On Track';index" json:"sla_status"`
	SLAViolatedAt     *time.Time `json:"sla_violated_at"`
	TimeToResolveSecs *int64     `json:"time_to_resolve_secs"`

	CreatedAt time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// NextWorkStatus implements the toggle state machine: In Progress
// completes; anything else (Pending, Complete) moves to In Progress,
// which doubles as "start work" and "reopen".
func NextWorkStatus(current WorkStatus) (next WorkStatus, completed bool) {
	if current == WorkStatusInProgress {
		return WorkStatusComplete, true
	}
	return WorkStatusInProgress, false
}

// ActiveWorkStatuses are the states SLA sweeps and views care about.
func ActiveWorkStatuses() []WorkStatus {
	return []WorkStatus{WorkStatusPending, WorkStatusInProgress}
}

// FormatTimeToResolve renders a resolution duration the way dashboards
// display it, e.g. "5 hours 42 minutes".
func FormatTimeToResolve(secs int64) string {
	hours := secs / 3600
	minutes := (secs % 3600) / 60
	return fmt.Sprintf("%d hours %d minutes", hours, minutes)
}

// Request types

type ComplaintCreateRequest struct {
	Name           string   `json:"name" validate:"required,max=200"`
	Phone          string   `json:"phone" validate:"max=20"`
	Address        string   `json:"address" validate:"max=500"`
	Description    string   `json:"description" validate:"required"`
	DepartmentCode string   `json:"department_code" validate:"required,max=50"`
	Latitude       *float64 `json:"latitude" validate:"omitempty,min=-90,max=90"`
	Longitude      *float64 `json:"longitude" validate:"omitempty,min=-180,max=180"`
	// Optional photo payload: a data URL or raw base64. Uploaded to
	// object storage; only the resulting URL is persisted.
	PhotoData string `json:"photo_data"`
}

type ComplaintFilter struct {
	DepartmentCode string
	WorkStatus     *WorkStatus
	SLAStatus      *SLAStatus
	WorkerID       *uuid.UUID
	ReporterID     *uuid.UUID
}

// Response types

type ComplaintResponse struct {
	ID             uint       `json:"id"`
	Name           string     `json:"name"`
	Phone          string     `json:"phone,omitempty"`
	Address        string     `json:"address"`
	Description    string     `json:"description"`
	DepartmentCode string     `json:"department_code"`
	Latitude       *float64   `json:"latitude,omitempty"`
	Longitude      *float64   `json:"longitude,omitempty"`
	PhotoURL       *string    `json:"photo_url,omitempty"`
	WorkStatus     WorkStatus `json:"work_status"`
	WorkerID       *uuid.UUID `json:"worker_id,omitempty"`
	WorkerName     string     `json:"worker_name,omitempty"`
	Deadline       time.Time  `json:"deadline"`
	SLAStatus      SLAStatus  `json:"sla_status"`
	SLAViolatedAt  *time.Time `json:"sla_violated_at,omitempty"`
	TimeToResolve  string     `json:"time_to_resolve,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

type ComplaintDetailResponse struct {
	ComplaintResponse
	WorkerDepartment string `json:"worker_department,omitempty"`
}

type SubmitResponse struct {
	Complaint  ComplaintResponse `json:"complaint"`
	AssignedTo *uuid.UUID        `json:"assigned_to,omitempty"`
	WorkerName string            `json:"worker_name,omitempty"`
}

type ToggleResponse struct {
	Complaint      ComplaintResponse `json:"complaint"`
	PreviousStatus WorkStatus        `json:"previous_status"`
	AutoAssigned   *AutoAssignment   `json:"auto_assignment,omitempty"`
}

type AutoAssignment struct {
	ComplaintID uint      `json:"complaint_id"`
	WorkerID    uuid.UUID `json:"worker_id"`
}

type WorkerSLAResponse struct {
	Violated []ComplaintResponse `json:"violated"`
	Warning  []ComplaintResponse `json:"warning"`
	OnTrack  []ComplaintResponse `json:"on_track"`
}

type SLAOverviewResponse struct {
	PendingViolations    []ComplaintResponse `json:"pending_violations"`
	InProgressViolations []ComplaintResponse `json:"in_progress_violations"`
	Warnings             []ComplaintResponse `json:"warnings"`
}

type HeatmapPoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Weight    float64 `json:"weight"`
}

type StatusCounts struct {
	Total      int64 `json:"total"`
	Pending    int64 `json:"pending"`
	InProgress int64 `json:"in_progress"`
	Complete   int64 `json:"complete"`
}

type SLACounts struct {
	Violations     int64  `json:"violations"`
	Warnings       int64  `json:"warnings"`
	OnTrack        int64  `json:"on_track"`
	ComplianceRate string `json:"compliance_rate"`
}

type DepartmentStatsResponse struct {
	TotalWorkers int64        `json:"total_workers"`
	Complaints   StatusCounts `json:"complaints"`
	SLA          SLACounts    `json:"sla"`
}

type AnalyticsResponse struct {
	Total        StatusCounts            `json:"total"`
	ByDepartment map[string]StatusCounts `json:"by_department"`
}

// Converter functions

func ToComplaintResponse(c *Complaint) ComplaintResponse {
	resp := ComplaintResponse{
		ID:             c.ID,
		Name:           c.Name,
		Phone:          c.Phone,
		Address:        c.Address,
		Description:    c.Description,
		DepartmentCode: c.DepartmentCode,
		Latitude:       c.Latitude,
		Longitude:      c.Longitude,
		PhotoURL:       c.PhotoURL,
		WorkStatus:     c.WorkStatus,
		WorkerID:       c.WorkerID,
		Deadline:       c.Deadline,
		SLAStatus:      c.SLAStatus,
		SLAViolatedAt:  c.SLAViolatedAt,
		CreatedAt:      c.CreatedAt,
	}

	if c.Worker != nil {
		resp.WorkerName = c.Worker.Name
	}
	if c.TimeToResolveSecs != nil {
		resp.TimeToResolve = FormatTimeToResolve(*c.TimeToResolveSecs)
	}

	return resp
}

func ToComplaintDetailResponse(c *Complaint) ComplaintDetailResponse {
	resp := ComplaintDetailResponse{
		ComplaintResponse: ToComplaintResponse(c),
	}
	if c.Worker != nil {
		resp.WorkerDepartment = c.Worker.DepartmentCode
	}
	return resp
}

func ToComplaintResponses(complaints []Complaint) []ComplaintResponse {
	responses := make([]ComplaintResponse, len(complaints))
	for i := range complaints {
		responses[i] = ToComplaintResponse(&complaints[i])
	}
	return responses
}
