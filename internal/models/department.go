package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Department is the unit complaints are routed to. SLAHours is the
// configured maximum resolution time for complaints filed against it.
type Department struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Code      string         `gorm:"size:50;uniqueIndex;not null" json:"code"`
	Name      string         `gorm:"size:100;not null" json:"name"`
	SLAHours  int            `gorm:"default:48" json:"sla_hours"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (d *Department) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

type DepartmentCreateRequest struct {
	Code     string `json:"code" validate:"required,min=1,max=50"`
	Name     string `json:"name" validate:"required,min=1,max=100"`
	SLAHours int    `json:"sla_hours" validate:"omitempty,min=1"`
}

type DepartmentResponse struct {
	ID       uuid.UUID `json:"id"`
	Code     string    `json:"code"`
	Name     string    `json:"name"`
	SLAHours int       `json:"sla_hours"`
}

func ToDepartmentResponse(d *Department) DepartmentResponse {
	return DepartmentResponse{
		ID:       d.ID,
		Code:     d.Code,
		Name:     d.Name,
		SLAHours: d.SLAHours,
	}
}
