package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role string

const (
	RoleCitizen Role = "citizen"
	RoleWorker  Role = "worker"
	RoleManager Role = "manager"
)

// User covers all three actors: citizens file complaints, workers resolve
// them, managers oversee a department. Workers and managers carry a
// department code; AssignedIDs is meaningful only for workers and holds
// the ordered set of complaint ids they currently own.
type User struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Email          string    `gorm:"uniqueIndex;not null" json:"email"`
	Password       string    `gorm:"not null" json:"-"`
	Name           string    `gorm:"size:200" json:"name"`
	Phone          string    `gorm:"size:20" json:"phone"`
	Role           Role      `gorm:"size:20;default:'citizen';index" json:"role"`
	DepartmentCode string    `gorm:"size:50;index" json:"department_code"`

	// Serialized assigned-complaint set. New writes are always a JSON
	// integer array; legacy rows may hold a comma-delimited string and
	// are normalized on read (see ParseAssignedSet).
	AssignedIDs string `gorm:"type:text" json:"-"`

	Events []AssignmentEvent `gorm:"foreignKey:WorkerID" json:"events,omitempty"`

	LastLoginAt *time.Time     `json:"last_login_at"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// Load is the number of complaints the worker currently owns.
func (u *User) Load() int {
	return len(ParseAssignedSet(u.AssignedIDs))
}

type UserRegisterRequest struct {
	Email          string `json:"email" validate:"required,email"`
	Password       string `json:"password" validate:"required,min=6"`
	Name           string `json:"name" validate:"required,max=200"`
	Phone          string `json:"phone" validate:"max=20"`
	Role           string `json:"role" validate:"omitempty,oneof=citizen worker manager"`
	DepartmentCode string `json:"department_code" validate:"max=50"`
}

type UserLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UserResponse struct {
	ID             uuid.UUID  `json:"id"`
	Email          string     `json:"email"`
	Name           string     `json:"name"`
	Phone          string     `json:"phone"`
	Role           Role       `json:"role"`
	DepartmentCode string     `json:"department_code,omitempty"`
	LastLoginAt    *time.Time `json:"last_login_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

type WorkerResponse struct {
	UserResponse
	Load        int    `json:"load"`
	AssignedIDs []uint `json:"assigned_ids"`
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

func ToUserResponse(u *User) UserResponse {
	return UserResponse{
		ID:             u.ID,
		Email:          u.Email,
		Name:           u.Name,
		Phone:          u.Phone,
		Role:           u.Role,
		DepartmentCode: u.DepartmentCode,
		LastLoginAt:    u.LastLoginAt,
		CreatedAt:      u.CreatedAt,
	}
}

func ToWorkerResponse(u *User) WorkerResponse {
	assigned := ParseAssignedSet(u.AssignedIDs)
	return WorkerResponse{
		UserResponse: ToUserResponse(u),
		Load:         len(assigned),
		AssignedIDs:  assigned,
	}
}
