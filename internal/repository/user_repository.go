package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/civicgrid/backend/internal/models"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	ListWorkersByDepartment(ctx context.Context, departmentCode string) ([]models.User, error)
	CountWorkersByDepartment(ctx context.Context, departmentCode string) (int64, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "email = ?", email).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

// ListWorkersByDepartment returns the department's worker roster ordered
// by id so load-based selection breaks ties deterministically.
func (r *userRepository) ListWorkersByDepartment(ctx context.Context, departmentCode string) ([]models.User, error) {
	var workers []models.User
	err := r.db.WithContext(ctx).
		Where("role = ? AND department_code = ?", models.RoleWorker, departmentCode).
		Order("id ASC").
		Find(&workers).Error
	return workers, err
}

func (r *userRepository) CountWorkersByDepartment(ctx context.Context, departmentCode string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("role = ? AND department_code = ?", models.RoleWorker, departmentCode).
		Count(&count).Error
	return count, err
}
