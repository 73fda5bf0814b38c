package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/civicgrid/backend/internal/models"
)

type DepartmentRepository interface {
	Create(ctx context.Context, dept *models.Department) error
	FindByCode(ctx context.Context, code string) (*models.Department, error)
	List(ctx context.Context) ([]models.Department, error)
}

type departmentRepository struct {
	db *gorm.DB
}

func NewDepartmentRepository(db *gorm.DB) DepartmentRepository {
	return &departmentRepository{db: db}
}

func (r *departmentRepository) Create(ctx context.Context, dept *models.Department) error {
	return r.db.WithContext(ctx).Create(dept).Error
}

func (r *departmentRepository) FindByCode(ctx context.Context, code string) (*models.Department, error) {
	var dept models.Department
	if err := r.db.WithContext(ctx).First(&dept, "code = ?", code).Error; err != nil {
		return nil, err
	}
	return &dept, nil
}

func (r *departmentRepository) List(ctx context.Context) ([]models.Department, error) {
	var depts []models.Department
	err := r.db.WithContext(ctx).Order("code ASC").Find(&depts).Error
	return depts, err
}
