package handlers

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civicgrid/backend/internal/models"
	"github.com/civicgrid/backend/internal/repository"
)

type fakeDepartmentRepo struct {
	created *models.Department
}

var _ repository.DepartmentRepository = (*fakeDepartmentRepo)(nil)

func (f *fakeDepartmentRepo) Create(ctx context.Context, dept *models.Department) error {
	f.created = dept
	return nil
}

func (f *fakeDepartmentRepo) FindByCode(ctx context.Context, code string) (*models.Department, error) {
	return nil, nil
}

func (f *fakeDepartmentRepo) List(ctx context.Context) ([]models.Department, error) {
	return nil, nil
}

func postDepartment(t *testing.T, h *DepartmentHandler, body string) int {
	app := fiber.New()
	app.Post("/departments", h.Create)

	req := httptest.NewRequest("POST", "/departments", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestCreateDepartmentDefaultsSLAHoursFromConfig(t *testing.T) {
	repo := &fakeDepartmentRepo{}
	h := NewDepartmentHandler(repo, nil, 72)

	status := postDepartment(t, h, `{"code":"DPT_R","name":"Roads"}`)

	assert.Equal(t, fiber.StatusCreated, status)
	require.NotNil(t, repo.created)
	assert.Equal(t, 72, repo.created.SLAHours)
}

func TestCreateDepartmentKeepsExplicitSLAHours(t *testing.T) {
	repo := &fakeDepartmentRepo{}
	h := NewDepartmentHandler(repo, nil, 72)

	status := postDepartment(t, h, `{"code":"DPT_R","name":"Roads","sla_hours":12}`)

	assert.Equal(t, fiber.StatusCreated, status)
	require.NotNil(t, repo.created)
	assert.Equal(t, 12, repo.created.SLAHours)
}
