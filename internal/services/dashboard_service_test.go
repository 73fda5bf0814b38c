package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civicgrid/backend/internal/models"
	"github.com/civicgrid/backend/internal/repository"
)

type fakeUserRepo struct {
	listWorkersFn func(ctx context.Context, dept string) ([]models.User, error)
}

func (f *fakeUserRepo) Create(ctx context.Context, u *models.User) error { return nil }

func (f *fakeUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return nil, nil
}

func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return nil, nil
}

func (f *fakeUserRepo) Update(ctx context.Context, u *models.User) error { return nil }

func (f *fakeUserRepo) ListWorkersByDepartment(ctx context.Context, dept string) ([]models.User, error) {
	if f.listWorkersFn != nil {
		return f.listWorkersFn(ctx, dept)
	}
	return nil, nil
}

func (f *fakeUserRepo) CountWorkersByDepartment(ctx context.Context, dept string) (int64, error) {
	return 0, nil
}

var _ repository.UserRepository = (*fakeUserRepo)(nil)

func TestWorkersReportsLoadFromAssignedSet(t *testing.T) {
	userRepo := &fakeUserRepo{
		listWorkersFn: func(ctx context.Context, dept string) ([]models.User, error) {
			return []models.User{
				{ID: uuid.New(), Name: "Asha", Role: models.RoleWorker, AssignedIDs: "[1,2,3]"},
				{ID: uuid.New(), Name: "Ben", Role: models.RoleWorker, AssignedIDs: "4,5"},
				{ID: uuid.New(), Name: "Chen", Role: models.RoleWorker, AssignedIDs: ""},
			}, nil
		},
	}

	svc := NewDashboardService(&fakeComplaintRepo{}, userRepo)

	workers, err := svc.Workers(context.Background(), "DPT_W")
	require.NoError(t, err)
	require.Len(t, workers, 3)

	assert.Equal(t, 3, workers[0].Load)
	assert.Equal(t, []uint{1, 2, 3}, workers[0].AssignedIDs)
	assert.Equal(t, 2, workers[1].Load, "legacy comma rows still count correctly")
	assert.Equal(t, 0, workers[2].Load)
}

func TestSLAOverviewGroupsViews(t *testing.T) {
	complaintRepo := &fakeComplaintRepo{
		violationsByDeptFn: func(ctx context.Context, dept string, status models.WorkStatus) ([]models.Complaint, error) {
			if status == models.WorkStatusPending {
				return []models.Complaint{{ID: 1, SLAStatus: models.SLAViolated}}, nil
			}
			return []models.Complaint{{ID: 2, SLAStatus: models.SLAViolated}, {ID: 3, SLAStatus: models.SLAViolated}}, nil
		},
		warningsByDeptFn: func(ctx context.Context, dept string) ([]models.Complaint, error) {
			return []models.Complaint{{ID: 4, SLAStatus: models.SLAWarning}}, nil
		},
	}

	svc := NewDashboardService(complaintRepo, &fakeUserRepo{})

	overview, err := svc.SLAOverview(context.Background(), "DPT_E")
	require.NoError(t, err)

	assert.Len(t, overview.PendingViolations, 1)
	assert.Len(t, overview.InProgressViolations, 2)
	assert.Len(t, overview.Warnings, 1)
}
