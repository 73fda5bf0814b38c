package services

import (
	"context"
	"log"
	"time"

	"github.com/civicgrid/backend/internal/database"
	"github.com/civicgrid/backend/internal/repository"
)

// DeadlineService computes the resolution deadline for a new complaint.
// Lookup order is Redis cache, then the departments table, then the
// configured default. It never returns an error: a submission must not
// fail because SLA configuration is unreachable.
type DeadlineService interface {
	DeadlineFor(ctx context.Context, departmentCode string, filedAt time.Time) time.Time
}

type deadlineService struct {
	deptRepo     repository.DepartmentRepository
	cache        *database.SLACache
	defaultHours int
}

func NewDeadlineService(deptRepo repository.DepartmentRepository, cache *database.SLACache, defaultHours int) DeadlineService {
	return &deadlineService{
		deptRepo:     deptRepo,
		cache:        cache,
		defaultHours: defaultHours,
	}
}

func (s *deadlineService) DeadlineFor(ctx context.Context, departmentCode string, filedAt time.Time) time.Time {
	if s.cache != nil {
		if hours, ok := s.cache.GetSLAHours(ctx, departmentCode); ok {
			return filedAt.Add(time.Duration(hours) * time.Hour)
		}
	}

	dept, err := s.deptRepo.FindByCode(ctx, departmentCode)
	if err != nil || dept.SLAHours <= 0 {
		if err != nil {
			log.Printf("SLA lookup failed for department %s, using default %dh: %v",
				departmentCode, s.defaultHours, err)
		}
		return filedAt.Add(time.Duration(s.defaultHours) * time.Hour)
	}

	if s.cache != nil {
		s.cache.SetSLAHours(ctx, departmentCode, dept.SLAHours)
	}
	return filedAt.Add(time.Duration(dept.SLAHours) * time.Hour)
}
