package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/civicgrid/backend/internal/database"
	"github.com/civicgrid/backend/internal/models"
	"github.com/civicgrid/backend/internal/repository"
	"github.com/civicgrid/backend/pkg/utils"
)

type AuthService interface {
	Register(ctx context.Context, req *models.UserRegisterRequest) (*models.UserResponse, error)
	Login(ctx context.Context, req *models.UserLoginRequest) (*models.LoginResponse, error)
	Logout(ctx context.Context, userID string, token string) error
}

type authService struct {
	userRepo     repository.UserRepository
	deptRepo     repository.DepartmentRepository
	jwtManager   *utils.JWTManager
	sessionStore *database.SessionStore
}

func NewAuthService(
	userRepo repository.UserRepository,
	deptRepo repository.DepartmentRepository,
	jwtManager *utils.JWTManager,
	sessionStore *database.SessionStore,
) AuthService {
	return &authService{
		userRepo:     userRepo,
		deptRepo:     deptRepo,
		jwtManager:   jwtManager,
		sessionStore: sessionStore,
	}
}

func (s *authService) Register(ctx context.Context, req *models.UserRegisterRequest) (*models.UserResponse, error) {
	if _, err := s.userRepo.FindByEmail(ctx, req.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	role := models.Role(req.Role)
	if role == "" {
		role = models.RoleCitizen
	}

	// Workers and managers belong to a department; the code must exist.
	if role != models.RoleCitizen {
		if _, err := s.deptRepo.FindByCode(ctx, req.DepartmentCode); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrUnknownDepartment
			}
			return nil, err
		}
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:          req.Email,
		Password:       hashed,
		Name:           req.Name,
		Phone:          req.Phone,
		Role:           role,
		DepartmentCode: req.DepartmentCode,
	}
	if role == models.RoleWorker {
		user.AssignedIDs = models.EncodeAssignedSet(nil)
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	resp := models.ToUserResponse(user)
	return &resp, nil
}

func (s *authService) Login(ctx context.Context, req *models.UserLoginRequest) (*models.LoginResponse, error) {
	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !utils.CheckPassword(req.Password, user.Password) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.jwtManager.GenerateToken(user.ID, user.Email, string(user.Role), user.DepartmentCode)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user.LastLoginAt = &now
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	if err := s.sessionStore.SetUserSession(ctx, user.ID.String(), map[string]interface{}{
		"email":      user.Email,
		"role":       user.Role,
		"department": user.DepartmentCode,
		"login_at":   now,
	}, s.jwtManager.TokenTTL()); err != nil {
		return nil, err
	}

	return &models.LoginResponse{
		Token: token,
		User:  models.ToUserResponse(user),
	}, nil
}

func (s *authService) Logout(ctx context.Context, userID string, token string) error {
	if err := s.sessionStore.BlacklistToken(ctx, token, s.jwtManager.TokenTTL()); err != nil {
		return err
	}
	return s.sessionStore.DeleteUserSession(ctx, userID)
}
