package services

import (
	"context"
	"errors"

	"wedding_backend/internal/auth"
	"wedding_backend/internal/logger"
	"wedding_backend/internal/models"
	"wedding_backend/internal/repositories"
	"wedding_backend/internal/services/dto"
	"wedding_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type AuthService interface {
	// Login - сначала админы свадеб, затем организаторы
	Login(ctx context.Context, db *gorm.DB, req *dto.LoginRequest) (*dto.LoginResponse, error)
	// CreatePlanner используется командой migrate для первого организатора
	CreatePlanner(ctx context.Context, db *gorm.DB, name, email, password string) (*models.WeddingPlanner, error)
}

type AuthServiceImpl struct {
	userRepo repositories.UserRepository
}

func NewAuthService(userRepo repositories.UserRepository) AuthService {
	return &AuthServiceImpl{userRepo: userRepo}
}

func (s *AuthServiceImpl) Login(ctx context.Context, db *gorm.DB, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	tx := db.WithContext(ctx)

	admin, err := s.userRepo.FindAdminByEmail(tx, req.Email)
	switch {
	case err == nil:
		if !auth.CheckPasswordHash(req.Password, admin.PasswordHash) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return s.issue(ctx, admin.ID, admin.Name, models.UserRoleWeddingAdmin, admin.WeddingID)
	case !errors.Is(err, repositories.ErrUserNotFound):
		return nil, apperrors.InternalError(err)
	}

	planner, err := s.userRepo.FindPlannerByEmail(tx, req.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			// выравниваем время ответа с веткой "пароль не подошел"
			auth.CheckPasswordHash(req.Password, "")
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.InternalError(err)
	}
	if !auth.CheckPasswordHash(req.Password, planner.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}
	return s.issue(ctx, planner.ID, planner.Name, models.UserRolePlanner, "")
}

func (s *AuthServiceImpl) issue(ctx context.Context, userID, name string, role models.UserRole, weddingID string) (*dto.LoginResponse, error) {
	token, expiresAt, err := auth.GenerateToken(userID, role, weddingID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	logger.CtxInfo(ctx, "User logged in", "user_id", userID, "role", role)
	return &dto.LoginResponse{
		AccessToken: token,
		ExpiresAt:   expiresAt,
		Role:        role,
		UserID:      userID,
		WeddingID:   weddingID,
		Name:        name,
	}, nil
}

func (s *AuthServiceImpl) CreatePlanner(ctx context.Context, db *gorm.DB, name, email, password string) (*models.WeddingPlanner, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, apperrors.NewBadRequestError(err.Error())
	}
	planner := &models.WeddingPlanner{Name: name, Email: email, PasswordHash: hash}
	if err := s.userRepo.CreatePlanner(db.WithContext(ctx), planner); err != nil {
		if errors.Is(err, repositories.ErrUserAlreadyExists) {
			return nil, apperrors.ErrConflict(err, "auth", "User with this email already exists")
		}
		return nil, apperrors.InternalError(err)
	}
	return planner, nil
}
