package repositories

import (
	"errors"
	"strings"

	"wedding_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
)

// UserRepository - админы свадеб и организаторы
type UserRepository interface {
	// Admin operations
	CreateAdmin(db *gorm.DB, admin *models.WeddingAdmin) error
	FindAdminByID(db *gorm.DB, id string) (*models.WeddingAdmin, error)
	FindAdminByEmail(db *gorm.DB, email string) (*models.WeddingAdmin, error)

	// Planner operations
	CreatePlanner(db *gorm.DB, planner *models.WeddingPlanner) error
	FindPlannerByID(db *gorm.DB, id string) (*models.WeddingPlanner, error)
	FindPlannerByEmail(db *gorm.DB, email string) (*models.WeddingPlanner, error)
	CountPlanners(db *gorm.DB) (int64, error)
}

type UserRepositoryImpl struct{}

func NewUserRepository() UserRepository {
	return &UserRepositoryImpl{}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (r *UserRepositoryImpl) CreateAdmin(db *gorm.DB, admin *models.WeddingAdmin) error {
	admin.Email = normalizeEmail(admin.Email)
	if _, err := r.FindAdminByEmail(db, admin.Email); err == nil {
		return ErrUserAlreadyExists
	} else if !errors.Is(err, ErrUserNotFound) {
		return err
	}
	return db.Create(admin).Error
}

func (r *UserRepositoryImpl) FindAdminByID(db *gorm.DB, id string) (*models.WeddingAdmin, error) {
	var admin models.WeddingAdmin
	if err := db.First(&admin, "id = ?", id).Error; err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}
	return &admin, nil
}

func (r *UserRepositoryImpl) FindAdminByEmail(db *gorm.DB, email string) (*models.WeddingAdmin, error) {
	var admin models.WeddingAdmin
	if err := db.Where("email = ?", normalizeEmail(email)).First(&admin).Error; err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}
	return &admin, nil
}

func (r *UserRepositoryImpl) CreatePlanner(db *gorm.DB, planner *models.WeddingPlanner) error {
	planner.Email = normalizeEmail(planner.Email)
	if _, err := r.FindPlannerByEmail(db, planner.Email); err == nil {
		return ErrUserAlreadyExists
	} else if !errors.Is(err, ErrUserNotFound) {
		return err
	}
	return db.Create(planner).Error
}

func (r *UserRepositoryImpl) FindPlannerByID(db *gorm.DB, id string) (*models.WeddingPlanner, error) {
	var planner models.WeddingPlanner
	if err := db.First(&planner, "id = ?", id).Error; err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}
	return &planner, nil
}

func (r *UserRepositoryImpl) FindPlannerByEmail(db *gorm.DB, email string) (*models.WeddingPlanner, error) {
	var planner models.WeddingPlanner
	if err := db.Where("email = ?", normalizeEmail(email)).First(&planner).Error; err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}
	return &planner, nil
}

func (r *UserRepositoryImpl) CountPlanners(db *gorm.DB) (int64, error) {
	var count int64
	err := db.Model(&models.WeddingPlanner{}).Count(&count).Error
	return count, err
}
