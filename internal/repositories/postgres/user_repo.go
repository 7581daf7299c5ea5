package postgres

import (
	"context"
	"errors"

	"github.com/hirestack/hirestack/internal/models"
	"github.com/hirestack/hirestack/internal/utils"
	"gorm.io/gorm"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// GetByIDs returns the users that exist; unknown IDs are silently skipped.
	GetByIDs(ctx context.Context, ids []string) ([]models.User, error)
	GetEmployee(ctx context.Context, userID string) (*models.EmployeeProfile, error)
	CreateEmployee(ctx context.Context, emp *models.EmployeeProfile) error
}

type userRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) Create(ctx context.Context, user *models.User) error {
	return dbFrom(ctx, r.db).Create(user).Error
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	err := dbFrom(ctx, r.db).Where("id = ?", id).Take(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &u, err
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := dbFrom(ctx, r.db).Where("email = ?", email).Take(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &u, err
}

func (r *userRepo) GetByIDs(ctx context.Context, ids []string) ([]models.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var rows []models.User
	err := dbFrom(ctx, r.db).Where("id IN ?", ids).Find(&rows).Error
	return rows, err
}

func (r *userRepo) GetEmployee(ctx context.Context, userID string) (*models.EmployeeProfile, error) {
	var emp models.EmployeeProfile
	err := dbFrom(ctx, r.db).Where("user_id = ?", userID).Take(&emp).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &emp, err
}

func (r *userRepo) CreateEmployee(ctx context.Context, emp *models.EmployeeProfile) error {
	return dbFrom(ctx, r.db).Create(emp).Error
}
