package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/hirestack/hirestack/internal/models"
	"github.com/hirestack/hirestack/internal/utils"
)

type CompanyRepository interface {
	Create(ctx context.Context, c *models.Company) error
	GetByID(ctx context.Context, id string) (*models.Company, error)
}

type companyRepo struct {
	db *gorm.DB
}

func NewCompanyRepo(db *gorm.DB) CompanyRepository {
	return &companyRepo{db: db}
}

func (r *companyRepo) Create(ctx context.Context, c *models.Company) error {
	return dbFrom(ctx, r.db).Create(c).Error
}

func (r *companyRepo) GetByID(ctx context.Context, id string) (*models.Company, error) {
	var c models.Company
	err := dbFrom(ctx, r.db).Where("id = ?", id).Take(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &c, err
}
