package repository

import (
	"context"
	"errors"

	"github.com/pe-odake/Portifolio-Web/internal/cache"
	"github.com/pe-odake/Portifolio-Web/internal/models"

	"gorm.io/gorm"
)

// AboutRepository manages the singleton profile record.
type AboutRepository interface {
	Get(ctx context.Context) (*models.About, error)
	Update(ctx context.Context, about *models.About) error
}

type aboutRepository struct {
	db *gorm.DB
}

// NewAboutRepository creates a new AboutRepository.
func NewAboutRepository(db *gorm.DB) AboutRepository {
	return &aboutRepository{db: db}
}

// Get returns the singleton About row, creating an empty one on first access.
func (r *aboutRepository) Get(ctx context.Context) (*models.About, error) {
	var about models.About
	err := cache.Aside(ctx, cache.AboutKey(), &about, cache.AboutTTL, func() error {
		err := readDB(r.db).WithContext(ctx).First(&about).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return r.db.WithContext(ctx).Create(&about).Error
		}
		return err
	})
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &about, nil
}

func (r *aboutRepository) Update(ctx context.Context, about *models.About) error {
	if err := r.db.WithContext(ctx).Save(about).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateAbout(ctx)
	return nil
}
