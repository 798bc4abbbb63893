package repository

import (
	"context"
	"errors"

	"github.com/pe-odake/Portifolio-Web/internal/cache"
	"github.com/pe-odake/Portifolio-Web/internal/models"

	"gorm.io/gorm"
)

// CategoryRepository defines read and seed operations for categories.
// Category CRUD is out of scope; mutation is limited to seeding.
type CategoryRepository interface {
	List(ctx context.Context) ([]models.Category, error)
	GetByID(ctx context.Context, id uint) (*models.Category, error)
	FindOrCreate(ctx context.Context, name, color string) (*models.Category, error)
}

type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a new CategoryRepository.
func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) List(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := cache.Aside(ctx, cache.CategoriesKey(), &categories, cache.TaxonomyTTL, func() error {
		return readDB(r.db).WithContext(ctx).Order("name ASC").Find(&categories).Error
	})
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return categories, nil
}

func (r *categoryRepository) GetByID(ctx context.Context, id uint) (*models.Category, error) {
	var category models.Category
	if err := readDB(r.db).WithContext(ctx).First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Category", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &category, nil
}

func (r *categoryRepository) FindOrCreate(ctx context.Context, name, color string) (*models.Category, error) {
	category := models.Category{Name: name, Color: color}
	err := r.db.WithContext(ctx).
		Where("name = ?", name).
		FirstOrCreate(&category).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	cache.InvalidateTaxonomy(ctx)
	return &category, nil
}
