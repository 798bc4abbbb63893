package repository

import (
	"context"

	"github.com/pe-odake/Portifolio-Web/internal/cache"
	"github.com/pe-odake/Portifolio-Web/internal/models"

	"gorm.io/gorm"
)

// TagRepository defines read and seed operations for tags.
type TagRepository interface {
	List(ctx context.Context) ([]models.Tag, error)
	FindOrCreate(ctx context.Context, name string) (*models.Tag, error)
	ResolveNames(ctx context.Context, names []string) ([]models.Tag, error)
}

type tagRepository struct {
	db *gorm.DB
}

// NewTagRepository creates a new TagRepository.
func NewTagRepository(db *gorm.DB) TagRepository {
	return &tagRepository{db: db}
}

func (r *tagRepository) List(ctx context.Context) ([]models.Tag, error) {
	var tags []models.Tag
	err := cache.Aside(ctx, cache.TagsKey(), &tags, cache.TaxonomyTTL, func() error {
		return readDB(r.db).WithContext(ctx).Order("name ASC").Find(&tags).Error
	})
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return tags, nil
}

func (r *tagRepository) FindOrCreate(ctx context.Context, name string) (*models.Tag, error) {
	tag := models.Tag{Name: name}
	err := r.db.WithContext(ctx).
		Where("name = ?", name).
		FirstOrCreate(&tag).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	cache.InvalidateTaxonomy(ctx)
	return &tag, nil
}

// ResolveNames maps tag names to rows, creating any that do not exist yet.
// Used by admin project create/update where tags arrive as a set of names.
func (r *tagRepository) ResolveNames(ctx context.Context, names []string) ([]models.Tag, error) {
	tags := make([]models.Tag, 0, len(names))
	seen := make(map[string]struct{}, len(names))

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, name := range names {
			if name == "" {
				continue
			}
			if _, dup := seen[name]; dup {
				continue
			}
			seen[name] = struct{}{}

			tag := models.Tag{Name: name}
			if err := tx.Where("name = ?", name).FirstOrCreate(&tag).Error; err != nil {
				return err
			}
			tags = append(tags, tag)
		}
		return nil
	})
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	if len(tags) > 0 {
		cache.InvalidateTaxonomy(ctx)
	}
	return tags, nil
}
