package repository

import (
	"context"
	"errors"

	"github.com/pe-odake/Portifolio-Web/internal/cache"
	"github.com/pe-odake/Portifolio-Web/internal/models"

	"gorm.io/gorm"
)

// CommentRepository defines persistence operations for comments.
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id uint) (*models.Comment, error)
	ListByProject(ctx context.Context, projectID uint, limit, offset int) ([]*models.Comment, error)
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new CommentRepository.
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

// Create inserts the comment and recomputes the project's materialized
// comments_count inside the same transaction, mirroring the likes_count
// consistency rule. The project row lock comes first for the same reason
// as ToggleLike: the recount must see concurrent committed comments.
func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	defer dbMetrics.TrackQuery("create", "comments")()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockProjectRow(tx, comment.ProjectID); err != nil {
			return err
		}
		if err := tx.Create(comment).Error; err != nil {
			return err
		}
		return tx.Exec(
			`UPDATE projects SET comments_count = (SELECT COUNT(*) FROM comments WHERE comments.project_id = projects.id) WHERE id = ?`,
			comment.ProjectID,
		).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}

	cache.InvalidateProject(ctx, comment.ProjectID)
	return nil
}

func (r *commentRepository) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := readDB(r.db).WithContext(ctx).Preload("User").First(&comment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Comment", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &comment, nil
}

func (r *commentRepository) ListByProject(ctx context.Context, projectID uint, limit, offset int) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := readDB(r.db).WithContext(ctx).
		Preload("User").
		Where("project_id = ?", projectID).
		Order("created_at desc").
		Limit(limit).
		Offset(offset).
		Find(&comments).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return comments, nil
}
