package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/pe-odake/Portifolio-Web/internal/cache"
	"github.com/pe-odake/Portifolio-Web/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProjectFilters narrows and orders a project listing. Zero values mean
// "no filter"; Status is enforced by the caller (services pin public
// listings to published).
type ProjectFilters struct {
	Status       string
	CategoryID   uint
	Tag          string
	Search       string
	FeaturedOnly bool
	AuthorID     string
	Sort         string // latest | popular | views
	ViewerID     string
	Limit        int
	Offset       int
}

// ProjectRepository defines the interface for project data operations.
type ProjectRepository interface {
	List(ctx context.Context, filters ProjectFilters) ([]*models.Project, int64, error)
	GetByID(ctx context.Context, id uint, viewerID string) (*models.Project, error)
	Create(ctx context.Context, project *models.Project) error
	Update(ctx context.Context, project *models.Project) error
	Delete(ctx context.Context, id uint) error
	IncrementViews(ctx context.Context, id uint) error
	Similar(ctx context.Context, projectID uint, limit int) ([]*models.Project, error)
	ToggleLike(ctx context.Context, userID string, projectID uint) (liked bool, likesCount int, err error)
	LikedProjectIDs(ctx context.Context, userID string, projectIDs []uint) ([]uint, error)
}

type projectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new project repository.
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &projectRepository{db: db}
}

// withLiked adds a subquery resolving the viewer's liked status in the same
// query. likes_count and comments_count are materialized columns, so no
// count subqueries are needed here.
func (r *projectRepository) withLiked(db *gorm.DB, viewerID string) *gorm.DB {
	if viewerID != "" {
		return db.Select("projects.*, EXISTS(SELECT 1 FROM likes WHERE likes.project_id = projects.id AND likes.user_id = ?) AS liked", viewerID)
	}
	return db.Select("projects.*, false AS liked")
}

func (r *projectRepository) applyFilters(db *gorm.DB, f ProjectFilters) *gorm.DB {
	if f.Status != "" {
		db = db.Where("projects.status = ?", f.Status)
	}
	if f.CategoryID != 0 {
		db = db.Where("projects.category_id = ?", f.CategoryID)
	}
	if f.Tag != "" {
		db = db.
			Joins("JOIN project_tags ON project_tags.project_id = projects.id").
			Joins("JOIN tags ON tags.id = project_tags.tag_id").
			Where("tags.name = ?", f.Tag)
	}
	if f.Search != "" {
		// LOWER(...) LIKE keeps search portable between postgres and the
		// sqlite fallback, unlike ILIKE.
		pattern := "%" + strings.ToLower(f.Search) + "%"
		db = db.Where("(LOWER(projects.title) LIKE ? OR LOWER(projects.description) LIKE ?)", pattern, pattern)
	}
	if f.FeaturedOnly {
		db = db.Where("projects.featured = ?", true)
	}
	if f.AuthorID != "" {
		db = db.Where("projects.author_id = ?", f.AuthorID)
	}
	return db
}

func (r *projectRepository) applySort(db *gorm.DB, sort string) *gorm.DB {
	switch sort {
	case "popular":
		return db.Order("likes_count DESC, created_at DESC")
	case "views":
		return db.Order("views DESC, created_at DESC")
	default: // "latest" and anything unrecognized
		return db.Order("created_at DESC")
	}
}

func (r *projectRepository) List(ctx context.Context, f ProjectFilters) ([]*models.Project, int64, error) {
	defer dbMetrics.TrackQuery("list", "projects")()

	base := r.applyFilters(readDB(r.db).WithContext(ctx).Model(&models.Project{}), f)

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	var projects []*models.Project
	q := r.withLiked(base.Session(&gorm.Session{}), f.ViewerID).
		Preload("Author").
		Preload("Category").
		Preload("Tags")
	if err := r.applySort(q, f.Sort).
		Limit(f.Limit).
		Offset(f.Offset).
		Find(&projects).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return projects, total, nil
}

func (r *projectRepository) GetByID(ctx context.Context, id uint, viewerID string) (*models.Project, error) {
	var project models.Project

	fetch := func() error {
		err := r.withLiked(readDB(r.db).WithContext(ctx), viewerID).
			Preload("Author").
			Preload("Category").
			Preload("Tags").
			First(&project, id).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Project", id)
			}
			return models.NewInternalError(err)
		}
		return nil
	}

	var err error
	if viewerID == "" {
		// Anonymous fetches share one cache entry; liked is always false.
		err = cache.Aside(ctx, cache.ProjectKey(id), &project, cache.ProjectTTL, fetch)
	} else {
		err = fetch()
	}
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *projectRepository) Create(ctx context.Context, project *models.Project) error {
	if err := r.db.WithContext(ctx).Create(project).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateProjectsList(ctx)
	return nil
}

// Update saves the project and reassigns its tag set in one transaction.
// project.Tags is taken as the complete new set; rows absent from it are
// unlinked.
func (r *projectRepository) Update(ctx context.Context, project *models.Project) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(project).Error; err != nil {
			return err
		}
		return tx.Model(project).Association("Tags").Replace(project.Tags)
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateProject(ctx, project.ID)
	return nil
}

// Delete removes the project with its comments, likes, and tag links.
// Children are deleted explicitly so the cascade does not depend on
// database-level foreign key enforcement.
func (r *projectRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&models.ProjectTag{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Project{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Project", id)
		}
		return models.NewInternalError(err)
	}
	cache.InvalidateProject(ctx, id)
	return nil
}

// IncrementViews bumps the view counter without touching updated_at. The
// cached project payload is allowed to lag on views, so no invalidation.
func (r *projectRepository) IncrementViews(ctx context.Context, id uint) error {
	defer dbMetrics.TrackQuery("increment_views", "projects")()

	if err := r.db.WithContext(ctx).Model(&models.Project{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + 1")).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *projectRepository) Similar(ctx context.Context, projectID uint, limit int) ([]*models.Project, error) {
	var projects []*models.Project

	err := cache.Aside(ctx, cache.SimilarKey(projectID), &projects, cache.ProjectTTL, func() error {
		return readDB(r.db).WithContext(ctx).
			Where("projects.status = ?", models.StatusPublished).
			Where("projects.id <> ?", projectID).
			Where(`(projects.category_id IS NOT NULL AND projects.category_id = (SELECT p.category_id FROM projects p WHERE p.id = ?))
				OR projects.id IN (SELECT pt2.project_id FROM project_tags pt1 JOIN project_tags pt2 ON pt1.tag_id = pt2.tag_id WHERE pt1.project_id = ?)`,
				projectID, projectID).
			Order("likes_count DESC, created_at DESC").
			Limit(limit).
			Preload("Category").
			Preload("Tags").
			Find(&projects).Error
	})
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return projects, nil
}

// LikedProjectIDs returns the subset of projectIDs the user has liked. Used to
// re-apply viewer state onto cached listings.
func (r *projectRepository) LikedProjectIDs(ctx context.Context, userID string, projectIDs []uint) ([]uint, error) {
	if len(projectIDs) == 0 {
		return nil, nil
	}
	var likedIDs []uint
	err := readDB(r.db).WithContext(ctx).
		Model(&models.Like{}).
		Where("user_id = ? AND project_id IN ?", userID, projectIDs).
		Pluck("project_id", &likedIDs).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return likedIDs, nil
}

// ToggleLike flips the (user, project) like and recomputes the materialized
// likes_count from the likes table inside the same transaction, so concurrent
// toggles never leave the count inconsistent with the rows. The project row
// lock is taken first so the recount sees every committed concurrent toggle.
// Returns the resulting liked state and count.
func (r *projectRepository) ToggleLike(ctx context.Context, userID string, projectID uint) (bool, int, error) {
	defer dbMetrics.TrackQuery("toggle_like", "likes")()

	var liked bool
	var likesCount int
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockProjectRow(tx, projectID); err != nil {
			return err
		}
		res := tx.Exec(`DELETE FROM likes WHERE user_id = ? AND project_id = ?`, userID, projectID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Nothing to remove, so this toggle is an insert. ON CONFLICT
			// absorbs a racing duplicate toggle from the same user.
			if err := tx.Exec(
				`INSERT INTO likes (user_id, project_id, created_at) VALUES (?, ?, ?) ON CONFLICT (user_id, project_id) DO NOTHING`,
				userID, projectID, time.Now(),
			).Error; err != nil {
				return err
			}
			liked = true
		}
		return tx.Raw(
			`UPDATE projects SET likes_count = (SELECT COUNT(*) FROM likes WHERE likes.project_id = projects.id) WHERE id = ? RETURNING likes_count`,
			projectID,
		).Scan(&likesCount).Error
	})
	if err != nil {
		return false, 0, models.NewInternalError(err)
	}

	cache.InvalidateProject(ctx, projectID)
	return liked, likesCount, nil
}
