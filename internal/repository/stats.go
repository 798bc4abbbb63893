package repository

import (
	"context"

	"github.com/pe-odake/Portifolio-Web/internal/models"

	"gorm.io/gorm"
)

// DashboardStats aggregates the counters shown on the admin dashboard.
type DashboardStats struct {
	TotalProjects     int64 `json:"total_projects"`
	PublishedProjects int64 `json:"published_projects"`
	DraftProjects     int64 `json:"draft_projects"`
	TotalUsers        int64 `json:"total_users"`
	TotalComments     int64 `json:"total_comments"`
	TotalLikes        int64 `json:"total_likes"`
	TotalViews        int64 `json:"total_views"`
}

// ProfileStats aggregates a single user's interaction counts.
type ProfileStats struct {
	Projects   int64 `json:"projects"`
	Comments   int64 `json:"comments"`
	LikesGiven int64 `json:"likes_given"`
}

// StatsRepository serves aggregate queries for the dashboard and profiles.
type StatsRepository interface {
	Dashboard(ctx context.Context) (*DashboardStats, error)
	RecentProjects(ctx context.Context, limit int) ([]*models.Project, error)
	RecentComments(ctx context.Context, limit int) ([]*models.Comment, error)
	Profile(ctx context.Context, userID string) (*ProfileStats, error)
}

type statsRepository struct {
	db *gorm.DB
}

// NewStatsRepository creates a new StatsRepository.
func NewStatsRepository(db *gorm.DB) StatsRepository {
	return &statsRepository{db: db}
}

func (r *statsRepository) Dashboard(ctx context.Context) (*DashboardStats, error) {
	defer dbMetrics.TrackQuery("dashboard", "projects")()

	db := readDB(r.db).WithContext(ctx)
	var stats DashboardStats

	if err := db.Model(&models.Project{}).Count(&stats.TotalProjects).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	if err := db.Model(&models.Project{}).Where("status = ?", models.StatusPublished).Count(&stats.PublishedProjects).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	if err := db.Model(&models.Project{}).Where("status = ?", models.StatusDraft).Count(&stats.DraftProjects).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	if err := db.Model(&models.User{}).Count(&stats.TotalUsers).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	if err := db.Model(&models.Comment{}).Count(&stats.TotalComments).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	if err := db.Model(&models.Like{}).Count(&stats.TotalLikes).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	if err := db.Model(&models.Project{}).
		Select("COALESCE(SUM(views), 0)").
		Scan(&stats.TotalViews).Error; err != nil {
		return nil, models.NewInternalError(err)
	}

	return &stats, nil
}

func (r *statsRepository) RecentProjects(ctx context.Context, limit int) ([]*models.Project, error) {
	var projects []*models.Project
	err := readDB(r.db).WithContext(ctx).
		Preload("Category").
		Order("created_at desc").
		Limit(limit).
		Find(&projects).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return projects, nil
}

func (r *statsRepository) RecentComments(ctx context.Context, limit int) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := readDB(r.db).WithContext(ctx).
		Preload("User").
		Preload("Project").
		Order("created_at desc").
		Limit(limit).
		Find(&comments).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return comments, nil
}

func (r *statsRepository) Profile(ctx context.Context, userID string) (*ProfileStats, error) {
	db := readDB(r.db).WithContext(ctx)
	var stats ProfileStats

	if err := db.Model(&models.Project{}).Where("author_id = ?", userID).Count(&stats.Projects).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	if err := db.Model(&models.Comment{}).Where("user_id = ?", userID).Count(&stats.Comments).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	if err := db.Model(&models.Like{}).Where("user_id = ?", userID).Count(&stats.LikesGiven).Error; err != nil {
		return nil, models.NewInternalError(err)
	}

	return &stats, nil
}
