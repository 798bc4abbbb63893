package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/pe-odake/Portifolio-Web/internal/middleware"
	"github.com/pe-odake/Portifolio-Web/internal/models"
	"github.com/pe-odake/Portifolio-Web/internal/observability"
	"github.com/pe-odake/Portifolio-Web/internal/repository"
)

type CommentService struct {
	commentRepo repository.CommentRepository
	projectRepo repository.ProjectRepository
	userRepo    repository.UserRepository
	notify      NotifyFunc
}

type CreateCommentInput struct {
	UserID    string
	ProjectID uint
	Content   string
}

type ListCommentsInput struct {
	ProjectID uint
	ViewerID  string
	Limit     int
	Offset    int
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	projectRepo repository.ProjectRepository,
	userRepo repository.UserRepository,
	notify NotifyFunc,
) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		projectRepo: projectRepo,
		userRepo:    userRepo,
		notify:      notify,
	}
}

// CreateComment validates and stores a comment on a project the caller can
// see. A comment on someone else's project notifies its author.
func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(content) > models.MaxCommentLength {
		return nil, models.NewValidationError(fmt.Sprintf("Comment too long (max %d characters)", models.MaxCommentLength))
	}

	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	project, err := s.projectRepo.GetByID(ctx, in.ProjectID, "")
	if err != nil {
		return nil, err
	}
	if !project.VisibleTo(user) {
		return nil, models.NewNotFoundError("Project", in.ProjectID)
	}

	comment := &models.Comment{
		Content:   content,
		UserID:    in.UserID,
		ProjectID: in.ProjectID,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	observability.CommentsCreated.Inc()

	if project.AuthorID != user.ID && s.notify != nil {
		err := s.notify(ctx, NotifyInput{
			UserID:  project.AuthorID,
			Title:   "New Comment",
			Message: fmt.Sprintf("%s commented on your project '%s'", user.DisplayName(), project.Title),
			Type:    models.NotificationInfo,
		})
		if err != nil {
			middleware.Logger.WarnContext(ctx, "Comment notification failed",
				"project_id", project.ID,
				"error", err,
			)
		}
	}

	return s.commentRepo.GetByID(ctx, comment.ID)
}

// ListComments returns a project's comments, newest first, honoring the
// same visibility rule as the detail page.
func (s *CommentService) ListComments(ctx context.Context, in ListCommentsInput) ([]*models.Comment, error) {
	var viewer *models.User
	if in.ViewerID != "" {
		u, err := s.userRepo.GetByID(ctx, in.ViewerID)
		if err != nil {
			return nil, err
		}
		viewer = u
	}

	project, err := s.projectRepo.GetByID(ctx, in.ProjectID, "")
	if err != nil {
		return nil, err
	}
	if !project.VisibleTo(viewer) {
		return nil, models.NewNotFoundError("Project", in.ProjectID)
	}

	return s.commentRepo.ListByProject(ctx, in.ProjectID, in.Limit, in.Offset)
}
