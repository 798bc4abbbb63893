package service

import (
	"context"
	"fmt"

	"github.com/pe-odake/Portifolio-Web/internal/middleware"
	"github.com/pe-odake/Portifolio-Web/internal/models"
	"github.com/pe-odake/Portifolio-Web/internal/observability"
	"github.com/pe-odake/Portifolio-Web/internal/repository"
)

type LikeService struct {
	projectRepo repository.ProjectRepository
	userRepo    repository.UserRepository
	notify      NotifyFunc
}

type ToggleLikeInput struct {
	UserID    string
	ProjectID uint
}

type ToggleLikeResult struct {
	Liked      bool `json:"liked"`
	LikesCount int  `json:"likes_count"`
}

func NewLikeService(
	projectRepo repository.ProjectRepository,
	userRepo repository.UserRepository,
	notify NotifyFunc,
) *LikeService {
	return &LikeService{
		projectRepo: projectRepo,
		userRepo:    userRepo,
		notify:      notify,
	}
}

// ToggleLike flips the caller's like on a project they can see and returns
// the resulting state. A fresh like on someone else's project notifies its
// author; unliking never does.
func (s *LikeService) ToggleLike(ctx context.Context, in ToggleLikeInput) (*ToggleLikeResult, error) {
	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	project, err := s.projectRepo.GetByID(ctx, in.ProjectID, "")
	if err != nil {
		return nil, err
	}
	if !project.VisibleTo(user) {
		// Invisible projects read as absent so drafts do not leak.
		return nil, models.NewNotFoundError("Project", in.ProjectID)
	}

	liked, likesCount, err := s.projectRepo.ToggleLike(ctx, in.UserID, in.ProjectID)
	if err != nil {
		return nil, err
	}

	action := "unlike"
	if liked {
		action = "like"
	}
	observability.LikesToggled.WithLabelValues(action).Inc()

	if liked && project.AuthorID != user.ID && s.notify != nil {
		err := s.notify(ctx, NotifyInput{
			UserID:  project.AuthorID,
			Title:   "New Like",
			Message: fmt.Sprintf("%s liked your project '%s'", user.DisplayName(), project.Title),
			Type:    models.NotificationSuccess,
		})
		if err != nil {
			middleware.Logger.WarnContext(ctx, "Like notification failed",
				"project_id", project.ID,
				"error", err,
			)
		}
	}

	return &ToggleLikeResult{Liked: liked, LikesCount: likesCount}, nil
}
