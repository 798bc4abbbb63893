package service

import (
	"context"
	"errors"
	"testing"

	"github.com/pe-odake/Portifolio-Web/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLikeService_ToggleLike_FirstLikeNotifiesAuthor(t *testing.T) {
	t.Parallel()

	projectRepo := noopProjectRepo()
	projectRepo.getByIDFn = func(_ context.Context, id uint, _ string) (*models.Project, error) {
		return &models.Project{ID: id, Title: "Demo", Status: models.StatusPublished, AuthorID: "author"}, nil
	}
	projectRepo.toggleLikeFn = func(_ context.Context, _ string, _ uint) (bool, int, error) {
		return true, 1, nil
	}

	var notified []NotifyInput
	notify := func(_ context.Context, in NotifyInput) error {
		notified = append(notified, in)
		return nil
	}

	svc := NewLikeService(projectRepo, noopUserRepo(), notify)
	result, err := svc.ToggleLike(context.Background(), ToggleLikeInput{UserID: "u1", ProjectID: 1})
	require.NoError(t, err)
	assert.True(t, result.Liked)
	assert.Equal(t, 1, result.LikesCount)

	require.Len(t, notified, 1)
	assert.Equal(t, "author", notified[0].UserID)
	assert.Equal(t, models.NotificationSuccess, notified[0].Type)
}

func TestLikeService_ToggleLike_UnlikeDoesNotNotify(t *testing.T) {
	t.Parallel()

	projectRepo := noopProjectRepo()
	projectRepo.toggleLikeFn = func(_ context.Context, _ string, _ uint) (bool, int, error) {
		return false, 0, nil
	}

	notified := 0
	notify := func(_ context.Context, _ NotifyInput) error {
		notified++
		return nil
	}

	svc := NewLikeService(projectRepo, noopUserRepo(), notify)
	result, err := svc.ToggleLike(context.Background(), ToggleLikeInput{UserID: "u1", ProjectID: 1})
	require.NoError(t, err)
	assert.False(t, result.Liked)
	assert.Zero(t, result.LikesCount)
	assert.Zero(t, notified)
}

func TestLikeService_ToggleLike_OwnProjectDoesNotNotify(t *testing.T) {
	t.Parallel()

	projectRepo := noopProjectRepo()
	projectRepo.getByIDFn = func(_ context.Context, id uint, _ string) (*models.Project, error) {
		return &models.Project{ID: id, Status: models.StatusPublished, AuthorID: "u1"}, nil
	}

	notified := 0
	notify := func(_ context.Context, _ NotifyInput) error {
		notified++
		return nil
	}

	svc := NewLikeService(projectRepo, noopUserRepo(), notify)
	result, err := svc.ToggleLike(context.Background(), ToggleLikeInput{UserID: "u1", ProjectID: 1})
	require.NoError(t, err)
	assert.True(t, result.Liked)
	assert.Zero(t, notified)
}

func TestLikeService_ToggleLike_DraftReadsAsMissing(t *testing.T) {
	t.Parallel()

	projectRepo := noopProjectRepo()
	projectRepo.getByIDFn = func(_ context.Context, id uint, _ string) (*models.Project, error) {
		return &models.Project{ID: id, Status: models.StatusDraft, AuthorID: "author"}, nil
	}

	svc := NewLikeService(projectRepo, noopUserRepo(), nil)
	_, err := svc.ToggleLike(context.Background(), ToggleLikeInput{UserID: "u1", ProjectID: 1})
	assertNotFoundError(t, err)
}

func TestLikeService_ToggleLike_RepoErrorPropagates(t *testing.T) {
	t.Parallel()

	repoErr := errors.New("deadlock")
	projectRepo := noopProjectRepo()
	projectRepo.toggleLikeFn = func(_ context.Context, _ string, _ uint) (bool, int, error) {
		return false, 0, repoErr
	}

	svc := NewLikeService(projectRepo, noopUserRepo(), nil)
	_, err := svc.ToggleLike(context.Background(), ToggleLikeInput{UserID: "u1", ProjectID: 1})
	assert.ErrorIs(t, err, repoErr)
}

func TestLikeService_ToggleLike_NotifyFailureIsNonFatal(t *testing.T) {
	t.Parallel()

	notify := func(_ context.Context, _ NotifyInput) error {
		return errors.New("publish failed")
	}

	svc := NewLikeService(noopProjectRepo(), noopUserRepo(), notify)
	result, err := svc.ToggleLike(context.Background(), ToggleLikeInput{UserID: "u1", ProjectID: 1})
	require.NoError(t, err)
	assert.True(t, result.Liked)
}
