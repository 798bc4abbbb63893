package service

import (
	"context"
	"errors"
	"testing"

	"github.com/pe-odake/Portifolio-Web/internal/models"
	"github.com/pe-odake/Portifolio-Web/internal/repository"
)

func assertAppError(t *testing.T, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", code)
	}
	var appErr *models.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *models.AppError, got %T: %v", err, err)
	}
	if appErr.Code != code {
		t.Fatalf("expected code %s, got %s (%v)", code, appErr.Code, err)
	}
}

func assertValidationError(t *testing.T, err error) {
	t.Helper()
	assertAppError(t, err, "VALIDATION_ERROR")
}

func assertUnauthorizedError(t *testing.T, err error) {
	t.Helper()
	assertAppError(t, err, "UNAUTHORIZED")
}

func assertNotFoundError(t *testing.T, err error) {
	t.Helper()
	assertAppError(t, err, "NOT_FOUND")
}

// projectRepoStub is a stub for repository.ProjectRepository.
type projectRepoStub struct {
	listFn            func(context.Context, repository.ProjectFilters) ([]*models.Project, int64, error)
	getByIDFn         func(context.Context, uint, string) (*models.Project, error)
	createFn          func(context.Context, *models.Project) error
	updateFn          func(context.Context, *models.Project) error
	deleteFn          func(context.Context, uint) error
	incrementViewsFn  func(context.Context, uint) error
	similarFn         func(context.Context, uint, int) ([]*models.Project, error)
	toggleLikeFn      func(context.Context, string, uint) (bool, int, error)
	likedProjectIDsFn func(context.Context, string, []uint) ([]uint, error)
}

func (s *projectRepoStub) List(ctx context.Context, filters repository.ProjectFilters) ([]*models.Project, int64, error) {
	return s.listFn(ctx, filters)
}
func (s *projectRepoStub) GetByID(ctx context.Context, id uint, viewerID string) (*models.Project, error) {
	return s.getByIDFn(ctx, id, viewerID)
}
func (s *projectRepoStub) Create(ctx context.Context, project *models.Project) error {
	return s.createFn(ctx, project)
}
func (s *projectRepoStub) Update(ctx context.Context, project *models.Project) error {
	return s.updateFn(ctx, project)
}
func (s *projectRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *projectRepoStub) IncrementViews(ctx context.Context, id uint) error {
	return s.incrementViewsFn(ctx, id)
}
func (s *projectRepoStub) Similar(ctx context.Context, projectID uint, limit int) ([]*models.Project, error) {
	return s.similarFn(ctx, projectID, limit)
}
func (s *projectRepoStub) ToggleLike(ctx context.Context, userID string, projectID uint) (bool, int, error) {
	return s.toggleLikeFn(ctx, userID, projectID)
}
func (s *projectRepoStub) LikedProjectIDs(ctx context.Context, userID string, projectIDs []uint) ([]uint, error) {
	return s.likedProjectIDsFn(ctx, userID, projectIDs)
}

func noopProjectRepo() *projectRepoStub {
	return &projectRepoStub{
		listFn: func(_ context.Context, _ repository.ProjectFilters) ([]*models.Project, int64, error) {
			return nil, 0, nil
		},
		getByIDFn: func(_ context.Context, id uint, _ string) (*models.Project, error) {
			return &models.Project{ID: id, Status: models.StatusPublished, AuthorID: "author"}, nil
		},
		createFn:         func(_ context.Context, _ *models.Project) error { return nil },
		updateFn:         func(_ context.Context, _ *models.Project) error { return nil },
		deleteFn:         func(_ context.Context, _ uint) error { return nil },
		incrementViewsFn: func(_ context.Context, _ uint) error { return nil },
		similarFn:        func(_ context.Context, _ uint, _ int) ([]*models.Project, error) { return nil, nil },
		toggleLikeFn:     func(_ context.Context, _ string, _ uint) (bool, int, error) { return true, 1, nil },
		likedProjectIDsFn: func(_ context.Context, _ string, _ []uint) ([]uint, error) {
			return nil, nil
		},
	}
}

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	getByIDFn    func(context.Context, string) (*models.User, error)
	getByEmailFn func(context.Context, string) (*models.User, error)
	ensureFn     func(context.Context, *models.User) (*models.User, error)
	updateFn     func(context.Context, *models.User) error
	listFn       func(context.Context, int, int) ([]models.User, error)
	countFn      func(context.Context) (int64, error)
}

func (s *userRepoStub) GetByID(ctx context.Context, id string) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) Ensure(ctx context.Context, user *models.User) (*models.User, error) {
	return s.ensureFn(ctx, user)
}
func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}
func (s *userRepoStub) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	return s.listFn(ctx, limit, offset)
}
func (s *userRepoStub) Count(ctx context.Context) (int64, error) {
	return s.countFn(ctx)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn: func(_ context.Context, id string) (*models.User, error) {
			return &models.User{ID: id, Name: "Test User", Role: models.RoleMember}, nil
		},
		getByEmailFn: func(_ context.Context, _ string) (*models.User, error) {
			return nil, models.NewNotFoundError("User", "email")
		},
		ensureFn: func(_ context.Context, u *models.User) (*models.User, error) { return u, nil },
		updateFn: func(_ context.Context, _ *models.User) error { return nil },
		listFn:   func(_ context.Context, _, _ int) ([]models.User, error) { return nil, nil },
		countFn:  func(_ context.Context) (int64, error) { return 0, nil },
	}
}

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	createFn        func(context.Context, *models.Comment) error
	getByIDFn       func(context.Context, uint) (*models.Comment, error)
	listByProjectFn func(context.Context, uint, int, int) ([]*models.Comment, error)
}

func (s *commentRepoStub) Create(ctx context.Context, comment *models.Comment) error {
	return s.createFn(ctx, comment)
}
func (s *commentRepoStub) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	return s.getByIDFn(ctx, id)
}
func (s *commentRepoStub) ListByProject(ctx context.Context, projectID uint, limit, offset int) ([]*models.Comment, error) {
	return s.listByProjectFn(ctx, projectID, limit, offset)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn:  func(_ context.Context, _ *models.Comment) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Comment, error) { return &models.Comment{ID: id}, nil },
		listByProjectFn: func(_ context.Context, _ uint, _, _ int) ([]*models.Comment, error) {
			return nil, nil
		},
	}
}

// notificationRepoStub is a stub for repository.NotificationRepository.
type notificationRepoStub struct {
	createFn      func(context.Context, *models.Notification) error
	getByIDFn     func(context.Context, uint) (*models.Notification, error)
	listFn        func(context.Context, string, bool, int, int) ([]*models.Notification, error)
	unreadCountFn func(context.Context, string) (int64, error)
	markReadFn    func(context.Context, uint) error
	markAllReadFn func(context.Context, string) error
}

func (s *notificationRepoStub) Create(ctx context.Context, n *models.Notification) error {
	return s.createFn(ctx, n)
}
func (s *notificationRepoStub) GetByID(ctx context.Context, id uint) (*models.Notification, error) {
	return s.getByIDFn(ctx, id)
}
func (s *notificationRepoStub) List(ctx context.Context, userID string, onlyUnread bool, limit, offset int) ([]*models.Notification, error) {
	return s.listFn(ctx, userID, onlyUnread, limit, offset)
}
func (s *notificationRepoStub) UnreadCount(ctx context.Context, userID string) (int64, error) {
	return s.unreadCountFn(ctx, userID)
}
func (s *notificationRepoStub) MarkRead(ctx context.Context, id uint) error {
	return s.markReadFn(ctx, id)
}
func (s *notificationRepoStub) MarkAllRead(ctx context.Context, userID string) error {
	return s.markAllReadFn(ctx, userID)
}

func noopNotificationRepo() *notificationRepoStub {
	return &notificationRepoStub{
		createFn: func(_ context.Context, _ *models.Notification) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Notification, error) {
			return &models.Notification{ID: id}, nil
		},
		listFn: func(_ context.Context, _ string, _ bool, _, _ int) ([]*models.Notification, error) {
			return nil, nil
		},
		unreadCountFn: func(_ context.Context, _ string) (int64, error) { return 0, nil },
		markReadFn:    func(_ context.Context, _ uint) error { return nil },
		markAllReadFn: func(_ context.Context, _ string) error { return nil },
	}
}

// categoryRepoStub is a stub for repository.CategoryRepository.
type categoryRepoStub struct {
	listFn         func(context.Context) ([]models.Category, error)
	getByIDFn      func(context.Context, uint) (*models.Category, error)
	findOrCreateFn func(context.Context, string, string) (*models.Category, error)
}

func (s *categoryRepoStub) List(ctx context.Context) ([]models.Category, error) {
	return s.listFn(ctx)
}
func (s *categoryRepoStub) GetByID(ctx context.Context, id uint) (*models.Category, error) {
	return s.getByIDFn(ctx, id)
}
func (s *categoryRepoStub) FindOrCreate(ctx context.Context, name, color string) (*models.Category, error) {
	return s.findOrCreateFn(ctx, name, color)
}

func noopCategoryRepo() *categoryRepoStub {
	return &categoryRepoStub{
		listFn: func(_ context.Context) ([]models.Category, error) { return nil, nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Category, error) {
			return &models.Category{ID: id}, nil
		},
		findOrCreateFn: func(_ context.Context, name, color string) (*models.Category, error) {
			return &models.Category{ID: 1, Name: name, Color: color}, nil
		},
	}
}

// tagRepoStub is a stub for repository.TagRepository.
type tagRepoStub struct {
	listFn         func(context.Context) ([]models.Tag, error)
	findOrCreateFn func(context.Context, string) (*models.Tag, error)
	resolveNamesFn func(context.Context, []string) ([]models.Tag, error)
}

func (s *tagRepoStub) List(ctx context.Context) ([]models.Tag, error) {
	return s.listFn(ctx)
}
func (s *tagRepoStub) FindOrCreate(ctx context.Context, name string) (*models.Tag, error) {
	return s.findOrCreateFn(ctx, name)
}
func (s *tagRepoStub) ResolveNames(ctx context.Context, names []string) ([]models.Tag, error) {
	return s.resolveNamesFn(ctx, names)
}

func noopTagRepo() *tagRepoStub {
	return &tagRepoStub{
		listFn:         func(_ context.Context) ([]models.Tag, error) { return nil, nil },
		findOrCreateFn: func(_ context.Context, name string) (*models.Tag, error) { return &models.Tag{Name: name}, nil },
		resolveNamesFn: func(_ context.Context, names []string) ([]models.Tag, error) {
			tags := make([]models.Tag, len(names))
			for i, name := range names {
				tags[i] = models.Tag{ID: uint(i + 1), Name: name}
			}
			return tags, nil
		},
	}
}

// aboutRepoStub is a stub for repository.AboutRepository.
type aboutRepoStub struct {
	getFn    func(context.Context) (*models.About, error)
	updateFn func(context.Context, *models.About) error
}

func (s *aboutRepoStub) Get(ctx context.Context) (*models.About, error) {
	return s.getFn(ctx)
}
func (s *aboutRepoStub) Update(ctx context.Context, about *models.About) error {
	return s.updateFn(ctx, about)
}

func noopAboutRepo() *aboutRepoStub {
	return &aboutRepoStub{
		getFn:    func(_ context.Context) (*models.About, error) { return &models.About{ID: 1}, nil },
		updateFn: func(_ context.Context, _ *models.About) error { return nil },
	}
}

// statsRepoStub is a stub for repository.StatsRepository.
type statsRepoStub struct {
	dashboardFn      func(context.Context) (*repository.DashboardStats, error)
	recentProjectsFn func(context.Context, int) ([]*models.Project, error)
	recentCommentsFn func(context.Context, int) ([]*models.Comment, error)
	profileFn        func(context.Context, string) (*repository.ProfileStats, error)
}

func (s *statsRepoStub) Dashboard(ctx context.Context) (*repository.DashboardStats, error) {
	return s.dashboardFn(ctx)
}
func (s *statsRepoStub) RecentProjects(ctx context.Context, limit int) ([]*models.Project, error) {
	return s.recentProjectsFn(ctx, limit)
}
func (s *statsRepoStub) RecentComments(ctx context.Context, limit int) ([]*models.Comment, error) {
	return s.recentCommentsFn(ctx, limit)
}
func (s *statsRepoStub) Profile(ctx context.Context, userID string) (*repository.ProfileStats, error) {
	return s.profileFn(ctx, userID)
}

func noopStatsRepo() *statsRepoStub {
	return &statsRepoStub{
		dashboardFn: func(_ context.Context) (*repository.DashboardStats, error) {
			return &repository.DashboardStats{}, nil
		},
		recentProjectsFn: func(_ context.Context, _ int) ([]*models.Project, error) { return nil, nil },
		recentCommentsFn: func(_ context.Context, _ int) ([]*models.Comment, error) { return nil, nil },
		profileFn: func(_ context.Context, _ string) (*repository.ProfileStats, error) {
			return &repository.ProfileStats{}, nil
		},
	}
}

func staffAlways(_ context.Context, _ string) (bool, error) { return true, nil }
func staffNever(_ context.Context, _ string) (bool, error)  { return false, nil }
