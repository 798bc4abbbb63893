package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/pe-odake/Portifolio-Web/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by seed presets and tests.
type Factory struct {
	db   *gorm.DB
	opts Options
	// synthetic ID counter when running in DryRun mode
	nextID uint
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	// seed gofakeit for richer content
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{db: db, opts: opts, nextID: 1000}
}

// CreateUser constructs and persists a sample `models.User`.
// Optional override functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	user := &models.User{
		ID:        "demo|" + uuid.NewString(),
		Name:      gofakeit.Name(),
		Email:     gofakeit.Email(),
		AvatarURL: fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
		Role:      models.RoleMember,
	}

	for _, override := range overrides {
		override(user)
	}

	if f.opts.DryRun {
		log.Printf("[dry-run] CreateUser: %s <%s>", user.Name, user.Email)
		return user, nil
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// BuildProject constructs a project struct populated like CreateProject
// but does not persist it. Useful for batching and tests.
func (f *Factory) BuildProject(author *models.User, category *models.Category, tags []models.Tag, overrides ...func(*models.Project)) *models.Project {
	project := &models.Project{
		Title:       gofakeit.Sentence(4),
		Description: gofakeit.Sentence(12),
		Content:     gofakeit.Paragraph(2, 4, 8, "\n\n"),
		ImageURL:    fmt.Sprintf("https://picsum.photos/seed/%s/800/450", gofakeit.UUID()),
		GithubURL:   fmt.Sprintf("https://github.com/%s/%s", gofakeit.Username(), gofakeit.Word()),
		Status:      models.StatusPublished,
		AuthorID:    author.ID,
		Tags:        tags,
	}
	if category != nil {
		project.CategoryID = &category.ID
	}

	// realistic created_at spread
	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 90
	}
	//nolint:gosec // weak randomness is fine for seeding
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	daysBack := r.Intn(maxDays)
	hoursBack := r.Intn(24)
	minsBack := r.Intn(60)
	project.CreatedAt = time.Now().Add(-time.Duration(daysBack)*24*time.Hour - time.Duration(hoursBack)*time.Hour - time.Duration(minsBack)*time.Minute)

	// a sprinkling of drafts, demos, and featured entries
	switch {
	case r.Float32() < 0.15:
		project.Status = models.StatusDraft
	case r.Float32() < 0.10:
		project.Status = models.StatusArchived
	}
	if project.Status == models.StatusPublished {
		project.Featured = r.Float32() < 0.2
		project.Views = r.Intn(2000)
	}
	if r.Float32() < 0.5 {
		project.DemoURL = gofakeit.URL()
	}

	for _, override := range overrides {
		override(project)
	}
	return project
}

// CreateProject constructs and persists a sample `models.Project`.
func (f *Factory) CreateProject(author *models.User, category *models.Category, tags []models.Tag, overrides ...func(*models.Project)) (*models.Project, error) {
	project := f.BuildProject(author, category, tags, overrides...)

	if f.opts.DryRun {
		f.nextID++
		project.ID = f.nextID
		log.Printf("[dry-run] CreateProject: status=%s title=%q", project.Status, project.Title)
		return project, nil
	}

	if err := f.db.Create(project).Error; err != nil {
		return nil, err
	}
	return project, nil
}

// CreateComment constructs and persists a sample `models.Comment` on the
// provided project authored by the provided user.
func (f *Factory) CreateComment(user *models.User, project *models.Project, overrides ...func(*models.Comment)) (*models.Comment, error) {
	comment := &models.Comment{
		Content:   gofakeit.Sentence(8),
		UserID:    user.ID,
		ProjectID: project.ID,
	}

	for _, override := range overrides {
		override(comment)
	}

	if f.opts.DryRun {
		f.nextID++
		comment.ID = f.nextID
		return comment, nil
	}

	if err := f.db.Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

// CreateLike persists a like from `user` on `project`. Duplicate pairs
// are skipped rather than failed so callers can be sloppy about
// sampling.
func (f *Factory) CreateLike(user *models.User, project *models.Project) error {
	if f.opts.DryRun {
		return nil
	}
	like := &models.Like{
		UserID:    user.ID,
		ProjectID: project.ID,
	}
	return f.db.Where(models.Like{UserID: user.ID, ProjectID: project.ID}).
		FirstOrCreate(like).Error
}

// CreateNotification persists a notification for `user`.
func (f *Factory) CreateNotification(user *models.User, overrides ...func(*models.Notification)) (*models.Notification, error) {
	notification := &models.Notification{
		Title:   "New like",
		Message: fmt.Sprintf("%s liked your project", gofakeit.Name()),
		Type:    models.NotificationInfo,
		UserID:  user.ID,
	}

	for _, override := range overrides {
		override(notification)
	}

	if f.opts.DryRun {
		f.nextID++
		notification.ID = f.nextID
		return notification, nil
	}

	if err := f.db.Create(notification).Error; err != nil {
		return nil, err
	}
	return notification, nil
}
