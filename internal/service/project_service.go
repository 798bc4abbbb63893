package service

import (
	"context"
	"errors"
	"strings"

	"github.com/pe-odake/Portifolio-Web/internal/cache"
	"github.com/pe-odake/Portifolio-Web/internal/middleware"
	"github.com/pe-odake/Portifolio-Web/internal/models"
	"github.com/pe-odake/Portifolio-Web/internal/observability"
	"github.com/pe-odake/Portifolio-Web/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

// Page sizes and section limits, matching the site's grids.
const (
	BrowsePageSize = 9
	AdminPageSize  = 10

	homeFeaturedLimit = 3
	homeLatestLimit   = 6
	homePopularLimit  = 3
	similarLimit      = 3
)

const maxTitleLength = 200

// StaffFunc resolves whether a user may manage site content. Services
// receive it as an injected capability instead of depending on UserService.
type StaffFunc func(ctx context.Context, userID string) (bool, error)

func requireStaff(ctx context.Context, check StaffFunc, userID string) error {
	if userID == "" {
		return models.NewUnauthorizedError("Authentication required")
	}
	if check == nil {
		return models.NewUnauthorizedError("This action is staff-only")
	}
	staff, err := check(ctx, userID)
	if err != nil {
		return err
	}
	if !staff {
		return models.NewUnauthorizedError("This action is staff-only")
	}
	return nil
}

type ProjectService struct {
	projectRepo  repository.ProjectRepository
	categoryRepo repository.CategoryRepository
	tagRepo      repository.TagRepository
	isStaff      StaffFunc
}

type BrowseProjectsInput struct {
	CategoryID uint
	Tag        string
	Search     string
	Sort       string // latest | popular | views
	Page       int
	ViewerID   string
}

// ProjectPage is one page of a listing plus its pagination envelope.
type ProjectPage struct {
	Projects   []*models.Project `json:"projects"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	PerPage    int               `json:"per_page"`
	TotalPages int               `json:"total_pages"`
}

// HomeData carries the three highlight sections of the landing page.
type HomeData struct {
	Featured []*models.Project `json:"featured"`
	Latest   []*models.Project `json:"latest"`
	Popular  []*models.Project `json:"popular"`
}

type CreateProjectInput struct {
	ActorID     string
	Title       string
	Description string
	Content     string
	GithubURL   string
	DemoURL     string
	ImageURL    string
	Status      string
	Featured    bool
	CategoryID  *uint
	Tags        []string
}

// UpdateProjectInput replaces a project's editable fields. CategoryID nil
// keeps the current category and pointer-to-zero clears it; Tags nil keeps
// the current set and an empty slice clears it.
type UpdateProjectInput struct {
	ActorID     string
	ProjectID   uint
	Title       string
	Description string
	Content     string
	GithubURL   string
	DemoURL     string
	ImageURL    string
	Status      string
	Featured    bool
	CategoryID  *uint
	Tags        []string
}

type DeleteProjectInput struct {
	ActorID   string
	ProjectID uint
}

type AdminListProjectsInput struct {
	ActorID string
	Status  string
	Page    int
}

func NewProjectService(
	projectRepo repository.ProjectRepository,
	categoryRepo repository.CategoryRepository,
	tagRepo repository.TagRepository,
	isStaff StaffFunc,
) *ProjectService {
	return &ProjectService{
		projectRepo:  projectRepo,
		categoryRepo: categoryRepo,
		tagRepo:      tagRepo,
		isStaff:      isStaff,
	}
}

// projectListPayload is the cached shape of the default browse page.
type projectListPayload struct {
	Projects []*models.Project `json:"projects"`
	Total    int64             `json:"total"`
}

// Browse returns one page of published projects. The unfiltered first page
// is the hottest read, so it is served from cache and the viewer's liked
// state is layered back on top.
func (s *ProjectService) Browse(ctx context.Context, in BrowseProjectsInput) (*ProjectPage, error) {
	span, ctx := observability.NewSpan(ctx, "projects.browse")
	defer span.End()

	page := in.Page
	if page < 1 {
		page = 1
	}
	span.AddAttributes(
		attribute.Int("browse.page", page),
		attribute.String("browse.sort", in.Sort),
		attribute.String("browse.tag", in.Tag),
	)

	filters := repository.ProjectFilters{
		Status:     models.StatusPublished,
		CategoryID: in.CategoryID,
		Tag:        in.Tag,
		Search:     strings.TrimSpace(in.Search),
		Sort:       in.Sort,
		ViewerID:   in.ViewerID,
		Limit:      BrowsePageSize,
		Offset:     (page - 1) * BrowsePageSize,
	}

	if s.cacheableBrowse(in, filters) {
		var cached projectListPayload
		err := cache.Aside(ctx, cache.ProjectsListKey(), &cached, cache.ListTTL, func() error {
			anon := filters
			anon.ViewerID = ""
			projects, total, fetchErr := s.projectRepo.List(ctx, anon)
			if fetchErr != nil {
				return fetchErr
			}
			cached = projectListPayload{Projects: projects, Total: total}
			return nil
		})
		if err != nil {
			span.SetError(err)
			return nil, err
		}
		if in.ViewerID != "" {
			s.applyLiked(ctx, in.ViewerID, cached.Projects)
		}
		return newProjectPage(cached.Projects, cached.Total, page, BrowsePageSize), nil
	}

	projects, total, err := s.projectRepo.List(ctx, filters)
	if err != nil {
		span.SetError(err)
		return nil, err
	}
	return newProjectPage(projects, total, page, BrowsePageSize), nil
}

func (s *ProjectService) cacheableBrowse(in BrowseProjectsInput, filters repository.ProjectFilters) bool {
	return in.Page <= 1 &&
		filters.CategoryID == 0 &&
		filters.Tag == "" &&
		filters.Search == "" &&
		(filters.Sort == "" || filters.Sort == "latest")
}

// applyLiked re-applies the viewer's liked flags onto a cached listing.
// Failures degrade to liked=false rather than failing the page.
func (s *ProjectService) applyLiked(ctx context.Context, viewerID string, projects []*models.Project) {
	if len(projects) == 0 {
		return
	}
	ids := make([]uint, len(projects))
	for i, p := range projects {
		ids[i] = p.ID
	}
	likedIDs, err := s.projectRepo.LikedProjectIDs(ctx, viewerID, ids)
	if err != nil {
		middleware.Logger.WarnContext(ctx, "Liked-state enrichment failed", "error", err)
		return
	}
	likedMap := make(map[uint]bool, len(likedIDs))
	for _, id := range likedIDs {
		likedMap[id] = true
	}
	for _, p := range projects {
		p.Liked = likedMap[p.ID]
	}
}

func newProjectPage(projects []*models.Project, total int64, page, perPage int) *ProjectPage {
	totalPages := int((total + int64(perPage) - 1) / int64(perPage))
	return &ProjectPage{
		Projects:   projects,
		Total:      total,
		Page:       page,
		PerPage:    perPage,
		TotalPages: totalPages,
	}
}

// Home returns the landing page sections (featured, latest, popular), all
// published-only, served from one cached payload.
func (s *ProjectService) Home(ctx context.Context) (*HomeData, error) {
	var home HomeData
	err := cache.Aside(ctx, cache.HomeKey(), &home, cache.ListTTL, func() error {
		featured, _, err := s.projectRepo.List(ctx, repository.ProjectFilters{
			Status:       models.StatusPublished,
			FeaturedOnly: true,
			Limit:        homeFeaturedLimit,
		})
		if err != nil {
			return err
		}
		latest, _, err := s.projectRepo.List(ctx, repository.ProjectFilters{
			Status: models.StatusPublished,
			Limit:  homeLatestLimit,
		})
		if err != nil {
			return err
		}
		popular, _, err := s.projectRepo.List(ctx, repository.ProjectFilters{
			Status: models.StatusPublished,
			Sort:   "popular",
			Limit:  homePopularLimit,
		})
		if err != nil {
			return err
		}
		home = HomeData{Featured: featured, Latest: latest, Popular: popular}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &home, nil
}

// canView applies the visibility rule: published projects are public,
// drafts and archived projects belong to their author and staff.
func (s *ProjectService) canView(ctx context.Context, project *models.Project, viewerID string) (bool, error) {
	if project.IsPublished() {
		return true, nil
	}
	if viewerID == "" {
		return false, nil
	}
	if project.AuthorID == viewerID {
		return true, nil
	}
	if s.isStaff == nil {
		return false, nil
	}
	return s.isStaff(ctx, viewerID)
}

// GetProject returns a project visible to the viewer and bumps its view
// counter. The cached anonymous payload is allowed to lag on views.
func (s *ProjectService) GetProject(ctx context.Context, id uint, viewerID string) (*models.Project, error) {
	project, err := s.projectRepo.GetByID(ctx, id, viewerID)
	if err != nil {
		return nil, err
	}
	visible, err := s.canView(ctx, project, viewerID)
	if err != nil {
		return nil, err
	}
	if !visible {
		return nil, models.NewNotFoundError("Project", id)
	}

	if err := s.projectRepo.IncrementViews(ctx, id); err != nil {
		middleware.Logger.WarnContext(ctx, "View counter bump failed",
			"project_id", id,
			"error", err,
		)
	} else {
		project.Views++
		observability.ProjectViews.Inc()
	}
	return project, nil
}

// SimilarProjects returns published neighbors of a project sharing its
// category or tags.
func (s *ProjectService) SimilarProjects(ctx context.Context, id uint, viewerID string) ([]*models.Project, error) {
	project, err := s.projectRepo.GetByID(ctx, id, "")
	if err != nil {
		return nil, err
	}
	visible, err := s.canView(ctx, project, viewerID)
	if err != nil {
		return nil, err
	}
	if !visible {
		return nil, models.NewNotFoundError("Project", id)
	}
	return s.projectRepo.Similar(ctx, id, similarLimit)
}

func (s *ProjectService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.categoryRepo.List(ctx)
}

func (s *ProjectService) ListTags(ctx context.Context) ([]models.Tag, error) {
	return s.tagRepo.List(ctx)
}

func (s *ProjectService) CreateProject(ctx context.Context, in CreateProjectInput) (*models.Project, error) {
	if err := requireStaff(ctx, s.isStaff, in.ActorID); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if len(title) > maxTitleLength {
		return nil, models.NewValidationError("Title too long (max 200 characters)")
	}

	status := in.Status
	if status == "" {
		status = models.StatusDraft
	}
	if !models.ValidStatus(status) {
		return nil, models.NewValidationError("Status must be draft, published or archived")
	}

	categoryID, err := s.resolveCategory(ctx, in.CategoryID, nil)
	if err != nil {
		return nil, err
	}

	tags, err := s.tagRepo.ResolveNames(ctx, in.Tags)
	if err != nil {
		return nil, err
	}

	project := &models.Project{
		Title:       title,
		Description: in.Description,
		Content:     in.Content,
		GithubURL:   in.GithubURL,
		DemoURL:     in.DemoURL,
		ImageURL:    in.ImageURL,
		Status:      status,
		Featured:    in.Featured,
		AuthorID:    in.ActorID,
		CategoryID:  categoryID,
		Tags:        tags,
	}
	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, err
	}
	return s.projectRepo.GetByID(ctx, project.ID, in.ActorID)
}

func (s *ProjectService) UpdateProject(ctx context.Context, in UpdateProjectInput) (*models.Project, error) {
	if err := requireStaff(ctx, s.isStaff, in.ActorID); err != nil {
		return nil, err
	}

	project, err := s.projectRepo.GetByID(ctx, in.ProjectID, "")
	if err != nil {
		return nil, err
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if len(title) > maxTitleLength {
		return nil, models.NewValidationError("Title too long (max 200 characters)")
	}

	status := in.Status
	if status == "" {
		status = project.Status
	}
	if !models.ValidStatus(status) {
		return nil, models.NewValidationError("Status must be draft, published or archived")
	}

	categoryID, err := s.resolveCategory(ctx, in.CategoryID, project.CategoryID)
	if err != nil {
		return nil, err
	}

	project.Title = title
	project.Description = in.Description
	project.Content = in.Content
	project.GithubURL = in.GithubURL
	project.DemoURL = in.DemoURL
	project.ImageURL = in.ImageURL
	project.Status = status
	project.Featured = in.Featured
	project.CategoryID = categoryID

	if in.Tags != nil {
		tags, err := s.tagRepo.ResolveNames(ctx, in.Tags)
		if err != nil {
			return nil, err
		}
		project.Tags = tags
	}

	if err := s.projectRepo.Update(ctx, project); err != nil {
		return nil, err
	}
	return s.projectRepo.GetByID(ctx, in.ProjectID, in.ActorID)
}

// resolveCategory maps the input category pointer onto the stored value:
// nil keeps current, zero clears, anything else must exist.
func (s *ProjectService) resolveCategory(ctx context.Context, in *uint, current *uint) (*uint, error) {
	if in == nil {
		return current, nil
	}
	if *in == 0 {
		return nil, nil
	}
	if _, err := s.categoryRepo.GetByID(ctx, *in); err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) && appErr.Code == "NOT_FOUND" {
			return nil, models.NewValidationError("Unknown category")
		}
		return nil, err
	}
	return in, nil
}

func (s *ProjectService) DeleteProject(ctx context.Context, in DeleteProjectInput) error {
	if err := requireStaff(ctx, s.isStaff, in.ActorID); err != nil {
		return err
	}
	return s.projectRepo.Delete(ctx, in.ProjectID)
}

// AdminListProjects pages through projects of every status for the
// dashboard, optionally narrowed to one status.
func (s *ProjectService) AdminListProjects(ctx context.Context, in AdminListProjectsInput) (*ProjectPage, error) {
	if err := requireStaff(ctx, s.isStaff, in.ActorID); err != nil {
		return nil, err
	}
	if in.Status != "" && !models.ValidStatus(in.Status) {
		return nil, models.NewValidationError("Status must be draft, published or archived")
	}

	page := in.Page
	if page < 1 {
		page = 1
	}
	projects, total, err := s.projectRepo.List(ctx, repository.ProjectFilters{
		Status:   in.Status,
		ViewerID: in.ActorID,
		Limit:    AdminPageSize,
		Offset:   (page - 1) * AdminPageSize,
	})
	if err != nil {
		return nil, err
	}
	return newProjectPage(projects, total, page, AdminPageSize), nil
}
