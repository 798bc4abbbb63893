package server

import (
	"github.com/pe-odake/Portifolio-Web/internal/models"
	"github.com/pe-odake/Portifolio-Web/internal/service"

	"github.com/gofiber/fiber/v2"
)

const dashboardRecentLimit = 5

// projectPayload is the admin create/update body for a project.
type projectPayload struct {
	Title       string   `json:"title" validate:"required,max=200"`
	Description string   `json:"description" validate:"max=1000"`
	Content     string   `json:"content"`
	GithubURL   string   `json:"github_url" validate:"omitempty,url"`
	DemoURL     string   `json:"demo_url" validate:"omitempty,url"`
	ImageURL    string   `json:"image_url" validate:"omitempty,url"`
	Status      string   `json:"status" validate:"omitempty,oneof=draft published archived"`
	Featured    bool     `json:"featured"`
	CategoryID  *uint    `json:"category_id"`
	Tags        []string `json:"tags" validate:"omitempty,dive,required,max=50"`
}

// aboutPayload is the admin update body for the About singleton.
type aboutPayload struct {
	Name        string   `json:"name" validate:"required,max=120"`
	Title       string   `json:"title" validate:"max=200"`
	Bio         string   `json:"bio"`
	Email       string   `json:"email" validate:"omitempty,email"`
	GithubURL   string   `json:"github_url" validate:"omitempty,url"`
	LinkedinURL string   `json:"linkedin_url" validate:"omitempty,url"`
	Skills      []string `json:"skills"`
	Languages   []string `json:"languages"`
	Interests   []string `json:"interests"`
}

// GetDashboard handles GET /api/admin/dashboard.
// @Summary Dashboard counters with recent projects and comments
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} object{recent_projects=[]models.Project,recent_comments=[]models.Comment}
// @Router /admin/dashboard [get]
func (s *Server) GetDashboard(c *fiber.Ctx) error {
	ctx := c.UserContext()

	stats, err := s.statsRepo.Dashboard(ctx)
	if err != nil {
		return models.RespondWithError(c, errorStatus(err), err)
	}
	recentProjects, err := s.statsRepo.RecentProjects(ctx, dashboardRecentLimit)
	if err != nil {
		return models.RespondWithError(c, errorStatus(err), err)
	}
	recentComments, err := s.statsRepo.RecentComments(ctx, dashboardRecentLimit)
	if err != nil {
		return models.RespondWithError(c, errorStatus(err), err)
	}

	return c.JSON(fiber.Map{
		"stats":           stats,
		"recent_projects": recentProjects,
		"recent_comments": recentComments,
	})
}

// GetFeatureFlags handles GET /api/admin/feature-flags.
// @Summary Configured feature flags and their evaluation for the caller
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} object{flags=map[string]string,evaluated=map[string]bool}
// @Router /admin/feature-flags [get]
func (s *Server) GetFeatureFlags(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"flags":     s.featureFlags.Raw(),
		"evaluated": s.featureFlags.Snapshot(currentUserID(c)),
	})
}

// AdminListProjects handles GET /api/admin/projects.
// Unlike the public listing this pages through every status.
// @Summary List projects of any status (staff)
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param status query string false "draft | published | archived"
// @Param page query int false "page number (1-based)"
// @Success 200 {object} service.ProjectPage
// @Router /admin/projects [get]
func (s *Server) AdminListProjects(c *fiber.Ctx) error {
	page, err := s.projectService.AdminListProjects(c.UserContext(), service.AdminListProjectsInput{
		ActorID: currentUserID(c),
		Status:  c.Query("status"),
		Page:    c.QueryInt("page", 1),
	})
	if err != nil {
		return models.RespondWithError(c, errorStatus(err), err)
	}
	return c.JSON(page)
}

// AdminCreateProject handles POST /api/admin/projects.
// @Summary Create a project (staff)
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body projectPayload true "project fields"
// @Success 201 {object} models.Project
// @Failure 400 {object} models.ErrorResponse
// @Router /admin/projects [post]
func (s *Server) AdminCreateProject(c *fiber.Ctx) error {
	var req projectPayload
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if err := s.validator.Validate(req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}

	project, err := s.projectService.CreateProject(c.UserContext(), service.CreateProjectInput{
		ActorID:     currentUserID(c),
		Title:       req.Title,
		Description: req.Description,
		Content:     req.Content,
		GithubURL:   req.GithubURL,
		DemoURL:     req.DemoURL,
		ImageURL:    req.ImageURL,
		Status:      req.Status,
		Featured:    req.Featured,
		CategoryID:  req.CategoryID,
		Tags:        req.Tags,
	})
	if err != nil {
		return models.RespondWithError(c, errorStatus(err), err)
	}
	return c.Status(fiber.StatusCreated).JSON(project)
}

// AdminUpdateProject handles PUT /api/admin/projects/:id.
// @Summary Update a project, replacing its tag set (staff)
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "project id"
// @Param request body projectPayload true "project fields"
// @Success 200 {object} models.Project
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /admin/projects/{id} [put]
func (s *Server) AdminUpdateProject(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req projectPayload
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if err := s.validator.Validate(req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}

	project, err := s.projectService.UpdateProject(c.UserContext(), service.UpdateProjectInput{
		ActorID:     currentUserID(c),
		ProjectID:   id,
		Title:       req.Title,
		Description: req.Description,
		Content:     req.Content,
		GithubURL:   req.GithubURL,
		DemoURL:     req.DemoURL,
		ImageURL:    req.ImageURL,
		Status:      req.Status,
		Featured:    req.Featured,
		CategoryID:  req.CategoryID,
		Tags:        req.Tags,
	})
	if err != nil {
		return models.RespondWithError(c, errorStatus(err), err)
	}
	return c.JSON(project)
}

// AdminDeleteProject handles DELETE /api/admin/projects/:id.
// Comments, likes, and tag links go with the project.
// @Summary Delete a project (staff)
// @Tags admin
// @Security BearerAuth
// @Param id path int true "project id"
// @Success 204 "deleted"
// @Failure 404 {object} models.ErrorResponse
// @Router /admin/projects/{id} [delete]
func (s *Server) AdminDeleteProject(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	err = s.projectService.DeleteProject(c.UserContext(), service.DeleteProjectInput{
		ActorID:   currentUserID(c),
		ProjectID: id,
	})
	if err != nil {
		return models.RespondWithError(c, errorStatus(err), err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// AdminUpdateAbout handles PUT /api/admin/about.
// @Summary Replace the About singleton's content (staff)
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body aboutPayload true "about fields"
// @Success 200 {object} models.About
// @Failure 400 {object} models.ErrorResponse
// @Router /admin/about [put]
func (s *Server) AdminUpdateAbout(c *fiber.Ctx) error {
	var req aboutPayload
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if err := s.validator.Validate(req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}

	about, err := s.aboutService.Update(c.UserContext(), service.UpdateAboutInput{
		ActorID:     currentUserID(c),
		Name:        req.Name,
		Title:       req.Title,
		Bio:         req.Bio,
		Email:       req.Email,
		GithubURL:   req.GithubURL,
		LinkedinURL: req.LinkedinURL,
		Skills:      req.Skills,
		Languages:   req.Languages,
		Interests:   req.Interests,
	})
	if err != nil {
		return models.RespondWithError(c, errorStatus(err), err)
	}
	return c.JSON(about)
}
