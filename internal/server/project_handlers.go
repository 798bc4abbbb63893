package server

import (
	"github.com/pe-odake/Portifolio-Web/internal/models"
	"github.com/pe-odake/Portifolio-Web/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetHome handles GET /api/home.
// @Summary Landing page sections (featured, latest, popular)
// @Tags projects
// @Produce json
// @Success 200 {object} service.HomeData
// @Router /home [get]
func (s *Server) GetHome(c *fiber.Ctx) error {
	home, err := s.projectService.Home(c.UserContext())
	if err != nil {
		return models.RespondWithError(c, errorStatus(err), err)
	}
	return c.JSON(home)
}

// GetProjects handles GET /api/projects.
// Published-only listing with search, category/tag filters, sorting and
// pagination.
// @Summary Browse published projects
// @Tags projects
// @Produce json
// @Param page query int false "page number (1-based)"
// @Param category query int false "category id filter"
// @Param tag query string false "tag name filter"
// @Param q query string false "search over title and description"
// @Param sort query string false "latest | popular | views"
// @Success 200 {object} service.ProjectPage
// @Router /projects [get]
func (s *Server) GetProjects(c *fiber.Ctx) error {
	page, err := s.projectService.Browse(c.UserContext(), service.BrowseProjectsInput{
		CategoryID: uint(c.QueryInt("category", 0)),
		Tag:        c.Query("tag"),
		Search:     c.Query("q"),
		Sort:       c.Query("sort"),
		Page:       c.QueryInt("page", 1),
		ViewerID:   s.optionalUserID(c),
	})
	if err != nil {
		return models.RespondWithError(c, errorStatus(err), err)
	}
	return c.JSON(page)
}

// GetProject handles GET /api/projects/:id.
// Drafts and archived projects read as 404 unless the viewer is the
// author or staff. Each successful fetch bumps the view counter.
// @Summary Project detail
// @Tags projects
// @Produce json
// @Param id path int true "project id"
// @Success 200 {object} models.Project
// @Failure 404 {object} models.ErrorResponse
// @Router /projects/{id} [get]
func (s *Server) GetProject(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	project, err := s.projectService.GetProject(c.UserContext(), id, s.optionalUserID(c))
	if err != nil {
		return models.RespondWithError(c, errorStatus(err), err)
	}
	return c.JSON(project)
}

// GetSimilarProjects handles GET /api/projects/:id/similar.
// @Summary Published projects sharing a category or tags
// @Tags projects
// @Produce json
// @Param id path int true "project id"
// @Success 200 {array} models.Project
// @Failure 404 {object} models.ErrorResponse
// @Router /projects/{id}/similar [get]
func (s *Server) GetSimilarProjects(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	projects, err := s.projectService.SimilarProjects(c.UserContext(), id, s.optionalUserID(c))
	if err != nil {
		return models.RespondWithError(c, errorStatus(err), err)
	}
	return c.JSON(projects)
}

// GetCategories handles GET /api/categories.
// @Summary List categories
// @Tags taxonomy
// @Produce json
// @Success 200 {array} models.Category
// @Router /categories [get]
func (s *Server) GetCategories(c *fiber.Ctx) error {
	categories, err := s.projectService.ListCategories(c.UserContext())
	if err != nil {
		return models.RespondWithError(c, errorStatus(err), err)
	}
	return c.JSON(categories)
}

// GetTags handles GET /api/tags.
// @Summary List tags
// @Tags taxonomy
// @Produce json
// @Success 200 {array} models.Tag
// @Router /tags [get]
func (s *Server) GetTags(c *fiber.Ctx) error {
	tags, err := s.projectService.ListTags(c.UserContext())
	if err != nil {
		return models.RespondWithError(c, errorStatus(err), err)
	}
	return c.JSON(tags)
}

// GetAbout handles GET /api/about.
// @Summary Profile page content
// @Tags about
// @Produce json
// @Success 200 {object} models.About
// @Router /about [get]
func (s *Server) GetAbout(c *fiber.Ctx) error {
	about, err := s.aboutService.Get(c.UserContext())
	if err != nil {
		return models.RespondWithError(c, errorStatus(err), err)
	}
	return c.JSON(about)
}
