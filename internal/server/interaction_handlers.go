package server

import (
	"fmt"
	"strings"

	"github.com/pe-odake/Portifolio-Web/internal/models"
	"github.com/pe-odake/Portifolio-Web/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ToggleLike handles POST /api/like/:id.
// It answers the like button's AJAX round trip with the resulting state.
// @Summary Toggle a like on a project
// @Tags interactions
// @Produce json
// @Security BearerAuth
// @Param id path int true "project id"
// @Success 200 {object} object{success=bool,liked=bool,likes_count=int}
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /like/{id} [post]
func (s *Server) ToggleLike(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := currentUserID(c)

	projectID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if !s.featureFlags.Allowed("likes", userID) {
		return models.RespondWithError(c, fiber.StatusServiceUnavailable,
			models.NewValidationError("Likes are temporarily disabled"))
	}

	result, err := s.likeService.ToggleLike(ctx, service.ToggleLikeInput{
		UserID:    userID,
		ProjectID: projectID,
	})
	if err != nil {
		return models.RespondWithError(c, errorStatus(err), err)
	}

	return c.JSON(fiber.Map{
		"success":     true,
		"liked":       result.Liked,
		"likes_count": result.LikesCount,
	})
}

// CreateComment handles POST /api/comment/:id.
// Classic form posts get a flash confirmation and a redirect back to the
// project page; JSON clients get the created record.
// @Summary Comment on a project
// @Tags interactions
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Security BearerAuth
// @Param id path int true "project id"
// @Success 201 {object} models.Comment
// @Success 303 "redirect back to the project page (form mode)"
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /comment/{id} [post]
func (s *Server) CreateComment(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := currentUserID(c)

	projectID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	formMode := isFormPost(c)

	if !s.featureFlags.Allowed("comments", userID) {
		disabled := models.NewValidationError("Comments are temporarily disabled")
		if formMode {
			s.setFlash(c, "error", disabled.Message)
			return s.redirectToProject(c, projectID)
		}
		return models.RespondWithError(c, fiber.StatusServiceUnavailable, disabled)
	}

	var req struct {
		Content string `json:"content" form:"content"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	comment, err := s.commentService.CreateComment(ctx, service.CreateCommentInput{
		UserID:    userID,
		ProjectID: projectID,
		Content:   req.Content,
	})
	if err != nil {
		if formMode && errorStatus(err) < fiber.StatusInternalServerError {
			// Validation, auth and not-found problems flow back to the form
			// as a flash, not JSON. Server faults stay on the JSON path.
			s.setFlash(c, "error", err.Error())
			return s.redirectToProject(c, projectID)
		}
		return models.RespondWithError(c, errorStatus(err), err)
	}

	if formMode {
		s.setFlash(c, "success", "Comment added successfully!")
		return s.redirectToProject(c, projectID)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

// GetComments handles GET /api/projects/:id/comments (newest first).
// @Summary List a project's comments
// @Tags interactions
// @Produce json
// @Param id path int true "project id"
// @Param limit query int false "page size"
// @Param offset query int false "page offset"
// @Success 200 {array} models.Comment
// @Failure 404 {object} models.ErrorResponse
// @Router /projects/{id}/comments [get]
func (s *Server) GetComments(c *fiber.Ctx) error {
	projectID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	p := parsePagination(c, 20)
	comments, err := s.commentService.ListComments(c.UserContext(), service.ListCommentsInput{
		ProjectID: projectID,
		ViewerID:  s.optionalUserID(c),
		Limit:     p.Limit,
		Offset:    p.Offset,
	})
	if err != nil {
		return models.RespondWithError(c, errorStatus(err), err)
	}
	return c.JSON(comments)
}

// isFormPost reports whether the request came from a classic HTML form
// rather than a JSON client.
func isFormPost(c *fiber.Ctx) bool {
	ct := c.Get(fiber.HeaderContentType)
	return strings.HasPrefix(ct, fiber.MIMEApplicationForm) ||
		strings.HasPrefix(ct, fiber.MIMEMultipartForm)
}

// redirectToProject sends the browser back to where the form lives: the
// Referer when present, otherwise the project page.
func (s *Server) redirectToProject(c *fiber.Ctx, projectID uint) error {
	target := c.Get(fiber.HeaderReferer)
	if target == "" {
		target = fmt.Sprintf("/projects/%d", projectID)
	}
	return c.Redirect(target, fiber.StatusSeeOther)
}
