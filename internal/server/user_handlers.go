package server

import (
	"github.com/pe-odake/Portifolio-Web/internal/models"
	"github.com/pe-odake/Portifolio-Web/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetProfile handles GET /api/profile.
// @Summary The caller's user record with interaction stats
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.Profile
// @Router /profile [get]
func (s *Server) GetProfile(c *fiber.Ctx) error {
	profile, err := s.userService.GetProfile(c.UserContext(), currentUserID(c))
	if err != nil {
		return models.RespondWithError(c, errorStatus(err), err)
	}
	return c.JSON(profile)
}

// AdminListUsers handles GET /api/admin/users.
// @Summary List users (staff)
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param limit query int false "page size"
// @Param offset query int false "page offset"
// @Success 200 {array} models.User
// @Router /admin/users [get]
func (s *Server) AdminListUsers(c *fiber.Ctx) error {
	p := parsePagination(c, 50)
	users, err := s.userService.ListUsers(c.UserContext(), p.Limit, p.Offset)
	if err != nil {
		return models.RespondWithError(c, errorStatus(err), err)
	}
	return c.JSON(users)
}

// PromoteUser handles POST /api/admin/users/:id/promote.
// Only the owner can change roles; the owner role itself never changes.
// @Summary Promote a member to admin (owner only)
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "user id"
// @Success 200 {object} models.User
// @Failure 403 {object} models.ErrorResponse
// @Router /admin/users/{id}/promote [post]
func (s *Server) PromoteUser(c *fiber.Ctx) error {
	return s.setUserRole(c, models.RoleAdmin)
}

// DemoteUser handles POST /api/admin/users/:id/demote.
// @Summary Demote an admin back to member (owner only)
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "user id"
// @Success 200 {object} models.User
// @Failure 403 {object} models.ErrorResponse
// @Router /admin/users/{id}/demote [post]
func (s *Server) DemoteUser(c *fiber.Ctx) error {
	return s.setUserRole(c, models.RoleMember)
}

func (s *Server) setUserRole(c *fiber.Ctx, role string) error {
	targetID := c.Params("id")
	if targetID == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid id"))
	}

	user, err := s.userService.SetRole(c.UserContext(), service.SetRoleInput{
		ActorID:  currentUserID(c),
		TargetID: targetID,
		Role:     role,
	})
	if err != nil {
		return models.RespondWithError(c, errorStatus(err), err)
	}
	return c.JSON(user)
}
