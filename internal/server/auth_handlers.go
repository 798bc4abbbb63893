package server

import (
	"time"

	"github.com/pe-odake/Portifolio-Web/internal/models"
	"github.com/pe-odake/Portifolio-Web/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// EstablishSession handles POST /api/auth/session.
// The bearer token has already been verified by AuthRequired; this endpoint
// maps its subject onto the local user row, creating it on first login.
// @Summary Establish local session from a verified token
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.User
// @Failure 401 {object} models.ErrorResponse
// @Router /auth/session [post]
func (s *Server) EstablishSession(c *fiber.Ctx) error {
	ctx := c.UserContext()
	claims, _ := c.Locals("claims").(jwt.MapClaims)

	in := service.EnsureUserInput{Subject: currentUserID(c)}
	if name, ok := claims["name"].(string); ok {
		in.Name = name
	}
	if email, ok := claims["email"].(string); ok {
		in.Email = email
	}
	if avatar, ok := claims["picture"].(string); ok {
		in.AvatarURL = avatar
	}

	user, err := s.userService.EnsureUser(ctx, in)
	if err != nil {
		return models.RespondWithError(c, errorStatus(err), err)
	}
	return c.JSON(user)
}

// EndSession handles DELETE /api/auth/session.
// The token's jti is blacklisted until its natural expiry so the same
// token cannot re-establish the session.
// @Summary End the current session
// @Tags auth
// @Security BearerAuth
// @Success 204 "session ended"
// @Failure 401 {object} models.ErrorResponse
// @Router /auth/session [delete]
func (s *Server) EndSession(c *fiber.Ctx) error {
	claims, _ := c.Locals("claims").(jwt.MapClaims)

	jti, _ := claims["jti"].(string)
	if jti != "" && s.redis != nil {
		ttl := 24 * time.Hour
		if exp, ok := claims["exp"].(float64); ok {
			if until := time.Until(time.Unix(int64(exp), 0)); until > 0 {
				ttl = until
			}
		}
		if err := s.redis.Set(c.Context(), "blacklist:"+jti, "1", ttl).Err(); err != nil {
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		}
	}

	return c.SendStatus(fiber.StatusNoContent)
}
