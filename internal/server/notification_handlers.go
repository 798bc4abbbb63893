package server

import (
	"github.com/pe-odake/Portifolio-Web/internal/models"
	"github.com/pe-odake/Portifolio-Web/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetNotifications handles GET /api/notifications, newest first.
// @Summary List the caller's notifications
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param unread query bool false "only unread notifications"
// @Param limit query int false "page size"
// @Param offset query int false "page offset"
// @Success 200 {array} models.Notification
// @Router /notifications [get]
func (s *Server) GetNotifications(c *fiber.Ctx) error {
	p := parsePagination(c, 20)
	list, err := s.notificationService.List(c.UserContext(), service.ListNotificationsInput{
		UserID:     currentUserID(c),
		OnlyUnread: c.QueryBool("unread", false),
		Limit:      p.Limit,
		Offset:     p.Offset,
	})
	if err != nil {
		return models.RespondWithError(c, errorStatus(err), err)
	}
	return c.JSON(list)
}

// GetUnreadCount handles GET /api/notifications/unread-count.
// @Summary Count unread notifications
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} object{unread=int}
// @Router /notifications/unread-count [get]
func (s *Server) GetUnreadCount(c *fiber.Ctx) error {
	count, err := s.notificationService.UnreadCount(c.UserContext(), currentUserID(c))
	if err != nil {
		return models.RespondWithError(c, errorStatus(err), err)
	}
	return c.JSON(fiber.Map{"unread": count})
}

// MarkNotificationRead handles POST /api/notifications/:id/read.
// Idempotent: re-marking a read notification succeeds without change.
// @Summary Mark one notification as read
// @Tags notifications
// @Security BearerAuth
// @Param id path int true "notification id"
// @Success 204 "marked read"
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /notifications/{id}/read [post]
func (s *Server) MarkNotificationRead(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	err = s.notificationService.MarkRead(c.UserContext(), service.MarkReadInput{
		UserID:         currentUserID(c),
		NotificationID: id,
	})
	if err != nil {
		return models.RespondWithError(c, errorStatus(err), err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// MarkAllNotificationsRead handles POST /api/notifications/read-all.
// @Summary Mark all of the caller's notifications as read
// @Tags notifications
// @Security BearerAuth
// @Success 204 "all marked read"
// @Router /notifications/read-all [post]
func (s *Server) MarkAllNotificationsRead(c *fiber.Ctx) error {
	if err := s.notificationService.MarkAllRead(c.UserContext(), currentUserID(c)); err != nil {
		return models.RespondWithError(c, errorStatus(err), err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
