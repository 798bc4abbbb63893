package server

import (
	"encoding/json"
	"time"

	"github.com/pe-odake/Portifolio-Web/internal/cache"
	"github.com/pe-odake/Portifolio-Web/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const flashCookie = "flash_id"

// flashMessage is the one-shot confirmation surfaced after a form post.
type flashMessage struct {
	Category string `json:"category"`
	Message  string `json:"message"`
}

// setFlash stores a one-shot message in Redis and points a short-lived
// cookie at it. Best-effort: without Redis the redirect still happens,
// just without the confirmation banner.
func (s *Server) setFlash(c *fiber.Ctx, category, message string) {
	if s.redis == nil {
		return
	}

	payload, err := json.Marshal(flashMessage{Category: category, Message: message})
	if err != nil {
		return
	}

	id := uuid.New().String()
	if err := s.redis.Set(c.Context(), cache.FlashKey(id), payload, cache.FlashTTL).Err(); err != nil {
		middleware.Logger.WarnContext(c.UserContext(), "Flash store failed", "error", err)
		return
	}

	c.Cookie(&fiber.Cookie{
		Name:     flashCookie,
		Value:    id,
		Expires:  time.Now().Add(cache.FlashTTL),
		HTTPOnly: true,
		SameSite: "Lax",
	})
}

// PopFlash handles GET /api/flash.
// It returns and deletes the pending flash message, if any.
// @Summary Pop pending flash message
// @Tags flash
// @Produce json
// @Success 200 {object} flashMessage
// @Success 204 "no pending flash"
// @Router /flash [get]
func (s *Server) PopFlash(c *fiber.Ctx) error {
	id := c.Cookies(flashCookie)
	if id == "" || s.redis == nil {
		return c.SendStatus(fiber.StatusNoContent)
	}

	// Expire the cookie regardless of whether the payload is still there.
	c.Cookie(&fiber.Cookie{
		Name:     flashCookie,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		SameSite: "Lax",
	})

	payload, err := s.redis.GetDel(c.Context(), cache.FlashKey(id)).Result()
	if err != nil {
		if err != redis.Nil {
			middleware.Logger.WarnContext(c.UserContext(), "Flash read failed", "error", err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}

	var msg flashMessage
	if err := json.Unmarshal([]byte(payload), &msg); err != nil {
		return c.SendStatus(fiber.StatusNoContent)
	}
	return c.JSON(msg)
}
