package server

import (
	"github.com/gofiber/fiber/v2"
)

// ClearPageCache handles POST /admin/cache/clear. It drops every cached home
// page so the next request recomputes from the store, bypassing the TTL.
func (s *Server) ClearPageCache(c *fiber.Ctx) error {
	if err := s.pageCache.Clear(c.UserContext()); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"status": "cleared"})
}
