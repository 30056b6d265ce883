package server

import (
	"quill/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

// Follow handles POST /profile/:username/follow. Creating an edge that
// already exists, or following yourself, changes nothing and still redirects.
func (s *Server) Follow(c *fiber.Ctx) error {
	userID := middleware.CurrentUserID(c)
	username := c.Params("username")

	if err := s.followService.Follow(c.UserContext(), userID, username); err != nil {
		return respondError(c, err)
	}
	return seeOther(c, "/profile/"+username)
}

// Unfollow handles POST /profile/:username/unfollow. Removing a missing edge
// is a silent success; only an unknown username is a 404.
func (s *Server) Unfollow(c *fiber.Ctx) error {
	userID := middleware.CurrentUserID(c)
	username := c.Params("username")

	if err := s.followService.Unfollow(c.UserContext(), userID, username); err != nil {
		return respondError(c, err)
	}
	return seeOther(c, "/profile/"+username)
}
