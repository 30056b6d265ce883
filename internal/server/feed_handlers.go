package server

import (
	"encoding/json"

	"quill/internal/cache"
	"quill/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

// HomeFeed handles GET /?page=N. The rendered page is served from the page
// cache when fresh; the key varies by page number only, never by viewer.
func (s *Server) HomeFeed(c *fiber.Ctx) error {
	ctx := c.UserContext()
	page := parsePage(c)

	if payload, ok := s.pageCache.Get(ctx, cache.HomePageKey(page)); ok {
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.Send(payload)
	}

	feed, err := s.feedService.Home(ctx, page)
	if err != nil {
		return respondError(c, err)
	}

	payload, err := json.Marshal(feed)
	if err != nil {
		return respondError(c, err)
	}
	// Store under the clamped page so out-of-range requests cannot mint
	// unbounded cache entries; they recompute once and land on a real page.
	s.pageCache.Set(ctx, cache.HomePageKey(feed.Pagination.Page), payload)

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(payload)
}

// GroupFeed handles GET /group/:slug?page=N. Group and profile feeds are
// parameter-dependent and are never page-cached.
func (s *Server) GroupFeed(c *fiber.Ctx) error {
	feed, err := s.feedService.Group(c.UserContext(), c.Params("slug"), parsePage(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(feed)
}

// ProfileFeed handles GET /profile/:username?page=N.
func (s *Server) ProfileFeed(c *fiber.Ctx) error {
	viewerID := middleware.CurrentUserID(c)
	feed, err := s.feedService.Profile(c.UserContext(), c.Params("username"), parsePage(c), viewerID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(feed)
}

// FollowingFeed handles GET /follow?page=N for the authenticated caller.
func (s *Server) FollowingFeed(c *fiber.Ctx) error {
	userID := middleware.CurrentUserID(c)
	feed, err := s.feedService.Following(c.UserContext(), userID, parsePage(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(feed)
}
