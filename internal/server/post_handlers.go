package server

import (
	"errors"
	"fmt"

	"quill/internal/middleware"
	"quill/internal/service"

	"github.com/gofiber/fiber/v2"
)

type postForm struct {
	Text  string `json:"text" form:"text"`
	Group string `json:"group" form:"group"`
}

// saveUploadedImage stores the optional multipart image and returns its
// media-relative path, or "" when no file was attached.
func (s *Server) saveUploadedImage(c *fiber.Ctx) (string, error) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		return "", nil
	}
	f, err := fileHeader.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()
	return s.images.Save(fileHeader.Filename, f)
}

// PostDetail handles GET /posts/:id — the post plus its comments newest-first.
func (s *Server) PostDetail(c *fiber.Ctx) error {
	ctx := c.UserContext()
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postService.Get(ctx, id)
	if err != nil {
		return respondError(c, err)
	}

	comments, err := s.commentService.ListByPost(ctx, id)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"post":     post,
		"comments": comments,
	})
}

// CreatePost handles POST /create. On success the client is sent to the
// author's profile; an invalid submission returns field errors and writes nothing.
func (s *Server) CreatePost(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := middleware.CurrentUserID(c)

	var form postForm
	_ = c.BodyParser(&form)

	image, err := s.saveUploadedImage(c)
	if err != nil {
		return respondError(c, err)
	}

	post, err := s.postService.Create(ctx, service.CreatePostInput{
		AuthorID:  userID,
		Text:      form.Text,
		GroupSlug: form.Group,
		Image:     image,
	})
	if err != nil {
		return respondError(c, err)
	}

	return seeOther(c, "/profile/"+post.Author.Username)
}

// EditPost handles POST /posts/:id/edit. A non-author is redirected to the
// post detail rather than shown an error page.
func (s *Server) EditPost(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := middleware.CurrentUserID(c)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var form postForm
	_ = c.BodyParser(&form)

	image, err := s.saveUploadedImage(c)
	if err != nil {
		return respondError(c, err)
	}

	_, err = s.postService.Update(ctx, service.UpdatePostInput{
		PostID:    postID,
		EditorID:  userID,
		Text:      form.Text,
		GroupSlug: form.Group,
		Image:     image,
	})
	if errors.Is(err, service.ErrNotAuthor) {
		return seeOther(c, fmt.Sprintf("/posts/%d", postID))
	}
	if err != nil {
		return respondError(c, err)
	}

	return seeOther(c, fmt.Sprintf("/posts/%d", postID))
}

// DeletePost handles POST /posts/:id/delete. The post's comments go with it.
// A non-author is redirected to the detail view, mirroring the edit policy.
func (s *Server) DeletePost(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := middleware.CurrentUserID(c)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	err = s.postService.Delete(ctx, postID, userID)
	if errors.Is(err, service.ErrNotAuthor) {
		return seeOther(c, fmt.Sprintf("/posts/%d", postID))
	}
	if err != nil {
		return respondError(c, err)
	}

	return seeOther(c, "/")
}

// AddComment handles POST /posts/:id/comment.
func (s *Server) AddComment(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := middleware.CurrentUserID(c)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var form struct {
		Text string `json:"text" form:"text"`
	}
	_ = c.BodyParser(&form)

	if _, err := s.commentService.Add(ctx, postID, userID, form.Text); err != nil {
		return respondError(c, err)
	}

	return seeOther(c, fmt.Sprintf("/posts/%d", postID))
}
