package service

import (
	"context"
	"strings"

	"quill/internal/models"
	"quill/internal/repository"
)

// ErrNotAuthor marks an edit attempt by someone other than the post's author.
// The handler turns it into a redirect to the post detail, not an error page.
var ErrNotAuthor = models.NewUnauthorizedError("Only the author can edit this post")

const maxPostTextLen = 50000

// CreatePostInput carries a post submission.
type CreatePostInput struct {
	AuthorID  uint
	Text      string
	GroupSlug string
	Image     string
}

// UpdatePostInput carries a post edit submission.
type UpdatePostInput struct {
	PostID    uint
	EditorID  uint
	Text      string
	GroupSlug string
	Image     string
}

// PostService validates and orchestrates post mutations.
type PostService struct {
	postRepo  repository.PostRepository
	groupRepo repository.GroupRepository
}

// NewPostService creates a post service.
func NewPostService(postRepo repository.PostRepository, groupRepo repository.GroupRepository) *PostService {
	return &PostService{postRepo: postRepo, groupRepo: groupRepo}
}

// resolveGroup maps an optional group slug to a group ID. An empty slug means
// no group; an unknown slug is a field-level validation error.
func (s *PostService) resolveGroup(ctx context.Context, slug string) (*uint, map[string]string) {
	if slug == "" {
		return nil, nil
	}
	group, err := s.groupRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, map[string]string{"group": "Unknown group"}
	}
	return &group.ID, nil
}

// Create validates the submission and stores the post. Validation failure
// reports field errors with no partial write.
func (s *PostService) Create(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	fields := map[string]string{}
	text := strings.TrimSpace(in.Text)
	if text == "" {
		fields["text"] = "Text is required"
	}
	if len(text) > maxPostTextLen {
		fields["text"] = "Text is too long"
	}

	groupID, groupErr := s.resolveGroup(ctx, in.GroupSlug)
	for k, v := range groupErr {
		fields[k] = v
	}
	if len(fields) > 0 {
		return nil, models.NewFieldValidationError(fields)
	}

	post := &models.Post{
		Text:     text,
		AuthorID: in.AuthorID,
		GroupID:  groupID,
		Image:    in.Image,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, post.ID)
}

// Update edits an existing post. Only the author may edit; anyone else gets
// ErrNotAuthor. CreatedAt is never touched.
func (s *PostService) Update(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != in.EditorID {
		return nil, ErrNotAuthor
	}

	fields := map[string]string{}
	text := strings.TrimSpace(in.Text)
	if text == "" {
		fields["text"] = "Text is required"
	}
	if len(text) > maxPostTextLen {
		fields["text"] = "Text is too long"
	}

	groupID, groupErr := s.resolveGroup(ctx, in.GroupSlug)
	for k, v := range groupErr {
		fields[k] = v
	}
	if len(fields) > 0 {
		return nil, models.NewFieldValidationError(fields)
	}

	post.Text = text
	post.GroupID = groupID
	if in.Image != "" {
		post.Image = in.Image
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, post.ID)
}

// Get returns the post with author and group joined.
func (s *PostService) Get(ctx context.Context, id uint) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, id)
}

// Delete removes a post and its comments. Only the author may delete.
func (s *PostService) Delete(ctx context.Context, postID, callerID uint) error {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if post.AuthorID != callerID {
		return ErrNotAuthor
	}
	return s.postRepo.Delete(ctx, postID)
}
