// Package service contains the application's domain logic on top of the repositories.
package service

import (
	"context"
	"time"

	"quill/internal/models"
	"quill/internal/observability"
	"quill/internal/pagination"
	"quill/internal/repository"
)

// FeedPage is one page of a feed: the posts plus the pagination window served.
type FeedPage struct {
	Posts      []*models.Post    `json:"posts"`
	Pagination pagination.Window `json:"pagination"`
}

// newFeedPage normalizes a nil result to an empty slice so an empty feed
// serializes as [] rather than null, for every variant.
func newFeedPage(posts []*models.Post, window pagination.Window) FeedPage {
	if posts == nil {
		posts = []*models.Post{}
	}
	return FeedPage{Posts: posts, Pagination: window}
}

// GroupFeed is the group view: the group record and its posts.
type GroupFeed struct {
	Group *models.Group `json:"group"`
	FeedPage
}

// ProfileFeed is the profile view: the author, follow information for the
// current viewer, and the author's posts.
type ProfileFeed struct {
	Author    *models.User `json:"author"`
	Following bool         `json:"following"`
	Followers int64        `json:"followers"`
	FeedPage
}

// FeedService assembles the four feed variants. All variants share the same
// ordering (newest first) and the same pagination contract.
type FeedService struct {
	postRepo   repository.PostRepository
	groupRepo  repository.GroupRepository
	userRepo   repository.UserRepository
	followRepo repository.FollowRepository
	pageSize   int
}

// NewFeedService creates a feed service with the given page size.
func NewFeedService(
	postRepo repository.PostRepository,
	groupRepo repository.GroupRepository,
	userRepo repository.UserRepository,
	followRepo repository.FollowRepository,
	pageSize int,
) *FeedService {
	return &FeedService{
		postRepo:   postRepo,
		groupRepo:  groupRepo,
		userRepo:   userRepo,
		followRepo: followRepo,
		pageSize:   pageSize,
	}
}

func observeFeed(feed string) func() {
	start := time.Now()
	return func() {
		observability.FeedQueryLatency.WithLabelValues(feed).Observe(time.Since(start).Seconds())
	}
}

// Home returns one page of all posts, newest first.
func (s *FeedService) Home(ctx context.Context, page int) (*FeedPage, error) {
	defer observeFeed("home")()

	total, err := s.postRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	window := pagination.Paginate(total, s.pageSize, page)

	posts, err := s.postRepo.List(ctx, window.Limit, window.Offset)
	if err != nil {
		return nil, err
	}
	feedPage := newFeedPage(posts, window)
	return &feedPage, nil
}

// Group returns the group resolved by slug and one page of its posts.
func (s *FeedService) Group(ctx context.Context, slug string, page int) (*GroupFeed, error) {
	defer observeFeed("group")()

	group, err := s.groupRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	total, err := s.postRepo.CountByGroup(ctx, group.ID)
	if err != nil {
		return nil, err
	}
	window := pagination.Paginate(total, s.pageSize, page)

	posts, err := s.postRepo.ListByGroup(ctx, group.ID, window.Limit, window.Offset)
	if err != nil {
		return nil, err
	}
	return &GroupFeed{
		Group:    group,
		FeedPage: newFeedPage(posts, window),
	}, nil
}

// Profile returns the author resolved by username, one page of their posts,
// and whether the viewer follows them. The flag is false for anonymous
// viewers and for the author looking at their own profile.
func (s *FeedService) Profile(ctx context.Context, username string, page int, viewerID uint) (*ProfileFeed, error) {
	defer observeFeed("profile")()

	author, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	following := false
	if viewerID != 0 && viewerID != author.ID {
		following, err = s.followRepo.IsFollowing(ctx, viewerID, author.ID)
		if err != nil {
			return nil, err
		}
	}

	followers, err := s.followRepo.CountFollowers(ctx, author.ID)
	if err != nil {
		return nil, err
	}

	total, err := s.postRepo.CountByAuthor(ctx, author.ID)
	if err != nil {
		return nil, err
	}
	window := pagination.Paginate(total, s.pageSize, page)

	posts, err := s.postRepo.ListByAuthor(ctx, author.ID, window.Limit, window.Offset)
	if err != nil {
		return nil, err
	}
	return &ProfileFeed{
		Author:    author,
		Following: following,
		Followers: followers,
		FeedPage:  newFeedPage(posts, window),
	}, nil
}

// Following returns one page of posts from the authors the caller follows.
// A caller who follows no one gets an empty page, not an error.
func (s *FeedService) Following(ctx context.Context, followerID uint, page int) (*FeedPage, error) {
	defer observeFeed("following")()

	total, err := s.postRepo.CountByFollowed(ctx, followerID)
	if err != nil {
		return nil, err
	}
	window := pagination.Paginate(total, s.pageSize, page)

	posts, err := s.postRepo.ListByFollowed(ctx, followerID, window.Limit, window.Offset)
	if err != nil {
		return nil, err
	}
	feedPage := newFeedPage(posts, window)
	return &feedPage, nil
}
