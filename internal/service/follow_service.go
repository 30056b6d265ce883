package service

import (
	"context"

	"quill/internal/repository"
)

// FollowService applies the follow graph rules on top of the edge repository.
type FollowService struct {
	userRepo   repository.UserRepository
	followRepo repository.FollowRepository
}

// NewFollowService creates a follow service.
func NewFollowService(userRepo repository.UserRepository, followRepo repository.FollowRepository) *FollowService {
	return &FollowService{userRepo: userRepo, followRepo: followRepo}
}

// Follow creates the edge follower -> followee (resolved by username).
// Following yourself is a no-op, not an error; repeated calls leave exactly
// one edge. An unknown username is NotFound.
func (s *FollowService) Follow(ctx context.Context, followerID uint, followeeUsername string) error {
	followee, err := s.userRepo.GetByUsername(ctx, followeeUsername)
	if err != nil {
		return err
	}
	if followee.ID == followerID {
		return nil
	}
	return s.followRepo.Follow(ctx, followerID, followee.ID)
}

// Unfollow removes the edge if present. A missing edge is a silent success;
// only an unknown username is NotFound.
func (s *FollowService) Unfollow(ctx context.Context, followerID uint, followeeUsername string) error {
	followee, err := s.userRepo.GetByUsername(ctx, followeeUsername)
	if err != nil {
		return err
	}
	return s.followRepo.Unfollow(ctx, followerID, followee.ID)
}

// IsFollowing reports whether follower watches followee.
func (s *FollowService) IsFollowing(ctx context.Context, followerID, followeeID uint) (bool, error) {
	return s.followRepo.IsFollowing(ctx, followerID, followeeID)
}
