package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"quill/internal/cache"
	"quill/internal/models"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const groupTTL = 10 * time.Minute

func groupKey(slug string) string {
	return fmt.Sprintf("group:%s", slug)
}

// GroupRepository defines the interface for group data operations
type GroupRepository interface {
	Create(ctx context.Context, group *models.Group) error
	GetBySlug(ctx context.Context, slug string) (*models.Group, error)
	Update(ctx context.Context, group *models.Group) error
	Delete(ctx context.Context, id uint) error
}

type groupRepository struct {
	db    *gorm.DB
	redis *redis.Client
}

// NewGroupRepository creates a new group repository. The redis client may be
// nil; slug lookups then always hit the database.
func NewGroupRepository(db *gorm.DB, redisClient *redis.Client) GroupRepository {
	return &groupRepository{db: db, redis: redisClient}
}

// isDuplicateKey matches the unique-index violation across drivers; the
// postgres and sqlite messages differ and gorm only translates when asked.
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint")
}

func (r *groupRepository) Create(ctx context.Context, group *models.Group) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Group{}).
		Where("slug = ?", group.Slug).Count(&count).Error; err != nil {
		return models.NewInternalError(err)
	}
	if count > 0 {
		return models.NewValidationError("A group with this slug already exists")
	}
	if err := r.db.WithContext(ctx).Create(group).Error; err != nil {
		// Two concurrent creates can both pass the count; the unique index
		// decides, and the loser gets the same validation error.
		if isDuplicateKey(err) {
			return models.NewValidationError("A group with this slug already exists")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *groupRepository) GetBySlug(ctx context.Context, slug string) (*models.Group, error) {
	var group models.Group

	found, err := cache.GetJSON(ctx, r.redis, groupKey(slug), &group)
	if err == nil && found {
		return &group, nil
	}

	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&group).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Group", slug)
		}
		return nil, models.NewInternalError(err)
	}

	// Best-effort: a failed cache write only costs the next lookup a query.
	_ = cache.SetJSON(ctx, r.redis, groupKey(slug), &group, groupTTL)
	return &group, nil
}

func (r *groupRepository) Update(ctx context.Context, group *models.Group) error {
	if err := r.db.WithContext(ctx).Save(group).Error; err != nil {
		return models.NewInternalError(err)
	}
	if r.redis != nil {
		r.redis.Del(ctx, groupKey(group.Slug))
	}
	return nil
}

// Delete removes the group and detaches its posts. Posts are never
// cascade-deleted with their group; their group_id is nulled instead.
func (r *groupRepository) Delete(ctx context.Context, id uint) error {
	var group models.Group
	if err := r.db.WithContext(ctx).First(&group, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Group", id)
		}
		return models.NewInternalError(err)
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Post{}).Where("group_id = ?", id).
			Update("group_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Group{}, id).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}

	if r.redis != nil {
		r.redis.Del(ctx, groupKey(group.Slug))
	}
	return nil
}
