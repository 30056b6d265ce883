package seed

import (
	"fmt"
	"log"

	"quill/internal/models"

	"gorm.io/gorm"
)

// Options configures the seeder.
type Options struct {
	Users  int
	Posts  int
	Groups int
}

// Run fills the database with users, groups, posts, comments, and a follow
// mesh so every feed variant has content during development.
func Run(db *gorm.DB, opts Options) error {
	if opts.Users <= 0 {
		opts.Users = 10
	}
	if opts.Posts <= 0 {
		opts.Posts = 80
	}
	if opts.Groups <= 0 {
		opts.Groups = 5
	}

	f := NewFactory(db)

	users := make([]*models.User, 0, opts.Users)
	for i := 0; i < opts.Users; i++ {
		user, err := f.CreateUser()
		if err != nil {
			return fmt.Errorf("seed user: %w", err)
		}
		users = append(users, user)
	}

	groups := make([]*models.Group, 0, opts.Groups)
	for i := 0; i < opts.Groups; i++ {
		group, err := f.CreateGroup()
		if err != nil {
			return fmt.Errorf("seed group: %w", err)
		}
		groups = append(groups, group)
	}

	posts := make([]*models.Post, 0, opts.Posts)
	for i := 0; i < opts.Posts; i++ {
		author := users[f.rand.Intn(len(users))]
		var group *models.Group
		// Roughly a third of posts go without a group, like real usage.
		if f.rand.Intn(3) > 0 {
			group = groups[f.rand.Intn(len(groups))]
		}
		post, err := f.CreatePost(author, group)
		if err != nil {
			return fmt.Errorf("seed post: %w", err)
		}
		posts = append(posts, post)
	}

	commentCount := 0
	for _, post := range posts {
		n := f.rand.Intn(4)
		for i := 0; i < n; i++ {
			author := users[f.rand.Intn(len(users))]
			if _, err := f.CreateComment(post, author); err != nil {
				return fmt.Errorf("seed comment: %w", err)
			}
			commentCount++
		}
	}

	// Follow mesh: each user follows a handful of others. The edge insert is
	// idempotent, so collisions and self-picks are simply skipped.
	followCount := 0
	for _, follower := range users {
		n := f.rand.Intn(4) + 1
		for i := 0; i < n; i++ {
			followee := users[f.rand.Intn(len(users))]
			if followee.ID == follower.ID {
				continue
			}
			err := db.Exec(
				`INSERT INTO follows (follower_id, followee_id, created_at)
				 VALUES (?, ?, CURRENT_TIMESTAMP)
				 ON CONFLICT (follower_id, followee_id) DO NOTHING`,
				follower.ID, followee.ID,
			).Error
			if err != nil {
				return fmt.Errorf("seed follow: %w", err)
			}
			followCount++
		}
	}

	log.Printf("Seeded %d users, %d groups, %d posts, %d comments, %d follow edges",
		len(users), len(groups), len(posts), commentCount, followCount)
	return nil
}
