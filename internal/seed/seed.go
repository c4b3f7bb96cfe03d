// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"jokerclub/internal/models"

	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers      int
	NumTweets     int
	NumCodeblocks int
	NumProducts   int
	// MaxDays bounds how far back generated created_at timestamps go.
	MaxDays int
	// SkipBcrypt stores plaintext passwords for faster dev seeding.
	SkipBcrypt bool
	// DryRun builds entities without touching the database.
	DryRun      bool
	ShouldClean bool
}

// Seed populates the database with test data
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("🌱 Starting database seeding with %d users, %d tweets and %d codeblocks...",
		opts.NumUsers, opts.NumTweets, opts.NumCodeblocks)

	// Clear existing data to avoid conflicts if requested
	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Println("⚠️  Warning: Could not clear all existing data, but continuing anyway...")
		}
	}

	f := NewFactory(db, opts)

	users, err := createUsers(f, opts.NumUsers)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("✓ %d test users created", len(users))

	if err := createFollowMesh(f, users); err != nil {
		return fmt.Errorf("failed to create follows: %w", err)
	}

	tweets, err := createTweets(f, users, opts.NumTweets)
	if err != nil {
		return fmt.Errorf("failed to create tweets: %w", err)
	}
	log.Printf("✓ %d tweets created", len(tweets))

	if err := createInteractions(f, users, tweets); err != nil {
		return fmt.Errorf("failed to create interactions: %w", err)
	}

	codeblocks, err := createCodeblocks(f, users, opts.NumCodeblocks)
	if err != nil {
		return fmt.Errorf("failed to create codeblocks: %w", err)
	}
	log.Printf("✓ %d codeblocks created", len(codeblocks))

	if err := createProducts(f, users, opts.NumProducts); err != nil {
		return fmt.Errorf("failed to create products: %w", err)
	}

	log.Println("🎉 Database seeding completed successfully!")
	return nil
}

func clearData(db *gorm.DB) error {
	log.Println("🗑️  Clearing existing data...")
	sql := `TRUNCATE TABLE notifications, codeblock_grants, codeblock_links, codeblocks, replies, retweets, likes, tweets, follows, products, user_roles, users RESTART IDENTITY CASCADE;`
	return db.Exec(sql).Error
}

func createUsers(f *Factory, count int) ([]*models.User, error) {
	users := make([]*models.User, 0, count)

	// Always include some specific users for consistency if cleaning
	if count >= 3 {
		baseUsers := []string{"joker", "coringa", "test"}
		for _, u := range baseUsers {
			name := u
			user, err := f.CreateUser(func(user *models.User) {
				user.Username = name
				user.Email = fmt.Sprintf("%s@example.com", name)
				user.Bio = "One of the OGs."
				user.Avatar = fmt.Sprintf("https://i.pravatar.cc/150?u=%s", name)
				user.IsVerified = true
			})
			if err != nil {
				continue
			}
			users = append(users, user)
		}
		// first base user runs the club
		if len(users) > 0 {
			if err := f.GrantAdminRole(users[0]); err != nil {
				log.Printf("Failed to grant admin role to %s: %v", users[0].Username, err)
			}
		}
	}

	for i := len(users); i < count; i++ {
		user, err := f.CreateUser()
		if err != nil {
			log.Printf("Failed to create user: %v", err)
			continue
		}
		users = append(users, user)

		if i%100 == 0 {
			log.Printf("Created %d users...", i)
		}
	}

	return users, nil
}

func createFollowMesh(f *Factory, users []*models.User) error {
	if len(users) < 2 {
		return nil
	}
	//nolint:gosec // Weak random number generator is fine for seeding
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	for _, follower := range users {
		// each user follows a handful of others
		n := r.Intn(5) + 1
		for j := 0; j < n; j++ {
			followed := users[r.Intn(len(users))]
			if followed.ID == follower.ID {
				continue
			}
			// duplicate pairs hit the unique index; skip and move on
			if err := f.CreateFollow(follower, followed); err != nil {
				continue
			}
		}
	}
	return nil
}

func createTweets(f *Factory, users []*models.User, count int) ([]*models.Tweet, error) {
	//nolint:gosec // Weak random number generator is fine for seeding
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	tweets := make([]*models.Tweet, 0, count)
	for i := 0; i < count; i++ {
		user := users[r.Intn(len(users))]
		tweets = append(tweets, f.BuildTweet(user))
	}

	if len(tweets) == 0 {
		return tweets, nil
	}
	if err := f.CreateTweetsBatch(tweets); err != nil {
		return nil, err
	}
	return tweets, nil
}

func createInteractions(f *Factory, users []*models.User, tweets []*models.Tweet) error {
	if len(tweets) == 0 || len(users) == 0 {
		return nil
	}
	//nolint:gosec // Weak random number generator is fine for seeding
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	for _, tweet := range tweets {
		likes := r.Intn(4)
		for j := 0; j < likes; j++ {
			user := users[r.Intn(len(users))]
			if err := f.CreateLike(user, tweet); err != nil {
				continue
			}
			if user.ID != tweet.UserID {
				_ = f.CreateNotification(&models.User{ID: tweet.UserID}, user, models.NotificationTypeLike, &tweet.ID)
			}
		}

		if r.Float32() < 0.2 {
			user := users[r.Intn(len(users))]
			_ = f.CreateRetweet(user, tweet)
		}

		if r.Float32() < 0.3 {
			user := users[r.Intn(len(users))]
			if _, err := f.CreateReply(user, tweet); err == nil && user.ID != tweet.UserID {
				_ = f.CreateNotification(&models.User{ID: tweet.UserID}, user, models.NotificationTypeReply, &tweet.ID)
			}
		}
	}
	return nil
}

func createCodeblocks(f *Factory, users []*models.User, count int) ([]*models.Codeblock, error) {
	//nolint:gosec // Weak random number generator is fine for seeding
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	// roughly half public, a third paid, the rest private
	tiers := []CodeblockTier{
		TierPublic, TierPublic, TierPublic,
		TierPaid, TierPaid,
		TierPrivate,
	}

	codeblocks := make([]*models.Codeblock, 0, count)
	for i := 0; i < count; i++ {
		creator := users[r.Intn(len(users))]
		tier := tiers[i%len(tiers)]

		cb, err := f.CreateCodeblock(creator, tier)
		if err != nil {
			return nil, err
		}
		codeblocks = append(codeblocks, cb)

		// paid content gets a couple of unlocked viewers
		if tier == TierPaid && len(users) > 1 {
			for j := 0; j < 2; j++ {
				grantee := users[r.Intn(len(users))]
				if grantee.ID == creator.ID {
					continue
				}
				if err := f.CreateGrant(cb, grantee); err != nil {
					continue
				}
			}
		}
	}

	return codeblocks, nil
}

func createProducts(f *Factory, users []*models.User, count int) error {
	if count == 0 || len(users) == 0 {
		return nil
	}
	// products belong to the admin account seeded first
	creator := users[0]
	for i := 0; i < count; i++ {
		pinned := i == 0
		if _, err := f.CreateProduct(creator, func(p *models.Product) {
			p.IsPinned = pinned
		}); err != nil {
			return err
		}
	}
	log.Printf("✓ %d products created", count)
	return nil
}
