// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"jokerclub/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by seed presets and tests.
type Factory struct {
	db   *gorm.DB
	opts Options
	// synthetic ID counter when running in DryRun mode
	nextID uint
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	// seed gofakeit for richer content
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{db: db, opts: opts, nextID: 1000}
}

// CreateUser constructs and persists a sample `models.User`.
// Optional override functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	user := &models.User{
		Username: gofakeit.Username() + fmt.Sprintf("%d", gofakeit.Number(100, 999)),
		Email:    gofakeit.Email(),
		FullName: gofakeit.Name(),
		Bio:      gofakeit.Sentence(10),
		Avatar:   fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
	}

	// Password handling: allow skipping bcrypt in dev fast mode
	if f.opts.SkipBcrypt {
		user.Password = "password123"
	} else {
		hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
		user.Password = string(hashedPassword)
	}

	for _, override := range overrides {
		override(user)
	}

	if f.opts.DryRun {
		f.nextID++
		user.ID = f.nextID
		log.Printf("[dry-run] CreateUser: %s", user.Username)
		return user, nil
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// GrantAdminRole records the admin role for the given user.
func (f *Factory) GrantAdminRole(user *models.User) error {
	if f.opts.DryRun {
		log.Printf("[dry-run] GrantAdminRole: user=%d", user.ID)
		return nil
	}
	role := &models.UserRole{UserID: user.ID, Role: models.RoleAdmin}
	return f.db.Create(role).Error
}

// BuildTweet constructs a tweet struct with a realistic created_at spread
// but does not persist it. Useful for batching.
func (f *Factory) BuildTweet(user *models.User, overrides ...func(*models.Tweet)) *models.Tweet {
	tweet := &models.Tweet{
		Content: gofakeit.Sentence(gofakeit.Number(4, 18)),
		UserID:  user.ID,
	}

	if gofakeit.Float32() < 0.3 {
		tweet.Images = []string{
			fmt.Sprintf("https://picsum.photos/seed/%s/800/800", gofakeit.UUID()),
		}
	}

	tweet.CreatedAt = f.spreadTimestamp()

	for _, override := range overrides {
		override(tweet)
	}
	return tweet
}

// CreateTweet constructs and persists a sample `models.Tweet` for the given user.
func (f *Factory) CreateTweet(user *models.User, overrides ...func(*models.Tweet)) (*models.Tweet, error) {
	tweet := f.BuildTweet(user, overrides...)

	if f.opts.DryRun {
		f.nextID++
		tweet.ID = f.nextID
		log.Printf("[dry-run] CreateTweet: user=%d content=%q", tweet.UserID, tweet.Content)
		return tweet, nil
	}

	if err := f.db.Create(tweet).Error; err != nil {
		return nil, err
	}
	return tweet, nil
}

// CreateTweetsBatch persists multiple tweets in a single DB call when possible.
func (f *Factory) CreateTweetsBatch(tweets []*models.Tweet) error {
	if f.opts.DryRun {
		for _, tw := range tweets {
			f.nextID++
			tw.ID = f.nextID
		}
		log.Printf("[dry-run] CreateTweetsBatch: %d tweets (no DB write)", len(tweets))
		return nil
	}
	return f.db.Create(&tweets).Error
}

// CreateReply constructs and persists a reply on the provided tweet authored
// by the provided user.
func (f *Factory) CreateReply(user *models.User, tweet *models.Tweet, overrides ...func(*models.Reply)) (*models.Reply, error) {
	reply := &models.Reply{
		Content: gofakeit.Sentence(8),
		UserID:  user.ID,
		TweetID: tweet.ID,
	}

	for _, override := range overrides {
		override(reply)
	}

	if f.opts.DryRun {
		f.nextID++
		reply.ID = f.nextID
		return reply, nil
	}

	if err := f.db.Create(reply).Error; err != nil {
		return nil, err
	}
	return reply, nil
}

// CreateLike persists a like from `user` on `tweet`.
func (f *Factory) CreateLike(user *models.User, tweet *models.Tweet) error {
	if f.opts.DryRun {
		return nil
	}
	like := &models.Like{
		UserID:  user.ID,
		TweetID: tweet.ID,
	}
	return f.db.Create(like).Error
}

// CreateRetweet persists a retweet from `user` on `tweet`.
func (f *Factory) CreateRetweet(user *models.User, tweet *models.Tweet) error {
	if f.opts.DryRun {
		return nil
	}
	retweet := &models.Retweet{
		UserID:  user.ID,
		TweetID: tweet.ID,
	}
	return f.db.Create(retweet).Error
}

// CreateFollow persists a follow edge from `follower` to `followee`.
func (f *Factory) CreateFollow(follower, followee *models.User) error {
	if f.opts.DryRun {
		return nil
	}
	follow := &models.Follow{
		FollowerID: follower.ID,
		FolloweeID: followee.ID,
	}
	return f.db.Create(follow).Error
}

// CodeblockTier names the seeded visibility shape of a codeblock.
type CodeblockTier string

// Seeded codeblock tiers.
const (
	TierPrivate CodeblockTier = "private"
	TierPaid    CodeblockTier = "paid"
	TierPublic  CodeblockTier = "public"
)

var codeblockLanguages = []string{"go", "typescript", "python", "rust", "sql", "bash"}

var codeblockCategories = []string{"snippets", "tutorials", "configs", "algorithms", "tooling"}

// BuildCodeblock constructs a codeblock of the given tier with links and a
// realistic created_at spread, without persisting it.
func (f *Factory) BuildCodeblock(creator *models.User, tier CodeblockTier, overrides ...func(*models.Codeblock)) *models.Codeblock {
	language := codeblockLanguages[gofakeit.Number(0, len(codeblockLanguages)-1)]
	lines := make([]string, 0, 16)
	for i := 0; i < gofakeit.Number(8, 16); i++ {
		lines = append(lines, fmt.Sprintf("// %s", gofakeit.HackerPhrase()))
	}

	cb := &models.Codeblock{
		Title:       gofakeit.Sentence(4),
		Description: gofakeit.Paragraph(1, 2, 8, " "),
		Content:     strings.Join(lines, "\n"),
		Language:    language,
		Category:    codeblockCategories[gofakeit.Number(0, len(codeblockCategories)-1)],
		Tags:        []string{language, gofakeit.HackerNoun()},
		CreatedBy:   creator.ID,
	}

	switch tier {
	case TierPrivate:
		cb.IsPublic = false
	case TierPaid:
		cb.IsPublic = true
		cb.IsBlurred = true
	default:
		cb.IsPublic = true
	}

	// some content carries inline markdown images
	if gofakeit.Float32() < 0.2 {
		cb.Content = fmt.Sprintf("![diagram](https://picsum.photos/seed/%s/600/400)\n%s", gofakeit.UUID(), cb.Content)
	}

	for i := 0; i < gofakeit.Number(0, 3); i++ {
		cb.Links = append(cb.Links, models.CodeblockLink{
			Name:     gofakeit.DomainName(),
			URL:      gofakeit.URL(),
			Position: i,
		})
	}

	cb.CreatedAt = f.spreadTimestamp()

	for _, override := range overrides {
		override(cb)
	}
	return cb
}

// CreateCodeblock constructs and persists a codeblock of the given tier.
func (f *Factory) CreateCodeblock(creator *models.User, tier CodeblockTier, overrides ...func(*models.Codeblock)) (*models.Codeblock, error) {
	cb := f.BuildCodeblock(creator, tier, overrides...)

	if f.opts.DryRun {
		f.nextID++
		cb.ID = f.nextID
		log.Printf("[dry-run] CreateCodeblock: tier=%s creator=%d title=%q", tier, cb.CreatedBy, cb.Title)
		return cb, nil
	}

	if err := f.db.Create(cb).Error; err != nil {
		return nil, err
	}
	return cb, nil
}

// CreateGrant persists an access grant on `cb` for `grantee`, recorded as
// issued by the codeblock's creator.
func (f *Factory) CreateGrant(cb *models.Codeblock, grantee *models.User) error {
	if f.opts.DryRun {
		return nil
	}
	grant := &models.CodeblockGrant{
		CodeblockID: cb.ID,
		UserID:      grantee.ID,
		GrantedBy:   cb.CreatedBy,
	}
	return f.db.Create(grant).Error
}

// CreateProduct constructs and persists a marketplace product owned by the
// given admin user.
func (f *Factory) CreateProduct(creator *models.User, overrides ...func(*models.Product)) (*models.Product, error) {
	product := &models.Product{
		Name:        gofakeit.ProductName(),
		Description: gofakeit.ProductDescription(),
		PriceCents:  int64(gofakeit.Number(500, 50000)),
		Images: []string{
			fmt.Sprintf("https://picsum.photos/seed/%s/600/600", gofakeit.UUID()),
		},
		PixPayload:  gofakeit.UUID(),
		WhatsApp:    gofakeit.Phone(),
		IsAvailable: true,
		CreatedBy:   creator.ID,
	}

	for _, override := range overrides {
		override(product)
	}

	if f.opts.DryRun {
		f.nextID++
		product.ID = f.nextID
		return product, nil
	}

	if err := f.db.Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// CreateNotification persists a social notification for `user` caused by `actor`.
func (f *Factory) CreateNotification(user, actor *models.User, ntype models.NotificationType, tweetID *uint) error {
	if f.opts.DryRun {
		return nil
	}
	n := &models.Notification{
		UserID:  user.ID,
		ActorID: actor.ID,
		Type:    ntype,
		TweetID: tweetID,
	}
	return f.db.Create(n).Error
}

// spreadTimestamp returns a created_at within the last MaxDays days.
func (f *Factory) spreadTimestamp() time.Time {
	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 90
	}
	//nolint:gosec // Weak random number generator is fine for seeding
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	daysBack := r.Intn(maxDays)
	hoursBack := r.Intn(24)
	minsBack := r.Intn(60)
	return time.Now().Add(-time.Duration(daysBack)*24*time.Hour - time.Duration(hoursBack)*time.Hour - time.Duration(minsBack)*time.Minute)
}
