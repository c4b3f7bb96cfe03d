// Command main runs the database seeder for Joker Club.
package main

import (
	"flag"
	"log"

	"jokerclub/internal/bootstrap"
	"jokerclub/internal/config"
	"jokerclub/internal/seed"
)

func main() {
	// Parse command line flags
	numUsers := flag.Int("users", 50, "Number of users to create")
	numTweets := flag.Int("tweets", 200, "Number of tweets to create")
	numCodeblocks := flag.Int("codeblocks", 30, "Number of codeblocks to create")
	numProducts := flag.Int("products", 5, "Number of products to create")
	maxDays := flag.Int("max-days", 90, "Spread created_at timestamps over this many days")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	skipBcrypt := flag.Bool("skip-bcrypt", false, "Store plaintext passwords (fast dev mode)")
	dryRun := flag.Bool("dry-run", false, "Build entities without writing to the database")
	flag.Parse()

	log.Println("🌱 Database Seeder")
	log.Println("==================")
	log.Printf("Target: %d users, %d tweets, %d codeblocks, clean=%v\n",
		*numUsers, *numTweets, *numCodeblocks, *shouldClean)

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, _, err := bootstrap.InitRuntime(cfg, bootstrap.Options{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	opts := seed.Options{
		NumUsers:      *numUsers,
		NumTweets:     *numTweets,
		NumCodeblocks: *numCodeblocks,
		NumProducts:   *numProducts,
		MaxDays:       *maxDays,
		SkipBcrypt:    *skipBcrypt,
		DryRun:        *dryRun,
		ShouldClean:   *shouldClean,
	}
	if err := seed.Seed(db, opts); err != nil {
		log.Fatalf("❌ Seeding failed: %v", err)
	}

	log.Println("✨ All done! Your database is now populated with test data.")
	log.Println("📧 All test users have the password: password123")
}
