// Command seed fills the configured store with demo posts.
package main

import (
	"context"
	"flag"
	"log"

	"hotgist/internal/bootstrap"
	"hotgist/internal/campus"
	"hotgist/internal/config"
	"hotgist/internal/observability"
	"hotgist/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 20, "Number of registered authors to create")
	numPosts := flag.Int("posts", 200, "Number of posts to create")
	maxDays := flag.Int("days", 7, "Spread posts over this many days")
	maxReactions := flag.Int("reactions", 25, "Maximum reactions per post")
	maxComments := flag.Int("comments", 8, "Maximum comments per post")
	randSeed := flag.Int64("seed", 0, "Random seed (0 = time based)")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger := observability.NewLogger(cfg.Env)

	store, err := bootstrap.OpenStore(cfg, logger)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer func() { _ = store.Close() }()

	ctx := context.Background()
	if err := store.Campuses.Upsert(ctx, campus.Default()); err != nil {
		log.Fatalf("Campus seeding failed: %v", err)
	}

	sum, err := seed.NewFactory(store, seed.Options{
		Users:        *numUsers,
		Posts:        *numPosts,
		MaxDays:      *maxDays,
		MaxReactions: *maxReactions,
		MaxComments:  *maxComments,
		RandSeed:     *randSeed,
	}).Seed(ctx)
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Printf("Seeded %d users, %d posts, %d reactions, %d comments (driver=%s)",
		sum.Users, sum.Posts, sum.Reactions, sum.Comments, cfg.StorageDriver)
}
