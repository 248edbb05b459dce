// Package seed fills a store with demo data for local development.
package seed

import (
	"context"
	"fmt"
	"time"

	"hotgist/internal/models"
	"hotgist/internal/repository"

	"github.com/brianvoe/gofakeit/v6"
)

// Options controls how much data Seed creates.
type Options struct {
	Users        int
	Posts        int
	MaxDays      int // posts are spread over this many days back
	MaxReactions int
	MaxComments  int
	// RandSeed makes a run reproducible. Zero picks a time-based seed.
	RandSeed int64
}

// Summary reports what Seed wrote.
type Summary struct {
	Users     int
	Posts     int
	Reactions int
	Comments  int
}

// Factory builds domain entities and persists them through the repositories.
type Factory struct {
	store    *repository.Store
	opts     Options
	faker    *gofakeit.Faker
	campuses []string
	now      time.Time
}

// NewFactory creates a Factory over store.
func NewFactory(store *repository.Store, opts Options) *Factory {
	if opts.MaxDays <= 0 {
		opts.MaxDays = 7
	}
	if opts.RandSeed == 0 {
		opts.RandSeed = time.Now().UnixNano()
	}
	return &Factory{
		store: store,
		opts:  opts,
		faker: gofakeit.New(opts.RandSeed),
		now:   time.Now().UTC(),
	}
}

// Seed creates users, then posts spread over every campus with reactions
// and comments. Post counters are written consistent with the records.
func (f *Factory) Seed(ctx context.Context) (Summary, error) {
	var sum Summary

	catalog, err := f.store.Campuses.List(ctx)
	if err != nil {
		return sum, fmt.Errorf("list campuses: %w", err)
	}
	f.campuses = []string{models.GeneralCampus}
	for _, c := range catalog {
		f.campuses = append(f.campuses, c.ID)
	}

	users := make([]*models.User, 0, f.opts.Users)
	for i := 0; i < f.opts.Users; i++ {
		u := f.BuildUser()
		if err := f.store.Users.Upsert(ctx, u); err != nil {
			return sum, fmt.Errorf("create user: %w", err)
		}
		users = append(users, u)
	}
	sum.Users = len(users)

	for i := 0; i < f.opts.Posts; i++ {
		var author *models.User
		if len(users) > 0 && f.faker.Bool() {
			author = users[f.faker.Number(0, len(users)-1)]
		}
		reactions, comments, err := f.seedPost(ctx, author)
		if err != nil {
			return sum, err
		}
		sum.Posts++
		sum.Reactions += reactions
		sum.Comments += comments
	}
	return sum, nil
}

// BuildUser returns an unsaved user.
func (f *Factory) BuildUser() *models.User {
	return &models.User{
		ID:          f.faker.UUID(),
		DisplayName: f.faker.Username(),
		PhotoURL:    fmt.Sprintf("https://picsum.photos/seed/%s/200/200", f.faker.UUID()),
		Bio:         f.faker.Sentence(8),
		CreatedAt:   f.now,
	}
}

// BuildPost returns an unsaved post on a random campus. A nil author makes
// it anonymous.
func (f *Factory) BuildPost(author *models.User) *models.Post {
	minutesBack := f.faker.Number(0, f.opts.MaxDays*24*60)
	createdAt := f.now.Add(-time.Duration(minutesBack) * time.Minute)

	post := &models.Post{
		ID:         f.faker.UUID(),
		Content:    f.faker.Sentence(f.faker.Number(4, 30)),
		AuthorName: "Anonymous",
		Campus:     f.campuses[f.faker.Number(0, len(f.campuses)-1)],
		CreatedAt:  createdAt,
		UpdatedAt:  createdAt,
	}
	if author != nil {
		post.AuthorID = author.ID
		post.AuthorName = author.DisplayName
	}
	if f.faker.Number(1, 5) == 1 {
		post.ImageURL = fmt.Sprintf("https://picsum.photos/seed/%s/800/800", f.faker.UUID())
	}
	return post
}

func (f *Factory) seedPost(ctx context.Context, author *models.User) (int, int, error) {
	post := f.BuildPost(author)
	nReactions := f.faker.Number(0, max(f.opts.MaxReactions, 0))
	nComments := f.faker.Number(0, max(f.opts.MaxComments, 0))
	post.ReactionCount = nReactions
	post.CommentCount = nComments

	if err := f.store.Posts.Create(ctx, post); err != nil {
		return 0, 0, fmt.Errorf("create post: %w", err)
	}

	for i := 0; i < nReactions; i++ {
		at := f.after(post.CreatedAt)
		err := f.store.Reactions.Create(ctx, &models.Reaction{
			ID:        f.faker.UUID(),
			PostID:    post.ID,
			UserID:    fmt.Sprintf("seed-user-%d", i),
			Type:      models.ReactionTypes[f.faker.Number(0, len(models.ReactionTypes)-1)],
			CreatedAt: at,
			UpdatedAt: at,
		})
		if err != nil {
			return 0, 0, fmt.Errorf("create reaction: %w", err)
		}
	}

	for i := 0; i < nComments; i++ {
		err := f.store.Comments.Create(ctx, &models.Comment{
			ID:         f.faker.UUID(),
			PostID:     post.ID,
			AuthorName: "Anonymous",
			Content:    f.faker.Sentence(f.faker.Number(2, 12)),
			CreatedAt:  f.after(post.CreatedAt),
		})
		if err != nil {
			return 0, 0, fmt.Errorf("create comment: %w", err)
		}
	}
	return nReactions, nComments, nil
}

// after returns a random instant between t and now.
func (f *Factory) after(t time.Time) time.Time {
	span := int(f.now.Sub(t) / time.Minute)
	return t.Add(time.Duration(f.faker.Number(0, max(span, 0))) * time.Minute)
}
