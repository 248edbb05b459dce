package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"hotgist/internal/campus"
	"hotgist/internal/models"
	"hotgist/internal/observability"
	"hotgist/internal/repository"
	"hotgist/internal/repository/filestore"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T) *repository.Store {
	t.Helper()
	fs, err := filestore.Open(t.TempDir())
	require.NoError(t, err)
	store := fs.Repositories()
	require.NoError(t, store.Campuses.Upsert(context.Background(), campus.Default()))
	return store
}

func seedPost(t *testing.T, store *repository.Store, campusID string, age time.Duration) *models.Post {
	t.Helper()
	return seedPostBy(t, store, campusID, "", age)
}

func seedPostBy(t *testing.T, store *repository.Store, campusID, authorID string, age time.Duration) *models.Post {
	t.Helper()
	at := testNow.Add(-age)
	p := &models.Post{
		ID:         uuid.NewString(),
		Content:    fmt.Sprintf("%s post aged %s", campusID, age),
		AuthorID:   authorID,
		AuthorName: "Anonymous",
		Campus:     campusID,
		CreatedAt:  at,
		UpdatedAt:  at,
	}
	require.NoError(t, store.Posts.Create(context.Background(), p))
	return p
}

func seedReactions(t *testing.T, store *repository.Store, postID string, n int, typ models.ReactionType) {
	t.Helper()
	for i := 0; i < n; i++ {
		require.NoError(t, store.Reactions.Create(context.Background(), &models.Reaction{
			ID:        uuid.NewString(),
			PostID:    postID,
			UserID:    fmt.Sprintf("%s-user-%d", typ, i),
			Type:      typ,
			CreatedAt: testNow,
			UpdatedAt: testNow,
		}))
	}
}

func seedComment(t *testing.T, store *repository.Store, postID string, age time.Duration) {
	t.Helper()
	require.NoError(t, store.Comments.Create(context.Background(), &models.Comment{
		ID:         uuid.NewString(),
		PostID:     postID,
		AuthorName: "Anonymous",
		Content:    "nice",
		CreatedAt:  testNow.Add(-age),
	}))
}

func newTestFeed(store *repository.Store, agg Aggregator, cfg FeedConfig) *FeedService {
	if agg == nil {
		agg = NewStoreAggregator(store.Reactions, store.Comments)
	}
	return NewFeedService(store, agg, nil, cfg, observability.NopLogger()).
		WithClock(func() time.Time { return testNow })
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, code, appErr.Code)
}

func feedIDs(posts []*models.FeedPost) []string {
	out := make([]string, len(posts))
	for i, p := range posts {
		out[i] = p.ID
	}
	return out
}

func intPtr(v int) *int { return &v }

// aggregatorFunc adapts a function to Aggregator.
type aggregatorFunc func(ctx context.Context, postID string) (models.Engagement, error)

func (f aggregatorFunc) Aggregate(ctx context.Context, postID string) (models.Engagement, error) {
	return f(ctx, postID)
}

// failingPosts wraps a PostRepository and fails listing calls.
type failingPosts struct {
	repository.PostRepository
	err error
}

func (f failingPosts) ListByCampus(context.Context, string, int) ([]*models.Post, error) {
	return nil, f.err
}

func (f failingPosts) ListSince(context.Context, time.Time) ([]*models.Post, error) {
	return nil, f.err
}

// failingReactions fails every list call.
type failingReactions struct {
	repository.ReactionRepository
}

func (failingReactions) ListByPost(context.Context, string) ([]*models.Reaction, error) {
	return nil, models.NewStorageUnavailableError(fmt.Errorf("disk gone"))
}
