// Package repotest holds behaviour tests every storage adapter must pass.
package repotest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"hotgist/internal/models"
	"hotgist/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Factory returns a fresh, empty store for one test.
type Factory func(t *testing.T) *repository.Store

var base = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

// NewPost builds a post on campus created offset after a fixed base time.
func NewPost(campus string, offset time.Duration) *models.Post {
	at := base.Add(offset)
	return &models.Post{
		ID:         uuid.NewString(),
		Content:    fmt.Sprintf("post on %s at %s", campus, at.Format(time.Kitchen)),
		AuthorName: "Anonymous",
		Campus:     campus,
		CreatedAt:  at,
		UpdatedAt:  at,
	}
}

// Run executes the shared adapter behaviour against newStore.
func Run(t *testing.T, newStore Factory) {
	t.Run("PostCRUD", func(t *testing.T) { testPostCRUD(t, newStore(t)) })
	t.Run("ListByCampus", func(t *testing.T) { testListByCampus(t, newStore(t)) })
	t.Run("ListSince", func(t *testing.T) { testListSince(t, newStore(t)) })
	t.Run("Counters", func(t *testing.T) { testCounters(t, newStore(t)) })
	t.Run("ReactionUniqueness", func(t *testing.T) { testReactionUniqueness(t, newStore(t)) })
	t.Run("ReactionUpdateDelete", func(t *testing.T) { testReactionUpdateDelete(t, newStore(t)) })
	t.Run("Comments", func(t *testing.T) { testComments(t, newStore(t)) })
	t.Run("CascadeDelete", func(t *testing.T) { testCascadeDelete(t, newStore(t)) })
	t.Run("Users", func(t *testing.T) { testUsers(t, newStore(t)) })
	t.Run("Campuses", func(t *testing.T) { testCampuses(t, newStore(t)) })
}

func testPostCRUD(t *testing.T, s *repository.Store) {
	ctx := context.Background()
	p := NewPost("GCTU", 0)
	p.ImageURL = "https://example.com/a.png"
	require.NoError(t, s.Posts.Create(ctx, p))

	got, err := s.Posts.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.Content, got.Content)
	assert.Equal(t, "GCTU", got.Campus)
	assert.Equal(t, p.ImageURL, got.ImageURL)
	assert.True(t, p.CreatedAt.Equal(got.CreatedAt))

	_, err = s.Posts.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func testListByCampus(t *testing.T, s *repository.Store) {
	ctx := context.Background()
	a := NewPost("GCTU", 1*time.Hour)
	b := NewPost("UG", 2*time.Hour)
	c := NewPost("GCTU", 3*time.Hour)
	d := NewPost(models.GeneralCampus, 4*time.Hour)
	for _, p := range []*models.Post{a, b, c, d} {
		require.NoError(t, s.Posts.Create(ctx, p))
	}

	gctu, err := s.Posts.ListByCampus(ctx, "GCTU", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{c.ID, a.ID}, ids(gctu))

	all, err := s.Posts.ListByCampus(ctx, "", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{d.ID, c.ID, b.ID, a.ID}, ids(all))

	limited, err := s.Posts.ListByCampus(ctx, "", 2)
	require.NoError(t, err)
	assert.Equal(t, []string{d.ID, c.ID}, ids(limited))

	none, err := s.Posts.ListByCampus(ctx, "UCC", 0)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func testListSince(t *testing.T, s *repository.Store) {
	ctx := context.Background()
	old := NewPost("UG", 0)
	fresh := NewPost("UG", 5*time.Hour)
	require.NoError(t, s.Posts.Create(ctx, old))
	require.NoError(t, s.Posts.Create(ctx, fresh))

	got, err := s.Posts.ListSince(ctx, base.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, []string{fresh.ID}, ids(got))
}

func testCounters(t *testing.T, s *repository.Store) {
	ctx := context.Background()
	p := NewPost("UCC", 0)
	require.NoError(t, s.Posts.Create(ctx, p))

	at := base.Add(time.Hour)
	require.NoError(t, s.Posts.UpdateReactionCount(ctx, p.ID, 3, at))
	require.NoError(t, s.Posts.UpdateCommentCount(ctx, p.ID, 2, at))

	got, err := s.Posts.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.ReactionCount)
	assert.Equal(t, 2, got.CommentCount)
	assert.True(t, at.Equal(got.UpdatedAt))

	err = s.Posts.UpdateReactionCount(ctx, "missing", 1, at)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func testReactionUniqueness(t *testing.T, s *repository.Store) {
	ctx := context.Background()
	p := NewPost("UG", 0)
	require.NoError(t, s.Posts.Create(ctx, p))

	first := &models.Reaction{ID: uuid.NewString(), PostID: p.ID, UserID: "u1", Type: models.ReactionFire, CreatedAt: base, UpdatedAt: base}
	require.NoError(t, s.Reactions.Create(ctx, first))

	dup := &models.Reaction{ID: uuid.NewString(), PostID: p.ID, UserID: "u1", Type: models.ReactionLaugh, CreatedAt: base, UpdatedAt: base}
	assert.Error(t, s.Reactions.Create(ctx, dup))

	other := &models.Reaction{ID: uuid.NewString(), PostID: p.ID, UserID: "u2", Type: models.ReactionLaugh, CreatedAt: base, UpdatedAt: base}
	require.NoError(t, s.Reactions.Create(ctx, other))

	list, err := s.Reactions.ListByPost(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	found, err := s.Reactions.FindByPostAndUser(ctx, p.ID, "u1")
	require.NoError(t, err)
	assert.Equal(t, models.ReactionFire, found.Type)

	_, err = s.Reactions.FindByPostAndUser(ctx, p.ID, "nobody")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func testReactionUpdateDelete(t *testing.T, s *repository.Store) {
	ctx := context.Background()
	p := NewPost("UG", 0)
	require.NoError(t, s.Posts.Create(ctx, p))

	r := &models.Reaction{ID: uuid.NewString(), PostID: p.ID, UserID: "u1", Type: models.ReactionFire, CreatedAt: base, UpdatedAt: base}
	require.NoError(t, s.Reactions.Create(ctx, r))

	require.NoError(t, s.Reactions.UpdateType(ctx, r.ID, models.ReactionShock, base.Add(time.Minute)))
	found, err := s.Reactions.FindByPostAndUser(ctx, p.ID, "u1")
	require.NoError(t, err)
	assert.Equal(t, models.ReactionShock, found.Type)

	require.NoError(t, s.Reactions.Delete(ctx, r.ID))
	_, err = s.Reactions.FindByPostAndUser(ctx, p.ID, "u1")
	assert.ErrorIs(t, err, models.ErrNotFound)

	assert.ErrorIs(t, s.Reactions.Delete(ctx, r.ID), models.ErrNotFound)
}

func testComments(t *testing.T, s *repository.Store) {
	ctx := context.Background()
	p := NewPost("KNUST", 0)
	require.NoError(t, s.Posts.Create(ctx, p))

	late := &models.Comment{ID: uuid.NewString(), PostID: p.ID, AuthorName: "Anonymous", Content: "second", CreatedAt: base.Add(2 * time.Minute)}
	early := &models.Comment{ID: uuid.NewString(), PostID: p.ID, AuthorName: "Anonymous", Content: "first", CreatedAt: base.Add(time.Minute)}
	require.NoError(t, s.Comments.Create(ctx, late))
	require.NoError(t, s.Comments.Create(ctx, early))

	list, err := s.Comments.ListByPost(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "first", list[0].Content)
	assert.Equal(t, "second", list[1].Content)

	got, err := s.Comments.GetByID(ctx, late.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.PostID)

	require.NoError(t, s.Comments.Delete(ctx, late.ID))
	_, err = s.Comments.GetByID(ctx, late.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.ErrorIs(t, s.Comments.Delete(ctx, late.ID), models.ErrNotFound)
}

func testCascadeDelete(t *testing.T, s *repository.Store) {
	ctx := context.Background()
	p := NewPost("UDS", 0)
	keep := NewPost("UDS", time.Minute)
	require.NoError(t, s.Posts.Create(ctx, p))
	require.NoError(t, s.Posts.Create(ctx, keep))

	require.NoError(t, s.Reactions.Create(ctx, &models.Reaction{ID: uuid.NewString(), PostID: p.ID, UserID: "u1", Type: models.ReactionFire, CreatedAt: base, UpdatedAt: base}))
	require.NoError(t, s.Reactions.Create(ctx, &models.Reaction{ID: uuid.NewString(), PostID: keep.ID, UserID: "u1", Type: models.ReactionFire, CreatedAt: base, UpdatedAt: base}))
	c := &models.Comment{ID: uuid.NewString(), PostID: p.ID, AuthorName: "Anonymous", Content: "bye", CreatedAt: base}
	require.NoError(t, s.Comments.Create(ctx, c))

	require.NoError(t, s.Posts.Delete(ctx, p.ID))

	_, err := s.Posts.GetByID(ctx, p.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)

	reactions, err := s.Reactions.ListByPost(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, reactions)

	comments, err := s.Comments.ListByPost(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, comments)

	_, err = s.Comments.GetByID(ctx, c.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)

	kept, err := s.Reactions.ListByPost(ctx, keep.ID)
	require.NoError(t, err)
	assert.Len(t, kept, 1)

	assert.ErrorIs(t, s.Posts.Delete(ctx, p.ID), models.ErrNotFound)
}

func testUsers(t *testing.T, s *repository.Store) {
	ctx := context.Background()
	u := &models.User{ID: "u1", DisplayName: "Ama", CreatedAt: base}
	require.NoError(t, s.Users.Upsert(ctx, u))

	u.DisplayName = "Ama K."
	require.NoError(t, s.Users.Upsert(ctx, u))

	got, err := s.Users.GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Ama K.", got.DisplayName)

	_, err = s.Users.GetByID(ctx, "ghost")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func testCampuses(t *testing.T, s *repository.Store) {
	ctx := context.Background()
	require.NoError(t, s.Campuses.Upsert(ctx, []models.Campus{
		{ID: "UG", Code: "UG", Name: "University of Ghana", Location: "Accra"},
		{ID: "GCTU", Code: "GCTU", Name: "Ghana Communication Technology University", Location: "Accra"},
	}))
	require.NoError(t, s.Campuses.Upsert(ctx, []models.Campus{
		{ID: "UG", Code: "UG", Name: "University of Ghana, Legon", Location: "Accra"},
	}))

	list, err := s.Campuses.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "GCTU", list[0].ID)
	assert.Equal(t, "University of Ghana, Legon", list[1].Name)
}

func ids(posts []*models.Post) []string {
	out := make([]string, len(posts))
	for i, p := range posts {
		out[i] = p.ID
	}
	return out
}
