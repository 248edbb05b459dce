package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"hotgist/internal/models"
	"hotgist/internal/observability"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPostService(t *testing.T) (*PostService, *recordingInvalidator) {
	t.Helper()
	store := newTestStore(t)
	inv := &recordingInvalidator{}
	agg := NewStoreAggregator(store.Reactions, store.Comments)
	return NewPostService(store, agg, inv, observability.NopLogger()), inv
}

func TestCreatePost(t *testing.T) {
	svc, _ := newPostService(t)
	ctx := context.Background()

	post, err := svc.CreatePost(ctx, CreatePostInput{Content: "  exams next week?  ", Campus: "GCTU"})
	require.NoError(t, err)
	assert.NotEmpty(t, post.ID)
	assert.Equal(t, "exams next week?", post.Content)
	assert.Equal(t, "Anonymous", post.AuthorName)
	assert.Equal(t, "GCTU", post.Campus)
	assert.Zero(t, post.ReactionCount)

	general, err := svc.CreatePost(ctx, CreatePostInput{Content: "hello", AuthorName: "Esi"})
	require.NoError(t, err)
	assert.Equal(t, models.GeneralCampus, general.Campus)
	assert.Equal(t, "Esi", general.AuthorName)

	fetched, err := svc.GetPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, post.ID, fetched.ID)
}

func TestCreatePost_Validation(t *testing.T) {
	svc, _ := newPostService(t)

	tests := []struct {
		name string
		in   CreatePostInput
	}{
		{"empty", CreatePostInput{Content: "   "}},
		{"too long", CreatePostInput{Content: strings.Repeat("a", 501)}},
		{"unknown campus", CreatePostInput{Content: "hi", Campus: "MIT"}},
		{"long author", CreatePostInput{Content: "hi", AuthorName: strings.Repeat("b", 101)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreatePost(context.Background(), tt.in)
			assertCode(t, err, models.CodeValidation)
		})
	}

	// Length is measured in characters, not bytes.
	_, err := svc.CreatePost(context.Background(), CreatePostInput{Content: strings.Repeat("é", 500)})
	assert.NoError(t, err)
}

func TestDeletePost_Cascades(t *testing.T) {
	store := newTestStore(t)
	inv := &recordingInvalidator{}
	svc := NewPostService(store, NewStoreAggregator(store.Reactions, store.Comments), inv, observability.NopLogger())
	ctx := context.Background()

	post := seedPost(t, store, "UPSA", time.Hour)
	seedReactions(t, store, post.ID, 2, models.ReactionLaugh)
	seedComment(t, store, post.ID, time.Minute)

	require.NoError(t, svc.DeletePost(ctx, post.ID))
	assert.Equal(t, []string{post.ID}, inv.posts)

	_, err := svc.GetPost(ctx, post.ID)
	assertCode(t, err, models.CodeNotFound)
	reactions, err := store.Reactions.ListByPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Empty(t, reactions)

	assertCode(t, svc.DeletePost(ctx, post.ID), models.CodeNotFound)
}

func TestCampuses(t *testing.T) {
	svc, _ := newPostService(t)
	ctx := context.Background()

	list, err := svc.ListCampuses(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 8)

	for id, want := range map[string]bool{"UG": true, "General": true, "Oxford": false} {
		ok, err := svc.CampusExists(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, want, ok, id)
	}
}
