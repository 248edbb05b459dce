package service

import (
	"context"
	"testing"
	"time"

	"hotgist/internal/models"
	"hotgist/internal/observability"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingInvalidator remembers which posts were invalidated.
type recordingInvalidator struct {
	posts []string
}

func (r *recordingInvalidator) Invalidate(_ context.Context, postID string) {
	r.posts = append(r.posts, postID)
}

func TestToggleReaction(t *testing.T) {
	store := newTestStore(t)
	post := seedPost(t, store, "GCTU", time.Hour)
	inv := &recordingInvalidator{}
	svc := NewReactionService(store, inv, observability.NopLogger())
	ctx := context.Background()

	toggle := func(user string, typ models.ReactionType) *models.ReactionResult {
		t.Helper()
		res, err := svc.ToggleReaction(ctx, ToggleReactionInput{PostID: post.ID, UserID: user, Type: typ})
		require.NoError(t, err)
		return res
	}
	storedCount := func() int {
		t.Helper()
		p, err := store.Posts.GetByID(ctx, post.ID)
		require.NoError(t, err)
		return p.ReactionCount
	}

	res := toggle("u1", models.ReactionFire)
	assert.Equal(t, models.ReactionAdded, res.Action)
	require.NotNil(t, res.UserReaction)
	assert.Equal(t, models.ReactionFire, *res.UserReaction)
	assert.Equal(t, 1, res.TotalReactions)
	assert.Equal(t, 1, storedCount())

	res = toggle("u1", models.ReactionFire)
	assert.Equal(t, models.ReactionRemoved, res.Action)
	assert.Nil(t, res.UserReaction)
	assert.Zero(t, res.TotalReactions)
	assert.Zero(t, storedCount())

	toggle("u1", models.ReactionFire)
	res = toggle("u1", models.ReactionLaugh)
	assert.Equal(t, models.ReactionUpdated, res.Action)
	assert.Equal(t, models.ReactionCounts{Laugh: 1}, res.Reactions)

	list, err := store.Reactions.ListByPost(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, models.ReactionLaugh, list[0].Type)

	toggle("u2", models.ReactionShock)
	assert.Equal(t, 2, storedCount())
	assert.Len(t, inv.posts, 5)
}

func TestToggleReaction_Rejects(t *testing.T) {
	store := newTestStore(t)
	post := seedPost(t, store, "UG", time.Hour)
	svc := NewReactionService(store, nil, observability.NopLogger())

	tests := []struct {
		name string
		in   ToggleReactionInput
		code string
	}{
		{"unknown type", ToggleReactionInput{PostID: post.ID, UserID: "u1", Type: "heart"}, models.CodeValidation},
		{"missing user", ToggleReactionInput{PostID: post.ID, Type: models.ReactionFire}, models.CodeValidation},
		{"missing post", ToggleReactionInput{PostID: "nope", UserID: "u1", Type: models.ReactionFire}, models.CodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ToggleReaction(context.Background(), tt.in)
			assertCode(t, err, tt.code)
		})
	}
}

func TestRemoveReaction(t *testing.T) {
	store := newTestStore(t)
	post := seedPost(t, store, "KNUST", time.Hour)
	svc := NewReactionService(store, nil, observability.NopLogger())
	ctx := context.Background()

	_, err := svc.RemoveReaction(ctx, post.ID, "u1")
	assertCode(t, err, models.CodeNotFound)

	_, err = svc.ToggleReaction(ctx, ToggleReactionInput{PostID: post.ID, UserID: "u1", Type: models.ReactionShock})
	require.NoError(t, err)

	res, err := svc.RemoveReaction(ctx, post.ID, "u1")
	require.NoError(t, err)
	assert.Equal(t, models.ReactionRemoved, res.Action)
	assert.Zero(t, res.TotalReactions)
}

func TestGetReactions(t *testing.T) {
	store := newTestStore(t)
	post := seedPost(t, store, "UCC", time.Hour)
	seedReactions(t, store, post.ID, 2, models.ReactionFire)
	svc := NewReactionService(store, nil, observability.NopLogger())
	ctx := context.Background()

	summary, err := svc.GetReactions(ctx, post.ID, "fire-user-1")
	require.NoError(t, err)
	assert.Equal(t, 2, summary.TotalReactions)
	assert.Len(t, summary.Details, 2)
	require.NotNil(t, summary.UserReaction)
	assert.Equal(t, models.ReactionFire, *summary.UserReaction)

	summary, err = svc.GetReactions(ctx, post.ID, "")
	require.NoError(t, err)
	assert.Nil(t, summary.UserReaction)

	_, err = svc.GetReactions(ctx, "missing", "")
	assertCode(t, err, models.CodeNotFound)
}
