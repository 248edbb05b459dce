package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"hotgist/internal/models"
	"hotgist/internal/observability"
	"hotgist/internal/repository"

	"github.com/google/uuid"
)

// ReactionService toggles reactions and keeps the post's denormalized
// reaction counter in step. The counter update is read-modify-write with
// last-write-wins: two concurrent toggles on one post may leave it briefly
// off until the next write. Reads never trust it.
type ReactionService struct {
	posts      repository.PostRepository
	reactions  repository.ReactionRepository
	invalidate Invalidator
	logger     *slog.Logger
	now        func() time.Time
}

type ToggleReactionInput struct {
	PostID string
	UserID string
	Type   models.ReactionType
}

func NewReactionService(store *repository.Store, inv Invalidator, logger *slog.Logger) *ReactionService {
	return &ReactionService{
		posts:      store.Posts,
		reactions:  store.Reactions,
		invalidate: inv,
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// ToggleReaction adds the reaction, removes it when the user repeats the
// same type, or switches it to the new type.
func (s *ReactionService) ToggleReaction(ctx context.Context, in ToggleReactionInput) (*models.ReactionResult, error) {
	postID := strings.TrimSpace(in.PostID)
	userID := strings.TrimSpace(in.UserID)
	if postID == "" || userID == "" {
		return nil, models.NewValidationError("postId and userId are required")
	}
	if !in.Type.Valid() {
		return nil, models.NewValidationError("Invalid reaction type. Must be one of: fire, laugh, shock")
	}
	if _, err := s.posts.GetByID(ctx, postID); err != nil {
		return nil, err
	}

	now := s.now()
	var (
		action  models.ReactionAction
		current *models.ReactionType
	)

	existing, err := s.reactions.FindByPostAndUser(ctx, postID, userID)
	switch {
	case errors.Is(err, models.ErrNotFound):
		err = s.reactions.Create(ctx, &models.Reaction{
			ID:        uuid.NewString(),
			PostID:    postID,
			UserID:    userID,
			Type:      in.Type,
			CreatedAt: now,
			UpdatedAt: now,
		})
		action = models.ReactionAdded
		t := in.Type
		current = &t
	case err != nil:
		return nil, err
	case existing.Type == in.Type:
		err = s.reactions.Delete(ctx, existing.ID)
		action = models.ReactionRemoved
	default:
		err = s.reactions.UpdateType(ctx, existing.ID, in.Type, now)
		action = models.ReactionUpdated
		t := in.Type
		current = &t
	}
	if err != nil {
		return nil, err
	}

	counts, err := s.syncCounter(ctx, postID, now)
	if err != nil {
		return nil, err
	}
	observability.ReactionToggles.WithLabelValues(string(action)).Inc()

	return &models.ReactionResult{
		PostID:         postID,
		UserID:         userID,
		Action:         action,
		UserReaction:   current,
		Reactions:      counts,
		TotalReactions: counts.Total(),
	}, nil
}

// RemoveReaction deletes the user's reaction on a post.
func (s *ReactionService) RemoveReaction(ctx context.Context, postID, userID string) (*models.ReactionResult, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, models.NewValidationError("userId is required")
	}
	existing, err := s.reactions.FindByPostAndUser(ctx, postID, userID)
	if err != nil {
		return nil, err
	}
	if err := s.reactions.Delete(ctx, existing.ID); err != nil {
		return nil, err
	}

	counts, err := s.syncCounter(ctx, postID, s.now())
	if err != nil {
		return nil, err
	}
	observability.ReactionToggles.WithLabelValues(string(models.ReactionRemoved)).Inc()

	return &models.ReactionResult{
		PostID:         postID,
		UserID:         userID,
		Action:         models.ReactionRemoved,
		Reactions:      counts,
		TotalReactions: counts.Total(),
	}, nil
}

// GetReactions returns live counts, the caller's reaction if userID is
// set, and every reaction on the post.
func (s *ReactionService) GetReactions(ctx context.Context, postID, userID string) (*models.ReactionSummary, error) {
	if _, err := s.posts.GetByID(ctx, postID); err != nil {
		return nil, err
	}
	list, err := s.reactions.ListByPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	summary := &models.ReactionSummary{PostID: postID, Details: list}
	for _, r := range list {
		summary.Reactions.Add(r.Type)
		if userID != "" && r.UserID == userID {
			t := r.Type
			summary.UserReaction = &t
		}
	}
	summary.TotalReactions = summary.Reactions.Total()
	return summary, nil
}

// syncCounter recounts live reactions and writes the total to the post.
func (s *ReactionService) syncCounter(ctx context.Context, postID string, at time.Time) (models.ReactionCounts, error) {
	var counts models.ReactionCounts

	list, err := s.reactions.ListByPost(ctx, postID)
	if err != nil {
		return counts, err
	}
	for _, r := range list {
		counts.Add(r.Type)
	}
	if err := s.posts.UpdateReactionCount(ctx, postID, counts.Total(), at); err != nil {
		return counts, err
	}
	invalidate(ctx, s.invalidate, postID)
	return counts, nil
}
