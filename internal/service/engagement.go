package service

import (
	"context"

	"hotgist/internal/models"
	"hotgist/internal/repository"
)

// Aggregator computes a post's live engagement.
type Aggregator interface {
	Aggregate(ctx context.Context, postID string) (models.Engagement, error)
}

// Invalidator drops any memoized engagement for a post after a write.
type Invalidator interface {
	Invalidate(ctx context.Context, postID string)
}

// StoreAggregator scans reactions and comments on every call.
type StoreAggregator struct {
	reactions repository.ReactionRepository
	comments  repository.CommentRepository
}

func NewStoreAggregator(reactions repository.ReactionRepository, comments repository.CommentRepository) *StoreAggregator {
	return &StoreAggregator{reactions: reactions, comments: comments}
}

// Aggregate tallies reactions by type and counts comments. Unknown reaction
// types are skipped. Storage errors come back as StorageUnavailable and are
// not retried.
func (a *StoreAggregator) Aggregate(ctx context.Context, postID string) (models.Engagement, error) {
	eng := models.Engagement{PostID: postID}

	reactions, err := a.reactions.ListByPost(ctx, postID)
	if err != nil {
		return models.Engagement{}, models.NewStorageUnavailableError(err)
	}
	for _, r := range reactions {
		eng.Reactions.Add(r.Type)
	}
	eng.TotalReactions = eng.Reactions.Total()

	comments, err := a.comments.ListByPost(ctx, postID)
	if err != nil {
		return models.Engagement{}, models.NewStorageUnavailableError(err)
	}
	eng.CommentCount = len(comments)
	for _, c := range comments {
		eng.CommentTimes = append(eng.CommentTimes, c.CreatedAt)
	}

	return eng, nil
}
