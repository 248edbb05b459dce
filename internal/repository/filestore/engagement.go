package filestore

import (
	"context"
	"sort"
	"time"

	"hotgist/internal/models"
)

type reactionRepository struct {
	s *Store
}

func (r *reactionRepository) Create(ctx context.Context, reaction *models.Reaction) error {
	if err := ctx.Err(); err != nil {
		return models.NewStorageUnavailableError(err)
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rec, campus, ok := r.s.lookup(reaction.PostID)
	if !ok {
		return models.NewNotFoundError("Post", reaction.PostID)
	}
	for _, existing := range rec.Reactions {
		if existing.UserID == reaction.UserID {
			return models.NewValidationError("Reaction already exists")
		}
	}
	stored := *reaction
	rec.Reactions = append(rec.Reactions, &stored)
	return r.s.persistCampus(campus)
}

func (r *reactionRepository) FindByPostAndUser(ctx context.Context, postID, userID string) (*models.Reaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, models.NewStorageUnavailableError(err)
	}

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	if rec, _, ok := r.s.lookup(postID); ok {
		for _, existing := range rec.Reactions {
			if existing.UserID == userID {
				found := *existing
				return &found, nil
			}
		}
	}
	return nil, models.NewNotFoundError("Reaction", postID+"/"+userID)
}

func (r *reactionRepository) ListByPost(ctx context.Context, postID string) ([]*models.Reaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, models.NewStorageUnavailableError(err)
	}

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rec, _, ok := r.s.lookup(postID)
	if !ok {
		return []*models.Reaction{}, nil
	}
	out := make([]*models.Reaction, 0, len(rec.Reactions))
	for _, existing := range rec.Reactions {
		cp := *existing
		out = append(out, &cp)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *reactionRepository) UpdateType(ctx context.Context, id string, t models.ReactionType, at time.Time) error {
	return r.withReaction(ctx, id, func(rec *postRecord, i int) {
		rec.Reactions[i].Type = t
		rec.Reactions[i].UpdatedAt = at
	})
}

func (r *reactionRepository) Delete(ctx context.Context, id string) error {
	return r.withReaction(ctx, id, func(rec *postRecord, i int) {
		rec.Reactions = append(rec.Reactions[:i], rec.Reactions[i+1:]...)
	})
}

// withReaction finds reaction id across all posts and applies mutate under
// the write lock, then persists the owning campus.
func (r *reactionRepository) withReaction(ctx context.Context, id string, mutate func(*postRecord, int)) error {
	if err := ctx.Err(); err != nil {
		return models.NewStorageUnavailableError(err)
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for campus, cf := range r.s.campuses {
		for _, rec := range cf.Posts {
			for i, existing := range rec.Reactions {
				if existing.ID == id {
					mutate(rec, i)
					return r.s.persistCampus(campus)
				}
			}
		}
	}
	return models.NewNotFoundError("Reaction", id)
}

type commentRepository struct {
	s *Store
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	if err := ctx.Err(); err != nil {
		return models.NewStorageUnavailableError(err)
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rec, campus, ok := r.s.lookup(comment.PostID)
	if !ok {
		return models.NewNotFoundError("Post", comment.PostID)
	}
	stored := *comment
	rec.Comments = append(rec.Comments, &stored)
	return r.s.persistCampus(campus)
}

func (r *commentRepository) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	if err := ctx.Err(); err != nil {
		return nil, models.NewStorageUnavailableError(err)
	}

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, cf := range r.s.campuses {
		for _, rec := range cf.Posts {
			for _, c := range rec.Comments {
				if c.ID == id {
					found := *c
					return &found, nil
				}
			}
		}
	}
	return nil, models.NewNotFoundError("Comment", id)
}

func (r *commentRepository) ListByPost(ctx context.Context, postID string) ([]*models.Comment, error) {
	if err := ctx.Err(); err != nil {
		return nil, models.NewStorageUnavailableError(err)
	}

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rec, _, ok := r.s.lookup(postID)
	if !ok {
		return []*models.Comment{}, nil
	}
	out := make([]*models.Comment, 0, len(rec.Comments))
	for _, c := range rec.Comments {
		cp := *c
		out = append(out, &cp)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *commentRepository) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return models.NewStorageUnavailableError(err)
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for campus, cf := range r.s.campuses {
		for _, rec := range cf.Posts {
			for i, c := range rec.Comments {
				if c.ID == id {
					rec.Comments = append(rec.Comments[:i], rec.Comments[i+1:]...)
					return r.s.persistCampus(campus)
				}
			}
		}
	}
	return models.NewNotFoundError("Comment", id)
}
