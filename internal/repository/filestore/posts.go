package filestore

import (
	"context"
	"sort"
	"time"

	"hotgist/internal/models"
)

type postRepository struct {
	s *Store
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if err := ctx.Err(); err != nil {
		return models.NewStorageUnavailableError(err)
	}
	if !validCampusName(post.Campus) {
		return models.NewValidationError("invalid campus name")
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, exists := r.s.postIndex[post.ID]; exists {
		return models.NewValidationError("Post already exists")
	}

	cf := r.s.campuses[post.Campus]
	if cf == nil {
		cf = &campusFile{}
		r.s.campuses[post.Campus] = cf
	}
	stored := *post
	cf.Posts = append(cf.Posts, &postRecord{Post: stored, Reactions: []*models.Reaction{}, Comments: []*models.Comment{}})
	r.s.postIndex[post.ID] = post.Campus

	return r.s.persistCampus(post.Campus)
}

func (r *postRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, models.NewStorageUnavailableError(err)
	}

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rec, _, ok := r.s.lookup(id)
	if !ok {
		return nil, models.NewNotFoundError("Post", id)
	}
	p := rec.Post
	return &p, nil
}

func (r *postRepository) ListByCampus(ctx context.Context, campus string, limit int) ([]*models.Post, error) {
	return r.list(ctx, func(p *models.Post) bool {
		return campus == "" || p.Campus == campus
	}, limit)
}

func (r *postRepository) ListSince(ctx context.Context, since time.Time) ([]*models.Post, error) {
	return r.list(ctx, func(p *models.Post) bool {
		return !p.CreatedAt.Before(since)
	}, 0)
}

func (r *postRepository) list(ctx context.Context, keep func(*models.Post) bool, limit int) ([]*models.Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, models.NewStorageUnavailableError(err)
	}

	r.s.mu.RLock()
	var out []*models.Post
	for _, cf := range r.s.campuses {
		for _, rec := range cf.Posts {
			if keep(&rec.Post) {
				p := rec.Post
				out = append(out, &p)
			}
		}
	}
	r.s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *postRepository) UpdateReactionCount(ctx context.Context, id string, count int, at time.Time) error {
	return r.update(ctx, id, func(rec *postRecord) {
		rec.ReactionCount = count
		rec.UpdatedAt = at
	})
}

func (r *postRepository) UpdateCommentCount(ctx context.Context, id string, count int, at time.Time) error {
	return r.update(ctx, id, func(rec *postRecord) {
		rec.CommentCount = count
		rec.UpdatedAt = at
	})
}

func (r *postRepository) update(ctx context.Context, id string, mutate func(*postRecord)) error {
	if err := ctx.Err(); err != nil {
		return models.NewStorageUnavailableError(err)
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rec, campus, ok := r.s.lookup(id)
	if !ok {
		return models.NewNotFoundError("Post", id)
	}
	mutate(rec)
	return r.s.persistCampus(campus)
}

// Delete drops the post; its embedded reactions and comments go with it.
func (r *postRepository) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return models.NewStorageUnavailableError(err)
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	campus, ok := r.s.postIndex[id]
	if !ok {
		return models.NewNotFoundError("Post", id)
	}
	cf := r.s.campuses[campus]
	kept := cf.Posts[:0]
	for _, rec := range cf.Posts {
		if rec.ID != id {
			kept = append(kept, rec)
		}
	}
	cf.Posts = kept
	delete(r.s.postIndex, id)

	return r.s.persistCampus(campus)
}
