package repository

import (
	"context"
	"time"

	"hotgist/internal/models"

	"gorm.io/gorm"
)

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	return mapError(r.db.WithContext(ctx).Create(post).Error, "Post", post.ID)
}

func (r *postRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&post).Error; err != nil {
		return nil, mapError(err, "Post", id)
	}
	return &post, nil
}

func (r *postRepository) ListByCampus(ctx context.Context, campus string, limit int) ([]*models.Post, error) {
	q := r.db.WithContext(ctx).Model(&models.Post{})
	if campus != "" {
		q = q.Where("campus = ?", campus)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}

	var posts []*models.Post
	if err := q.Order("created_at DESC").Order("id ASC").Find(&posts).Error; err != nil {
		return nil, mapError(err, "Post", "")
	}
	return posts, nil
}

func (r *postRepository) ListSince(ctx context.Context, since time.Time) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.db.WithContext(ctx).
		Where("created_at >= ?", since).
		Order("created_at DESC").
		Order("id ASC").
		Find(&posts).Error
	if err != nil {
		return nil, mapError(err, "Post", "")
	}
	return posts, nil
}

func (r *postRepository) UpdateReactionCount(ctx context.Context, id string, count int, at time.Time) error {
	return r.updateCounter(ctx, id, "reaction_count", count, at)
}

func (r *postRepository) UpdateCommentCount(ctx context.Context, id string, count int, at time.Time) error {
	return r.updateCounter(ctx, id, "comment_count", count, at)
}

func (r *postRepository) updateCounter(ctx context.Context, id, column string, count int, at time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ?", id).
		UpdateColumns(map[string]any{column: count, "updated_at": at})
	if res.Error != nil {
		return mapError(res.Error, "Post", id)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Post", id)
	}
	return nil
}

func (r *postRepository) Delete(ctx context.Context, id string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.Reaction{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&models.Post{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.NewNotFoundError("Post", id)
		}
		return nil
	})
	return mapError(err, "Post", id)
}
