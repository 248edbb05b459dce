package repository

import (
	"context"
	"time"

	"hotgist/internal/models"

	"gorm.io/gorm"
)

type reactionRepository struct {
	db *gorm.DB
}

// NewReactionRepository creates a new ReactionRepository
func NewReactionRepository(db *gorm.DB) ReactionRepository {
	return &reactionRepository{db: db}
}

func (r *reactionRepository) Create(ctx context.Context, reaction *models.Reaction) error {
	return mapError(r.db.WithContext(ctx).Create(reaction).Error, "Reaction", reaction.ID)
}

func (r *reactionRepository) FindByPostAndUser(ctx context.Context, postID, userID string) (*models.Reaction, error) {
	var reaction models.Reaction
	err := r.db.WithContext(ctx).
		Where("post_id = ? AND user_id = ?", postID, userID).
		First(&reaction).Error
	if err != nil {
		return nil, mapError(err, "Reaction", postID+"/"+userID)
	}
	return &reaction, nil
}

func (r *reactionRepository) ListByPost(ctx context.Context, postID string) ([]*models.Reaction, error) {
	var reactions []*models.Reaction
	err := r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("created_at ASC").
		Find(&reactions).Error
	if err != nil {
		return nil, mapError(err, "Reaction", "")
	}
	return reactions, nil
}

func (r *reactionRepository) UpdateType(ctx context.Context, id string, t models.ReactionType, at time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&models.Reaction{}).
		Where("id = ?", id).
		UpdateColumns(map[string]any{"type": t, "updated_at": at})
	if res.Error != nil {
		return mapError(res.Error, "Reaction", id)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Reaction", id)
	}
	return nil
}

func (r *reactionRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Reaction{})
	if res.Error != nil {
		return mapError(res.Error, "Reaction", id)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Reaction", id)
	}
	return nil
}
