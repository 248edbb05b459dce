package repository

import (
	"context"

	"hotgist/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type campusRepository struct {
	db *gorm.DB
}

// NewCampusRepository creates a new campus repository
func NewCampusRepository(db *gorm.DB) CampusRepository {
	return &campusRepository{db: db}
}

func (r *campusRepository) List(ctx context.Context) ([]models.Campus, error) {
	var campuses []models.Campus
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&campuses).Error; err != nil {
		return nil, mapError(err, "Campus", "")
	}
	return campuses, nil
}

func (r *campusRepository) Upsert(ctx context.Context, campuses []models.Campus) error {
	if len(campuses) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"code", "name", "location"}),
		}).
		Create(&campuses).Error
	return mapError(err, "Campus", "")
}
