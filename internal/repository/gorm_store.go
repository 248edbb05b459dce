package repository

import (
	"context"

	"gorm.io/gorm"
)

// NewGormStore builds a Store over a GORM connection.
func NewGormStore(db *gorm.DB) *Store {
	return &Store{
		Posts:     NewPostRepository(db),
		Reactions: NewReactionRepository(db),
		Comments:  NewCommentRepository(db),
		Users:     NewUserRepository(db),
		Campuses:  NewCampusRepository(db),
		Ping: func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
		Close: func() error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	}
}
