// Package repository provides the storage boundary used by the services and
// its GORM implementation.
package repository

import (
	"context"
	"time"

	"hotgist/internal/models"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id string) (*models.Post, error)
	// ListByCampus returns posts newest first. An empty campus covers every
	// campus; limit <= 0 returns all matches.
	ListByCampus(ctx context.Context, campus string, limit int) ([]*models.Post, error)
	// ListSince returns posts created at or after since, newest first.
	ListSince(ctx context.Context, since time.Time) ([]*models.Post, error)
	UpdateReactionCount(ctx context.Context, id string, count int, at time.Time) error
	UpdateCommentCount(ctx context.Context, id string, count int, at time.Time) error
	// Delete removes the post together with its reactions and comments.
	Delete(ctx context.Context, id string) error
}

// ReactionRepository defines the interface for reaction data operations
type ReactionRepository interface {
	Create(ctx context.Context, reaction *models.Reaction) error
	FindByPostAndUser(ctx context.Context, postID, userID string) (*models.Reaction, error)
	ListByPost(ctx context.Context, postID string) ([]*models.Reaction, error)
	UpdateType(ctx context.Context, id string, t models.ReactionType, at time.Time) error
	Delete(ctx context.Context, id string) error
}

// CommentRepository defines the interface for comment operations
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id string) (*models.Comment, error)
	// ListByPost returns the post's comments oldest first.
	ListByPost(ctx context.Context, postID string) ([]*models.Comment, error)
	Delete(ctx context.Context, id string) error
}

// UserRepository defines the interface for author lookups
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	Upsert(ctx context.Context, user *models.User) error
}

// CampusRepository serves the campus reference data
type CampusRepository interface {
	List(ctx context.Context) ([]models.Campus, error)
	Upsert(ctx context.Context, campuses []models.Campus) error
}

// Store bundles the repositories of one storage adapter.
type Store struct {
	Posts     PostRepository
	Reactions ReactionRepository
	Comments  CommentRepository
	Users     UserRepository
	Campuses  CampusRepository

	// Ping reports whether the backing storage is reachable.
	Ping func(ctx context.Context) error
	// Close releases the backing storage.
	Close func() error
}
