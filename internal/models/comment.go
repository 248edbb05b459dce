package models

import "time"

// Comment represents a comment on a post. Comments are append-only.
type Comment struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	PostID     string    `gorm:"size:36;not null;index" json:"postId"`
	AuthorID   string    `gorm:"size:128" json:"authorId,omitempty"`
	AuthorName string    `gorm:"size:100;not null;default:Anonymous" json:"authorName"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	CreatedAt  time.Time `json:"timestamp"`
}
