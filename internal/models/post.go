// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// GeneralCampus is the catch-all campus tag. It is always valid and has no
// backing Campus record.
const GeneralCampus = "General"

// Post represents an anonymous post on a campus feed.
type Post struct {
	ID         string `gorm:"primaryKey;size:36" json:"id"`
	Content    string `gorm:"type:text;not null" json:"content"`
	AuthorID   string `gorm:"size:128;index" json:"authorId,omitempty"`
	AuthorName string `gorm:"size:100;not null;default:Anonymous" json:"authorName"`
	Campus     string `gorm:"size:32;not null;index" json:"campus"`
	ImageURL   string `json:"imageUrl,omitempty"`
	// ReactionCount is a denormalized cache of live reactions; reads recompute it.
	ReactionCount int `gorm:"not null;default:0" json:"reactionCount"`
	// CommentCount is a denormalized cache of live comments; reads recompute it.
	CommentCount int       `gorm:"not null;default:0" json:"commentCount"`
	CreatedAt    time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// FeedPost is the enriched, public view of a post served by feed and detail reads.
type FeedPost struct {
	ID            string         `json:"id"`
	Content       string         `json:"content"`
	ImageURL      string         `json:"imageUrl,omitempty"`
	AuthorID      string         `json:"authorId,omitempty"`
	AuthorName    string         `json:"authorName"`
	Author        *Author        `json:"author"`
	Campus        string         `json:"campus"`
	Reactions     ReactionCounts `json:"reactions"`
	ReactionCount int            `json:"reactionCount"`
	CommentCount  int            `json:"commentCount"`
	TrendingScore *float64       `json:"trendingScore,omitempty"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

// NewFeedPost builds the public view of p from its live engagement.
func NewFeedPost(p *Post, eng Engagement, author *Author) *FeedPost {
	return &FeedPost{
		ID:            p.ID,
		Content:       p.Content,
		ImageURL:      p.ImageURL,
		AuthorID:      p.AuthorID,
		AuthorName:    p.AuthorName,
		Author:        author,
		Campus:        p.Campus,
		Reactions:     eng.Reactions,
		ReactionCount: eng.TotalReactions,
		CommentCount:  eng.CommentCount,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}
