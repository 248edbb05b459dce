package models

import "time"

// ReactionType is one of the fixed emoji reactions a post accepts.
type ReactionType string

const (
	ReactionFire  ReactionType = "fire"
	ReactionLaugh ReactionType = "laugh"
	ReactionShock ReactionType = "shock"
)

// ReactionTypes lists every recognized reaction type.
var ReactionTypes = []ReactionType{ReactionFire, ReactionLaugh, ReactionShock}

// Valid reports whether t is a recognized reaction type.
func (t ReactionType) Valid() bool {
	switch t {
	case ReactionFire, ReactionLaugh, ReactionShock:
		return true
	}
	return false
}

// Reaction represents a user's single live reaction on a post.
// The combination of PostID and UserID must be unique.
type Reaction struct {
	ID        string       `gorm:"primaryKey;size:36" json:"id"`
	PostID    string       `gorm:"size:36;not null;uniqueIndex:idx_reaction_post_user" json:"postId"`
	UserID    string       `gorm:"size:128;not null;uniqueIndex:idx_reaction_post_user" json:"userId"`
	Type      ReactionType `gorm:"size:16;not null" json:"type"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

// ReactionCounts is the per-type breakdown of live reactions on a post.
type ReactionCounts struct {
	Fire  int `json:"fire"`
	Laugh int `json:"laugh"`
	Shock int `json:"shock"`
}

// Add increments the bucket for t. Unrecognized types are ignored and
// reported as false.
func (c *ReactionCounts) Add(t ReactionType) bool {
	switch t {
	case ReactionFire:
		c.Fire++
	case ReactionLaugh:
		c.Laugh++
	case ReactionShock:
		c.Shock++
	default:
		return false
	}
	return true
}

// Total returns the sum of all buckets.
func (c ReactionCounts) Total() int {
	return c.Fire + c.Laugh + c.Shock
}

// ReactionAction describes what a reaction toggle did.
type ReactionAction string

const (
	ReactionAdded   ReactionAction = "added"
	ReactionUpdated ReactionAction = "updated"
	ReactionRemoved ReactionAction = "removed"
)

// ReactionResult is returned from a reaction toggle or removal.
type ReactionResult struct {
	PostID         string         `json:"postId"`
	UserID         string         `json:"userId"`
	Action         ReactionAction `json:"action"`
	UserReaction   *ReactionType  `json:"userReaction"`
	Reactions      ReactionCounts `json:"reactions"`
	TotalReactions int            `json:"totalReactions"`
}

// ReactionSummary is the read view of a post's reactions.
type ReactionSummary struct {
	PostID         string         `json:"postId"`
	Reactions      ReactionCounts `json:"reactions"`
	TotalReactions int            `json:"totalReactions"`
	UserReaction   *ReactionType  `json:"userReaction"`
	Details        []*Reaction    `json:"details"`
}
