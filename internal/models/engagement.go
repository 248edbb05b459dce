package models

import "time"

// Engagement is the aggregate reaction and comment activity on one post.
type Engagement struct {
	PostID         string         `json:"postId"`
	Reactions      ReactionCounts `json:"reactions"`
	TotalReactions int            `json:"totalReactions"`
	CommentCount   int            `json:"commentCount"`
	// CommentTimes holds each live comment's creation instant for the
	// recent-activity boost.
	CommentTimes []time.Time `json:"commentTimes,omitempty"`
}

// RecentComments counts comments younger than window at now.
func (e Engagement) RecentComments(now time.Time, window time.Duration) int {
	n := 0
	for _, t := range e.CommentTimes {
		if now.Sub(t) < window {
			n++
		}
	}
	return n
}
