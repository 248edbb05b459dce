package models

import "time"

// FeedPage is one page of an assembled feed.
type FeedPage struct {
	Posts []*FeedPost `json:"posts"`
	// HasMore is true when the page came back full.
	HasMore bool `json:"hasMore"`
	// NextCursor is set only for cursor-paginated requests.
	NextCursor *string `json:"lastDocId,omitempty"`
	// NextOffset is set only for offset-paginated requests.
	NextOffset *int `json:"offset,omitempty"`
	Total      int  `json:"total"`
	Count      int  `json:"count"`
}

// TrendingMetadata describes a windowed trending view.
type TrendingMetadata struct {
	TimeRange          string    `json:"timeRange"`
	Limit              int       `json:"limit"`
	TotalPosts         int       `json:"totalPosts"`
	PostsWithReactions int       `json:"postsWithReactions"`
	TotalReactions     int       `json:"totalReactions"`
	GeneratedAt        time.Time `json:"generatedAt"`
}

// TrendingView is the windowed "top N by reactions per hour" listing.
type TrendingView struct {
	Posts    []*FeedPost      `json:"posts"`
	Metadata TrendingMetadata `json:"metadata"`
}

// AuthorStats aggregates one author's activity within a time window.
type AuthorStats struct {
	UserID         string  `json:"userId"`
	DisplayName    string  `json:"displayName"`
	PhotoURL       *string `json:"photoURL"`
	Bio            string  `json:"bio"`
	PostCount      int     `json:"postCount"`
	TotalReactions int     `json:"totalReactions"`
	TotalComments  int     `json:"totalComments"`
}

// TrendingAuthorsView is the windowed author leaderboard.
type TrendingAuthorsView struct {
	Users    []*AuthorStats   `json:"users"`
	Metadata TrendingMetadata `json:"metadata"`
}
