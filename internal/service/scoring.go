package service

import (
	"math"
	"sort"
	"time"

	"hotgist/internal/models"
)

// ScoreMode selects the trending strategy for a feed request.
type ScoreMode string

const (
	ScoreModeDecay  ScoreMode = "decay"
	ScoreModeHourly ScoreMode = "hourly"
)

// Scorer ranks a post from its live engagement at a point in time.
type Scorer interface {
	Score(post *models.Post, eng models.Engagement, now time.Time) float64
}

const (
	minTrendingScore   = 0.1
	decayHalfLifeHours = 12.0
	recencyWindowHours = 2.0
	velocityWindow     = 6 * time.Hour
	velocityWeight     = 1.5
	commentWeight      = 2
)

// DecayScorer is the default trending formula: engagement plus a freshness
// and discussion boost, halved every 12 hours of age, floored at 0.1.
type DecayScorer struct{}

func (DecayScorer) Score(post *models.Post, eng models.Engagement, now time.Time) float64 {
	age := ageInHours(post.CreatedAt, now)

	base := float64(eng.TotalReactions + eng.CommentCount*commentWeight)
	decay := math.Pow(0.5, age/decayHalfLifeHours)

	recency := 0.0
	if age < recencyWindowHours {
		recency = (recencyWindowHours - age) * 0.5
	}

	velocity := velocityWeight * float64(eng.RecentComments(now, velocityWindow))

	return math.Max((base+recency+velocity)*decay, minTrendingScore)
}

// HourlyScorer ranks by reactions per hour since creation. Posts younger
// than an hour count as one hour old.
type HourlyScorer struct{}

func (HourlyScorer) Score(post *models.Post, eng models.Engagement, now time.Time) float64 {
	return float64(eng.TotalReactions) / math.Max(1, ageInHours(post.CreatedAt, now))
}

// ScorerFor returns the strategy for mode, defaulting to DecayScorer.
func ScorerFor(mode ScoreMode) Scorer {
	if mode == ScoreModeHourly {
		return HourlyScorer{}
	}
	return DecayScorer{}
}

func ageInHours(createdAt, now time.Time) float64 {
	return math.Max(0, now.Sub(createdAt).Hours())
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

type scoredPost struct {
	post  *models.FeedPost
	score float64
}

// sortByScore orders by score descending, then createdAt descending, then ID.
func sortByScore(items []scoredPost) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.score != b.score {
			return a.score > b.score
		}
		if !a.post.CreatedAt.Equal(b.post.CreatedAt) {
			return a.post.CreatedAt.After(b.post.CreatedAt)
		}
		return a.post.ID < b.post.ID
	})
}

// sortByRecency orders posts newest first with ID as the tie-break.
func sortByRecency(posts []*models.Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		if !posts[i].CreatedAt.Equal(posts[j].CreatedAt) {
			return posts[i].CreatedAt.After(posts[j].CreatedAt)
		}
		return posts[i].ID < posts[j].ID
	})
}
