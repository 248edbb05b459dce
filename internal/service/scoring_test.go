package service

import (
	"math"
	"testing"
	"time"

	"hotgist/internal/models"

	"github.com/stretchr/testify/assert"
)

func postAged(age time.Duration) *models.Post {
	return &models.Post{ID: "p", CreatedAt: testNow.Add(-age)}
}

func engagement(reactions, comments int, commentAge time.Duration) models.Engagement {
	eng := models.Engagement{TotalReactions: reactions, CommentCount: comments}
	for i := 0; i < comments; i++ {
		eng.CommentTimes = append(eng.CommentTimes, testNow.Add(-commentAge))
	}
	return eng
}

func TestDecayScorer_FloorForZeroEngagement(t *testing.T) {
	s := DecayScorer{}
	for _, age := range []time.Duration{2 * time.Hour, 5 * time.Hour, 48 * time.Hour, 365 * 24 * time.Hour} {
		assert.Equal(t, 0.1, s.Score(postAged(age), models.Engagement{}, testNow), "age %s", age)
	}
}

func TestDecayScorer_DecayHalvesEveryTwelveHours(t *testing.T) {
	s := DecayScorer{}
	eng := engagement(10, 0, 0)

	assert.Equal(t, 5.0, s.Score(postAged(12*time.Hour), eng, testNow))
	assert.Equal(t, 2.5, s.Score(postAged(24*time.Hour), eng, testNow))
}

func TestDecayScorer_RecencyBoost(t *testing.T) {
	s := DecayScorer{}

	// Fresh post with no engagement: boost of exactly 1.0, no decay yet.
	assert.Equal(t, 1.0, s.Score(postAged(0), models.Engagement{}, testNow))

	// One hour old: boost 0.5 decayed by 0.5^(1/12).
	want := 10.5 * math.Pow(0.5, 1.0/12)
	assert.InDelta(t, want, s.Score(postAged(time.Hour), engagement(10, 0, 0), testNow), 1e-9)

	// Exactly two hours: no boost left.
	want = 10 * math.Pow(0.5, 2.0/12)
	assert.InDelta(t, want, s.Score(postAged(2*time.Hour), engagement(10, 0, 0), testNow), 1e-9)
}

func TestDecayScorer_FutureTimestampCountsAsAgeZero(t *testing.T) {
	s := DecayScorer{}
	assert.Equal(t, 11.0, s.Score(postAged(-3*time.Hour), engagement(10, 0, 0), testNow))
}

func TestDecayScorer_VelocityBoost(t *testing.T) {
	s := DecayScorer{}
	old := postAged(24 * time.Hour)

	recent := s.Score(old, engagement(0, 2, time.Hour), testNow)
	stale := s.Score(old, engagement(0, 2, 7*time.Hour), testNow)

	// base 4 (+3 velocity for recent) decayed by 0.25
	assert.Equal(t, 1.75, recent)
	assert.Equal(t, 1.0, stale)
}

func TestDecayScorer_MonotonicDecay(t *testing.T) {
	s := DecayScorer{}
	eng := engagement(10, 0, 0)

	prev := math.Inf(1)
	for h := 0; h <= 72; h++ {
		score := s.Score(postAged(time.Duration(h)*time.Hour), eng, testNow)
		assert.Less(t, score, prev, "score at %dh should be below score at %dh", h, h-1)
		prev = score
	}
	assert.Greater(t, s.Score(postAged(0), eng, testNow), s.Score(postAged(24*time.Hour), eng, testNow))
}

func TestHourlyScorer(t *testing.T) {
	s := HourlyScorer{}
	tests := []struct {
		name      string
		age       time.Duration
		reactions int
		want      float64
	}{
		{"younger than an hour counts as one", 10 * time.Minute, 6, 6},
		{"three hours", 3 * time.Hour, 6, 2},
		{"no reactions", 5 * time.Hour, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.Score(postAged(tt.age), engagement(tt.reactions, 0, 0), testNow))
		})
	}
	assert.Equal(t, 0.67, round2(s.Score(postAged(3*time.Hour), engagement(2, 0, 0), testNow)))
}

func TestScorerFor(t *testing.T) {
	assert.IsType(t, DecayScorer{}, ScorerFor(""))
	assert.IsType(t, DecayScorer{}, ScorerFor(ScoreModeDecay))
	assert.IsType(t, HourlyScorer{}, ScorerFor(ScoreModeHourly))
}

func TestSortByScore_TieBreaks(t *testing.T) {
	older := &models.FeedPost{ID: "a", CreatedAt: testNow.Add(-2 * time.Hour)}
	newer := &models.FeedPost{ID: "b", CreatedAt: testNow.Add(-time.Hour)}
	sameTimeLow := &models.FeedPost{ID: "c", CreatedAt: testNow.Add(-time.Hour)}
	best := &models.FeedPost{ID: "z", CreatedAt: testNow.Add(-10 * time.Hour)}

	items := []scoredPost{
		{post: older, score: 0.1},
		{post: sameTimeLow, score: 0.1},
		{post: best, score: 3},
		{post: newer, score: 0.1},
	}
	sortByScore(items)

	got := make([]string, len(items))
	for i, it := range items {
		got[i] = it.post.ID
	}
	assert.Equal(t, []string{"z", "b", "c", "a"}, got)
}
