package service

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"
	"time"

	"hotgist/internal/models"
	"hotgist/internal/observability"
	"hotgist/internal/repository"
	"hotgist/internal/resilience"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
)

// FeedConfig bounds the cost of one feed request.
type FeedConfig struct {
	DefaultLimit       int
	MaxLimit           int
	Concurrency        int
	Timeout            time.Duration
	TrendingCandidates int
}

// DefaultFeedConfig mirrors the configuration defaults.
func DefaultFeedConfig() FeedConfig {
	return FeedConfig{
		DefaultLimit:       20,
		MaxLimit:           50,
		Concurrency:        8,
		Timeout:            5 * time.Second,
		TrendingCandidates: 500,
	}
}

const (
	defaultTrendingLimit = 10
	maxTrendingLimit     = 50
)

var timeRanges = map[string]time.Duration{
	"1h":  time.Hour,
	"24h": 24 * time.Hour,
	"7d":  7 * 24 * time.Hour,
	"30d": 30 * 24 * time.Hour,
}

// FeedQuery selects one page of a feed. Offset and Cursor are mutually
// exclusive; with neither set the first page is returned.
type FeedQuery struct {
	Campus   string
	Limit    int
	Offset   *int
	Cursor   string
	Trending bool
	Mode     ScoreMode
}

// TrendingQuery selects a windowed ranking.
type TrendingQuery struct {
	Limit     int
	TimeRange string
}

// FeedService assembles feeds: fetch candidates, enrich them with live
// engagement, score, sort, and slice.
type FeedService struct {
	posts      repository.PostRepository
	users      repository.UserRepository
	campuses   repository.CampusRepository
	aggregator Aggregator
	breaker    *resilience.Breaker
	cfg        FeedConfig
	logger     *slog.Logger
	now        func() time.Time
}

func NewFeedService(
	store *repository.Store,
	aggregator Aggregator,
	breaker *resilience.Breaker,
	cfg FeedConfig,
	logger *slog.Logger,
) *FeedService {
	def := DefaultFeedConfig()
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = def.DefaultLimit
	}
	if cfg.MaxLimit <= 0 {
		cfg.MaxLimit = def.MaxLimit
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = def.Concurrency
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.TrendingCandidates <= 0 {
		cfg.TrendingCandidates = def.TrendingCandidates
	}
	return &FeedService{
		posts:      store.Posts,
		users:      store.Users,
		campuses:   store.Campuses,
		aggregator: aggregator,
		breaker:    breaker,
		cfg:        cfg,
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// WithClock replaces the time source. Used by tests.
func (s *FeedService) WithClock(now func() time.Time) *FeedService {
	s.now = now
	return s
}

// GetFeed returns one page of the recent or trending feed.
func (s *FeedService) GetFeed(ctx context.Context, q FeedQuery) (page *models.FeedPage, err error) {
	kind := "recent"
	if q.Trending {
		kind = "trending"
	}
	defer observability.TrackFeed(kind)()

	ctx, span := observability.StartSpan(ctx, "feed.assemble",
		attribute.String("feed.kind", kind),
		attribute.String("feed.campus", q.Campus),
	)
	defer func() { observability.EndSpan(span, err) }()

	if q.Offset != nil && q.Cursor != "" {
		return nil, models.NewInvalidFilterError("Use either offset or cursor, not both")
	}
	if q.Offset != nil && *q.Offset < 0 {
		return nil, models.NewInvalidFilterError("offset must not be negative")
	}
	if q.Mode != "" && q.Mode != ScoreModeDecay && q.Mode != ScoreModeHourly {
		return nil, models.NewInvalidFilterError("mode must be decay or hourly")
	}
	campus, err := s.resolveCampus(ctx, q.Campus)
	if err != nil {
		return nil, err
	}
	limit := clampLimit(q.Limit, s.cfg.DefaultLimit, s.cfg.MaxLimit)

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	fetchLimit := 0
	if q.Trending {
		fetchLimit = s.cfg.TrendingCandidates
	}
	candidates, err := resilience.Do(s.breaker, func() ([]*models.Post, error) {
		return s.posts.ListByCampus(ctx, campus, fetchLimit)
	})
	if err != nil {
		return nil, s.storageFailure(ctx, "candidates", err)
	}

	var (
		ordered []*models.FeedPost
		next    int
		total   int
	)

	if q.Trending {
		enriched, err := s.enrich(ctx, candidates)
		if err != nil {
			return nil, err
		}
		ranked := s.rank(enriched, ScorerFor(q.Mode))
		start, err := s.pageStart(ctx, q, candidates, ranked)
		if err != nil {
			return nil, err
		}
		total = len(ranked)
		ordered = slicePage(ranked, start, limit)
		next = start + len(ordered)
	} else {
		sortByRecency(candidates)
		start, err := s.pageStart(ctx, q, candidates, nil)
		if err != nil {
			return nil, err
		}
		var dropped int
		ordered, next, dropped, err = s.fillRecent(ctx, candidates, start, limit)
		if err != nil {
			return nil, err
		}
		total = len(candidates) - dropped
	}

	page = &models.FeedPage{
		Posts:   ordered,
		HasMore: len(ordered) == limit,
		Total:   total,
		Count:   len(ordered),
	}
	if q.Offset == nil && len(ordered) > 0 {
		last := ordered[len(ordered)-1].ID
		page.NextCursor = &last
	}
	if q.Cursor == "" {
		page.NextOffset = &next
	}
	return page, nil
}

// fillRecent enriches recency-ordered candidates from start until the page
// holds limit posts or the candidates run out. Dropped posts are replaced by
// the ones after them, so next is the number of candidates consumed and the
// following page neither skips nor repeats a post.
func (s *FeedService) fillRecent(
	ctx context.Context,
	candidates []*models.Post,
	start, limit int,
) (page []*models.FeedPost, next, dropped int, err error) {
	page = make([]*models.FeedPost, 0, limit)
	next = start
	for len(page) < limit && next < len(candidates) {
		end := next + min(limit-len(page), len(candidates)-next)
		batch, err := s.enrichBatch(ctx, candidates[next:end])
		if err != nil {
			return nil, 0, 0, err
		}
		for _, e := range batch {
			page = append(page, e.post)
		}
		dropped += (end - next) - len(batch)
		next = end
	}
	if len(page) == 0 && dropped > 0 {
		return nil, 0, 0, s.storageFailure(ctx, "all_failed", errors.New("every post failed enrichment"))
	}
	return page, next, dropped, nil
}

// Trending returns the top posts by reactions per hour within a window.
// Posts without reactions are skipped.
func (s *FeedService) Trending(ctx context.Context, q TrendingQuery) (view *models.TrendingView, err error) {
	defer observability.TrackFeed("windowed")()

	ctx, span := observability.StartSpan(ctx, "feed.trending",
		attribute.String("trending.time_range", q.TimeRange))
	defer func() { observability.EndSpan(span, err) }()

	rangeName, window := resolveTimeRange(q.TimeRange, "24h")
	limit := clampLimit(q.Limit, defaultTrendingLimit, maxTrendingLimit)
	now := s.now()

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	candidates, err := resilience.Do(s.breaker, func() ([]*models.Post, error) {
		return s.posts.ListSince(ctx, now.Add(-window))
	})
	if err != nil {
		return nil, s.storageFailure(ctx, "candidates", err)
	}

	enriched, err := s.enrich(ctx, candidates)
	if err != nil {
		return nil, err
	}

	scorer := HourlyScorer{}
	scored := make([]scoredPost, 0, len(enriched))
	totalReactions := 0
	for _, e := range enriched {
		if e.eng.TotalReactions == 0 {
			continue
		}
		score := round2(scorer.Score(e.source, e.eng, now))
		e.post.TrendingScore = &score
		scored = append(scored, scoredPost{post: e.post, score: score})
		totalReactions += e.eng.TotalReactions
	}
	sortByScore(scored)

	posts := make([]*models.FeedPost, 0, min(limit, len(scored)))
	for i := 0; i < len(scored) && i < limit; i++ {
		posts = append(posts, scored[i].post)
	}

	return &models.TrendingView{
		Posts: posts,
		Metadata: models.TrendingMetadata{
			TimeRange:          rangeName,
			Limit:              limit,
			TotalPosts:         len(candidates),
			PostsWithReactions: len(scored),
			TotalReactions:     totalReactions,
			GeneratedAt:        now,
		},
	}, nil
}

// TrendingAuthors ranks registered authors by the reactions their posts
// collected within a window.
func (s *FeedService) TrendingAuthors(ctx context.Context, q TrendingQuery) (view *models.TrendingAuthorsView, err error) {
	defer observability.TrackFeed("authors")()

	ctx, span := observability.StartSpan(ctx, "feed.trending_authors",
		attribute.String("trending.time_range", q.TimeRange))
	defer func() { observability.EndSpan(span, err) }()

	rangeName, window := resolveTimeRange(q.TimeRange, "7d")
	limit := clampLimit(q.Limit, defaultTrendingLimit, maxTrendingLimit)
	now := s.now()

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	candidates, err := resilience.Do(s.breaker, func() ([]*models.Post, error) {
		return s.posts.ListSince(ctx, now.Add(-window))
	})
	if err != nil {
		return nil, s.storageFailure(ctx, "candidates", err)
	}

	var authored []*models.Post
	for _, p := range candidates {
		if p.AuthorID != "" {
			authored = append(authored, p)
		}
	}

	enriched, err := s.enrich(ctx, authored)
	if err != nil {
		return nil, err
	}

	stats := make(map[string]*models.AuthorStats)
	totalReactions := 0
	for _, e := range enriched {
		if e.post.Author == nil {
			continue
		}
		st, ok := stats[e.source.AuthorID]
		if !ok {
			st = &models.AuthorStats{
				UserID:      e.source.AuthorID,
				DisplayName: e.post.Author.DisplayName,
				PhotoURL:    e.post.Author.PhotoURL,
				Bio:         e.bio,
			}
			stats[e.source.AuthorID] = st
		}
		st.PostCount++
		st.TotalReactions += e.eng.TotalReactions
		st.TotalComments += e.eng.CommentCount
		totalReactions += e.eng.TotalReactions
	}

	users := make([]*models.AuthorStats, 0, len(stats))
	for _, st := range stats {
		users = append(users, st)
	}
	sort.Slice(users, func(i, j int) bool {
		if users[i].TotalReactions != users[j].TotalReactions {
			return users[i].TotalReactions > users[j].TotalReactions
		}
		if users[i].PostCount != users[j].PostCount {
			return users[i].PostCount > users[j].PostCount
		}
		return users[i].UserID < users[j].UserID
	})
	if len(users) > limit {
		users = users[:limit]
	}

	return &models.TrendingAuthorsView{
		Users: users,
		Metadata: models.TrendingMetadata{
			TimeRange:          rangeName,
			Limit:              limit,
			TotalPosts:         len(candidates),
			PostsWithReactions: len(stats),
			TotalReactions:     totalReactions,
			GeneratedAt:        now,
		},
	}, nil
}

// enrichedPost carries a post's public view together with its inputs.
type enrichedPost struct {
	source *models.Post
	post   *models.FeedPost
	eng    models.Engagement
	bio    string
}

// enrich aggregates every post concurrently, at most cfg.Concurrency at a
// time, and waits for all of them. A post whose aggregation fails is
// dropped. The deadline, an open breaker, or every post failing aborts the
// whole request.
func (s *FeedService) enrich(ctx context.Context, posts []*models.Post) ([]enrichedPost, error) {
	out, err := s.enrichBatch(ctx, posts)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 && len(posts) > 0 {
		return nil, s.storageFailure(ctx, "all_failed", errors.New("every post failed enrichment"))
	}
	return out, nil
}

// enrichBatch is enrich without the all-failed check.
func (s *FeedService) enrichBatch(ctx context.Context, posts []*models.Post) ([]enrichedPost, error) {
	if len(posts) == 0 {
		return nil, nil
	}

	results := make([]*enrichedPost, len(posts))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Concurrency)

	for i, p := range posts {
		g.Go(func() error {
			e, err := s.enrichOne(gctx, p)
			if err == nil {
				results[i] = e
				return nil
			}
			if gctx.Err() != nil || resilience.IsOpen(err) {
				return err
			}
			observability.FeedEnrichmentFailures.Inc()
			s.logger.WarnContext(ctx, "dropping post from feed after enrichment failure",
				slog.String("post_id", p.ID),
				slog.String("error", err.Error()))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, s.storageFailure(ctx, "enrichment", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, s.storageFailure(ctx, "deadline", err)
	}

	out := make([]enrichedPost, 0, len(posts))
	for _, e := range results {
		if e != nil {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (s *FeedService) enrichOne(ctx context.Context, p *models.Post) (*enrichedPost, error) {
	return enrichPost(ctx, p, s.aggregator, s.users, s.breaker)
}

// enrichPost attaches live engagement and the author record to p. A missing
// author is not an error.
func enrichPost(
	ctx context.Context,
	p *models.Post,
	aggregator Aggregator,
	users repository.UserRepository,
	breaker *resilience.Breaker,
) (*enrichedPost, error) {
	eng, err := resilience.Do(breaker, func() (models.Engagement, error) {
		return aggregator.Aggregate(ctx, p.ID)
	})
	if err != nil {
		return nil, err
	}

	var (
		author *models.Author
		bio    string
	)
	if p.AuthorID != "" {
		user, err := resilience.Do(breaker, func() (*models.User, error) {
			return users.GetByID(ctx, p.AuthorID)
		})
		switch {
		case errors.Is(err, models.ErrNotFound):
		case err != nil:
			return nil, err
		default:
			author = user.AsAuthor()
			bio = user.Bio
		}
	}

	return &enrichedPost{
		source: p,
		post:   models.NewFeedPost(p, eng, author),
		eng:    eng,
		bio:    bio,
	}, nil
}

// rank scores every post and returns them best first.
func (s *FeedService) rank(enriched []enrichedPost, scorer Scorer) []*models.FeedPost {
	now := s.now()
	scored := make([]scoredPost, len(enriched))
	for i, e := range enriched {
		score := scorer.Score(e.source, e.eng, now)
		e.post.TrendingScore = &score
		scored[i] = scoredPost{post: e.post, score: score}
	}
	sortByScore(scored)

	out := make([]*models.FeedPost, len(scored))
	for i, sp := range scored {
		out[i] = sp.post
	}
	return out
}

// resolveCampus maps the campus filter onto a repository scope. "" and
// "all" cover every campus.
func (s *FeedService) resolveCampus(ctx context.Context, campus string) (string, error) {
	campus = strings.TrimSpace(campus)
	if campus == "" || strings.EqualFold(campus, "all") {
		return "", nil
	}
	if campus == models.GeneralCampus {
		return campus, nil
	}
	known, err := resilience.Do(s.breaker, func() ([]models.Campus, error) {
		return s.campuses.List(ctx)
	})
	if err != nil {
		return "", s.storageFailure(ctx, "campuses", err)
	}
	for _, c := range known {
		if c.ID == campus {
			return campus, nil
		}
	}
	return "", models.NewInvalidFilterError("Unknown campus: " + campus)
}

func (s *FeedService) storageFailure(ctx context.Context, reason string, err error) error {
	observability.FeedStorageFailures.WithLabelValues(reason).Inc()
	s.logger.ErrorContext(ctx, "feed request failed",
		slog.String("reason", reason),
		slog.String("error", err.Error()))
	return models.NewStorageUnavailableError(err)
}

func clampLimit(limit, def, maxLimit int) int {
	switch {
	case limit == 0:
		return def
	case limit < 1:
		return 1
	case limit > maxLimit:
		return maxLimit
	}
	return limit
}

func resolveTimeRange(name, fallback string) (string, time.Duration) {
	if d, ok := timeRanges[name]; ok {
		return name, d
	}
	return fallback, timeRanges[fallback]
}

// pageStart finds where a page begins. An offset past the end yields an
// empty page. A cursor must name a post still in scope; in trending mode it
// must also have survived enrichment, since its rank is what the next page
// continues from.
func (s *FeedService) pageStart(
	ctx context.Context,
	q FeedQuery,
	candidates []*models.Post,
	ranked []*models.FeedPost,
) (int, error) {
	if q.Cursor == "" {
		if q.Offset == nil {
			return 0, nil
		}
		return min(*q.Offset, len(candidates)), nil
	}

	if !q.Trending {
		for i, p := range candidates {
			if p.ID == q.Cursor {
				return i + 1, nil
			}
		}
		return 0, models.NewInvalidFilterError("Unknown cursor: " + q.Cursor)
	}
	for i, p := range ranked {
		if p.ID == q.Cursor {
			return i + 1, nil
		}
	}
	for _, p := range candidates {
		if p.ID == q.Cursor {
			return 0, s.storageFailure(ctx, "cursor", errors.New("cursor post failed enrichment"))
		}
	}
	return 0, models.NewInvalidFilterError("Unknown cursor: " + q.Cursor)
}

func slicePage(posts []*models.FeedPost, start, limit int) []*models.FeedPost {
	if start >= len(posts) {
		return []*models.FeedPost{}
	}
	end := min(start+limit, len(posts))
	return posts[start:end]
}
