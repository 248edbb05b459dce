package server

import (
	"hotgist/internal/featureflags"
	"hotgist/internal/models"
	"hotgist/internal/service"

	"github.com/gofiber/fiber/v2"
)

type feedResponse struct {
	Success   bool               `json:"success"`
	Posts     []*models.FeedPost `json:"posts"`
	HasMore   bool               `json:"hasMore"`
	LastDocID *string            `json:"lastDocId,omitempty"`
	Offset    *int               `json:"offset,omitempty"`
	Total     int                `json:"total"`
	Count     int                `json:"count"`
	Campus    string             `json:"campus"`
	Trending  bool               `json:"trending"`
}

// GetFeed handles GET /api/posts
//
// @Summary      Campus feed
// @Description  Recent or trending posts with live engagement
// @Tags         posts
// @Produce      json
// @Param        campus    query  string  false  "Campus ID, General, or all"
// @Param        limit     query  int     false  "Page size"
// @Param        offset    query  int     false  "Offset (not with cursor)"
// @Param        cursor    query  string  false  "Last post ID of the previous page"
// @Param        trending  query  bool    false  "Rank by trending score"
// @Param        mode      query  string  false  "decay or hourly"
// @Success      200  {object}  feedResponse
// @Failure      400  {object}  models.ErrorResponse
// @Failure      502  {object}  models.ErrorResponse
// @Router       /posts [get]
func (s *Server) GetFeed(c *fiber.Ctx) error {
	q, err := parseFeedQuery(c)
	if err != nil {
		return s.fail(c, err)
	}
	q.Campus = c.Query("campus")
	q.Trending = queryBool(c, "trending")
	q.Mode = service.ScoreMode(c.Query("mode"))

	return s.respondFeed(c, q)
}

// GetCampusFeed handles GET /api/campus/:campus/posts
func (s *Server) GetCampusFeed(c *fiber.Ctx) error {
	campus := c.Params("campus")
	ok, err := s.posts.CampusExists(c.UserContext(), campus)
	if err != nil {
		return s.fail(c, err)
	}
	if !ok {
		return s.fail(c, models.NewNotFoundError("Campus", campus))
	}

	q, err := parseFeedQuery(c)
	if err != nil {
		return s.fail(c, err)
	}
	q.Campus = campus
	return s.respondFeed(c, q)
}

func parseFeedQuery(c *fiber.Ctx) (service.FeedQuery, error) {
	limit, err := queryInt(c, "limit")
	if err != nil {
		return service.FeedQuery{}, err
	}
	offset, err := queryInt(c, "offset")
	if err != nil {
		return service.FeedQuery{}, err
	}
	return service.FeedQuery{
		Limit:  derefOr(limit, 0),
		Offset: offset,
		Cursor: c.Query("cursor"),
	}, nil
}

func (s *Server) respondFeed(c *fiber.Ctx, q service.FeedQuery) error {
	page, err := s.feed.GetFeed(c.UserContext(), q)
	if err != nil {
		return s.fail(c, err)
	}

	campus := q.Campus
	if campus == "" {
		campus = "all"
	}
	return c.JSON(feedResponse{
		Success:   true,
		Posts:     page.Posts,
		HasMore:   page.HasMore,
		LastDocID: page.NextCursor,
		Offset:    page.NextOffset,
		Total:     page.Total,
		Count:     page.Count,
		Campus:    campus,
		Trending:  q.Trending,
	})
}

// GetTrending handles GET /api/trending
func (s *Server) GetTrending(c *fiber.Ctx) error {
	limit, err := queryInt(c, "limit")
	if err != nil {
		return s.fail(c, err)
	}

	view, err := s.feed.Trending(c.UserContext(), service.TrendingQuery{
		Limit:     derefOr(limit, 0),
		TimeRange: c.Query("timeRange"),
	})
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(fiber.Map{
		"success":  true,
		"posts":    view.Posts,
		"metadata": view.Metadata,
	})
}

// GetTrendingAuthors handles GET /api/trending/users. Hidden unless the
// trending_authors flag is on for the caller.
func (s *Server) GetTrendingAuthors(c *fiber.Ctx) error {
	if !s.featureFlags.Enabled(featureflags.TrendingAuthors, c.IP()) {
		return s.fail(c, &models.AppError{Code: models.CodeNotFound, Message: "Trending authors are not enabled"})
	}

	limit, err := queryInt(c, "limit")
	if err != nil {
		return s.fail(c, err)
	}

	view, err := s.feed.TrendingAuthors(c.UserContext(), service.TrendingQuery{
		Limit:     derefOr(limit, 0),
		TimeRange: c.Query("timeRange"),
	})
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(fiber.Map{
		"success":  true,
		"users":    view.Users,
		"metadata": view.Metadata,
	})
}
