// Package server contains the HTTP handlers for the HotGist API.
package server

import (
	"context"
	"errors"
	"log/slog"
	"time"

	_ "hotgist/docs" // swagger docs
	"hotgist/internal/bootstrap"
	"hotgist/internal/cache"
	"hotgist/internal/config"
	"hotgist/internal/featureflags"
	"hotgist/internal/middleware"
	"hotgist/internal/models"
	"hotgist/internal/repository"
	"hotgist/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config       *config.Config
	logger       *slog.Logger
	app          *fiber.App
	store        *repository.Store
	cache        *cache.Client
	featureFlags *featureflags.Manager

	feed      *service.FeedService
	posts     *service.PostService
	reactions *service.ReactionService
	comments  *service.CommentService
}

// NewServer builds the Fiber app over an initialized runtime.
func NewServer(cfg *config.Config, rt *bootstrap.Runtime, logger *slog.Logger) *Server {
	s := &Server{
		config:       cfg,
		logger:       logger,
		store:        rt.Store,
		cache:        rt.Cache,
		featureFlags: featureflags.NewManager(cfg.FeatureFlags),
		feed:         rt.Feed,
		posts:        rt.Posts,
		reactions:    rt.Reactions,
		comments:     rt.Comments,
	}

	s.app = fiber.New(fiber.Config{
		AppName:      "HotGist API",
		BodyLimit:    1 * 1024 * 1024,
		ErrorHandler: s.errorHandler,
	})
	s.SetupMiddleware(s.app)
	s.SetupRoutes(s.app)
	return s
}

// App exposes the Fiber app, mostly for app.Test in tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.TracingMiddleware())
	app.Use(middleware.ContextMiddleware())
	middleware.InitMetrics(app, "hotgist-api")
	app.Use(helmet.New())
	app.Use(middleware.StructuredLogger(s.logger))

	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:8081,http://localhost:19006"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowHeaders: "Origin, Content-Type, Accept",
		MaxAge:       86400,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        300,
		Expiration: 1 * time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(models.ErrorResponse{
				Error: "Too many requests, please try again later.",
				Code:  "RATE_LIMITED",
			})
		},
	}))
}

// SetupRoutes registers every endpoint.
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	api := app.Group("/api")
	api.Get("/swagger/*", swagger.HandlerDefault)

	writeLimit := func(name string) fiber.Handler {
		return middleware.RateLimit(s.cache.Redis(), middleware.RateLimitConfig{
			Enabled: s.config.RateLimitEnabled,
			Limit:   s.config.RateLimitWrites,
			Window:  s.config.RateLimitWindow(),
			Policy:  middleware.FailOpen,
			Name:    name,
			Logger:  s.logger,
		})
	}

	posts := api.Group("/posts")
	posts.Get("/", s.GetFeed)
	posts.Post("/", writeLimit("create_post"), s.CreatePost)
	posts.Get("/:id/comments", s.ListComments)
	posts.Post("/:id/comments", writeLimit("create_comment"), s.AddComment)
	posts.Get("/:id", s.GetPost)
	posts.Delete("/:id", s.DeletePost)

	api.Delete("/comments/:commentId", s.DeleteComment)

	reactions := api.Group("/reactions")
	reactions.Post("/", writeLimit("reaction"), s.ToggleReaction)
	reactions.Get("/:postId", s.GetReactions)
	reactions.Delete("/:postId", s.RemoveReaction)

	trending := api.Group("/trending")
	trending.Get("/", s.GetTrending)
	trending.Get("/users", s.GetTrendingAuthors)

	api.Get("/campuses", s.ListCampuses)
	api.Get("/campus/:campus/posts", s.GetCampusFeed)
	api.Get("/feature-flags", s.GetFeatureFlags)
}

// LivenessCheck reports that the process is serving.
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck pings storage and Redis. A disabled cache does not make the
// service unready.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	storageStatus := "healthy"
	if err := s.store.Ping(ctx); err != nil {
		storageStatus = "unhealthy"
	}

	redisStatus := "disabled"
	if s.cache.Enabled() {
		redisStatus = "healthy"
		if err := s.cache.Ping(ctx); err != nil {
			redisStatus = "degraded"
		}
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if storageStatus != "healthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"storage": storageStatus,
			"redis":   redisStatus,
		},
		"time": time.Now(),
	})
}

// GetFeatureFlags returns the evaluated flags for the caller.
func (s *Server) GetFeatureFlags(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"success": true,
		"flags":   s.featureFlags.Snapshot(c.IP()),
	})
}

// Start listens on the configured port until Shutdown.
func (s *Server) Start() error {
	s.logger.Info("server starting", slog.String("port", s.config.Port))
	return s.app.Listen(":" + s.config.Port)
}

// Shutdown stops accepting requests and drains in-flight ones.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(models.ErrorResponse{Error: fe.Message})
	}
	return s.fail(c, err)
}
