package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"hotgist/internal/models"
	"hotgist/internal/repository"

	"github.com/google/uuid"
)

type PostService struct {
	posts      repository.PostRepository
	users      repository.UserRepository
	campuses   repository.CampusRepository
	aggregator Aggregator
	invalidate Invalidator
	logger     *slog.Logger
	now        func() time.Time
}

type CreatePostInput struct {
	Content    string
	Campus     string
	AuthorName string
	AuthorID   string
	ImageURL   string
}

func NewPostService(store *repository.Store, aggregator Aggregator, inv Invalidator, logger *slog.Logger) *PostService {
	return &PostService{
		posts:      store.Posts,
		users:      store.Users,
		campuses:   store.Campuses,
		aggregator: aggregator,
		invalidate: inv,
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.FeedPost, error) {
	content, err := cleanText(in.Content, "Post content", maxPostLen)
	if err != nil {
		return nil, err
	}
	authorName, err := authorNameOrAnonymous(in.AuthorName)
	if err != nil {
		return nil, err
	}

	campus := strings.TrimSpace(in.Campus)
	if campus == "" {
		campus = models.GeneralCampus
	}
	ok, err := campusKnown(ctx, s.campuses, campus)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, models.NewValidationError("Invalid campus selected")
	}

	now := s.now()
	post := &models.Post{
		ID:         uuid.NewString(),
		Content:    content,
		AuthorID:   strings.TrimSpace(in.AuthorID),
		AuthorName: authorName,
		Campus:     campus,
		ImageURL:   strings.TrimSpace(in.ImageURL),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "post created",
		slog.String("post_id", post.ID),
		slog.String("campus", campus))

	var author *models.Author
	if post.AuthorID != "" {
		if user, err := s.users.GetByID(ctx, post.AuthorID); err == nil {
			author = user.AsAuthor()
		}
	}
	return models.NewFeedPost(post, models.Engagement{PostID: post.ID}, author), nil
}

// GetPost returns the post with live engagement.
func (s *PostService) GetPost(ctx context.Context, id string) (*models.FeedPost, error) {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	e, err := enrichPost(ctx, post, s.aggregator, s.users, nil)
	if err != nil {
		return nil, models.NewStorageUnavailableError(err)
	}
	return e.post, nil
}

// DeletePost removes a post with its reactions and comments.
func (s *PostService) DeletePost(ctx context.Context, id string) error {
	if err := s.posts.Delete(ctx, id); err != nil {
		return err
	}
	invalidate(ctx, s.invalidate, id)
	s.logger.InfoContext(ctx, "post deleted", slog.String("post_id", id))
	return nil
}

func (s *PostService) ListCampuses(ctx context.Context) ([]models.Campus, error) {
	return s.campuses.List(ctx)
}

// CampusExists reports whether id names General or a catalog campus.
func (s *PostService) CampusExists(ctx context.Context, id string) (bool, error) {
	return campusKnown(ctx, s.campuses, id)
}
