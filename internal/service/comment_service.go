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

type CommentService struct {
	posts      repository.PostRepository
	comments   repository.CommentRepository
	invalidate Invalidator
	logger     *slog.Logger
	now        func() time.Time
}

type AddCommentInput struct {
	PostID     string
	Content    string
	AuthorName string
	AuthorID   string
}

func NewCommentService(store *repository.Store, inv Invalidator, logger *slog.Logger) *CommentService {
	return &CommentService{
		posts:      store.Posts,
		comments:   store.Comments,
		invalidate: inv,
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (s *CommentService) AddComment(ctx context.Context, in AddCommentInput) (*models.Comment, error) {
	content, err := cleanText(in.Content, "Comment content", maxCommentLen)
	if err != nil {
		return nil, err
	}
	authorName, err := authorNameOrAnonymous(in.AuthorName)
	if err != nil {
		return nil, err
	}
	if _, err := s.posts.GetByID(ctx, in.PostID); err != nil {
		return nil, err
	}

	now := s.now()
	comment := &models.Comment{
		ID:         uuid.NewString(),
		PostID:     in.PostID,
		AuthorID:   strings.TrimSpace(in.AuthorID),
		AuthorName: authorName,
		Content:    content,
		CreatedAt:  now,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}
	if err := s.syncCounter(ctx, in.PostID, now); err != nil {
		return nil, err
	}
	return comment, nil
}

// ListComments returns a post's comments oldest first.
func (s *CommentService) ListComments(ctx context.Context, postID string) ([]*models.Comment, error) {
	if _, err := s.posts.GetByID(ctx, postID); err != nil {
		return nil, err
	}
	return s.comments.ListByPost(ctx, postID)
}

func (s *CommentService) DeleteComment(ctx context.Context, commentID string) error {
	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return err
	}
	if err := s.comments.Delete(ctx, commentID); err != nil {
		return err
	}
	return s.syncCounter(ctx, comment.PostID, s.now())
}

// syncCounter recounts live comments and writes the total to the post.
// Same last-write-wins caveat as the reaction counter.
func (s *CommentService) syncCounter(ctx context.Context, postID string, at time.Time) error {
	list, err := s.comments.ListByPost(ctx, postID)
	if err != nil {
		return err
	}
	if err := s.posts.UpdateCommentCount(ctx, postID, len(list), at); err != nil {
		return err
	}
	invalidate(ctx, s.invalidate, postID)
	s.logger.DebugContext(ctx, "comment counter synced",
		slog.String("post_id", postID),
		slog.Int("comments", len(list)))
	return nil
}
