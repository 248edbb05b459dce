package server

import (
	"hotgist/internal/models"
	"hotgist/internal/service"

	"github.com/gofiber/fiber/v2"
)

type toggleReactionRequest struct {
	PostID string `json:"postId" validate:"required"`
	UserID string `json:"userId" validate:"required"`
	Type   string `json:"type" validate:"required,oneof=fire laugh shock"`
}

type addCommentRequest struct {
	Content    string `json:"content" validate:"required"`
	AuthorName string `json:"authorName"`
	AuthorID   string `json:"authorId" validate:"omitempty,max=128"`
}

// ToggleReaction handles POST /api/reactions
func (s *Server) ToggleReaction(c *fiber.Ctx) error {
	var req toggleReactionRequest
	if err := parseBody(c, &req); err != nil {
		return s.fail(c, err)
	}

	res, err := s.reactions.ToggleReaction(c.UserContext(), service.ToggleReactionInput{
		PostID: req.PostID,
		UserID: req.UserID,
		Type:   models.ReactionType(req.Type),
	})
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "data": res})
}

// GetReactions handles GET /api/reactions/:postId?userId=
func (s *Server) GetReactions(c *fiber.Ctx) error {
	summary, err := s.reactions.GetReactions(c.UserContext(), c.Params("postId"), c.Query("userId"))
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "data": summary})
}

// RemoveReaction handles DELETE /api/reactions/:postId?userId=
func (s *Server) RemoveReaction(c *fiber.Ctx) error {
	res, err := s.reactions.RemoveReaction(c.UserContext(), c.Params("postId"), c.Query("userId"))
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "data": res})
}

// ListComments handles GET /api/posts/:id/comments
func (s *Server) ListComments(c *fiber.Ctx) error {
	comments, err := s.comments.ListComments(c.UserContext(), c.Params("id"))
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "comments": comments, "count": len(comments)})
}

// AddComment handles POST /api/posts/:id/comments
func (s *Server) AddComment(c *fiber.Ctx) error {
	var req addCommentRequest
	if err := parseBody(c, &req); err != nil {
		return s.fail(c, err)
	}

	comment, err := s.comments.AddComment(c.UserContext(), service.AddCommentInput{
		PostID:     c.Params("id"),
		Content:    req.Content,
		AuthorName: req.AuthorName,
		AuthorID:   req.AuthorID,
	})
	if err != nil {
		return s.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "comment": comment})
}

// DeleteComment handles DELETE /api/comments/:commentId
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	if err := s.comments.DeleteComment(c.UserContext(), c.Params("commentId")); err != nil {
		return s.fail(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "message": "Comment deleted"})
}
