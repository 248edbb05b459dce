package server

import (
	"hotgist/internal/service"

	"github.com/gofiber/fiber/v2"
)

type createPostRequest struct {
	Content    string `json:"content" validate:"required"`
	Campus     string `json:"campus" validate:"omitempty,max=32"`
	AuthorName string `json:"authorName"`
	AuthorID   string `json:"authorId" validate:"omitempty,max=128"`
	ImageURL   string `json:"imageUrl" validate:"omitempty,url"`
}

// CreatePost handles POST /api/posts
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req createPostRequest
	if err := parseBody(c, &req); err != nil {
		return s.fail(c, err)
	}

	post, err := s.posts.CreatePost(c.UserContext(), service.CreatePostInput{
		Content:    req.Content,
		Campus:     req.Campus,
		AuthorName: req.AuthorName,
		AuthorID:   req.AuthorID,
		ImageURL:   req.ImageURL,
	})
	if err != nil {
		return s.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "post": post})
}

// GetPost handles GET /api/posts/:id
func (s *Server) GetPost(c *fiber.Ctx) error {
	post, err := s.posts.GetPost(c.UserContext(), c.Params("id"))
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "post": post})
}

// DeletePost handles DELETE /api/posts/:id
func (s *Server) DeletePost(c *fiber.Ctx) error {
	if err := s.posts.DeletePost(c.UserContext(), c.Params("id")); err != nil {
		return s.fail(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "message": "Post deleted"})
}

// ListCampuses handles GET /api/campuses
func (s *Server) ListCampuses(c *fiber.Ctx) error {
	campuses, err := s.posts.ListCampuses(c.UserContext())
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "campuses": campuses})
}
