package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"hotgist/internal/models"
	"hotgist/internal/repository"
)

const (
	maxPostLen       = 500
	maxCommentLen    = 300
	maxAuthorNameLen = 100
	anonymousName    = "Anonymous"
)

// cleanText trims s and checks its length in characters.
func cleanText(s, field string, maxLen int) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", models.NewValidationError(field + " is required and cannot be empty")
	}
	if utf8.RuneCountInString(s) > maxLen {
		return "", models.NewValidationError(fmt.Sprintf("%s must be at most %d characters", field, maxLen))
	}
	return s, nil
}

func authorNameOrAnonymous(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return anonymousName, nil
	}
	if utf8.RuneCountInString(name) > maxAuthorNameLen {
		return "", models.NewValidationError(fmt.Sprintf("authorName must be at most %d characters", maxAuthorNameLen))
	}
	return name, nil
}

// campusKnown reports whether id is General or a catalog campus.
func campusKnown(ctx context.Context, campuses repository.CampusRepository, id string) (bool, error) {
	if id == models.GeneralCampus {
		return true, nil
	}
	list, err := campuses.List(ctx)
	if err != nil {
		return false, err
	}
	for _, c := range list {
		if c.ID == id {
			return true, nil
		}
	}
	return false, nil
}

func invalidate(ctx context.Context, inv Invalidator, postID string) {
	if inv != nil {
		inv.Invalidate(ctx, postID)
	}
}
