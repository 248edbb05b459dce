package validation

import (
	"errors"
	"strings"
	"testing"

	"hotgist/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	PostID   string `json:"postId" validate:"required"`
	Type     string `json:"type" validate:"required,oneof=fire laugh shock"`
	ImageURL string `json:"imageUrl" validate:"omitempty,url"`
	Name     string `json:"authorName" validate:"omitempty,max=5"`
}

func TestStruct(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		req     sampleRequest
		wantMsg string
	}{
		{"valid", sampleRequest{PostID: "p1", Type: "fire"}, ""},
		{"missing post", sampleRequest{Type: "fire"}, "postId is required"},
		{"bad type", sampleRequest{PostID: "p1", Type: "heart"}, "type must be one of: fire, laugh, shock"},
		{"bad url", sampleRequest{PostID: "p1", Type: "laugh", ImageURL: "not a url"}, "imageUrl must be a valid URL"},
		{"long name", sampleRequest{PostID: "p1", Type: "shock", Name: strings.Repeat("a", 6)}, "authorName must be at most 5 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := Struct(&tt.req)
			if tt.wantMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, models.ErrValidation))
			assert.Equal(t, tt.wantMsg, err.Error())
		})
	}
}

func TestStruct_JoinsMessages(t *testing.T) {
	err := Struct(&sampleRequest{})
	require.Error(t, err)
	assert.Equal(t, "postId is required; type is required", err.Error())
}
