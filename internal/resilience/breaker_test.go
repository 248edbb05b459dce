package resilience

import (
	"errors"
	"testing"
	"time"

	"hotgist/internal/models"
	"hotgist/internal/observability"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBreaker_OpensAfterConsecutiveFailures(t *testing.T) {
	b := NewBreaker(Settings{FailureThreshold: 2, Timeout: time.Hour}, observability.NopLogger())
	boom := errors.New("connection refused")

	calls := 0
	fail := func() (int, error) {
		calls++
		return 0, boom
	}

	for i := 0; i < 2; i++ {
		_, err := Do(b, fail)
		assert.ErrorIs(t, err, boom)
	}
	assert.Equal(t, "open", b.State())

	_, err := Do(b, fail)
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrStorageUnavailable)
	assert.Equal(t, 2, calls, "open breaker must not call through")
}

func TestBreaker_DomainErrorsDoNotTrip(t *testing.T) {
	b := NewBreaker(Settings{FailureThreshold: 1, Timeout: time.Hour}, observability.NopLogger())

	for i := 0; i < 3; i++ {
		err := Run(b, func() error { return models.NewNotFoundError("Post", "p1") })
		assert.ErrorIs(t, err, models.ErrNotFound)
	}
	assert.Equal(t, "closed", b.State())
}

func TestBreaker_PassesResult(t *testing.T) {
	b := NewBreaker(Settings{}, observability.NopLogger())

	got, err := Do(b, func() ([]string, error) { return []string{"a", "b"}, nil })
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, got)
}

func TestBreaker_Nil(t *testing.T) {
	var b *Breaker
	got, err := Do(b, func() (int, error) { return 7, nil })
	require.NoError(t, err)
	assert.Equal(t, 7, got)
	assert.Equal(t, "closed", b.State())
}
