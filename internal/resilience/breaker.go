// Package resilience guards storage calls with a circuit breaker.
package resilience

import (
	"errors"
	"log/slog"
	"time"

	"hotgist/internal/models"
	"hotgist/internal/observability"

	gobreaker "github.com/sony/gobreaker/v2"
)

// Settings configures the storage breaker.
type Settings struct {
	Name             string
	FailureThreshold uint32        // consecutive failures before opening
	Timeout          time.Duration // time spent open before a half-open probe
	MaxRequests      uint32        // concurrent probes allowed while half-open
}

// Breaker trips after repeated storage failures so that feed requests fail
// fast with StorageUnavailable instead of waiting on a dead backend.
// A nil *Breaker runs every call directly.
type Breaker struct {
	cb     *gobreaker.CircuitBreaker[any]
	logger *slog.Logger
}

// NewBreaker builds a breaker. Errors that are not storage failures
// (not found, validation) do not count against it.
func NewBreaker(s Settings, logger *slog.Logger) *Breaker {
	if s.Name == "" {
		s.Name = "storage"
	}
	if s.FailureThreshold == 0 {
		s.FailureThreshold = 5
	}
	if s.MaxRequests == 0 {
		s.MaxRequests = 1
	}

	observability.StorageBreakerState.Set(0)

	b := &Breaker{logger: logger}
	b.cb = gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        s.Name,
		MaxRequests: s.MaxRequests,
		Timeout:     s.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= s.FailureThreshold
		},
		IsSuccessful: func(err error) bool {
			return err == nil || !isStorageFailure(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			observability.StorageBreakerState.Set(stateToFloat(to))
			logger.Warn("circuit breaker state transition",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()))
		},
	})
	return b
}

// State returns the current breaker state as a string.
func (b *Breaker) State() string {
	if b == nil {
		return gobreaker.StateClosed.String()
	}
	return b.cb.State().String()
}

// Do runs fn through the breaker. A rejected call returns StorageUnavailable.
func Do[T any](b *Breaker, fn func() (T, error)) (T, error) {
	if b == nil {
		return fn()
	}

	var zero T
	result, err := b.cb.Execute(func() (any, error) {
		return fn()
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return zero, models.NewStorageUnavailableError(err)
		}
		return zero, err
	}
	typed, ok := result.(T)
	if !ok {
		return zero, nil
	}
	return typed, nil
}

// Run is Do for calls without a result.
func Run(b *Breaker, fn func() error) error {
	_, err := Do(b, func() (struct{}, error) {
		return struct{}{}, fn()
	})
	return err
}

func isStorageFailure(err error) bool {
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return appErr.Code == models.CodeStorageUnavailable || appErr.Code == models.CodeInternal
	}
	return true
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

// IsOpen reports whether err came from a call the breaker rejected.
func IsOpen(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}
