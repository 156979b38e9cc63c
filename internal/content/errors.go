package content

import (
	"errors"
	"fmt"

	"dadjoke-bot/internal/metrics"
	"dadjoke-bot/internal/models"
)

var ErrUnknownSource = errors.New("unknown content source")

// NetworkError covers transport failures, timeouts and unreadable bodies.
type NetworkError struct {
	Source models.ContentSource
	Err    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: request failed: %v", e.Source, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

type StatusError struct {
	Source     models.ContentSource
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d", e.Source, e.StatusCode)
}

// ParseError is returned for malformed JSON and for missing or empty fields.
type ParseError struct {
	Source models.ContentSource
	Field  string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: missing field %q", e.Source, e.Field)
	}
	return fmt.Sprintf("%s: invalid body: %v", e.Source, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func outcome(err error) string {
	var (
		statusErr *StatusError
		parseErr  *ParseError
	)
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case errors.As(err, &statusErr):
		return metrics.OutcomeStatus
	case errors.As(err, &parseErr):
		return metrics.OutcomeParse
	default:
		return metrics.OutcomeNetwork
	}
}
