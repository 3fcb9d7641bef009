package llm

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/Conceptual-Machines/review-generator/internal/models"
)

// Error is a classified provider failure
type Error struct {
	Kind       models.ErrorKind
	StatusCode int    // set for ApiError
	Body       string // raw response body for ApiError and ResponseError
	Err        error
}

func (e *Error) Error() string {
	switch e.Kind {
	case models.ErrAPI:
		return fmt.Sprintf("API Error %d: %s", e.StatusCode, e.Body)
	case models.ErrTimeout:
		return fmt.Sprintf("request timeout: %v", e.Err)
	case models.ErrConnection:
		return fmt.Sprintf("connection error: %v", e.Err)
	default:
		return fmt.Sprintf("unexpected response: %v", e.Err)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Classify maps any provider error onto an *Error.
// Deadline and network timeouts become TimeoutError; other failures ConnectionError.
func Classify(err error) *Error {
	if err == nil {
		return nil
	}

	var llmErr *Error
	if errors.As(err, &llmErr) {
		return llmErr
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &Error{Kind: models.ErrTimeout, Err: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &Error{Kind: models.ErrTimeout, Err: err}
	}
	return &Error{Kind: models.ErrConnection, Err: err}
}

func responseError(body []byte, err error) *Error {
	return &Error{Kind: models.ErrResponse, Body: string(body), Err: err}
}
