package restapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"taskctl/internal/service"
)

// HTTPError is a non-2xx response.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	msg := fmt.Sprintf("server returned %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

// Is maps status codes onto the service sentinel errors.
func (e *HTTPError) Is(target error) bool {
	switch target {
	case service.ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
	case service.ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	}
	return false
}

// wrapError wraps transport errors with user-friendly messages.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return service.ErrTimeout
	}

	return fmt.Errorf("request failed: %w", err)
}
