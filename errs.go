package corpora

import (
	"errors"

	"github.com/corpora-ai/gosdk/internal/transport"
)

var (
	ErrAPIKeyRequired       = errors.New("API key is required")
	ErrCollectionIDRequired = errors.New("collection ID is required")
	ErrResourceIDRequired   = errors.New("resource ID is required")
	ErrResourceRequired     = errors.New("resource is required")
	ErrImageURLRequired     = errors.New("image URL is required")
	ErrWebsiteURLRequired   = errors.New("website URL is required")
)

// fallbackMessage is used when neither the server nor the underlying error
// offers anything human-readable.
const fallbackMessage = "Something went wrong"

// APIError is the uniform failure value returned by every client method once
// a request has been sent. Input-validation failures are returned as the
// Err* sentinels above instead.
//
// Message is always populated, so checking the returned error is all a
// caller ever needs to do; no method panics or leaks a transport error type.
//
//	result, err := client.Query(ctx, req)
//	if err != nil {
//		var apiErr *corpora.APIError
//		if errors.As(err, &apiErr) && apiErr.StatusCode == 404 {
//			// Handle a missing collection.
//		}
//	}
type APIError struct {
	// Message is the human-readable failure description. Preference order:
	// the server error body's message field, the underlying error text,
	// then a fixed fallback.
	Message string
	// StatusCode is the HTTP status code when the failure came from the
	// API. Zero for network-level failures.
	StatusCode int
	// Status is the HTTP status text, when known.
	Status string
	// Err is the underlying error, when one exists.
	Err error
}

// Error returns the derived message.
func (e *APIError) Error() string {
	return e.Message
}

// Unwrap returns the underlying error.
func (e *APIError) Unwrap() error {
	return e.Err
}

// apiError converts any failure crossing the client boundary into *APIError.
func apiError(err error) *APIError {
	out := &APIError{Message: fallbackMessage, Err: err}

	var st *transport.StatusError
	if errors.As(err, &st) {
		out.StatusCode = st.StatusCode
		out.Status = st.Status
		if msg, ok := st.Body["message"].(string); ok && msg != "" {
			out.Message = msg
			return out
		}
	}
	if err != nil && err.Error() != "" {
		out.Message = err.Error()
	}
	return out
}
