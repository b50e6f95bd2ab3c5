package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors classifying every failure the pipelines can surface.
// Handlers map these to HTTP status codes at the boundary; everything
// below the boundary wraps one of them with %w.
var (
	// ErrInvalidRequest means caller-supplied data failed a precondition
	// (empty audio, empty transcript, empty voice reference).
	ErrInvalidRequest = errors.New("invalid request")

	// ErrNoSpeechDetected means transcription succeeded but yielded
	// empty or whitespace-only text.
	ErrNoSpeechDetected = errors.New("no speech detected")

	// ErrUpstream means an external provider call failed. Provider
	// detail is carried in the wrapped message for logs, never shown to
	// clients.
	ErrUpstream = errors.New("upstream provider error")

	// ErrMalformedModelOutput means the language model returned a
	// response that could not be parsed into the expected JSON shape.
	ErrMalformedModelOutput = errors.New("malformed model output")
)

// RequestError is an invalid-request failure carrying a reason safe to
// show to the caller.
type RequestError struct {
	Reason string
}

func (e *RequestError) Error() string {
	return e.Reason
}

// Is makes errors.Is(err, ErrInvalidRequest) match RequestError values.
func (e *RequestError) Is(target error) bool {
	return target == ErrInvalidRequest
}

// InvalidRequest builds a RequestError with a user-facing reason.
func InvalidRequest(reason string) error {
	return &RequestError{Reason: reason}
}

// UpstreamFailure wraps a provider error with the provider's name.
func UpstreamFailure(provider string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrUpstream, provider, err)
}
