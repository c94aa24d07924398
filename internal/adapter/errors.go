package adapter

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the platform adapter. Callers should use
// [errors.Is] to match against these values.
var (
	// ErrUnauthorized is returned when the platform rejects the account's
	// auth token. Not retryable.
	ErrUnauthorized = errors.New("platform rejected auth token")

	// ErrPlatformUnavailable is returned after transient retries (network
	// failures, 5xx, rate limits) are exhausted. It aborts the cycle; the
	// next cycle retries from the unchanged checkpoint.
	ErrPlatformUnavailable = errors.New("platform unavailable after retries")

	// ErrValidation is returned when the platform rejects a payload as
	// malformed. Item-level detail is attached via [BatchItemError].
	ErrValidation = errors.New("platform rejected payload")

	// ErrResultCountMismatch is returned when a create or update response
	// carries a different number of results than the request had bodies.
	// Fatal for the cycle: proceeding would corrupt the id remap.
	ErrResultCountMismatch = errors.New("result count does not match request count")

	// ErrMissingResultID is returned when a create result item carries
	// neither an id nor an item-level error.
	ErrMissingResultID = errors.New("no id in create result")
)

// BatchItemError reports the platform's per-item rejections within one batch
// call, so the operator can see which entities were refused and why.
type BatchItemError struct {
	// Index is the zero-based position of the rejected body in the request.
	Index int
	// Code is the platform's numeric error code.
	Code int
	// Message is the platform's human-readable detail.
	Message string
}

func (e BatchItemError) Error() string {
	return fmt.Sprintf("item %d rejected: code %d: %s", e.Index, e.Code, e.Message)
}

// apiError is the platform's JSON error envelope.
type apiError struct {
	Code    int    `json:"error_code"`
	Message string `json:"error_string"`
	Detail  string `json:"error_detail"`
}

func (e apiError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("platform error %d: %s: %s", e.Code, e.Message, e.Detail)
	}
	return fmt.Sprintf("platform error %d: %s", e.Code, e.Message)
}

// Platform error codes with special handling.
const (
	codeBadToken         = 53  // invalid or expired token
	codeTooManyRequests  = 56  // request rate limit hit
	codeTemporaryFailure = 52  // temporary server trouble
	codeConcurrentLimit  = 506 // concurrent request limit
)

// transientCode reports whether the platform error code is worth retrying.
func transientCode(code int) bool {
	switch code {
	case codeTooManyRequests, codeTemporaryFailure, codeConcurrentLimit:
		return true
	default:
		return false
	}
}
