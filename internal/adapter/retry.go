// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/sethvargo/go-retry"
)

// transientError marks a failure worth retrying: network trouble, 5xx,
// rate limiting, and the platform's temporary error codes.
type transientError struct{ err error }

func (e transientError) Error() string { return e.err.Error() }
func (e transientError) Unwrap() error { return e.err }

func isTransient(err error) bool {
	var te transientError
	return errors.As(err, &te)
}

// callRaw performs one platform POST with exponential backoff on transient
// failures. Exhausted retries surface as [ErrPlatformUnavailable]; every
// other error is final on the first occurrence.
func (h *httpPlatformAPI) callRaw(ctx context.Context, s Session, service string, req apiRequest) (json.RawMessage, error) {
	backoff := retry.WithMaxRetries(h.retryAttempts, retry.NewExponential(h.retryBase))

	var result json.RawMessage
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		body, err := h.post(ctx, s, service, req)
		if err != nil {
			if isTransient(err) {
				return retry.RetryableError(err)
			}
			return err
		}

		result = body
		return nil
	})
	if err != nil {
		if isTransient(err) {
			return nil, fmt.Errorf("%w: %w", ErrPlatformUnavailable, err)
		}
		return nil, err
	}

	return result, nil
}

// post sends one request and classifies the outcome. HTTP transport errors
// and retryable statuses come back wrapped in transientError; auth failures
// and the platform's application-level errors are mapped to their sentinels.
func (h *httpPlatformAPI) post(ctx context.Context, s Session, service string, req apiRequest) (json.RawMessage, error) {
	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+s.Token).
		SetHeader("Client-Login", s.Login).
		SetHeader("Accept-Language", "en").
		SetHeader("Content-Type", "application/json; charset=utf-8").
		SetBody(req).
		Post("/" + service)
	if err != nil {
		return nil, transientError{err}
	}

	switch code := resp.StatusCode(); {
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return nil, fmt.Errorf("%w: http status %d", ErrUnauthorized, code)
	case code == http.StatusTooManyRequests || code >= http.StatusInternalServerError:
		return nil, transientError{fmt.Errorf("http status %d", code)}
	case code != http.StatusOK:
		return nil, fmt.Errorf("unexpected http status %d", code)
	}

	var envelope apiResponse
	if err = json.Unmarshal(resp.Body(), &envelope); err != nil {
		return nil, fmt.Errorf("decode response envelope: %w", err)
	}

	if envelope.Error != nil {
		apiErr := *envelope.Error
		switch {
		case apiErr.Code == codeBadToken:
			return nil, fmt.Errorf("%w: %w", ErrUnauthorized, apiErr)
		case transientCode(apiErr.Code):
			return nil, transientError{apiErr}
		default:
			return nil, apiErr
		}
	}

	return envelope.Result, nil
}
