// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package reply

import (
	"context"
	"errors"
)

// Failure kinds a responder can surface. Every responder error is reported
// as exactly one of these, see Classify.
var (
	// ErrTimeout means the responder did not answer before its deadline.
	ErrTimeout = errors.New("reply timed out")

	// ErrService means the responder reported a failure of its own.
	ErrService = errors.New("reply service failed")

	// ErrMalformed means the responder answered with an empty or unusable body.
	ErrMalformed = errors.New("reply was malformed")
)

// Scheduler errors.
var (
	// ErrClosed is returned when scheduling on a closed scheduler.
	ErrClosed = errors.New("scheduler is closed")

	// ErrDuplicateKey is returned when a reply is already pending for a key.
	ErrDuplicateKey = errors.New("reply already pending for message")
)

// Classify maps an error to its failure kind. nil stays nil; errors that
// match no kind are service failures.
func Classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return ErrTimeout
	case errors.Is(err, ErrMalformed):
		return ErrMalformed
	default:
		return ErrService
	}
}

// Describe returns the user-facing text of a failed reply.
func Describe(err error) string {
	switch Classify(err) {
	case nil:
		return ""
	case ErrTimeout:
		return "The response took too long and was abandoned. Please try again."
	case ErrMalformed:
		return "The response could not be read. Please try again."
	default:
		return "The legal AI service is unavailable right now. Please try again."
	}
}
