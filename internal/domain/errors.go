package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownChoice: card submit with a value outside the roster.
	ErrUnknownChoice = errors.New("unknown selection choice")

	// ErrNoAttachment: a voice note was expected but the message carried no file.
	ErrNoAttachment = errors.New("message has no audio attachment")

	// ErrDuplicateEvent: the event id matches the session's dedupe marker.
	// Absorbed silently, never reported to the user.
	ErrDuplicateEvent = errors.New("duplicate event delivery")

	ErrSessionNotFound = errors.New("session not found")
)

// CollaboratorError wraps a failure of an external call (transcribe, rewrite,
// render, mail, transport). Always retryable: the session is left untouched and
// the user may resend the same input.
type CollaboratorError struct {
	Op  string
	Err error
}

func (e *CollaboratorError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *CollaboratorError) Unwrap() error {
	return e.Err
}

// Collaborator tags err as a retryable external failure.
func Collaborator(op string, err error) error {
	return &CollaboratorError{Op: op, Err: err}
}

// IsRetryable reports whether err should be surfaced as "please try again".
func IsRetryable(err error) bool {
	var ce *CollaboratorError
	return errors.As(err, &ce)
}
