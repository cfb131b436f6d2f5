package domain

import (
	"context"
	"io"
)

// SessionStore defines session persistence. Implementations must be safe for
// concurrent use; per-user write ordering is enforced by the intake service.
type SessionStore interface {
	// GetOrCreate returns the session for userID, creating a fresh one at the
	// initial state when none exists. The bool reports whether it existed.
	GetOrCreate(ctx context.Context, userID UserID, roomID RoomID) (*Session, bool, error)

	// Save persists the mutated session so the next event observes it.
	Save(ctx context.Context, session *Session) error

	// Delete removes the session (post-completion or reset). Deleting a
	// missing session is not an error.
	Delete(ctx context.Context, userID UserID) error
}

// Messenger sends outbound messages to the chat transport.
type Messenger interface {
	SendText(ctx context.Context, roomID RoomID, markdown string) error
	// SendCard shows an interactive selection card with a fixed set of choices.
	SendCard(ctx context.Context, roomID RoomID, prompt string, choices []string) error
}

// AudioFetcher downloads a message attachment from the transport.
type AudioFetcher interface {
	FetchFile(ctx context.Context, fileURL string) (io.ReadCloser, string, error)
}

// Transcriber turns an audio attachment into raw text (fixed language).
type Transcriber interface {
	Transcribe(ctx context.Context, audio io.Reader, filename string) (string, error)
}

// Rewriter polishes raw transcribed text for a field label.
// The date field uses a strict output-format instruction instead of free rewriting.
type Rewriter interface {
	Rewrite(ctx context.Context, fieldID FieldID, label, raw string) (string, error)
}

// Renderer produces the report document from the completed field mapping
// and returns the rendered file path.
type Renderer interface {
	Render(ctx context.Context, values map[FieldID]string) (string, error)
}

// Mailer dispatches the rendered report as an attachment.
type Mailer interface {
	Send(ctx context.Context, recipient, subject, body, attachmentPath string) error
}

// ReportStore archives completed report records.
type ReportStore interface {
	AppendReport(ctx context.Context, rec *ReportRecord) error
	ListReportsByUser(ctx context.Context, userID UserID, limit int) ([]*ReportRecord, error)
}
