package domain

import "time"

type UserID string
type RoomID string
type EventID string
type FieldID string

// InvestigatorField is the reserved field id filled by the selection card.
// It is not part of the ordered schedule.
const InvestigatorField FieldID = "Investigator"

// SessionState tells which kind of inbound event the session is waiting for.
type SessionState string

const (
	// StateAwaitingSelection: the investigator card was shown, waiting for a card submit.
	StateAwaitingSelection SessionState = "awaiting_selection"
	// StateAwaitingField: waiting for the voice note of the field at Session.Position.
	StateAwaitingField SessionState = "awaiting_field"
)

// EventKind distinguishes the inbound payloads the transport delivers.
type EventKind string

const (
	EventMessage          EventKind = "message"
	EventAttachmentAction EventKind = "attachment_action"
)

// InboundEvent is one normalized event from the chat transport.
type InboundEvent struct {
	ID     EventID
	Kind   EventKind
	UserID UserID
	RoomID RoomID

	// AuthorEmail is compared against the bot's own email to drop self-messages.
	AuthorEmail string

	// Text of a plain message (empty for card submits).
	Text string

	// FileURLs of attachments on a message. Only the first is ever used.
	FileURLs []string

	// Selection carries the investigator chosen on a card submit.
	Selection string
}

// HasAudio reports whether the event carries at least one file attachment.
func (e InboundEvent) HasAudio() bool {
	return len(e.FileURLs) > 0
}

type Timestamp = time.Time
