package domain

// Session is the per-user progress record through the field schedule.
type Session struct {
	UserID UserID `json:"user_id"`
	RoomID RoomID `json:"room_id"`

	State SessionState `json:"state"`

	// Position is the index of the next schedule field to collect.
	// 0 <= Position <= schedule length.
	Position int `json:"position"`

	// Values holds the finalized (rewritten) text per field id,
	// plus the reserved Investigator entry once selection succeeds.
	Values map[FieldID]string `json:"values"`

	// LastEventID guards against transport redelivery. Checked on every event.
	LastEventID EventID `json:"last_event_id"`

	CreatedAt Timestamp `json:"created_at"`
	UpdatedAt Timestamp `json:"updated_at"`
}

// NewSession returns a fresh session waiting for the investigator card.
func NewSession(userID UserID, roomID RoomID, now Timestamp) *Session {
	return &Session{
		UserID:    userID,
		RoomID:    roomID,
		State:     StateAwaitingSelection,
		Position:  0,
		Values:    make(map[FieldID]string),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Investigator returns the selected investigator name, empty until selection.
func (s *Session) Investigator() string {
	return s.Values[InvestigatorField]
}

// CollectedFields counts schedule fields with a finalized value
// (the reserved Investigator entry does not count).
// Invariant: CollectedFields() == Position after every successful event.
func (s *Session) CollectedFields() int {
	n := len(s.Values)
	if _, ok := s.Values[InvestigatorField]; ok {
		n--
	}
	return n
}

// Clone returns a deep copy, so stores can hand out sessions without
// sharing the Values map with callers.
func (s *Session) Clone() *Session {
	cp := *s
	cp.Values = make(map[FieldID]string, len(s.Values))
	for k, v := range s.Values {
		cp.Values[k] = v
	}
	return &cp
}
