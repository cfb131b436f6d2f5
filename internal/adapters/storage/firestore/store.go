package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/frn-eng/intake-agent/internal/domain"
)

// Store implements domain.SessionStore and domain.ReportStore on Firestore.
type Store struct {
	client *firestore.Client
	now    func() time.Time
}

// NewStore creates a Firestore store for the given project (GCP_PROJECT).
func NewStore(ctx context.Context, projectID string) (*Store, error) {
	if projectID == "" {
		return nil, fmt.Errorf("projectID is required for Firestore store")
	}

	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("creating firestore client: %w", err)
	}

	return &Store{client: client, now: time.Now}, nil
}

// ─────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────

func (s *Store) sessionsCol() *firestore.CollectionRef {
	return s.client.Collection("intake_sessions")
}

func (s *Store) sessionDoc(userID domain.UserID) *firestore.DocumentRef {
	return s.sessionsCol().Doc(string(userID))
}

func (s *Store) reportsCol() *firestore.CollectionRef {
	return s.client.Collection("reports")
}

// ─────────────────────────────────────────
// Firestore Types
// ─────────────────────────────────────────

type sessionDoc struct {
	RoomID      string            `firestore:"room_id"`
	State       string            `firestore:"state"`
	Position    int               `firestore:"position"`
	Values      map[string]string `firestore:"values"`
	LastEventID string            `firestore:"last_event_id"`
	CreatedAt   time.Time         `firestore:"created_at"`
	UpdatedAt   time.Time         `firestore:"updated_at"`
}

type reportDoc struct {
	UserID       string    `firestore:"user_id"`
	Investigator string    `firestore:"investigator"`
	FilePath     string    `firestore:"file_path"`
	Recipient    string    `firestore:"recipient"`
	CreatedAt    time.Time `firestore:"created_at"`
}

func toSessionDoc(sess *domain.Session) sessionDoc {
	values := make(map[string]string, len(sess.Values))
	for k, v := range sess.Values {
		values[string(k)] = v
	}
	return sessionDoc{
		RoomID:      string(sess.RoomID),
		State:       string(sess.State),
		Position:    sess.Position,
		Values:      values,
		LastEventID: string(sess.LastEventID),
		CreatedAt:   sess.CreatedAt,
		UpdatedAt:   sess.UpdatedAt,
	}
}

func fromSessionDoc(userID domain.UserID, doc sessionDoc) *domain.Session {
	values := make(map[domain.FieldID]string, len(doc.Values))
	for k, v := range doc.Values {
		values[domain.FieldID(k)] = v
	}
	return &domain.Session{
		UserID:      userID,
		RoomID:      domain.RoomID(doc.RoomID),
		State:       domain.SessionState(doc.State),
		Position:    doc.Position,
		Values:      values,
		LastEventID: domain.EventID(doc.LastEventID),
		CreatedAt:   doc.CreatedAt,
		UpdatedAt:   doc.UpdatedAt,
	}
}

// ─────────────────────────────────────────
// SessionStore implementation
// ─────────────────────────────────────────

func (s *Store) GetOrCreate(ctx context.Context, userID domain.UserID, roomID domain.RoomID) (*domain.Session, bool, error) {
	snap, err := s.sessionDoc(userID).Get(ctx)
	if err != nil {
		if status.Code(err) != codes.NotFound {
			return nil, false, fmt.Errorf("firestore GetOrCreate: %w", err)
		}

		sess := domain.NewSession(userID, roomID, s.now())
		if _, err := s.sessionDoc(userID).Create(ctx, toSessionDoc(sess)); err != nil {
			return nil, false, fmt.Errorf("firestore create session: %w", err)
		}
		return sess, false, nil
	}

	var doc sessionDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, false, fmt.Errorf("firestore GetOrCreate decode: %w", err)
	}
	return fromSessionDoc(userID, doc), true, nil
}

func (s *Store) Save(ctx context.Context, session *domain.Session) error {
	if _, err := s.sessionDoc(session.UserID).Set(ctx, toSessionDoc(session)); err != nil {
		return fmt.Errorf("firestore Save: %w", err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, userID domain.UserID) error {
	if _, err := s.sessionDoc(userID).Delete(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return nil
		}
		return fmt.Errorf("firestore Delete: %w", err)
	}
	return nil
}

// ─────────────────────────────────────────
// ReportStore implementation
// ─────────────────────────────────────────

func (s *Store) AppendReport(ctx context.Context, rec *domain.ReportRecord) error {
	doc := reportDoc{
		UserID:       string(rec.UserID),
		Investigator: rec.Investigator,
		FilePath:     rec.FilePath,
		Recipient:    rec.Recipient,
		CreatedAt:    rec.CreatedAt,
	}

	var err error
	if rec.ID != "" {
		_, err = s.reportsCol().Doc(string(rec.ID)).Set(ctx, doc)
	} else {
		var ref *firestore.DocumentRef
		ref, _, err = s.reportsCol().Add(ctx, doc)
		if err == nil {
			rec.ID = domain.ReportRecordID(ref.ID)
		}
	}
	if err != nil {
		return fmt.Errorf("firestore AppendReport: %w", err)
	}
	return nil
}

func (s *Store) ListReportsByUser(ctx context.Context, userID domain.UserID, limit int) ([]*domain.ReportRecord, error) {
	q := s.reportsCol().Where("user_id", "==", string(userID)).OrderBy("created_at", firestore.Desc)
	if limit > 0 {
		q = q.Limit(limit)
	}

	iter := q.Documents(ctx)
	defer iter.Stop()

	var out []*domain.ReportRecord
	for {
		snap, err := iter.Next()
		if err != nil {
			if err == iterator.Done {
				break
			}
			return nil, fmt.Errorf("firestore ListReportsByUser: %w", err)
		}

		var doc reportDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("decode reportDoc: %w", err)
		}

		out = append(out, &domain.ReportRecord{
			ID:           domain.ReportRecordID(snap.Ref.ID),
			UserID:       domain.UserID(doc.UserID),
			Investigator: doc.Investigator,
			FilePath:     doc.FilePath,
			Recipient:    doc.Recipient,
			CreatedAt:    doc.CreatedAt,
		})
	}
	return out, nil
}
