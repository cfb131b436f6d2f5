package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/frn-eng/intake-agent/internal/domain"
)

// ReportStore is a simple in-memory implementation of domain.ReportStore.
type ReportStore struct {
	mu       sync.RWMutex
	records  map[domain.ReportRecordID]*domain.ReportRecord
	byUserID map[domain.UserID][]domain.ReportRecordID
}

func NewReportStore() *ReportStore {
	return &ReportStore{
		records:  make(map[domain.ReportRecordID]*domain.ReportRecord),
		byUserID: make(map[domain.UserID][]domain.ReportRecordID),
	}
}

func (s *ReportStore) AppendReport(ctx context.Context, rec *domain.ReportRecord) error {
	if rec == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if rec.ID == "" {
		rec.ID = domain.ReportRecordID(uuid.NewString())
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}

	s.records[rec.ID] = rec
	s.byUserID[rec.UserID] = append(s.byUserID[rec.UserID], rec.ID)

	return nil
}

// ListReportsByUser returns the last `limit` records for a user.
// If limit <= 0, returns all.
func (s *ReportStore) ListReportsByUser(ctx context.Context, userID domain.UserID, limit int) ([]*domain.ReportRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.byUserID[userID]
	if len(ids) == 0 {
		return []*domain.ReportRecord{}, nil
	}

	if limit <= 0 || limit > len(ids) {
		limit = len(ids)
	}

	start := len(ids) - limit
	out := make([]*domain.ReportRecord, 0, limit)
	for _, id := range ids[start:] {
		if r, ok := s.records[id]; ok {
			out = append(out, r)
		}
	}

	return out, nil
}
