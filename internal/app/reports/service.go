package reports

import (
	"context"

	"github.com/frn-eng/intake-agent/internal/domain"
)

// Service holds the logic of reading archived report records
type Service struct {
	store domain.ReportStore
}

// NewService creates a reports service from a ReportStore
func NewService(store domain.ReportStore) *Service {
	return &Service{
		store: store,
	}
}

// ListByUser returns the last `limit` report records for a user.
// If limit <= 0, a reasonable default value is used.
func (s *Service) ListByUser(
	ctx context.Context,
	userID domain.UserID,
	limit int,
) ([]*domain.ReportRecord, error) {

	if s.store == nil {
		return []*domain.ReportRecord{}, nil
	}

	if limit <= 0 {
		limit = 20
	}

	return s.store.ListReportsByUser(ctx, userID, limit)
}
