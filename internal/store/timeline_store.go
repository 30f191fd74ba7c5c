package store

import (
	"fmt"

	"github.com/opencivic/civicreport/internal/models"
)

// AppendTimeline writes one timeline entry. There is no existence check
// against the report collection: an entry for an unknown report id is
// accepted.
func (s *Store) AppendTimeline(e *models.TimelineEntry) error {
	if err := s.db.Create(e).Error; err != nil {
		return fmt.Errorf("append timeline: %w", err)
	}
	return nil
}

// ListTimeline returns a report's entries ascending by event time, with the
// insert id breaking ties so same-millisecond events keep append order.
func (s *Store) ListTimeline(reportID string) ([]models.TimelineEntry, error) {
	entries := make([]models.TimelineEntry, 0)
	if err := s.db.Where("report_id = ?", reportID).
		Order("at ASC, id ASC").
		Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("list timeline: %w", err)
	}
	return entries, nil
}
