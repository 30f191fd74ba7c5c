package store

import (
	"errors"
	"fmt"

	"github.com/opencivic/civicreport/internal/models"
	"gorm.io/gorm"
)

// Filter is a conjunction of optional predicates over the report
// collection. Nil fields impose no constraint.
type Filter struct {
	Category *string // exact match
	Priority *string // exact match
	Status   *string // exact match
	Search   *string // substring over description, department, assignedTo
	MinLat   *float64
	MaxLat   *float64
	MinLng   *float64
	MaxLng   *float64
}

// ReportPatch carries the mutable report fields. Nil fields are left
// unchanged (COALESCE semantics).
type ReportPatch struct {
	Status     *string
	Priority   *string
	Department *string
	AssignedTo *string
}

func (s *Store) InsertReport(r *models.Report) error {
	if err := s.db.Create(r).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateKey
		}
		return fmt.Errorf("insert report: %w", err)
	}
	return nil
}

func (s *Store) GetReport(id string) (*models.Report, error) {
	var r models.Report
	if err := s.db.Where("id = ?", id).First(&r).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get report: %w", err)
	}
	return &r, nil
}

// QueryReports returns all reports matching the filter, newest first.
func (s *Store) QueryReports(f Filter) ([]models.Report, error) {
	q := s.db.Model(&models.Report{})
	if f.Category != nil {
		q = q.Where("category = ?", *f.Category)
	}
	if f.Priority != nil {
		q = q.Where("priority = ?", *f.Priority)
	}
	if f.Status != nil {
		q = q.Where("status = ?", *f.Status)
	}
	if f.Search != nil {
		term := "%" + *f.Search + "%"
		q = q.Where("description LIKE ? OR department LIKE ? OR assigned_to LIKE ?", term, term, term)
	}
	if f.MinLat != nil {
		q = q.Where("lat >= ?", *f.MinLat)
	}
	if f.MaxLat != nil {
		q = q.Where("lat <= ?", *f.MaxLat)
	}
	if f.MinLng != nil {
		q = q.Where("lng >= ?", *f.MinLng)
	}
	if f.MaxLng != nil {
		q = q.Where("lng <= ?", *f.MaxLng)
	}

	reports := make([]models.Report, 0)
	if err := q.Order("created_at DESC").Find(&reports).Error; err != nil {
		return nil, fmt.Errorf("query reports: %w", err)
	}
	return reports, nil
}

// UpdateReport applies the non-nil patch fields to the report. A missing id
// is a no-op, not an error; the returned bool reports whether the row
// existed so callers can observe the no-op.
func (s *Store) UpdateReport(id string, p ReportPatch) (bool, error) {
	updates := map[string]interface{}{}
	if p.Status != nil {
		updates["status"] = *p.Status
	}
	if p.Priority != nil {
		updates["priority"] = *p.Priority
	}
	if p.Department != nil {
		updates["department"] = *p.Department
	}
	if p.AssignedTo != nil {
		updates["assigned_to"] = *p.AssignedTo
	}
	if len(updates) == 0 {
		return s.reportExists(id)
	}

	res := s.db.Model(&models.Report{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return false, fmt.Errorf("update report: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// SetAssignee writes assigned_to unconditionally, including back to NULL
// when assignee is nil.
func (s *Store) SetAssignee(id string, assignee *string) (bool, error) {
	res := s.db.Model(&models.Report{}).Where("id = ?", id).Update("assigned_to", assignee)
	if res.Error != nil {
		return false, fmt.Errorf("set assignee: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (s *Store) reportExists(id string) (bool, error) {
	var count int64
	if err := s.db.Model(&models.Report{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("report exists: %w", err)
	}
	return count > 0, nil
}
