package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/opencivic/civicreport/internal/dto"
	"github.com/opencivic/civicreport/internal/models"
	"github.com/opencivic/civicreport/internal/routing"
	"github.com/opencivic/civicreport/internal/store"
)

// SubmitInput carries one validated report submission. Optional fields are
// pointers; nil means the caller did not supply them.
type SubmitInput struct {
	Description string
	Lat         *float64
	Lng         *float64
	Category    *string
	Priority    string // optional override; empty means use the classifier
	ImageURL    *string
}

// ReportService orchestrates the report lifecycle: it classifies incoming
// reports, writes them to the store and keeps the timeline log in step.
// Each write operation commits its report mutation and timeline append in
// one transaction.
type ReportService struct {
	store *store.Store
}

func NewReportService(st *store.Store) *ReportService {
	return &ReportService{store: st}
}

// Submit creates a report. The department always comes from the classifier;
// the priority does too unless the caller supplied an override. Exactly one
// "submitted" timeline entry is written alongside, at the same timestamp.
func (s *ReportService) Submit(in SubmitInput) (*dto.SubmitReportResponse, error) {
	department, routedPriority := routing.Classify(in.Description, strVal(in.Category))
	priority := in.Priority
	if priority == "" {
		priority = routedPriority
	}

	createdAt := time.Now().UnixMilli()
	report := &models.Report{
		ID:          uuid.NewString(),
		Description: in.Description,
		ImageURL:    in.ImageURL,
		Lat:         in.Lat,
		Lng:         in.Lng,
		Status:      models.StatusSubmitted,
		Category:    in.Category,
		Priority:    priority,
		Department:  department,
		CreatedAt:   createdAt,
	}

	err := s.store.Transaction(func(tx *store.Store) error {
		if err := tx.InsertReport(report); err != nil {
			return err
		}
		return tx.AppendTimeline(&models.TimelineEntry{
			ReportID: report.ID,
			Status:   models.StatusSubmitted,
			Note:     "Report submitted",
			At:       createdAt,
		})
	})
	if err != nil {
		return nil, fmt.Errorf("submit report: %w", err)
	}

	return &dto.SubmitReportResponse{
		ID:         report.ID,
		ImageURL:   report.ImageURL,
		Status:     report.Status,
		Department: report.Department,
		Priority:   report.Priority,
		CreatedAt:  report.CreatedAt,
	}, nil
}

// Update patches the supplied fields and appends a timeline entry carrying
// the new status, or the literal "updated" label when no status was given.
// An unknown id is tolerated: the patch is a no-op but the timeline entry
// is still appended (dangling), and existed=false surfaces the miss.
func (s *ReportService) Update(id string, in *dto.UpdateReportRequest) (existed bool, err error) {
	err = s.store.Transaction(func(tx *store.Store) error {
		var txErr error
		existed, txErr = tx.UpdateReport(id, store.ReportPatch{
			Status:     norm(in.Status),
			Priority:   norm(in.Priority),
			Department: norm(in.Department),
			AssignedTo: norm(in.AssignedTo),
		})
		if txErr != nil {
			return txErr
		}

		status := models.StatusUpdated
		if v := norm(in.Status); v != nil {
			status = *v
		}
		return tx.AppendTimeline(&models.TimelineEntry{
			ReportID: id,
			Status:   status,
			Note:     strVal(norm(in.Note)),
			At:       time.Now().UnixMilli(),
		})
	})
	if err != nil {
		return existed, fmt.Errorf("update report: %w", err)
	}
	return existed, nil
}

// Assign sets the report's assignee unconditionally (an empty assignee
// clears it) and appends an "acknowledged" timeline entry. The note
// defaults to "Assigned to {assignee}" when the caller gave none.
func (s *ReportService) Assign(id string, in *dto.AssignReportRequest) (existed bool, err error) {
	assignee := norm(in.AssignedTo)

	note := strVal(norm(in.Note))
	if note == "" {
		name := "unassigned"
		if assignee != nil {
			name = *assignee
		}
		note = "Assigned to " + name
	}

	err = s.store.Transaction(func(tx *store.Store) error {
		var txErr error
		existed, txErr = tx.SetAssignee(id, assignee)
		if txErr != nil {
			return txErr
		}
		return tx.AppendTimeline(&models.TimelineEntry{
			ReportID: id,
			Status:   models.StatusAcknowledged,
			Note:     note,
			At:       time.Now().UnixMilli(),
		})
	})
	if err != nil {
		return existed, fmt.Errorf("assign report: %w", err)
	}
	return existed, nil
}

// Get is the one read path that enforces existence: it returns
// store.ErrNotFound for an unknown id, otherwise the report merged with its
// full ordered timeline.
func (s *ReportService) Get(id string) (*dto.ReportWithTimeline, error) {
	report, err := s.store.GetReport(id)
	if err != nil {
		return nil, err
	}
	timeline, err := s.store.ListTimeline(id)
	if err != nil {
		return nil, fmt.Errorf("get report timeline: %w", err)
	}
	return &dto.ReportWithTimeline{Report: *report, Timeline: timeline}, nil
}

// List returns bare report records matching the filter, newest first.
func (s *ReportService) List(f store.Filter) ([]models.Report, error) {
	return s.store.QueryReports(f)
}

// norm collapses absent and empty strings into nil, matching the tolerant
// "empty means not supplied" contract of the update endpoints.
func norm(p *string) *string {
	if p == nil || *p == "" {
		return nil
	}
	return p
}

func strVal(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
