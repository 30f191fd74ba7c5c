package dto

import "github.com/opencivic/civicreport/internal/models"

// SubmitReportRequest is the JSON body for POST /reports. Lat/Lng are
// declared as any so both numeric and string coordinates decode; the
// handler coerces them tolerantly.
type SubmitReportRequest struct {
	Description string `json:"description"`
	Lat         any    `json:"lat"`
	Lng         any    `json:"lng"`
	Category    string `json:"category"`
	Priority    string `json:"priority"`
	ImageURL    string `json:"imageUrl"`
}

type SubmitReportResponse struct {
	ID         string  `json:"id"`
	ImageURL   *string `json:"imageUrl"`
	Status     string  `json:"status"`
	Department string  `json:"department"`
	Priority   string  `json:"priority"`
	CreatedAt  int64   `json:"createdAt"`
}

// UpdateReportRequest is the JSON body for POST /reports/:id/update.
// Every field is optional; nil (or empty) leaves the stored value
// unchanged.
type UpdateReportRequest struct {
	Status     *string `json:"status"`
	Priority   *string `json:"priority"`
	Department *string `json:"department"`
	AssignedTo *string `json:"assignedTo"`
	Note       *string `json:"note"`
}

// AssignReportRequest is the JSON body for POST /reports/:id/assign.
type AssignReportRequest struct {
	AssignedTo *string `json:"assignedTo"`
	Note       *string `json:"note"`
}

// ReportWithTimeline is the single-report read model: the report merged
// with its full ordered timeline.
type ReportWithTimeline struct {
	models.Report
	Timeline []models.TimelineEntry `json:"timeline"`
}

type OKResponse struct {
	OK bool `json:"ok"`
}

// ErrorResponse carries a short machine-readable error code.
type ErrorResponse struct {
	Error string `json:"error"`
}

type HealthResponse struct {
	Status    string  `json:"status"`
	Timestamp string  `json:"timestamp"`
	Uptime    float64 `json:"uptime"`
	DB        string  `json:"db"`
}
