package handlers

import (
	"errors"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/opencivic/civicreport/internal/dto"
	"github.com/opencivic/civicreport/internal/services"
	"github.com/opencivic/civicreport/internal/store"
	"github.com/opencivic/civicreport/internal/uploads"
)

type ReportHandler struct {
	reports *services.ReportService
	uploads *uploads.Storage
}

func NewReportHandler(reports *services.ReportService, uploadStorage *uploads.Storage) *ReportHandler {
	return &ReportHandler{reports: reports, uploads: uploadStorage}
}

// Submit accepts a report as JSON or as a form (urlencoded or multipart
// with an optional "image" file). Unparseable coordinates are tolerated and
// stored as absent, not rejected.
func (h *ReportHandler) Submit(c *fiber.Ctx) error {
	var in services.SubmitInput

	if strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEApplicationJSON) {
		var req dto.SubmitReportRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid_body"})
		}
		in = services.SubmitInput{
			Description: req.Description,
			Lat:         coordFromJSON(req.Lat),
			Lng:         coordFromJSON(req.Lng),
			Category:    optional(req.Category),
			Priority:    req.Priority,
			ImageURL:    optional(req.ImageURL),
		}
	} else {
		in = services.SubmitInput{
			Description: c.FormValue("description"),
			Lat:         parseCoord(c.FormValue("lat")),
			Lng:         parseCoord(c.FormValue("lng")),
			Category:    optional(c.FormValue("category")),
			Priority:    c.FormValue("priority"),
		}
		if fh, err := c.FormFile("image"); err == nil && fh != nil {
			ref, err := h.uploads.Save(fh)
			if err != nil {
				slog.Error("image upload failed", "error", err)
				return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "failed_to_create"})
			}
			in.ImageURL = &ref
		} else {
			in.ImageURL = optional(c.FormValue("imageUrl"))
		}
	}

	resp, err := h.reports.Submit(in)
	if err != nil {
		slog.Error("report submit failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "failed_to_create"})
	}
	return c.JSON(resp)
}

// List returns bare report records matching the query filters, newest
// first. A non-numeric coordinate bound contributes no constraint rather
// than failing the request.
func (h *ReportHandler) List(c *fiber.Ctx) error {
	f := store.Filter{
		Category: optional(c.Query("category")),
		Priority: optional(c.Query("priority")),
		Status:   optional(c.Query("status")),
		Search:   optional(c.Query("q")),
		MinLat:   parseCoord(c.Query("minLat")),
		MaxLat:   parseCoord(c.Query("maxLat")),
		MinLng:   parseCoord(c.Query("minLng")),
		MaxLng:   parseCoord(c.Query("maxLng")),
	}

	reports, err := h.reports.List(f)
	if err != nil {
		slog.Error("report list failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "failed_to_list"})
	}
	return c.JSON(reports)
}

// Get returns a single report merged with its full timeline.
func (h *ReportHandler) Get(c *fiber.Ctx) error {
	id := c.Params("id")

	out, err := h.reports.Get(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: "not_found"})
		}
		slog.Error("report fetch failed", "report_id", id, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "failed_to_fetch"})
	}
	return c.JSON(out)
}

// Update patches a report and appends to its timeline. A missing or
// malformed body is treated as an empty patch; an unknown id still
// acknowledges success.
func (h *ReportHandler) Update(c *fiber.Ctx) error {
	id := c.Params("id")

	var req dto.UpdateReportRequest
	if err := c.BodyParser(&req); err != nil {
		req = dto.UpdateReportRequest{}
	}

	existed, err := h.reports.Update(id, &req)
	if err != nil {
		slog.Error("report update failed", "report_id", id, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "failed_to_update"})
	}
	if !existed {
		slog.Warn("update for unknown report", "report_id", id)
	}
	return c.JSON(dto.OKResponse{OK: true})
}

// Assign sets the report's assignee and appends an "acknowledged" timeline
// entry.
func (h *ReportHandler) Assign(c *fiber.Ctx) error {
	id := c.Params("id")

	var req dto.AssignReportRequest
	if err := c.BodyParser(&req); err != nil {
		req = dto.AssignReportRequest{}
	}

	existed, err := h.reports.Assign(id, &req)
	if err != nil {
		slog.Error("report assign failed", "report_id", id, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "failed_to_assign"})
	}
	if !existed {
		slog.Warn("assign for unknown report", "report_id", id)
	}
	return c.JSON(dto.OKResponse{OK: true})
}

// parseCoord tolerantly parses a coordinate string; anything unparseable
// yields nil (no value) rather than an error.
func parseCoord(s string) *float64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) {
		return nil
	}
	return &v
}

// coordFromJSON coerces a decoded JSON value (number, string or null) into
// an optional coordinate.
func coordFromJSON(v any) *float64 {
	switch t := v.(type) {
	case float64:
		if math.IsNaN(t) {
			return nil
		}
		f := t
		return &f
	case string:
		return parseCoord(t)
	default:
		return nil
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
