package store

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/opencivic/civicreport/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Report{}, &models.TimelineEntry{}))
	return New(db)
}

func strPtr(s string) *string { return &s }

func f64Ptr(f float64) *float64 { return &f }

func seedReport(t *testing.T, s *Store, r models.Report) models.Report {
	t.Helper()
	if r.Status == "" {
		r.Status = models.StatusSubmitted
	}
	if r.Priority == "" {
		r.Priority = "medium"
	}
	if r.Department == "" {
		r.Department = "General"
	}
	require.NoError(t, s.InsertReport(&r))
	return r
}

func TestInsertReportDuplicateKey(t *testing.T) {
	s := newTestStore(t)
	seedReport(t, s, models.Report{ID: "r1", CreatedAt: 1})

	err := s.InsertReport(&models.Report{
		ID: "r1", Status: "submitted", Priority: "medium", Department: "General", CreatedAt: 2,
	})
	assert.ErrorIs(t, err, ErrDuplicateKey)
}

func TestGetReport(t *testing.T) {
	s := newTestStore(t)
	seedReport(t, s, models.Report{ID: "r1", Description: "pothole", CreatedAt: 1})

	r, err := s.GetReport("r1")
	require.NoError(t, err)
	assert.Equal(t, "pothole", r.Description)

	_, err = s.GetReport("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestQueryReportsOrderAndFilters(t *testing.T) {
	s := newTestStore(t)
	seedReport(t, s, models.Report{ID: "old", Category: strPtr("roads"), Priority: "high", CreatedAt: 100})
	seedReport(t, s, models.Report{ID: "new", Category: strPtr("roads"), CreatedAt: 300})
	seedReport(t, s, models.Report{ID: "mid", Category: strPtr("water"), Status: "acknowledged", CreatedAt: 200})

	t.Run("no filter returns all newest first", func(t *testing.T) {
		got, err := s.QueryReports(Filter{})
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, "new", got[0].ID)
		assert.Equal(t, "mid", got[1].ID)
		assert.Equal(t, "old", got[2].ID)
	})

	t.Run("category exact match", func(t *testing.T) {
		got, err := s.QueryReports(Filter{Category: strPtr("roads")})
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "new", got[0].ID)
		assert.Equal(t, "old", got[1].ID)

		// exact, not substring
		got, err = s.QueryReports(Filter{Category: strPtr("road")})
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("filters are a conjunction", func(t *testing.T) {
		got, err := s.QueryReports(Filter{Category: strPtr("roads"), Priority: strPtr("high")})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "old", got[0].ID)
	})

	t.Run("status filter", func(t *testing.T) {
		got, err := s.QueryReports(Filter{Status: strPtr("acknowledged")})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "mid", got[0].ID)
	})

	t.Run("empty result is an empty slice", func(t *testing.T) {
		got, err := s.QueryReports(Filter{Status: strPtr("resolved")})
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})
}

func TestQueryReportsSearch(t *testing.T) {
	s := newTestStore(t)
	seedReport(t, s, models.Report{ID: "r1", Description: "leaking hydrant", Department: "Water", CreatedAt: 1})
	seedReport(t, s, models.Report{ID: "r2", Department: "Roads", AssignedTo: strPtr("alice"), CreatedAt: 2})
	seedReport(t, s, models.Report{ID: "r3", Description: "bench broken", Department: "General", CreatedAt: 3})

	t.Run("matches description", func(t *testing.T) {
		got, err := s.QueryReports(Filter{Search: strPtr("hydrant")})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "r1", got[0].ID)
	})

	t.Run("matches department", func(t *testing.T) {
		got, err := s.QueryReports(Filter{Search: strPtr("Roads")})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "r2", got[0].ID)
	})

	t.Run("matches assignee", func(t *testing.T) {
		got, err := s.QueryReports(Filter{Search: strPtr("alice")})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "r2", got[0].ID)
	})

	t.Run("substring, not exact", func(t *testing.T) {
		got, err := s.QueryReports(Filter{Search: strPtr("bench")})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "r3", got[0].ID)
	})
}

func TestQueryReportsCoordinateBounds(t *testing.T) {
	s := newTestStore(t)
	seedReport(t, s, models.Report{ID: "inside", Lat: f64Ptr(10), Lng: f64Ptr(20), CreatedAt: 1})
	seedReport(t, s, models.Report{ID: "north", Lat: f64Ptr(50), Lng: f64Ptr(20), CreatedAt: 2})
	seedReport(t, s, models.Report{ID: "nowhere", CreatedAt: 3}) // NULL coordinates

	t.Run("inclusive bounds", func(t *testing.T) {
		got, err := s.QueryReports(Filter{
			MinLat: f64Ptr(10), MaxLat: f64Ptr(10),
			MinLng: f64Ptr(20), MaxLng: f64Ptr(20),
		})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "inside", got[0].ID)
	})

	t.Run("null coordinates never match a bound", func(t *testing.T) {
		got, err := s.QueryReports(Filter{MinLat: f64Ptr(-90)})
		require.NoError(t, err)
		require.Len(t, got, 2)
		for _, r := range got {
			assert.NotEqual(t, "nowhere", r.ID)
		}
	})
}

func TestUpdateReportPatchSemantics(t *testing.T) {
	s := newTestStore(t)
	seedReport(t, s, models.Report{ID: "r1", Priority: "medium", Department: "Roads", CreatedAt: 1})

	existed, err := s.UpdateReport("r1", ReportPatch{Status: strPtr("acknowledged")})
	require.NoError(t, err)
	assert.True(t, existed)

	r, err := s.GetReport("r1")
	require.NoError(t, err)
	assert.Equal(t, "acknowledged", r.Status)
	// untouched fields survive
	assert.Equal(t, "medium", r.Priority)
	assert.Equal(t, "Roads", r.Department)
	assert.EqualValues(t, 1, r.CreatedAt)
}

func TestUpdateReportMissingIsNoOp(t *testing.T) {
	s := newTestStore(t)

	existed, err := s.UpdateReport("ghost", ReportPatch{Status: strPtr("closed")})
	require.NoError(t, err)
	assert.False(t, existed)

	existed, err = s.UpdateReport("ghost", ReportPatch{})
	require.NoError(t, err)
	assert.False(t, existed)
}

func TestUpdateReportEmptyPatchReportsExistence(t *testing.T) {
	s := newTestStore(t)
	seedReport(t, s, models.Report{ID: "r1", CreatedAt: 1})

	existed, err := s.UpdateReport("r1", ReportPatch{})
	require.NoError(t, err)
	assert.True(t, existed)
}

func TestSetAssignee(t *testing.T) {
	s := newTestStore(t)
	seedReport(t, s, models.Report{ID: "r1", CreatedAt: 1})

	existed, err := s.SetAssignee("r1", strPtr("alice"))
	require.NoError(t, err)
	assert.True(t, existed)

	r, err := s.GetReport("r1")
	require.NoError(t, err)
	require.NotNil(t, r.AssignedTo)
	assert.Equal(t, "alice", *r.AssignedTo)

	// assigning nil clears the field
	existed, err = s.SetAssignee("r1", nil)
	require.NoError(t, err)
	assert.True(t, existed)

	r, err = s.GetReport("r1")
	require.NoError(t, err)
	assert.Nil(t, r.AssignedTo)

	existed, err = s.SetAssignee("ghost", strPtr("bob"))
	require.NoError(t, err)
	assert.False(t, existed)
}

func TestTimelineAppendAndOrder(t *testing.T) {
	s := newTestStore(t)

	// no existence check: the report never has to exist
	require.NoError(t, s.AppendTimeline(&models.TimelineEntry{ReportID: "r1", Status: "submitted", Note: "Report submitted", At: 100}))
	require.NoError(t, s.AppendTimeline(&models.TimelineEntry{ReportID: "r1", Status: "updated", At: 300}))
	require.NoError(t, s.AppendTimeline(&models.TimelineEntry{ReportID: "r1", Status: "acknowledged", At: 200}))
	require.NoError(t, s.AppendTimeline(&models.TimelineEntry{ReportID: "other", Status: "submitted", At: 50}))

	entries, err := s.ListTimeline("r1")
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "submitted", entries[0].Status)
	assert.Equal(t, "acknowledged", entries[1].Status)
	assert.Equal(t, "updated", entries[2].Status)
}

func TestTimelineSameMillisecondKeepsAppendOrder(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.AppendTimeline(&models.TimelineEntry{ReportID: "r1", Status: "first", At: 100}))
	require.NoError(t, s.AppendTimeline(&models.TimelineEntry{ReportID: "r1", Status: "second", At: 100}))

	entries, err := s.ListTimeline("r1")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "first", entries[0].Status)
	assert.Equal(t, "second", entries[1].Status)
}

func TestTransactionRollsBackBothWrites(t *testing.T) {
	s := newTestStore(t)
	seedReport(t, s, models.Report{ID: "taken", CreatedAt: 1})

	err := s.Transaction(func(tx *Store) error {
		if err := tx.AppendTimeline(&models.TimelineEntry{ReportID: "taken", Status: "submitted", At: 2}); err != nil {
			return err
		}
		// duplicate id aborts the transaction
		return tx.InsertReport(&models.Report{ID: "taken", Status: "submitted", Priority: "medium", Department: "General", CreatedAt: 2})
	})
	require.Error(t, err)

	entries, err := s.ListTimeline("taken")
	require.NoError(t, err)
	assert.Empty(t, entries)
}
