package models

// TimelineEntry is one immutable status event in a report's history.
// The log is append-only: entries are never updated or deleted, and
// ReportID is not a foreign key — a dangling entry for an unknown report
// is tolerated.
type TimelineEntry struct {
	ID       uint   `gorm:"primaryKey;autoIncrement" json:"-"`
	ReportID string `gorm:"size:36;index;not null" json:"-"`
	Status   string `gorm:"size:50;not null" json:"status"`
	Note     string `gorm:"type:text" json:"note"`
	At       int64  `gorm:"not null;index" json:"at"`
}
