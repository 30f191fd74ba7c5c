package models

// Report statuses the service itself assigns. Status is an open string enum:
// callers may write any other label through the update endpoint.
const (
	StatusSubmitted    = "submitted"
	StatusAcknowledged = "acknowledged"
	StatusUpdated      = "updated"
)

// Report is a single citizen-submitted civic issue.
//
// Lat/Lng are nullable: coordinates that could not be parsed are stored as
// NULL rather than rejecting the submission. Range filters never match a
// NULL coordinate.
type Report struct {
	ID          string   `gorm:"primaryKey;size:36" json:"id"`
	Description string   `gorm:"type:text" json:"description"`
	ImageURL    *string  `gorm:"size:500" json:"imageUrl"`
	Lat         *float64 `json:"lat"`
	Lng         *float64 `json:"lng"`
	Status      string   `gorm:"size:50;not null;index" json:"status"`
	Category    *string  `gorm:"size:100;index" json:"category"`
	Priority    string   `gorm:"size:20;not null;index" json:"priority"`
	Department  string   `gorm:"size:100;not null" json:"department"`
	AssignedTo  *string  `gorm:"size:100" json:"assignedTo"`
	CreatedAt   int64    `gorm:"not null;index" json:"createdAt"`
}
