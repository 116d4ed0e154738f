package models

import (
	"time"

	"gorm.io/gorm"
)

type Issue struct {
	gorm.Model

	Title       string `gorm:"not null"`
	Description string `gorm:"not null"`
	Category    string `gorm:"not null"`
	Location    string `gorm:"not null"`
	Photo       string
	Status      string `gorm:"not null;default:'pending';index"`
	CreatedBy   uint   `gorm:"not null;index"`
	AssignedTo  *uint  `gorm:"index"` // user ID of the assigned worker
	Amount      float64
	Notes       string
	CompletedAt *time.Time

	// Relationships
	Creator User  `gorm:"foreignKey:CreatedBy;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
	Worker  *User `gorm:"foreignKey:AssignedTo;constraint:OnUpdate:Cascade,OnDelete:SET NULL" json:"-"`
}

// Issue lifecycle: pending -> assigned -> accepted -> in_progress -> completed,
// with rejected as the terminal failure state.
const (
	IssueStatusPending    = "pending"
	IssueStatusAssigned   = "assigned"
	IssueStatusAccepted   = "accepted"
	IssueStatusInProgress = "in_progress"
	IssueStatusCompleted  = "completed"
	IssueStatusRejected   = "rejected"
)

// ActiveIssueStatuses are the states that count as an active assignment for a
// worker. A worker holding an issue in any of these states is not eligible for
// auto-assignment.
var ActiveIssueStatuses = []string{
	IssueStatusAssigned,
	IssueStatusAccepted,
	IssueStatusInProgress,
}
