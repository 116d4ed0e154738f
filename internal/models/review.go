package models

import (
	"time"

	"gorm.io/gorm"
)

type Review struct {
	gorm.Model

	IssueID    uint   `gorm:"not null;uniqueIndex"` // one review per issue
	WorkerID   uint   `gorm:"not null;index"`
	ReviewerID uint   `gorm:"not null"`
	Rating     int    `gorm:"not null;check:rating >= 1 AND rating <= 5"`
	Comment    string
	Status     string    `gorm:"not null;default:'approved'"`
	ReviewedAt time.Time `gorm:"not null"`

	// Relationships
	Issue    Issue  `gorm:"foreignKey:IssueID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
	Worker   Worker `gorm:"foreignKey:WorkerID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
	Reviewer User   `gorm:"foreignKey:ReviewerID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
}

const ReviewStatusApproved = "approved"
