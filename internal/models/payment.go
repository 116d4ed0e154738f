package models

import (
	"time"

	"gorm.io/gorm"
)

type Payment struct {
	gorm.Model

	IssueID       uint    `gorm:"not null;index"`
	WorkerID      uint    `gorm:"not null;index"`
	Amount        float64 `gorm:"not null"`
	Currency      string  `gorm:"not null;default:'INR'"`
	Status        string  `gorm:"not null;default:'pending';index"`
	TransactionID string
	ScreenshotURL string
	Notes         string
	ProcessedBy   uint `gorm:"not null"`
	ProcessedAt   *time.Time

	// Relationships
	Issue  Issue  `gorm:"foreignKey:IssueID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
	Worker Worker `gorm:"foreignKey:WorkerID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
}

const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
)
