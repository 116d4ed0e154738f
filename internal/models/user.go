package models

import "gorm.io/gorm"

type User struct {
	gorm.Model

	Name         string `gorm:"not null"`
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	Role         string `gorm:"not null;default:'citizen'"`

	// Relationships
	ReportedIssues []Issue `gorm:"foreignKey:CreatedBy;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}

const (
	RoleCitizen = "citizen"
	RoleWorker  = "worker"
	RoleAdmin   = "admin"
)
