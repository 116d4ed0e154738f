package models

import (
	"github.com/lib/pq"
	"gorm.io/gorm"
)

type Worker struct {
	gorm.Model

	UserID           uint           `gorm:"not null;uniqueIndex"`
	Description      string
	Tags             pq.StringArray `gorm:"type:text[]"` // specializations, matched against issue categories
	Location         string
	Status           string `gorm:"not null;default:'available';index"`
	Type             string `gorm:"not null;default:'individual'"`
	OrganizationName string
	Phone            string
	UPIID            string
	BankAccount      string
	PANCard          string
	Rating           float64 `gorm:"default:0"`
	TotalJobs        int     `gorm:"default:0"`
	TotalEarnings    float64 `gorm:"default:0"`

	// Relationships
	User User `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
}

const (
	WorkerStatusAvailable = "available"
	WorkerStatusBusy      = "busy"
	WorkerStatusOffline   = "offline"
	WorkerStatusOnLeave   = "on_leave"
)

const (
	WorkerTypeIndividual   = "individual"
	WorkerTypeOrganization = "organization"
)
