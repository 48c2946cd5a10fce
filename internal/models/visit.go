package models

import (
	"time"

	"gorm.io/gorm"
)

// VisitStatus represents the lifecycle state of a visit.
type VisitStatus string

const (
	// VisitStatusActive is the default state of a newly created visit.
	VisitStatusActive VisitStatus = "active"
	// VisitStatusCompleted marks a visit that took place.
	VisitStatusCompleted VisitStatus = "completed"
	// VisitStatusCancelled marks a visit that was called off.
	VisitStatusCancelled VisitStatus = "cancelled"
)

// MaxVisitImages caps the number of images attached to a visit.
const MaxVisitImages = 5

// MaxVisitParticipants caps max_participants (including the creator).
const MaxVisitParticipants = 10

// Visit is a café check-in, optionally shared with friends.
//
// The creator is an explicit foreign key rather than being derived from the
// participations table; a creator participation row is still written in the
// same transaction as the visit so either view is always consistent.
type Visit struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	CreatorID       uint           `gorm:"not null;index" json:"creator_id"`
	CafeID          uint           `gorm:"not null;index" json:"cafe_id"`
	VisitDate       time.Time      `gorm:"not null" json:"visit_date"`
	Status          VisitStatus    `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	IsShared        bool           `gorm:"not null;default:false" json:"is_shared"`
	MaxParticipants int            `gorm:"not null;default:10" json:"max_participants"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`

	Creator        *User           `gorm:"foreignKey:CreatorID" json:"creator,omitempty"`
	Cafe           *Cafe           `gorm:"foreignKey:CafeID" json:"cafe,omitempty"`
	Participations []Participation `gorm:"foreignKey:VisitID;constraint:OnDelete:CASCADE" json:"participations,omitempty"`
	Reviews        []Review        `gorm:"foreignKey:VisitID;constraint:OnDelete:CASCADE" json:"reviews,omitempty"`
	Images         []VisitImage    `gorm:"foreignKey:VisitID;constraint:OnDelete:CASCADE" json:"images,omitempty"`
}

// VisitImage is an ordered image attached to a visit. Images are uploaded
// elsewhere; only the resulting stable URL is recorded here.
type VisitImage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	VisitID   uint      `gorm:"not null;index" json:"visit_id"`
	URL       string    `gorm:"not null" json:"url"`
	Position  int       `gorm:"not null" json:"position"`
	CreatedAt time.Time `json:"created_at"`
}
