package models

import (
	"time"

	"gorm.io/gorm"
)

// Cafe represents a café that visits can be logged against.
// Search ranking and geo filtering live outside this service; the visit
// orchestrator only needs existence lookups and display fields.
type Cafe struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"size:120;not null" json:"name"`
	Address   string         `gorm:"size:255" json:"address"`
	City      string         `gorm:"size:80;index" json:"city"`
	ImageURL  string         `json:"image_url"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
