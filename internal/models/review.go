package models

import "time"

// Review is one user's rating and comment for a specific visit.
// The unique (visit_id, user_id) index enforces at most one review per user
// per visit at the storage level, independent of application checks.
type Review struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	VisitID   uint      `gorm:"not null;uniqueIndex:idx_reviews_visit_user" json:"visit_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_reviews_visit_user;index" json:"user_id"`
	Rating    int       `gorm:"not null" json:"rating"`
	Comment   string    `gorm:"type:text" json:"comment"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
