package models

import "time"

// FriendshipStatus represents the status of a friendship edge.
type FriendshipStatus string

const (
	// FriendshipStatusPending indicates a friend request awaiting a response.
	FriendshipStatusPending FriendshipStatus = "pending"
	// FriendshipStatusAccepted indicates an accepted friendship edge.
	FriendshipStatusAccepted FriendshipStatus = "accepted"
)

// Friendship is a directed edge from requester to recipient.
//
// A pending request is a single edge. An accepted friendship is materialized
// as TWO edges, one per direction, so that each side carries its own
// timestamps. Callers must never rely on finding only one accepted row for a
// pair; AreFriends checks both directions. Rejected and cancelled requests
// are deleted, not retained.
type Friendship struct {
	ID          uint             `gorm:"primaryKey" json:"id"`
	RequesterID uint             `gorm:"not null;uniqueIndex:idx_friendships_pair" json:"requester_id"`
	RecipientID uint             `gorm:"not null;uniqueIndex:idx_friendships_pair;index" json:"recipient_id"`
	Status      FriendshipStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`

	Requester *User `gorm:"foreignKey:RequesterID" json:"requester,omitempty"`
	Recipient *User `gorm:"foreignKey:RecipientID" json:"recipient,omitempty"`
}

// TableName specifies the table name for GORM
func (Friendship) TableName() string {
	return "friendships"
}
