package models

import "time"

// ParticipationRole defines a user's role in a visit.
type ParticipationRole string

const (
	// ParticipationRoleCreator is the visit creator's role.
	ParticipationRoleCreator ParticipationRole = "creator"
	// ParticipationRoleParticipant is an invited user's role.
	ParticipationRoleParticipant ParticipationRole = "participant"
)

// ParticipationState defines the invitation state of a participation.
type ParticipationState string

const (
	// ParticipationStatePending indicates an invitation awaiting a response.
	ParticipationStatePending ParticipationState = "pending"
	// ParticipationStateAccepted indicates the user accepted the invitation.
	ParticipationStateAccepted ParticipationState = "accepted"
	// ParticipationStateRejected indicates the user declined the invitation.
	ParticipationStateRejected ParticipationState = "rejected"
)

// Participation maps a user to a visit with a role and invitation state.
// Exactly one creator row exists per visit, always accepted, written in the
// same transaction as the visit itself.
type Participation struct {
	ID          uint               `gorm:"primaryKey" json:"id"`
	VisitID     uint               `gorm:"not null;uniqueIndex:idx_participations_visit_user" json:"visit_id"`
	UserID      uint               `gorm:"not null;uniqueIndex:idx_participations_visit_user;index" json:"user_id"`
	Role        ParticipationRole  `gorm:"type:varchar(20);not null" json:"role"`
	State       ParticipationState `gorm:"type:varchar(20);not null;default:'pending'" json:"state"`
	InvitedAt   time.Time          `gorm:"not null" json:"invited_at"`
	RespondedAt *time.Time         `json:"responded_at,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`

	User  *User  `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Visit *Visit `gorm:"foreignKey:VisitID" json:"visit,omitempty"`
}

// TableName specifies the table name for GORM
func (Participation) TableName() string {
	return "visit_participations"
}
