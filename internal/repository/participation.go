package repository

import (
	"context"
	"errors"
	"time"

	"brewcircle/internal/models"

	"gorm.io/gorm"
)

// ParticipationRepository defines persistence operations for visit participations.
type ParticipationRepository interface {
	GetByVisitAndUser(ctx context.Context, visitID, userID uint) (*models.Participation, error)
	ListPendingForUser(ctx context.Context, userID uint) ([]models.Participation, error)
	CountAccepted(ctx context.Context, visitID uint) (int64, error)
	RespondIfPending(ctx context.Context, visitID, userID uint, state models.ParticipationState) (int64, error)
}

type participationRepository struct {
	db *gorm.DB
}

// NewParticipationRepository returns a new ParticipationRepository implementation.
func NewParticipationRepository(db *gorm.DB) ParticipationRepository {
	return &participationRepository{db: db}
}

func (r *participationRepository) GetByVisitAndUser(ctx context.Context, visitID, userID uint) (*models.Participation, error) {
	var participation models.Participation
	if err := r.db.WithContext(ctx).
		Where("visit_id = ? AND user_id = ?", visitID, userID).
		First(&participation).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &participation, nil
}

// ListPendingForUser returns the user's pending invitations, each carrying
// the visit with its café, creator, and any reviews already written (for a
// pending invitation that can only be the creator's).
func (r *participationRepository) ListPendingForUser(ctx context.Context, userID uint) ([]models.Participation, error) {
	var participations []models.Participation
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND state = ?", userID, models.ParticipationStatePending).
		Preload("Visit").
		Preload("Visit.Cafe").
		Preload("Visit.Creator").
		Preload("Visit.Reviews.User").
		Order("invited_at DESC").
		Find(&participations).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return participations, nil
}

func (r *participationRepository) CountAccepted(ctx context.Context, visitID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Participation{}).
		Where("visit_id = ? AND state = ?", visitID, models.ParticipationStateAccepted).
		Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

// RespondIfPending flips a pending participation to the given state in a single
// guarded UPDATE. The returned row count tells the caller whether anything was
// actually pending, which keeps repeated responses idempotent at the storage level.
func (r *participationRepository) RespondIfPending(ctx context.Context, visitID, userID uint, state models.ParticipationState) (int64, error) {
	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&models.Participation{}).
		Where("visit_id = ? AND user_id = ? AND state = ?", visitID, userID, models.ParticipationStatePending).
		Updates(map[string]interface{}{
			"state":        state,
			"responded_at": &now,
		})
	if result.Error != nil {
		return 0, models.NewInternalError(result.Error)
	}
	return result.RowsAffected, nil
}
