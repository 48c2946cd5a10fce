package repository

import (
	"context"
	"errors"

	"brewcircle/internal/models"

	"gorm.io/gorm"
)

// FriendRepository defines the interface for friendship data operations.
//
// Accepted friendships are stored as two rows, one per direction, so
// several reads only need to filter on requester_id.
type FriendRepository interface {
	Create(ctx context.Context, friendship *models.Friendship) error
	GetByID(ctx context.Context, id uint) (*models.Friendship, error)
	GetLinkBetweenUsers(ctx context.Context, userID1, userID2 uint) (*models.Friendship, error)
	AreFriends(ctx context.Context, userID, otherID uint) (bool, error)
	GetFriends(ctx context.Context, userID uint) ([]models.User, error)
	GetPendingIncoming(ctx context.Context, userID uint) ([]models.Friendship, error)
	GetPendingOutgoing(ctx context.Context, userID uint) ([]models.Friendship, error)
	UpdateStatus(ctx context.Context, friendshipID uint, status models.FriendshipStatus) error
	Delete(ctx context.Context, friendshipID uint) error
	RemoveBetween(ctx context.Context, userID1, userID2 uint) (int64, error)
}

// friendRepository implements FriendRepository
type friendRepository struct {
	db *gorm.DB
}

// NewFriendRepository creates a new friend repository
func NewFriendRepository(db *gorm.DB) FriendRepository {
	return &friendRepository{db: db}
}

func (r *friendRepository) Create(ctx context.Context, friendship *models.Friendship) error {
	if err := r.db.WithContext(ctx).Create(friendship).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("A friendship link already exists between these users")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *friendRepository) GetByID(ctx context.Context, id uint) (*models.Friendship, error) {
	var friendship models.Friendship
	if err := r.db.WithContext(ctx).Preload("Requester").Preload("Recipient").First(&friendship, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Friendship", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &friendship, nil
}

func (r *friendRepository) GetLinkBetweenUsers(ctx context.Context, userID1, userID2 uint) (*models.Friendship, error) {
	var friendship models.Friendship

	// Find any link where the users appear in either direction, any status
	if err := r.db.WithContext(ctx).
		Where("(requester_id = ? AND recipient_id = ?) OR (requester_id = ? AND recipient_id = ?)",
			userID1, userID2, userID2, userID1).
		Preload("Requester").
		Preload("Recipient").
		First(&friendship).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil // No link exists
		}
		return nil, models.NewInternalError(err)
	}
	return &friendship, nil
}

func (r *friendRepository) AreFriends(ctx context.Context, userID, otherID uint) (bool, error) {
	var count int64
	// The accepted state is materialized in both directions, so one
	// directed lookup is enough.
	if err := r.db.WithContext(ctx).
		Model(&models.Friendship{}).
		Where("requester_id = ? AND recipient_id = ? AND status = ?",
			userID, otherID, models.FriendshipStatusAccepted).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *friendRepository) GetFriends(ctx context.Context, userID uint) ([]models.User, error) {
	defer dbMetrics.TrackQuery("list_friends", "friendships")()

	var users []models.User

	if err := r.db.WithContext(ctx).
		Table("users").
		Joins("JOIN friendships f ON users.id = f.recipient_id").
		Where("f.requester_id = ? AND f.status = ?", userID, models.FriendshipStatusAccepted).
		Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}

	return users, nil
}

func (r *friendRepository) GetPendingIncoming(ctx context.Context, userID uint) ([]models.Friendship, error) {
	var friendships []models.Friendship

	// Pending requests where user is the recipient
	if err := r.db.WithContext(ctx).
		Where("recipient_id = ? AND status = ?", userID, models.FriendshipStatusPending).
		Preload("Requester").
		Preload("Recipient").
		Find(&friendships).Error; err != nil {
		return nil, models.NewInternalError(err)
	}

	return friendships, nil
}

func (r *friendRepository) GetPendingOutgoing(ctx context.Context, userID uint) ([]models.Friendship, error) {
	var friendships []models.Friendship

	// Pending requests where user is the requester
	if err := r.db.WithContext(ctx).
		Where("requester_id = ? AND status = ?", userID, models.FriendshipStatusPending).
		Preload("Requester").
		Preload("Recipient").
		Find(&friendships).Error; err != nil {
		return nil, models.NewInternalError(err)
	}

	return friendships, nil
}

func (r *friendRepository) UpdateStatus(ctx context.Context, friendshipID uint, status models.FriendshipStatus) error {
	if err := r.db.WithContext(ctx).
		Model(&models.Friendship{}).
		Where("id = ?", friendshipID).
		Update("status", status).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *friendRepository) Delete(ctx context.Context, friendshipID uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Friendship{}, friendshipID).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *friendRepository) RemoveBetween(ctx context.Context, userID1, userID2 uint) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("(requester_id = ? AND recipient_id = ?) OR (requester_id = ? AND recipient_id = ?)",
			userID1, userID2, userID2, userID1).
		Delete(&models.Friendship{})
	if result.Error != nil {
		return 0, models.NewInternalError(result.Error)
	}
	return result.RowsAffected, nil
}
