// Package service implements the business logic layer of the application.
package service

import (
	"context"

	"brewcircle/internal/cache"
	"brewcircle/internal/models"
	"brewcircle/internal/observability"
	"brewcircle/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FriendService provides friend-request and friendship business logic.
//
// Accepted friendships are materialized as two directed rows, one per user.
// The accept path writes both rows in a single transaction so the pair is
// never observable in a half-accepted state.
type FriendService struct {
	friendRepo repository.FriendRepository
	userRepo   repository.UserRepository
	db         *gorm.DB
}

// NewFriendService returns a new FriendService.
func NewFriendService(friendRepo repository.FriendRepository, userRepo repository.UserRepository, db *gorm.DB) *FriendService {
	return &FriendService{
		friendRepo: friendRepo,
		userRepo:   userRepo,
		db:         db,
	}
}

// SendRequest sends a friend request to the target user.
func (s *FriendService) SendRequest(ctx context.Context, userID, targetUserID uint) (*models.Friendship, error) {
	if userID == targetUserID {
		return nil, models.NewValidationError("Cannot send a friend request to yourself")
	}

	if _, err := s.userRepo.GetByID(ctx, targetUserID); err != nil {
		return nil, err
	}

	existing, err := s.friendRepo.GetLinkBetweenUsers(ctx, userID, targetUserID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		observability.FriendRequestsTotal.WithLabelValues("conflict").Inc()
		switch existing.Status {
		case models.FriendshipStatusAccepted:
			return nil, models.NewConflictError("You are already friends")
		default:
			if existing.RequesterID == userID {
				return nil, models.NewConflictError("Friend request already sent")
			}
			return nil, models.NewConflictError("You already have a pending friend request from this user")
		}
	}

	friendship := &models.Friendship{
		RequesterID: userID,
		RecipientID: targetUserID,
		Status:      models.FriendshipStatusPending,
	}
	if err := s.friendRepo.Create(ctx, friendship); err != nil {
		observability.FriendRequestsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	observability.FriendRequestsTotal.WithLabelValues("sent").Inc()
	return s.friendRepo.GetByID(ctx, friendship.ID)
}

// Respond accepts or rejects a pending friend request addressed to userID.
// Accepting writes the reverse row in the same transaction; rejecting
// deletes the request so either user can start over later.
func (s *FriendService) Respond(ctx context.Context, userID, requestID uint, accept bool) (*models.Friendship, error) {
	friendship, err := s.friendRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	if friendship.RecipientID != userID {
		return nil, models.NewForbiddenError("You can only respond to friend requests sent to you")
	}
	if friendship.Status != models.FriendshipStatusPending {
		return nil, models.NewConflictError("Friend request is not pending")
	}

	if !accept {
		if err := s.friendRepo.Delete(ctx, requestID); err != nil {
			return nil, err
		}
		observability.FriendRequestsTotal.WithLabelValues("rejected").Inc()
		return friendship, nil
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Friendship{}).
			Where("id = ? AND status = ?", requestID, models.FriendshipStatusPending).
			Update("status", models.FriendshipStatusAccepted).Error; err != nil {
			return models.NewInternalError(err)
		}

		// The opposite direction may already hold a pending row when both
		// users requested each other before either accepted. Upsert so that
		// row is promoted to accepted instead of colliding on the pair index.
		mirror := &models.Friendship{
			RequesterID: friendship.RecipientID,
			RecipientID: friendship.RequesterID,
			Status:      models.FriendshipStatusAccepted,
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "requester_id"}, {Name: "recipient_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"status": models.FriendshipStatusAccepted}),
		}).Create(mirror).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	cache.InvalidateFriendList(ctx, friendship.RequesterID)
	cache.InvalidateFriendList(ctx, friendship.RecipientID)

	observability.FriendRequestsTotal.WithLabelValues("accepted").Inc()
	return s.friendRepo.GetByID(ctx, requestID)
}

// Cancel withdraws a pending friend request sent by userID.
func (s *FriendService) Cancel(ctx context.Context, userID, requestID uint) (*models.Friendship, error) {
	friendship, err := s.friendRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	if friendship.RequesterID != userID {
		return nil, models.NewForbiddenError("You can only cancel friend requests you sent")
	}
	if friendship.Status != models.FriendshipStatusPending {
		return nil, models.NewConflictError("Friend request is not pending")
	}

	if err := s.friendRepo.Delete(ctx, requestID); err != nil {
		return nil, err
	}

	observability.FriendRequestsTotal.WithLabelValues("cancelled").Inc()
	return friendship, nil
}

// Remove ends an accepted friendship, deleting both directed rows.
func (s *FriendService) Remove(ctx context.Context, userID, otherUserID uint) error {
	friends, err := s.friendRepo.AreFriends(ctx, userID, otherUserID)
	if err != nil {
		return err
	}
	if !friends {
		return models.NewNotFoundError("Friendship", otherUserID)
	}

	removed, err := s.friendRepo.RemoveBetween(ctx, userID, otherUserID)
	if err != nil {
		return err
	}
	if removed == 0 {
		// Another request removed the friendship between the check and the delete.
		return models.NewNotFoundError("Friendship", otherUserID)
	}

	cache.InvalidateFriendList(ctx, userID)
	cache.InvalidateFriendList(ctx, otherUserID)
	return nil
}

// AreFriends reports whether the two users share an accepted friendship.
func (s *FriendService) AreFriends(ctx context.Context, userID, otherUserID uint) (bool, error) {
	return s.friendRepo.AreFriends(ctx, userID, otherUserID)
}

// GetFriends returns the list of friends for the user, served through the
// friend-list cache.
func (s *FriendService) GetFriends(ctx context.Context, userID uint) ([]models.User, error) {
	var friends []models.User
	err := cache.CacheAside(ctx, cache.FriendListKey(userID), &friends, cache.FriendListTTL, func() error {
		var ferr error
		friends, ferr = s.friendRepo.GetFriends(ctx, userID)
		return ferr
	})
	return friends, err
}

// GetPendingIncoming returns pending friend requests addressed to the user.
func (s *FriendService) GetPendingIncoming(ctx context.Context, userID uint) ([]models.Friendship, error) {
	return s.friendRepo.GetPendingIncoming(ctx, userID)
}

// GetPendingOutgoing returns pending friend requests sent by the user.
func (s *FriendService) GetPendingOutgoing(ctx context.Context, userID uint) ([]models.Friendship, error) {
	return s.friendRepo.GetPendingOutgoing(ctx, userID)
}
