package repository

import (
	"context"
	"errors"

	"brewcircle/internal/models"

	"gorm.io/gorm"
)

// ReviewRepository defines persistence operations for visit reviews.
type ReviewRepository interface {
	GetByVisitAndUser(ctx context.Context, visitID, userID uint) (*models.Review, error)
	ListByVisit(ctx context.Context, visitID uint) ([]models.Review, error)
	Create(ctx context.Context, review *models.Review) error
}

type reviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository returns a new ReviewRepository implementation.
func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) GetByVisitAndUser(ctx context.Context, visitID, userID uint) (*models.Review, error) {
	var review models.Review
	if err := r.db.WithContext(ctx).
		Where("visit_id = ? AND user_id = ?", visitID, userID).
		First(&review).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &review, nil
}

func (r *reviewRepository) ListByVisit(ctx context.Context, visitID uint) ([]models.Review, error) {
	var reviews []models.Review
	if err := r.db.WithContext(ctx).
		Where("visit_id = ?", visitID).
		Preload("User").
		Order("created_at ASC").
		Find(&reviews).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return reviews, nil
}

func (r *reviewRepository) Create(ctx context.Context, review *models.Review) error {
	if err := r.db.WithContext(ctx).Create(review).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("Review already exists for this visit")
		}
		return models.NewInternalError(err)
	}
	return nil
}
