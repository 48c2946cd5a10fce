package repository

import (
	"context"
	"errors"

	"brewcircle/internal/models"
	"brewcircle/internal/observability"

	"gorm.io/gorm"
)

var dbMetrics = observability.NewDatabaseMetrics()

// VisitRepository defines persistence operations for visits.
type VisitRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Visit, error)
	GetByIDHydrated(ctx context.Context, id uint) (*models.Visit, error)
	ListByCreator(ctx context.Context, userID uint, limit, offset int) ([]models.Visit, error)
	ListForUser(ctx context.Context, userID uint, limit, offset int) ([]models.Visit, error)
	UpdateStatus(ctx context.Context, visitID uint, status models.VisitStatus) error
	Delete(ctx context.Context, visitID uint) error
}

type visitRepository struct {
	db *gorm.DB
}

// NewVisitRepository returns a new VisitRepository implementation.
func NewVisitRepository(db *gorm.DB) VisitRepository {
	return &visitRepository{db: db}
}

func (r *visitRepository) GetByID(ctx context.Context, id uint) (*models.Visit, error) {
	var visit models.Visit
	if err := r.db.WithContext(ctx).First(&visit, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Visit", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &visit, nil
}

func (r *visitRepository) GetByIDHydrated(ctx context.Context, id uint) (*models.Visit, error) {
	defer dbMetrics.TrackQuery("select_hydrated", "visits")()

	var visit models.Visit
	if err := r.db.WithContext(ctx).
		Preload("Cafe").
		Preload("Creator").
		Preload("Participations.User").
		Preload("Reviews.User").
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		First(&visit, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Visit", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &visit, nil
}

func (r *visitRepository) ListByCreator(ctx context.Context, userID uint, limit, offset int) ([]models.Visit, error) {
	var visits []models.Visit
	if err := r.db.WithContext(ctx).
		Where("creator_id = ?", userID).
		Preload("Cafe").
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Order("visit_date DESC").
		Limit(limit).Offset(offset).
		Find(&visits).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return visits, nil
}

func (r *visitRepository) ListForUser(ctx context.Context, userID uint, limit, offset int) ([]models.Visit, error) {
	defer dbMetrics.TrackQuery("list_for_user", "visits")()

	var visits []models.Visit

	// Visits where the user holds an accepted participation (creator included,
	// since creators always carry one).
	if err := r.db.WithContext(ctx).
		Joins("JOIN visit_participations vp ON vp.visit_id = visits.id").
		Where("vp.user_id = ? AND vp.state = ?", userID, models.ParticipationStateAccepted).
		Preload("Cafe").
		Preload("Creator").
		Order("visits.visit_date DESC").
		Limit(limit).Offset(offset).
		Find(&visits).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return visits, nil
}

func (r *visitRepository) UpdateStatus(ctx context.Context, visitID uint, status models.VisitStatus) error {
	if err := r.db.WithContext(ctx).
		Model(&models.Visit{}).
		Where("id = ?", visitID).
		Update("status", status).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *visitRepository) Delete(ctx context.Context, visitID uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Visit{}, visitID).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
