package repository

import (
	"context"
	"errors"

	"brewcircle/internal/cache"
	"brewcircle/internal/models"

	"gorm.io/gorm"
)

// CafeRepository defines persistence operations for cafes.
type CafeRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Cafe, error)
	List(ctx context.Context, city string, limit, offset int) ([]models.Cafe, error)
	Create(ctx context.Context, cafe *models.Cafe) error
	Update(ctx context.Context, cafe *models.Cafe) error
	Delete(ctx context.Context, id uint) error
}

type cafeRepository struct {
	db *gorm.DB
}

// NewCafeRepository returns a new CafeRepository implementation.
func NewCafeRepository(db *gorm.DB) CafeRepository {
	return &cafeRepository{db: db}
}

func (r *cafeRepository) GetByID(ctx context.Context, id uint) (*models.Cafe, error) {
	var cafe models.Cafe
	key := cache.CafeKey(id)

	err := cache.CacheAside(ctx, key, &cafe, cache.CafeTTL, func() error {
		if err := r.db.WithContext(ctx).First(&cafe, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Cafe", id)
			}
			return models.NewInternalError(err)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return &cafe, nil
}

func (r *cafeRepository) List(ctx context.Context, city string, limit, offset int) ([]models.Cafe, error) {
	var cafes []models.Cafe
	query := r.db.WithContext(ctx)
	if city != "" {
		query = query.Where("city = ?", city)
	}
	if err := query.Order("name ASC").Limit(limit).Offset(offset).Find(&cafes).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return cafes, nil
}

func (r *cafeRepository) Create(ctx context.Context, cafe *models.Cafe) error {
	if err := r.db.WithContext(ctx).Create(cafe).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *cafeRepository) Update(ctx context.Context, cafe *models.Cafe) error {
	if err := r.db.WithContext(ctx).Save(cafe).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateCafe(ctx, cafe.ID)
	return nil
}

func (r *cafeRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Cafe{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateCafe(ctx, id)
	return nil
}
