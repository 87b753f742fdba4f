package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"hotelbooking/internal/domain"
)

type RatePlanRepository struct {
	db *gorm.DB
}

func NewRatePlanRepository(db *gorm.DB) *RatePlanRepository {
	return &RatePlanRepository{db: db}
}

func (r *RatePlanRepository) WithTx(tx *gorm.DB) *RatePlanRepository {
	return &RatePlanRepository{db: tx}
}

func (r *RatePlanRepository) Create(ctx context.Context, p *domain.RatePlan) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *RatePlanRepository) GetByID(ctx context.Context, id int64) (*domain.RatePlan, error) {
	var p domain.RatePlan
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// FindForStay returns the cheapest plan of the room type whose validity
// window covers the whole stay, or nil when none does.
func (r *RatePlanRepository) FindForStay(ctx context.Context, roomTypeID int64, checkIn, checkOut time.Time) (*domain.RatePlan, error) {
	var p domain.RatePlan
	err := r.db.WithContext(ctx).
		Where("room_type_id = ? AND valid_from <= ? AND valid_to >= ?", roomTypeID, checkIn, checkOut).
		Order("price_per_night ASC").
		First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *RatePlanRepository) ListByRoomType(ctx context.Context, roomTypeID int64) ([]domain.RatePlan, error) {
	var plans []domain.RatePlan
	err := r.db.WithContext(ctx).
		Where("room_type_id = ?", roomTypeID).
		Order("price_per_night ASC").
		Find(&plans).Error
	if err != nil {
		return nil, err
	}
	return plans, nil
}
