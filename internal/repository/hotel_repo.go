package repository

import (
	"context"

	"gorm.io/gorm"

	"hotelbooking/internal/domain"
)

type HotelRepository struct {
	db *gorm.DB
}

func NewHotelRepository(db *gorm.DB) *HotelRepository {
	return &HotelRepository{db: db}
}

func (r *HotelRepository) GetByID(ctx context.Context, id int64) (*domain.Hotel, error) {
	var h domain.Hotel
	if err := r.db.WithContext(ctx).First(&h, id).Error; err != nil {
		return nil, err
	}
	return &h, nil
}

func (r *HotelRepository) List(ctx context.Context) ([]domain.Hotel, error) {
	var hotels []domain.Hotel
	if err := r.db.WithContext(ctx).Order("name").Find(&hotels).Error; err != nil {
		return nil, err
	}
	return hotels, nil
}

func (r *HotelRepository) ListRoomTypes(ctx context.Context) ([]domain.RoomType, error) {
	var types []domain.RoomType
	if err := r.db.WithContext(ctx).Order("base_price").Find(&types).Error; err != nil {
		return nil, err
	}
	return types, nil
}
