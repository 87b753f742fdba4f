package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"hotelbooking/internal/domain"
)

type GuestRepository struct {
	db *gorm.DB
}

func NewGuestRepository(db *gorm.DB) *GuestRepository {
	return &GuestRepository{db: db}
}

func (r *GuestRepository) WithTx(tx *gorm.DB) *GuestRepository {
	return &GuestRepository{db: tx}
}

func (r *GuestRepository) GetByID(ctx context.Context, id int64) (*domain.Guest, error) {
	var g domain.Guest
	if err := r.db.WithContext(ctx).First(&g, id).Error; err != nil {
		return nil, err
	}
	return &g, nil
}

// FindOrCreateForUser resolves the guest record for an authenticated user,
// creating it on first booking. A concurrent create loses on the user_id
// unique index and falls back to reading the winner's row.
func (r *GuestRepository) FindOrCreateForUser(ctx context.Context, userID int64) (*domain.Guest, error) {
	var g domain.Guest
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&g).Error
	if err == nil {
		return &g, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	g = domain.Guest{UserID: userID}
	if err := r.db.WithContext(ctx).Create(&g).Error; err != nil {
		if IsUniqueViolation(err) {
			var existing domain.Guest
			if rerr := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&existing).Error; rerr != nil {
				return nil, rerr
			}
			return &existing, nil
		}
		return nil, err
	}
	return &g, nil
}

// HasOtherBookings reports whether the guest holds any booking besides the
// given one, used for new-customer-only promotions.
func (r *GuestRepository) HasOtherBookings(ctx context.Context, guestID, excludeBookingID int64) (bool, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&domain.Booking{}).
		Where("guest_id = ? AND id <> ?", guestID, excludeBookingID).
		Count(&cnt).Error
	if err != nil {
		return false, err
	}
	return cnt > 0, nil
}
