package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"hotelbooking/internal/domain"
)

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// WithTx binds the repository to a running transaction.
func (r *BookingRepository) WithTx(tx *gorm.DB) *BookingRepository {
	return &BookingRepository{db: tx}
}

func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *BookingRepository) Save(ctx context.Context, b *domain.Booking) error {
	return r.db.WithContext(ctx).Save(b).Error
}

func (r *BookingRepository) SaveRoom(ctx context.Context, br *domain.BookingRoom) error {
	return r.db.WithContext(ctx).Save(br).Error
}

func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	var b domain.Booking
	err := r.db.WithContext(ctx).
		Preload("Room").
		Preload("Promotion").
		First(&b, id).Error
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BookingRepository) ListByGuest(ctx context.Context, guestID int64, limit, offset int) ([]domain.Booking, error) {
	var out []domain.Booking
	q := r.db.WithContext(ctx).
		Preload("Room").
		Where("guest_id = ?", guestID).
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// CountOverlapping counts bookings that block availability of a room over
// [checkIn, checkOut). Only confirmed and checked-in stays block: pending
// bookings are provisional and never expire, which is the documented race
// window around concurrent creates.
func (r *BookingRepository) CountOverlapping(ctx context.Context, roomID int64, checkIn, checkOut time.Time, excludeBookingID int64) (int64, error) {
	var cnt int64
	q := `
SELECT COUNT(1)
FROM bookings b
JOIN booking_rooms br ON br.booking_id = b.id
WHERE br.room_id = ?
  AND b.status IN (?, ?)
  AND b.check_in_date < ?
  AND b.check_out_date > ?
  AND b.id <> ?
`
	tx := r.db.WithContext(ctx).Raw(q,
		roomID,
		domain.BookingConfirmed, domain.BookingCheckedIn,
		checkOut, checkIn,
		excludeBookingID,
	).Scan(&cnt)
	if tx.Error != nil {
		return 0, tx.Error
	}
	return cnt, nil
}
