package repository

import (
	"context"

	"gorm.io/gorm"

	"hotelbooking/internal/domain"
)

type InvoiceRepository struct {
	db *gorm.DB
}

func NewInvoiceRepository(db *gorm.DB) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

func (r *InvoiceRepository) WithTx(tx *gorm.DB) *InvoiceRepository {
	return &InvoiceRepository{db: tx}
}

// Create inserts the invoice, translating the (booking_id) unique-index
// violation into ErrDuplicate so the caller can re-read the winner's row.
func (r *InvoiceRepository) Create(ctx context.Context, inv *domain.Invoice) error {
	if err := r.db.WithContext(ctx).Create(inv).Error; err != nil {
		if IsUniqueViolation(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

func (r *InvoiceRepository) Save(ctx context.Context, inv *domain.Invoice) error {
	return r.db.WithContext(ctx).Save(inv).Error
}

func (r *InvoiceRepository) GetByID(ctx context.Context, id int64) (*domain.Invoice, error) {
	var inv domain.Invoice
	if err := r.db.WithContext(ctx).First(&inv, id).Error; err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *InvoiceRepository) GetByBookingID(ctx context.Context, bookingID int64) (*domain.Invoice, error) {
	var inv domain.Invoice
	if err := r.db.WithContext(ctx).Where("booking_id = ?", bookingID).First(&inv).Error; err != nil {
		return nil, err
	}
	return &inv, nil
}

// CountByNumberPrefix returns how many invoices carry a number starting
// with the given prefix, used to derive the per-day sequence.
func (r *InvoiceRepository) CountByNumberPrefix(ctx context.Context, prefix string) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&domain.Invoice{}).
		Where("number LIKE ?", prefix+"%").
		Count(&cnt).Error
	if err != nil {
		return 0, err
	}
	return cnt, nil
}
