package payment

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"hotelbooking/internal/domain"
	"hotelbooking/internal/modules/pricing"
	"hotelbooking/internal/pkg/clock"
	"hotelbooking/internal/repository"
)

const (
	taxRate           = 0.10
	serviceChargeRate = 0.05
)

// Generator produces exactly one invoice per booking from the booking's
// final amount, adding tax and service charge. Invoices created through
// this path are auto-issued, not drafts.
type Generator struct {
	db       *gorm.DB
	invoices *repository.InvoiceRepository
	bookings *repository.BookingRepository
	clock    clock.Clock
}

func NewGenerator(db *gorm.DB, invoices *repository.InvoiceRepository, bookings *repository.BookingRepository, clk clock.Clock) *Generator {
	return &Generator{db: db, invoices: invoices, bookings: bookings, clock: clk}
}

// invoiceCreateAttempts bounds the redraws when concurrent creators keep
// colliding on the invoice number sequence.
const invoiceCreateAttempts = 3

// CreateInvoice returns the booking's invoice, creating it when absent.
// The second return value reports whether this call created it. Racing
// creators lose on the booking_id unique index; the loser re-reads the
// winner's invoice instead of failing. The re-read runs outside the
// insert's transaction: after a unique violation the transaction is
// already doomed on postgres, so nothing can be read through it.
func (g *Generator) CreateInvoice(ctx context.Context, bookingID int64, notes string) (*domain.Invoice, bool, error) {
	existing, err := g.invoices.GetByBookingID(ctx, bookingID)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	for attempt := 0; attempt < invoiceCreateAttempts; attempt++ {
		inv, err := g.tryCreate(ctx, bookingID, notes, attempt)
		if err == nil {
			return inv, true, nil
		}
		if !errors.Is(err, repository.ErrDuplicate) {
			return nil, false, err
		}

		// The violated index is either booking_id (a concurrent creator
		// won) or number (two creators drew the same sequence). A winner's
		// invoice settles it; absence means the number was the problem and
		// the next attempt draws past it.
		winner, rerr := g.invoices.GetByBookingID(ctx, bookingID)
		if rerr == nil {
			return winner, false, nil
		}
		if !errors.Is(rerr, gorm.ErrRecordNotFound) {
			return nil, false, rerr
		}
	}
	return nil, false, ErrInvoiceConflict
}

func (g *Generator) tryCreate(ctx context.Context, bookingID int64, notes string, attempt int) (*domain.Invoice, error) {
	var inv *domain.Invoice
	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		b, err := g.bookings.WithTx(tx).GetByID(ctx, bookingID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return err
		}

		final := b.FinalAmount()
		tax := pricing.Round2(final * taxRate)
		service := pricing.Round2(final * serviceChargeRate)

		number, err := g.nextNumber(ctx, tx, attempt)
		if err != nil {
			return err
		}

		inv = &domain.Invoice{
			BookingID:     bookingID,
			Number:        number,
			Subtotal:      final,
			Tax:           tax,
			ServiceCharge: service,
			Amount:        pricing.Round2(final + tax + service),
			Status:        domain.InvoiceIssued,
			Notes:         notes,
		}
		return g.invoices.WithTx(tx).Create(ctx, inv)
	})
	if err != nil {
		return nil, err
	}
	return inv, nil
}

// MarkAsPaid transitions an issued invoice to paid.
func (g *Generator) MarkAsPaid(ctx context.Context, invoiceID int64, method string) (*domain.Invoice, error) {
	var inv *domain.Invoice
	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		inv, err = g.invoices.WithTx(tx).GetByID(ctx, invoiceID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInvoiceNotFound
			}
			return err
		}
		if !inv.Status.CanPay() {
			return ErrInvoiceState
		}

		now := g.clock.Now()
		inv.Status = domain.InvoicePaid
		inv.PaymentMethod = method
		inv.PaidAt = &now
		return g.invoices.WithTx(tx).Save(ctx, inv)
	})
	if err != nil {
		return nil, err
	}
	return inv, nil
}

// CancelInvoice voids a draft or issued invoice. Paid invoices never cancel.
func (g *Generator) CancelInvoice(ctx context.Context, invoiceID int64) (*domain.Invoice, error) {
	var inv *domain.Invoice
	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		inv, err = g.invoices.WithTx(tx).GetByID(ctx, invoiceID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInvoiceNotFound
			}
			return err
		}
		if !inv.Status.CanCancel() {
			return ErrInvoiceState
		}

		inv.Status = domain.InvoiceCancelled
		return g.invoices.WithTx(tx).Save(ctx, inv)
	})
	if err != nil {
		return nil, err
	}
	return inv, nil
}

func (g *Generator) GetByBooking(ctx context.Context, bookingID int64) (*domain.Invoice, error) {
	inv, err := g.invoices.GetByBookingID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvoiceNotFound
		}
		return nil, err
	}
	return inv, nil
}

// nextNumber derives the human-readable invoice number from the invoice
// date and a per-day sequence, e.g. INV-20260901-0003. attempt skips the
// sequence ahead so a redraw after a collision picks a fresh number.
func (g *Generator) nextNumber(ctx context.Context, tx *gorm.DB, attempt int) (string, error) {
	prefix := "INV-" + clock.Today(g.clock).Format("20060102") + "-"
	count, err := g.invoices.WithTx(tx).CountByNumberPrefix(ctx, prefix)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%04d", prefix, count+1+int64(attempt)), nil
}
