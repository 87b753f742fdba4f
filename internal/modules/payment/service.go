package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"hotelbooking/internal/domain"
	"hotelbooking/internal/pkg/clock"
	"hotelbooking/internal/repository"
)

// Service orchestrates payment records and keeps booking.PaymentStatus and
// the booking's invoice synchronized with payment state. Capture is
// simulated: no real gateway is called, only a short delay models its
// latency.
type Service struct {
	db       *gorm.DB
	payments *repository.PaymentRepository
	bookings *repository.BookingRepository
	invoices *repository.InvoiceRepository
	clock    clock.Clock
	log      *logrus.Logger

	captureDelay time.Duration
}

func NewService(
	db *gorm.DB,
	payments *repository.PaymentRepository,
	bookings *repository.BookingRepository,
	invoices *repository.InvoiceRepository,
	clk clock.Clock,
	log *logrus.Logger,
) *Service {
	if log == nil {
		log = logrus.New()
	}
	return &Service{
		db:           db,
		payments:     payments,
		bookings:     bookings,
		invoices:     invoices,
		clock:        clk,
		log:          log,
		captureDelay: 50 * time.Millisecond,
	}
}

// CreatePayment records a new payment attempt for a live booking.
func (s *Service) CreatePayment(ctx context.Context, bookingID int64, method domain.PaymentMethod, amount float64) (*domain.Payment, error) {
	if !method.Valid() {
		return nil, ErrInvalidMethod
	}
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	var p *domain.Payment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		b, err := s.bookings.WithTx(tx).GetByID(ctx, bookingID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return err
		}
		if b.Status == domain.BookingCancelled {
			return ErrBookingCancelled
		}

		p = &domain.Payment{
			BookingID: bookingID,
			Method:    method,
			Amount:    amount,
			Status:    domain.PaymentUnpaid,
		}
		return s.payments.WithTx(tx).Create(ctx, p)
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// ProcessPayment simulates the gateway capture of a mock payment. On
// success it stores a transaction code and, once the sum of paid payments
// covers the booking's final amount, flips booking.PaymentStatus to paid,
// marks an issued invoice paid, and confirms a still-pending booking when
// no competing stay blocks it.
func (s *Service) ProcessPayment(ctx context.Context, paymentID int64) (*domain.Payment, error) {
	// Model gateway latency outside the transaction.
	time.Sleep(s.captureDelay)

	var p *domain.Payment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		p, err = s.payments.WithTx(tx).GetByID(ctx, paymentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPaymentNotFound
			}
			return err
		}
		switch p.Status {
		case domain.PaymentPaid:
			return ErrAlreadyPaid
		case domain.PaymentRefunded:
			return ErrAlreadyRefunded
		}
		if p.Method != domain.PaymentMethodMock {
			return ErrNotCapturable
		}

		b, err := s.bookings.WithTx(tx).GetByID(ctx, p.BookingID)
		if err != nil {
			return err
		}
		if b.Status == domain.BookingCancelled {
			return ErrBookingCancelled
		}

		now := s.clock.Now()
		code := "TXN-" + uuid.NewString()
		p.Status = domain.PaymentPaid
		p.TransactionCode = &code
		p.PaidAt = &now
		if err := s.payments.WithTx(tx).Save(ctx, p); err != nil {
			return err
		}

		paidTotal, err := s.payments.WithTx(tx).SumPaid(ctx, b.ID)
		if err != nil {
			return err
		}
		if paidTotal >= b.FinalAmount() && b.PaymentStatus != domain.PaymentPaid {
			b.PaymentStatus = domain.PaymentPaid
			if err := s.syncInvoicePaid(ctx, tx, b.ID, string(p.Method), now); err != nil {
				return err
			}
			s.confirmIfFree(ctx, tx, b)
			if err := s.bookings.WithTx(tx).Save(ctx, b); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"payment_id": p.ID,
		"booking_id": p.BookingID,
		"amount":     p.Amount,
	}).Info("payment captured")
	return p, nil
}

// ProcessRefund flips a paid payment to refunded. The booking follows only
// when no other paid payment remains for it.
func (s *Service) ProcessRefund(ctx context.Context, paymentID int64, reason string) (*domain.Payment, error) {
	var p *domain.Payment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		p, err = s.payments.WithTx(tx).GetByID(ctx, paymentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPaymentNotFound
			}
			return err
		}
		if p.Status != domain.PaymentPaid {
			return ErrNotPaid
		}

		now := s.clock.Now()
		p.Status = domain.PaymentRefunded
		p.RefundedAt = &now
		p.FailureReason = reason
		if err := s.payments.WithTx(tx).Save(ctx, p); err != nil {
			return err
		}

		otherPaid, err := s.payments.WithTx(tx).HasOtherPaid(ctx, p.BookingID, p.ID)
		if err != nil {
			return err
		}
		if !otherPaid {
			b, err := s.bookings.WithTx(tx).GetByID(ctx, p.BookingID)
			if err != nil {
				return err
			}
			b.PaymentStatus = domain.PaymentRefunded
			if err := s.bookings.WithTx(tx).Save(ctx, b); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"payment_id": p.ID,
		"booking_id": p.BookingID,
		"reason":     reason,
	}).Info("payment refunded")
	return p, nil
}

// MarkFailed records a failed capture. Disallowed once the payment is paid.
func (s *Service) MarkFailed(ctx context.Context, paymentID int64, reason string) (*domain.Payment, error) {
	var p *domain.Payment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		p, err = s.payments.WithTx(tx).GetByID(ctx, paymentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPaymentNotFound
			}
			return err
		}
		switch p.Status {
		case domain.PaymentPaid:
			return ErrAlreadyPaid
		case domain.PaymentRefunded:
			return ErrAlreadyRefunded
		}

		p.Status = domain.PaymentFailed
		p.FailureReason = reason
		if err := s.payments.WithTx(tx).Save(ctx, p); err != nil {
			return err
		}

		b, err := s.bookings.WithTx(tx).GetByID(ctx, p.BookingID)
		if err != nil {
			return err
		}
		if b.PaymentStatus == domain.PaymentUnpaid {
			b.PaymentStatus = domain.PaymentFailed
			if err := s.bookings.WithTx(tx).Save(ctx, b); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) GetPayment(ctx context.Context, id int64) (*domain.Payment, error) {
	p, err := s.payments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *Service) ListBookingPayments(ctx context.Context, bookingID int64) ([]domain.Payment, error) {
	return s.payments.ListByBooking(ctx, bookingID)
}

// syncInvoicePaid marks the booking's issued invoice paid when one exists.
func (s *Service) syncInvoicePaid(ctx context.Context, tx *gorm.DB, bookingID int64, method string, now time.Time) error {
	inv, err := s.invoices.WithTx(tx).GetByBookingID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	if !inv.Status.CanPay() {
		return nil
	}
	inv.Status = domain.InvoicePaid
	inv.PaymentMethod = method
	inv.PaidAt = &now
	return s.invoices.WithTx(tx).Save(ctx, inv)
}

// confirmIfFree promotes a fully paid pending booking to confirmed, unless
// a competing confirmed stay won the room in the meantime; in that case the
// booking stays pending and the conflict is left for explicit confirmation
// to surface.
func (s *Service) confirmIfFree(ctx context.Context, tx *gorm.DB, b *domain.Booking) {
	if b.Status != domain.BookingPending || b.Room == nil || b.Room.RoomID == nil {
		return
	}
	conflicts, err := s.bookings.WithTx(tx).CountOverlapping(ctx, *b.Room.RoomID, b.CheckInDate, b.CheckOutDate, b.ID)
	if err != nil {
		s.log.WithField("booking_id", b.ID).Warn(fmt.Sprintf("availability recheck failed, booking left pending: %v", err))
		return
	}
	if conflicts > 0 {
		s.log.WithField("booking_id", b.ID).Warn("room contested by a confirmed stay, paid booking left pending")
		return
	}
	b.Status = domain.BookingConfirmed
}
