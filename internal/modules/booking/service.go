package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"hotelbooking/internal/domain"
	"hotelbooking/internal/modules/pricing"
	"hotelbooking/internal/modules/promotion"
	"hotelbooking/internal/modules/refund"
	"hotelbooking/internal/pkg/clock"
	"hotelbooking/internal/repository"
)

// Service drives the booking lifecycle: creation, modification,
// cancellation, check-in/check-out and promotion handling. Every mutating
// operation re-validates its preconditions inside the owning transaction;
// the database transaction is the sole concurrency mechanism.
type Service struct {
	db       *gorm.DB
	bookings *repository.BookingRepository
	rooms    *repository.RoomRepository
	guests   *repository.GuestRepository
	pricing  *pricing.Engine
	promos   *promotion.Ledger
	refunds  *refund.Engine
	clock    clock.Clock
}

func NewService(
	db *gorm.DB,
	bookings *repository.BookingRepository,
	rooms *repository.RoomRepository,
	guests *repository.GuestRepository,
	pricingEngine *pricing.Engine,
	promos *promotion.Ledger,
	refunds *refund.Engine,
	clk clock.Clock,
) *Service {
	return &Service{
		db:       db,
		bookings: bookings,
		rooms:    rooms,
		guests:   guests,
		pricing:  pricingEngine,
		promos:   promos,
		refunds:  refunds,
		clock:    clk,
	}
}

func normalizeDate(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// CreateBooking verifies dates, capacity and availability inside one
// transaction and persists the booking with its room line and an immutable
// rate-plan snapshot. The new booking starts pending/unpaid; pending
// bookings do not block availability (see CountOverlapping).
func (s *Service) CreateBooking(ctx context.Context, req CreateParams) (*domain.Booking, error) {
	checkIn := normalizeDate(req.CheckIn)
	checkOut := normalizeDate(req.CheckOut)
	if !checkIn.Before(checkOut) || req.Guests <= 0 {
		return nil, ErrValidation
	}

	var b *domain.Booking
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		room, err := s.rooms.WithTx(tx).GetByID(ctx, req.RoomID)
		if err != nil {
			if isNotFound(err) {
				return ErrRoomNotFound
			}
			return err
		}
		if room.HotelID != req.HotelID || room.RoomType == nil {
			return ErrRoomNotFound
		}
		if room.Capacity < req.Guests {
			return ErrCapacityExceeded
		}

		guest, err := s.guests.WithTx(tx).FindOrCreateForUser(ctx, req.UserID)
		if err != nil {
			return err
		}

		conflicts, err := s.bookings.WithTx(tx).CountOverlapping(ctx, room.ID, checkIn, checkOut, 0)
		if err != nil {
			return err
		}
		if conflicts > 0 {
			return ErrNotAvailable
		}

		plan, err := s.pricing.WithTx(tx).ResolvePlan(ctx, room.RoomType, checkIn, checkOut)
		if err != nil {
			return fmt.Errorf("resolve rate plan: %w", err)
		}
		total := s.pricing.ComputeTotal(plan, room.RoomType, checkIn, checkOut)
		nights := int(checkOut.Sub(checkIn).Hours() / 24)

		roomID := room.ID
		b = &domain.Booking{
			HotelID:          req.HotelID,
			GuestID:          guest.ID,
			CheckInDate:      checkIn,
			CheckOutDate:     checkOut,
			GuestCount:       req.Guests,
			Status:           domain.BookingPending,
			PaymentStatus:    domain.PaymentUnpaid,
			TotalAmount:      total,
			RatePlanSnapshot: datatypes.NewJSONType(domain.SnapshotOf(plan)),
			Room: &domain.BookingRoom{
				RoomID:        &roomID,
				PricePerNight: plan.PricePerNight,
				Nights:        nights,
			},
		}
		return s.bookings.WithTx(tx).Create(ctx, b)
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}

// ConfirmBooking flips pending to confirmed after re-validating that no
// competing confirmed stay appeared since creation. This is the
// reconciliation point for the double-pending race: the first confirmation
// wins, the second is rejected here.
func (s *Service) ConfirmBooking(ctx context.Context, id int64) (*domain.Booking, error) {
	var b *domain.Booking
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		b, err = s.bookings.WithTx(tx).GetByID(ctx, id)
		if err != nil {
			if isNotFound(err) {
				return ErrNotFound
			}
			return err
		}
		if b.Status != domain.BookingPending {
			return ErrInvalidStatusTransition
		}

		if b.Room != nil && b.Room.RoomID != nil {
			conflicts, err := s.bookings.WithTx(tx).CountOverlapping(ctx, *b.Room.RoomID, b.CheckInDate, b.CheckOutDate, b.ID)
			if err != nil {
				return err
			}
			if conflicts > 0 {
				return ErrNotAvailable
			}
		}

		b.Status = domain.BookingConfirmed
		return s.bookings.WithTx(tx).Save(ctx, b)
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}

// ModifyBooking changes the dates and/or room of a live booking. The new
// interval must start today or later and pass the availability check
// excluding the booking itself. Date changes recompute nights and total
// from the rate-plan snapshot; a move to a room of a different type
// re-prices against that type's current plan. Either way an active
// promotion is re-applied to the new total. Returns false without
// touching anything when nothing changed.
func (s *Service) ModifyBooking(ctx context.Context, id int64, params ModifyParams) (bool, error) {
	changed := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		b, err := s.bookings.WithTx(tx).GetByID(ctx, id)
		if err != nil {
			if isNotFound(err) {
				return ErrNotFound
			}
			return err
		}
		if !b.Status.CanModify() {
			return ErrInvalidStatusTransition
		}

		newIn, newOut := b.CheckInDate, b.CheckOutDate
		if params.CheckIn != nil {
			newIn = normalizeDate(*params.CheckIn)
		}
		if params.CheckOut != nil {
			newOut = normalizeDate(*params.CheckOut)
		}
		datesChanged := !newIn.Equal(b.CheckInDate) || !newOut.Equal(b.CheckOutDate)

		oldRoomID := int64(0)
		if b.Room != nil && b.Room.RoomID != nil {
			oldRoomID = *b.Room.RoomID
		}
		targetRoomID := oldRoomID
		roomChanged := params.RoomID != nil && *params.RoomID != targetRoomID
		if roomChanged {
			targetRoomID = *params.RoomID
		}

		if !datesChanged && !roomChanged {
			return nil
		}

		if datesChanged {
			if !newIn.Before(newOut) {
				return ErrValidation
			}
			if newIn.Before(clock.Today(s.clock)) {
				return ErrValidation
			}
		}

		var newRoom *domain.Room
		if roomChanged {
			newRoom, err = s.rooms.WithTx(tx).GetByID(ctx, targetRoomID)
			if err != nil {
				if isNotFound(err) {
					return ErrRoomNotFound
				}
				return err
			}
			if newRoom.HotelID != b.HotelID || newRoom.RoomType == nil {
				return ErrRoomNotFound
			}
			if newRoom.Capacity < b.GuestCount {
				return ErrCapacityExceeded
			}
		}

		conflicts, err := s.bookings.WithTx(tx).CountOverlapping(ctx, targetRoomID, newIn, newOut, b.ID)
		if err != nil {
			return err
		}
		if conflicts > 0 {
			return ErrNotAvailable
		}

		if datesChanged {
			b.CheckInDate = newIn
			b.CheckOutDate = newOut
			if b.Room != nil {
				b.Room.Nights = int(newOut.Sub(newIn).Hours() / 24)
			}
		}

		// A move within the same room type keeps the rate locked at
		// creation; crossing room types re-prices against the new type's
		// current plan and refreshes the snapshot.
		repriced := false
		if roomChanged && b.Room != nil {
			sameType := false
			if oldRoomID != 0 {
				oldRoom, err := s.rooms.WithTx(tx).GetByID(ctx, oldRoomID)
				if err != nil && !isNotFound(err) {
					return err
				}
				sameType = err == nil && oldRoom.RoomTypeID == newRoom.RoomTypeID
			}
			if !sameType {
				plan, err := s.pricing.WithTx(tx).ResolvePlan(ctx, newRoom.RoomType, newIn, newOut)
				if err != nil {
					return fmt.Errorf("resolve rate plan: %w", err)
				}
				b.RatePlanSnapshot = datatypes.NewJSONType(domain.SnapshotOf(plan))
				b.TotalAmount = s.pricing.ComputeTotal(plan, newRoom.RoomType, newIn, newOut)
				b.Room.PricePerNight = plan.PricePerNight
				repriced = true
			}
			b.Room.RoomID = &targetRoomID
		}
		if datesChanged && !repriced {
			snap := b.RatePlanSnapshot.Data()
			b.TotalAmount = pricing.SnapshotTotal(snap, newIn, newOut)
		}
		if (datesChanged || repriced) && b.PromotionID != nil {
			promo, err := repository.NewPromotionRepository(tx).GetByID(ctx, *b.PromotionID)
			if err != nil {
				return err
			}
			b.DiscountAmount = s.promos.CalculateDiscount(promo, b.TotalAmount)
		}

		now := s.clock.Now()
		b.ModifiedAt = &now
		if b.Room != nil {
			if err := s.bookings.WithTx(tx).SaveRoom(ctx, b.Room); err != nil {
				return err
			}
		}
		if err := s.bookings.WithTx(tx).Save(ctx, b); err != nil {
			return err
		}
		changed = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return changed, nil
}

// CancelBooking evaluates the refund policy, marks the booking cancelled
// and syncs the payment status. The refund amount is reported, not
// executed; invoking the payment refund is a separate orchestrator call.
func (s *Service) CancelBooking(ctx context.Context, id int64, reason string) (*CancelResult, error) {
	var result *CancelResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		b, err := s.bookings.WithTx(tx).GetByID(ctx, id)
		if err != nil {
			if isNotFound(err) {
				return ErrNotFound
			}
			return err
		}
		if !b.Status.CanCancel() {
			return ErrInvalidStatusTransition
		}

		refundAmount := s.refunds.ComputeRefund(b)

		now := s.clock.Now()
		b.Status = domain.BookingCancelled
		b.CancelledAt = &now
		b.CancellationReason = reason
		if b.PaymentStatus == domain.PaymentPaid && refundAmount > 0 {
			b.PaymentStatus = domain.PaymentRefunded
		}
		if err := s.bookings.WithTx(tx).Save(ctx, b); err != nil {
			return err
		}

		result = &CancelResult{
			RefundAmount: refundAmount,
			Message:      "booking cancelled",
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// CheckIn requires a confirmed booking whose check-in date has arrived and
// no prior actual check-in.
func (s *Service) CheckIn(ctx context.Context, id int64) (*domain.Booking, error) {
	var b *domain.Booking
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		b, err = s.bookings.WithTx(tx).GetByID(ctx, id)
		if err != nil {
			if isNotFound(err) {
				return ErrNotFound
			}
			return err
		}
		if b.Status != domain.BookingConfirmed || b.CheckInActualAt != nil {
			return ErrInvalidStatusTransition
		}
		if b.CheckInDate.After(clock.Today(s.clock)) {
			return ErrCheckInTooEarly
		}

		now := s.clock.Now()
		b.Status = domain.BookingCheckedIn
		b.CheckInActualAt = &now
		return s.bookings.WithTx(tx).Save(ctx, b)
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}

// CheckOut closes a checked-in stay.
func (s *Service) CheckOut(ctx context.Context, id int64) (*domain.Booking, error) {
	var b *domain.Booking
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		b, err = s.bookings.WithTx(tx).GetByID(ctx, id)
		if err != nil {
			if isNotFound(err) {
				return ErrNotFound
			}
			return err
		}
		if b.Status != domain.BookingCheckedIn || b.CheckOutActualAt != nil {
			return ErrInvalidStatusTransition
		}

		now := s.clock.Now()
		b.Status = domain.BookingCheckedOut
		b.CheckOutActualAt = &now
		return s.bookings.WithTx(tx).Save(ctx, b)
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}

// ApplyPromotion validates the code against the booking total and claims
// one use inside the same transaction that stores the discount. A booking
// holds at most one active promotion.
func (s *Service) ApplyPromotion(ctx context.Context, id int64, code string) (float64, error) {
	var discount float64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		b, err := s.bookings.WithTx(tx).GetByID(ctx, id)
		if err != nil {
			if isNotFound(err) {
				return ErrNotFound
			}
			return err
		}
		if b.Status.IsTerminal() {
			return ErrInvalidStatusTransition
		}
		if b.PromotionID != nil {
			return ErrPromotionAlreadyApplied
		}

		hasOthers, err := s.guests.WithTx(tx).HasOtherBookings(ctx, b.GuestID, b.ID)
		if err != nil {
			return err
		}

		ledger := s.promos.WithTx(tx)
		promo, err := ledger.Validate(ctx, code, b.TotalAmount, !hasOthers)
		if err != nil {
			return err
		}
		if err := ledger.Claim(ctx, promo); err != nil {
			return err
		}

		discount = ledger.CalculateDiscount(promo, b.TotalAmount)
		b.PromotionID = &promo.ID
		b.DiscountAmount = discount
		return s.bookings.WithTx(tx).Save(ctx, b)
	})
	if err != nil {
		return 0, err
	}
	return discount, nil
}

// RemovePromotion releases the claimed use and clears the discount.
func (s *Service) RemovePromotion(ctx context.Context, id int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		b, err := s.bookings.WithTx(tx).GetByID(ctx, id)
		if err != nil {
			if isNotFound(err) {
				return ErrNotFound
			}
			return err
		}
		if b.PromotionID == nil {
			return ErrNoPromotionApplied
		}
		if b.Status.IsTerminal() {
			return ErrInvalidStatusTransition
		}

		if err := s.promos.WithTx(tx).Release(ctx, *b.PromotionID); err != nil {
			return err
		}
		b.PromotionID = nil
		b.DiscountAmount = 0
		return s.bookings.WithTx(tx).Save(ctx, b)
	})
}

func (s *Service) GetBooking(ctx context.Context, id int64) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return b, nil
}

// ListUserBookings returns the bookings of the guest behind a user id,
// newest first.
func (s *Service) ListUserBookings(ctx context.Context, userID int64, limit, offset int) ([]domain.Booking, error) {
	guest, err := s.guests.FindOrCreateForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.bookings.ListByGuest(ctx, guest.ID, limit, offset)
}

// IsAvailable answers the availability question outside of any mutation,
// for the search/catalog surface.
func (s *Service) IsAvailable(ctx context.Context, roomID int64, checkIn, checkOut time.Time) (bool, error) {
	cnt, err := s.bookings.CountOverlapping(ctx, roomID, normalizeDate(checkIn), normalizeDate(checkOut), 0)
	if err != nil {
		return false, err
	}
	return cnt == 0, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
