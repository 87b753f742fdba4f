package refund

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"

	"hotelbooking/internal/domain"
	"hotelbooking/internal/pkg/clock"
)

var checkIn = time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)

func booking(planType domain.RatePlanType, freeCancelHours int, total, discount float64, status domain.BookingStatus) *domain.Booking {
	return &domain.Booking{
		Status:         status,
		CheckInDate:    checkIn,
		CheckOutDate:   checkIn.AddDate(0, 0, 3),
		TotalAmount:    total,
		DiscountAmount: discount,
		RatePlanSnapshot: datatypes.NewJSONType(domain.RatePlanSnapshot{
			Type:            planType,
			FreeCancelHours: freeCancelHours,
		}),
	}
}

func TestFullRefundInsideFreeWindow(t *testing.T) {
	// 25h before check-in, deadline is at 24h
	e := NewEngine(clock.Fixed{T: checkIn.Add(-25 * time.Hour)})
	b := booking(domain.RatePlanFlexible, 24, 300, 0, domain.BookingConfirmed)
	assert.Equal(t, 300.0, e.ComputeRefund(b))
}

func TestHalfRefundPastDeadline(t *testing.T) {
	e := NewEngine(clock.Fixed{T: checkIn.Add(-23 * time.Hour)})
	b := booking(domain.RatePlanFlexible, 24, 300, 0, domain.BookingConfirmed)
	assert.Equal(t, 150.0, e.ComputeRefund(b))
}

func TestDeadlineInstantItselfIsLate(t *testing.T) {
	e := NewEngine(clock.Fixed{T: checkIn.Add(-24 * time.Hour)})
	b := booking(domain.RatePlanFlexible, 24, 300, 0, domain.BookingConfirmed)
	assert.Equal(t, 150.0, e.ComputeRefund(b), "exactly at the deadline the free window is over")
}

func TestNonRefundableAlwaysZero(t *testing.T) {
	// even a month ahead
	e := NewEngine(clock.Fixed{T: checkIn.AddDate(0, -1, 0)})
	b := booking(domain.RatePlanNonRefundable, 0, 300, 0, domain.BookingConfirmed)
	assert.Equal(t, 0.0, e.ComputeRefund(b))
}

func TestRefundBasedOnDiscountedAmount(t *testing.T) {
	e := NewEngine(clock.Fixed{T: checkIn.Add(-48 * time.Hour)})
	b := booking(domain.RatePlanFlexible, 24, 300, 60, domain.BookingConfirmed)
	assert.Equal(t, 240.0, e.ComputeRefund(b), "refund applies to the post-discount total")
}

func TestTerminalBookingsRefundNothing(t *testing.T) {
	e := NewEngine(clock.Fixed{T: checkIn.Add(-48 * time.Hour)})

	cancelled := booking(domain.RatePlanFlexible, 24, 300, 0, domain.BookingCancelled)
	assert.Equal(t, 0.0, e.ComputeRefund(cancelled))

	checkedOut := booking(domain.RatePlanFlexible, 24, 300, 0, domain.BookingCheckedOut)
	assert.Equal(t, 0.0, e.ComputeRefund(checkedOut))
}

func TestLongFreeCancellationWindow(t *testing.T) {
	// 72h plans keep the full refund further out
	e := NewEngine(clock.Fixed{T: checkIn.Add(-80 * time.Hour)})
	b := booking(domain.RatePlanFlexible, 72, 300, 0, domain.BookingConfirmed)
	assert.Equal(t, 300.0, e.ComputeRefund(b))

	late := NewEngine(clock.Fixed{T: checkIn.Add(-71 * time.Hour)})
	assert.Equal(t, 150.0, late.ComputeRefund(b))
}
