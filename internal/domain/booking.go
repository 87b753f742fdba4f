package domain

import (
	"time"

	"gorm.io/datatypes"
)

type BookingStatus string

const (
	BookingPending    BookingStatus = "pending"
	BookingConfirmed  BookingStatus = "confirmed"
	BookingCheckedIn  BookingStatus = "checked_in"
	BookingCheckedOut BookingStatus = "checked_out"
	BookingCancelled  BookingStatus = "cancelled"
)

// IsTerminal reports whether no further lifecycle transition is allowed.
func (s BookingStatus) IsTerminal() bool {
	return s == BookingCheckedOut || s == BookingCancelled
}

// CanCancel reports whether a booking in this status may be cancelled.
// Checked-in stays must be checked out, not cancelled.
func (s BookingStatus) CanCancel() bool {
	switch s {
	case BookingPending, BookingConfirmed:
		return true
	case BookingCheckedIn, BookingCheckedOut, BookingCancelled:
		return false
	default:
		return false
	}
}

// CanModify reports whether dates/room of a booking in this status may change.
func (s BookingStatus) CanModify() bool {
	switch s {
	case BookingPending, BookingConfirmed:
		return true
	case BookingCheckedIn, BookingCheckedOut, BookingCancelled:
		return false
	default:
		return false
	}
}

type PaymentStatus string

const (
	PaymentUnpaid   PaymentStatus = "unpaid"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
	PaymentFailed   PaymentStatus = "failed"
)

type Booking struct {
	ID      int64 `gorm:"primaryKey" json:"id"`
	HotelID int64 `gorm:"index;not null" json:"hotel_id" validate:"required"`
	GuestID int64 `gorm:"index;not null" json:"guest_id" validate:"required"`

	// Date-only semantics: both stored at midnight UTC, stay is [CheckInDate, CheckOutDate).
	CheckInDate  time.Time `gorm:"not null;index" json:"check_in_date" validate:"required"`
	CheckOutDate time.Time `gorm:"not null" json:"check_out_date" validate:"required"`
	GuestCount   int       `gorm:"not null" json:"guest_count" validate:"required,gt=0"`

	Status        BookingStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	PaymentStatus PaymentStatus `gorm:"type:varchar(20);not null" json:"payment_status"`

	TotalAmount    float64 `gorm:"not null" json:"total_amount"`
	DiscountAmount float64 `gorm:"not null;default:0" json:"discount_amount"`
	PromotionID    *int64  `gorm:"index" json:"promotion_id,omitempty"`

	// Immutable copy of the rate plan at booking time; the live plan may later
	// change or be deleted without affecting this booking.
	RatePlanSnapshot datatypes.JSONType[RatePlanSnapshot] `gorm:"column:rate_plan_snapshot" json:"rate_plan_snapshot"`

	CancellationReason string     `gorm:"type:text" json:"cancellation_reason,omitempty"`
	CancelledAt        *time.Time `json:"cancelled_at,omitempty"`
	ModifiedAt         *time.Time `json:"modified_at,omitempty"`
	CheckInActualAt    *time.Time `json:"check_in_actual_at,omitempty"`
	CheckOutActualAt   *time.Time `json:"check_out_actual_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Room      *BookingRoom `gorm:"foreignKey:BookingID;constraint:OnDelete:CASCADE" json:"room,omitempty"`
	Promotion *Promotion   `gorm:"foreignKey:PromotionID" json:"promotion,omitempty"`
}

func (Booking) TableName() string { return "bookings" }

// FinalAmount is the post-discount total, the basis for refunds and invoices.
func (b *Booking) FinalAmount() float64 {
	f := b.TotalAmount - b.DiscountAmount
	if f < 0 {
		return 0
	}
	return f
}

func (b *Booking) Nights() int {
	return int(b.CheckOutDate.Sub(b.CheckInDate).Hours() / 24)
}

// BookingRoom holds the room assignment of a booking (one per booking in the
// current model). RoomID is nullable so deleting a room keeps the booking.
type BookingRoom struct {
	ID            int64   `gorm:"primaryKey" json:"id"`
	BookingID     int64   `gorm:"uniqueIndex;not null" json:"booking_id"`
	RoomID        *int64  `gorm:"index" json:"room_id,omitempty"`
	PricePerNight float64 `gorm:"not null" json:"price_per_night"`
	Nights        int     `gorm:"not null" json:"nights"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (BookingRoom) TableName() string { return "booking_rooms" }
