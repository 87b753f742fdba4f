package domain

import "time"

type RatePlanType string

const (
	RatePlanFlexible      RatePlanType = "flexible"
	RatePlanNonRefundable RatePlanType = "non_refundable"
)

// StandardRatePlanName is used for the plan synthesized when a room type has
// no explicit rate plan covering the stay.
const StandardRatePlanName = "Standard Rate (Auto)"

type RatePlan struct {
	ID         int64        `gorm:"primaryKey" json:"id"`
	RoomTypeID int64        `gorm:"index;not null" json:"room_type_id" validate:"required"`
	Name       string       `gorm:"size:128;not null" json:"name" validate:"required"`
	Type       RatePlanType `gorm:"type:varchar(20);not null" json:"type"`

	PricePerNight float64   `gorm:"not null" json:"price_per_night" validate:"gte=0"`
	ValidFrom     time.Time `gorm:"not null" json:"valid_from"`
	ValidTo       time.Time `gorm:"not null" json:"valid_to"`

	// Hours before check-in during which cancellation is still free.
	FreeCancelHours int `gorm:"not null;default:24" json:"free_cancel_hours"`

	// Optional Sat/Sun surcharge: price * (1 + pct/100).
	WeekendAdjustPercent *float64 `json:"weekend_adjust_percent,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (RatePlan) TableName() string { return "rate_plans" }

// Covers reports whether the validity window contains the whole stay.
func (p *RatePlan) Covers(checkIn, checkOut time.Time) bool {
	return !checkIn.Before(p.ValidFrom) && !checkOut.After(p.ValidTo)
}

// RatePlanSnapshot is the immutable rate-plan copy stored on a booking.
// It is serialized to JSON only at the persistence boundary.
type RatePlanSnapshot struct {
	Name                 string       `json:"name"`
	Type                 RatePlanType `json:"type"`
	PricePerNight        float64      `json:"price_per_night"`
	ValidFrom            time.Time    `json:"valid_from"`
	ValidTo              time.Time    `json:"valid_to"`
	FreeCancelHours      int          `json:"free_cancel_hours"`
	WeekendAdjustPercent *float64     `json:"weekend_adjust_percent,omitempty"`
}

func SnapshotOf(p *RatePlan) RatePlanSnapshot {
	return RatePlanSnapshot{
		Name:                 p.Name,
		Type:                 p.Type,
		PricePerNight:        p.PricePerNight,
		ValidFrom:            p.ValidFrom,
		ValidTo:              p.ValidTo,
		FreeCancelHours:      p.FreeCancelHours,
		WeekendAdjustPercent: p.WeekendAdjustPercent,
	}
}

// FreeCancelDeadline is the last instant at which cancelling still refunds in full.
func (s RatePlanSnapshot) FreeCancelDeadline(checkIn time.Time) time.Time {
	return checkIn.Add(-time.Duration(s.FreeCancelHours) * time.Hour)
}
