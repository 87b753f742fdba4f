package pricing

import (
	"context"
	"math"
	"time"

	"gorm.io/gorm"

	"hotelbooking/internal/domain"
	"hotelbooking/internal/repository"
)

// Engine computes nightly and total stay prices from rate plans, with a
// base-price fallback that synthesizes a standard plan.
type Engine struct {
	plans *repository.RatePlanRepository
}

func NewEngine(plans *repository.RatePlanRepository) *Engine {
	return &Engine{plans: plans}
}

func (e *Engine) WithTx(tx *gorm.DB) *Engine {
	return &Engine{plans: e.plans.WithTx(tx)}
}

// ResolvePlan picks the rate plan for a stay. When no plan of the room type
// covers the whole window, a 24h free-cancellation "Standard Rate (Auto)"
// plan is synthesized from the room type's base price and persisted, so
// every booking carries a usable snapshot.
func (e *Engine) ResolvePlan(ctx context.Context, roomType *domain.RoomType, checkIn, checkOut time.Time) (*domain.RatePlan, error) {
	plan, err := e.plans.FindForStay(ctx, roomType.ID, checkIn, checkOut)
	if err != nil {
		return nil, err
	}
	if plan != nil {
		return plan, nil
	}

	auto := &domain.RatePlan{
		RoomTypeID:      roomType.ID,
		Name:            domain.StandardRatePlanName,
		Type:            domain.RatePlanFlexible,
		PricePerNight:   roomType.BasePrice,
		ValidFrom:       checkIn,
		ValidTo:         checkOut,
		FreeCancelHours: 24,
	}
	if err := e.plans.Create(ctx, auto); err != nil {
		return nil, err
	}
	return auto, nil
}

// NightlyPrice is the price of one night starting on date. The weekend
// adjustment applies on Saturday and Sunday when the plan defines one.
func (e *Engine) NightlyPrice(plan *domain.RatePlan, roomType *domain.RoomType, date time.Time) float64 {
	if plan == nil || !plan.Covers(date, date) {
		return roomType.BasePrice
	}
	price := plan.PricePerNight
	if plan.WeekendAdjustPercent != nil && isWeekend(date) {
		price = price * (1 + *plan.WeekendAdjustPercent/100)
	}
	return price
}

// ComputeTotal sums nightly prices over [checkIn, checkOut), rounded to 2dp.
func (e *Engine) ComputeTotal(plan *domain.RatePlan, roomType *domain.RoomType, checkIn, checkOut time.Time) float64 {
	total := 0.0
	for d := checkIn; d.Before(checkOut); d = d.AddDate(0, 0, 1) {
		total += e.NightlyPrice(plan, roomType, d)
	}
	return Round2(total)
}

// SnapshotTotal recomputes a stay total from a booking's immutable snapshot,
// used when dates change after the live plan may have drifted or vanished.
func SnapshotTotal(s domain.RatePlanSnapshot, checkIn, checkOut time.Time) float64 {
	total := 0.0
	for d := checkIn; d.Before(checkOut); d = d.AddDate(0, 0, 1) {
		price := s.PricePerNight
		if s.WeekendAdjustPercent != nil && isWeekend(d) {
			price = price * (1 + *s.WeekendAdjustPercent/100)
		}
		total += price
	}
	return Round2(total)
}

func isWeekend(d time.Time) bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// Round2 rounds monetary amounts to 2 decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
