package refund

import (
	"hotelbooking/internal/domain"
	"hotelbooking/internal/modules/pricing"
	"hotelbooking/internal/pkg/clock"
)

// lateCancelRefundFraction is the flat penalty applied after the free
// cancellation window closes. A fixed policy constant, not per rate plan.
const lateCancelRefundFraction = 0.5

// Engine evaluates how much of a booking's final amount is refundable on
// cancellation, based on the rate-plan snapshot and the current time.
type Engine struct {
	clock clock.Clock
}

func NewEngine(clk clock.Clock) *Engine {
	return &Engine{clock: clk}
}

// ComputeRefund returns the refundable amount for cancelling now.
//   - terminal bookings refund nothing
//   - non-refundable snapshots refund nothing regardless of timing
//   - inside the free-cancellation window the full final amount is returned
//   - afterwards the flat late-cancellation fraction applies
func (e *Engine) ComputeRefund(b *domain.Booking) float64 {
	if b.Status.IsTerminal() {
		return 0
	}

	snap := b.RatePlanSnapshot.Data()
	if snap.Type == domain.RatePlanNonRefundable {
		return 0
	}

	final := b.FinalAmount()
	if e.clock.Now().Before(snap.FreeCancelDeadline(b.CheckInDate)) {
		return pricing.Round2(final)
	}
	return pricing.Round2(final * lateCancelRefundFraction)
}
