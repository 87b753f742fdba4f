package promotion

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"hotelbooking/internal/domain"
	"hotelbooking/internal/modules/pricing"
	"hotelbooking/internal/pkg/clock"
	"hotelbooking/internal/repository"
)

// Ledger validates promotion codes and tracks their usage counters
// transactionally. A booking holds at most one active promotion.
type Ledger struct {
	promos *repository.PromotionRepository
	clock  clock.Clock
}

func NewLedger(promos *repository.PromotionRepository, clk clock.Clock) *Ledger {
	return &Ledger{promos: promos, clock: clk}
}

func (l *Ledger) WithTx(tx *gorm.DB) *Ledger {
	return &Ledger{promos: l.promos.WithTx(tx), clock: l.clock}
}

// Create registers a new promotion code.
func (l *Ledger) Create(ctx context.Context, p *domain.Promotion) error {
	if err := l.promos.Create(ctx, p); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return ErrCodeTaken
		}
		return err
	}
	return nil
}

// GetByCode fetches a promotion without evaluating its conditions.
func (l *Ledger) GetByCode(ctx context.Context, code string) (*domain.Promotion, error) {
	p, err := l.promos.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

// Validate checks a code against, in order: existence, validity window,
// usage limit, minimum order amount, and the new-customer restriction.
func (l *Ledger) Validate(ctx context.Context, code string, orderAmount float64, isNewCustomer bool) (*domain.Promotion, error) {
	p, err := l.promos.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if !p.ActiveAt(l.clock.Now()) {
		return nil, ErrNotActive
	}

	cond := p.Conditions.Data()
	if cond.MaxUsageCount > 0 && p.CurrentUsageCount >= cond.MaxUsageCount {
		return nil, ErrUsageLimit
	}
	if cond.MinOrderValue > 0 && orderAmount < cond.MinOrderValue {
		return nil, ErrMinOrderNotMet
	}
	if cond.NewCustomerOnly && !isNewCustomer {
		return nil, ErrNewCustomerOnly
	}
	return p, nil
}

// CalculateDiscount computes the discount for an order. Percent promotions
// are capped at MaxDiscountAmount when set; the result never exceeds the
// order amount, so the final total cannot go negative.
func (l *Ledger) CalculateDiscount(p *domain.Promotion, orderAmount float64) float64 {
	cond := p.Conditions.Data()

	var discount float64
	switch p.Type {
	case domain.PromotionPercent:
		discount = orderAmount * p.Value / 100
		if cond.MaxDiscountAmount > 0 && discount > cond.MaxDiscountAmount {
			discount = cond.MaxDiscountAmount
		}
	case domain.PromotionAmount:
		discount = p.Value
	default:
		return 0
	}

	if discount > orderAmount {
		discount = orderAmount
	}
	return pricing.Round2(discount)
}

// Claim atomically takes one use of the promotion. Returns ErrUsageLimit
// when a concurrent claim exhausted the counter first.
func (l *Ledger) Claim(ctx context.Context, p *domain.Promotion) error {
	ok, err := l.promos.IncrementUsage(ctx, p.ID, p.Conditions.Data().MaxUsageCount)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUsageLimit
	}
	return nil
}

// Release returns one use of the promotion, e.g. when it is removed from a booking.
func (l *Ledger) Release(ctx context.Context, promotionID int64) error {
	return l.promos.DecrementUsage(ctx, promotionID)
}
