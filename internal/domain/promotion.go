package domain

import (
	"time"

	"gorm.io/datatypes"
)

type PromotionType string

const (
	PromotionPercent PromotionType = "percent"
	PromotionAmount  PromotionType = "amount"
)

// PromotionConditions is the serialized conditions blob. The usage counter
// deliberately lives outside it, on a dedicated column, so it can be
// incremented atomically instead of read-modify-write on JSON.
type PromotionConditions struct {
	MinOrderValue     float64 `json:"min_order_value"`
	MaxDiscountAmount float64 `json:"max_discount_amount"`
	MaxUsageCount     int     `json:"max_usage_count"`
	NewCustomerOnly   bool    `json:"new_customer_only"`
}

type Promotion struct {
	ID    int64         `gorm:"primaryKey" json:"id"`
	Code  string        `gorm:"uniqueIndex;size:64;not null" json:"code" validate:"required"`
	Type  PromotionType `gorm:"type:varchar(20);not null" json:"type"`
	Value float64       `gorm:"not null" json:"value" validate:"gt=0"`

	StartDate time.Time `gorm:"not null" json:"start_date"`
	EndDate   time.Time `gorm:"not null" json:"end_date"`

	Conditions        datatypes.JSONType[PromotionConditions] `json:"conditions"`
	CurrentUsageCount int                                     `gorm:"not null;default:0" json:"current_usage_count"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Promotion) TableName() string { return "promotions" }

// ActiveAt reports whether the validity window covers the given instant.
func (p *Promotion) ActiveAt(t time.Time) bool {
	return !t.Before(p.StartDate) && !t.After(p.EndDate)
}
