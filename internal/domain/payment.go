package domain

import "time"

type PaymentMethod string

const (
	// PaymentMethodMock is a simulated gateway capture.
	PaymentMethodMock PaymentMethod = "mock"
	// PaymentMethodPayAtProperty is settled at the front desk.
	PaymentMethodPayAtProperty PaymentMethod = "pay_at_property"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodMock, PaymentMethodPayAtProperty:
		return true
	default:
		return false
	}
}

// Payment records one payment attempt against a booking. A booking may hold
// several payments; none are ever deleted.
type Payment struct {
	ID        int64         `gorm:"primaryKey" json:"id"`
	BookingID int64         `gorm:"index;not null" json:"booking_id" validate:"required"`
	Method    PaymentMethod `gorm:"type:varchar(20);not null" json:"method"`
	Amount    float64       `gorm:"not null" json:"amount" validate:"gt=0"`
	Status    PaymentStatus `gorm:"type:varchar(20);not null;index" json:"status"`

	// Set once the simulated capture succeeds.
	TransactionCode *string `gorm:"size:64" json:"transaction_code,omitempty"`

	FailureReason string     `gorm:"type:text" json:"failure_reason,omitempty"`
	PaidAt        *time.Time `json:"paid_at,omitempty"`
	RefundedAt    *time.Time `json:"refunded_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Payment) TableName() string { return "payments" }
