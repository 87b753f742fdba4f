package domain

import "time"

type InvoiceStatus string

const (
	InvoiceDraft     InvoiceStatus = "draft"
	InvoiceIssued    InvoiceStatus = "issued"
	InvoicePaid      InvoiceStatus = "paid"
	InvoiceCancelled InvoiceStatus = "cancelled"
)

// Invoice is generated exactly once per booking; the booking_id unique index
// is the last line of defence against concurrent generation.
type Invoice struct {
	ID        int64  `gorm:"primaryKey" json:"id"`
	BookingID int64  `gorm:"uniqueIndex;not null" json:"booking_id"`
	Number    string `gorm:"uniqueIndex;size:32;not null" json:"number"`

	Subtotal      float64 `gorm:"not null" json:"subtotal"`
	Tax           float64 `gorm:"not null" json:"tax"`
	ServiceCharge float64 `gorm:"not null" json:"service_charge"`
	// Amount is the payable total: subtotal + tax + service charge.
	Amount float64 `gorm:"not null" json:"amount"`

	Status        InvoiceStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	Notes         string        `gorm:"type:text" json:"notes,omitempty"`
	PaymentMethod string        `gorm:"size:32" json:"payment_method,omitempty"`
	PaidAt        *time.Time    `json:"paid_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Invoice) TableName() string { return "invoices" }

// CanPay reports whether the invoice may be marked paid.
func (s InvoiceStatus) CanPay() bool { return s == InvoiceIssued }

// CanCancel reports whether the invoice may still be voided. Paid invoices never are.
func (s InvoiceStatus) CanCancel() bool { return s == InvoiceDraft || s == InvoiceIssued }
