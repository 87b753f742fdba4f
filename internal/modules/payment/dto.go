package payment

type createPaymentRequest struct {
	BookingID int64   `json:"booking_id" binding:"required"`
	Method    string  `json:"method" binding:"required"`
	Amount    float64 `json:"amount" binding:"required,gt=0"`
}

type refundRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type failRequest struct {
	Reason string `json:"reason"`
}

type payInvoiceRequest struct {
	Method string `json:"method" binding:"required"`
}

type createInvoiceRequest struct {
	BookingID int64  `json:"booking_id" binding:"required"`
	Notes     string `json:"notes"`
}
