package booking

import "time"

// CreateParams is the service-level creation request; dates carry date-only
// semantics and are normalized to midnight UTC before use.
type CreateParams struct {
	HotelID  int64
	UserID   int64
	RoomID   int64
	CheckIn  time.Time
	CheckOut time.Time
	Guests   int
}

// ModifyParams carries the optional changes of a modification request.
// Nil fields keep the current value.
type ModifyParams struct {
	CheckIn  *time.Time
	CheckOut *time.Time
	RoomID   *int64
}

// CancelResult reports the outcome of a cancellation. The refund amount is
// computed and reported here; executing the refund against a payment is the
// payment orchestrator's job.
type CancelResult struct {
	RefundAmount float64 `json:"refund_amount"`
	Message      string  `json:"message"`
}

// HTTP request bodies. Dates use the date-only wire format.

const dateLayout = "2006-01-02"

type createBookingRequest struct {
	HotelID  int64  `json:"hotel_id" binding:"required"`
	RoomID   int64  `json:"room_id" binding:"required"`
	CheckIn  string `json:"check_in" binding:"required"`
	CheckOut string `json:"check_out" binding:"required"`
	Guests   int    `json:"guests" binding:"required,gt=0"`
}

type modifyBookingRequest struct {
	CheckIn  *string `json:"check_in"`
	CheckOut *string `json:"check_out"`
	RoomID   *int64  `json:"room_id"`
}

type cancelBookingRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type applyPromotionRequest struct {
	Code string `json:"code" binding:"required"`
}
