package catalog

// StayQuote is a non-binding price preview for a room and stay window.
type StayQuote struct {
	RoomID        int64   `json:"room_id"`
	RatePlanID    int64   `json:"rate_plan_id"`
	RatePlanName  string  `json:"rate_plan_name"`
	RatePlanType  string  `json:"rate_plan_type"`
	Nights        int     `json:"nights"`
	PricePerNight float64 `json:"price_per_night"`
	Total         float64 `json:"total"`
}
