package booking

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"hotelbooking/internal/modules/promotion"
	"hotelbooking/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/bookings", h.CreateBooking)
	rg.GET("/bookings/:id", h.GetBooking)
	rg.GET("/users/me/bookings", h.ListMyBookings)

	rg.PATCH("/bookings/:id", h.ModifyBooking)
	rg.PATCH("/bookings/:id/confirm", h.ConfirmBooking)
	rg.PATCH("/bookings/:id/cancel", h.CancelBooking)
	rg.PATCH("/bookings/:id/check-in", h.CheckIn)
	rg.PATCH("/bookings/:id/check-out", h.CheckOut)

	rg.POST("/bookings/:id/promotion", h.ApplyPromotion)
	rg.DELETE("/bookings/:id/promotion", h.RemovePromotion)

	rg.GET("/rooms/:id/availability", h.RoomAvailability)
}

func (h *Handler) CreateBooking(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	checkIn, err1 := time.Parse(dateLayout, req.CheckIn)
	checkOut, err2 := time.Parse(dateLayout, req.CheckOut)
	if err1 != nil || err2 != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Dates must use YYYY-MM-DD")
		return
	}

	b, err := h.service.CreateBooking(c.Request.Context(), CreateParams{
		HotelID:  req.HotelID,
		UserID:   c.GetInt64("user_id"),
		RoomID:   req.RoomID,
		CheckIn:  checkIn,
		CheckOut: checkOut,
		Guests:   req.Guests,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"booking": b})
}

func (h *Handler) GetBooking(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	b, err := h.service.GetBooking(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

func (h *Handler) ListMyBookings(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	items, err := h.service.ListUserBookings(c.Request.Context(), c.GetInt64("user_id"), limit, offset)
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"bookings": items})
}

func (h *Handler) ModifyBooking(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req modifyBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	var params ModifyParams
	if req.CheckIn != nil {
		t, err := time.Parse(dateLayout, *req.CheckIn)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Dates must use YYYY-MM-DD")
			return
		}
		params.CheckIn = &t
	}
	if req.CheckOut != nil {
		t, err := time.Parse(dateLayout, *req.CheckOut)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Dates must use YYYY-MM-DD")
			return
		}
		params.CheckOut = &t
	}
	params.RoomID = req.RoomID

	changed, err := h.service.ModifyBooking(c.Request.Context(), id, params)
	if err != nil {
		h.respondError(c, err)
		return
	}
	msg := "booking updated"
	if !changed {
		msg = "nothing to change"
	}
	response.Success(c, http.StatusOK, gin.H{"changed": changed, "message": msg})
}

func (h *Handler) ConfirmBooking(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	b, err := h.service.ConfirmBooking(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

func (h *Handler) CancelBooking(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req cancelBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Cancellation reason is required")
		return
	}
	result, err := h.service.CancelBooking(c.Request.Context(), id, req.Reason)
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}

func (h *Handler) CheckIn(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	b, err := h.service.CheckIn(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

func (h *Handler) CheckOut(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	b, err := h.service.CheckOut(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

func (h *Handler) ApplyPromotion(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req applyPromotionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Promotion code is required")
		return
	}
	discount, err := h.service.ApplyPromotion(c.Request.Context(), id, req.Code)
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"discount_amount": discount})
}

func (h *Handler) RemovePromotion(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.service.RemovePromotion(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"removed": true})
}

func (h *Handler) RoomAvailability(c *gin.Context) {
	roomID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid room id")
		return
	}
	checkIn, err1 := time.Parse(dateLayout, c.Query("check_in"))
	checkOut, err2 := time.Parse(dateLayout, c.Query("check_out"))
	if err1 != nil || err2 != nil || !checkIn.Before(checkOut) {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "check_in and check_out must be YYYY-MM-DD with check_in < check_out")
		return
	}

	available, err := h.service.IsAvailable(c.Request.Context(), roomID, checkIn, checkOut)
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"room_id": roomID, "available": available})
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid booking id")
		return 0, false
	}
	return id, true
}

func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrValidation), errors.Is(err, ErrCheckInTooEarly):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrRoomNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, ErrNotAvailable), errors.Is(err, ErrCapacityExceeded):
		response.Error(c, http.StatusConflict, "BOOKING_CONFLICT", err.Error())
	case errors.Is(err, ErrInvalidStatusTransition),
		errors.Is(err, ErrPromotionAlreadyApplied),
		errors.Is(err, ErrNoPromotionApplied):
		response.Error(c, http.StatusConflict, "INVALID_STATE", err.Error())
	case errors.Is(err, promotion.ErrNotFound):
		response.Error(c, http.StatusNotFound, "PROMOTION_NOT_FOUND", err.Error())
	case errors.Is(err, promotion.ErrNotActive),
		errors.Is(err, promotion.ErrUsageLimit),
		errors.Is(err, promotion.ErrMinOrderNotMet),
		errors.Is(err, promotion.ErrNewCustomerOnly):
		response.Error(c, http.StatusUnprocessableEntity, "PROMOTION_REJECTED", err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Unexpected error")
	}
}
