package booking

import "errors"

var (
	ErrValidation              = errors.New("validation error")
	ErrNotFound                = errors.New("booking not found")
	ErrRoomNotFound            = errors.New("room not found")
	ErrCapacityExceeded        = errors.New("room capacity exceeded")
	ErrNotAvailable            = errors.New("room is not available for the selected dates")
	ErrInvalidStatusTransition = errors.New("operation not allowed in current booking status")
	ErrCheckInTooEarly         = errors.New("check-in date has not arrived yet")
	ErrPromotionAlreadyApplied = errors.New("a promotion is already applied to this booking")
	ErrNoPromotionApplied      = errors.New("no promotion applied to this booking")
)
