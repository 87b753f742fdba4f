package promotion

import "errors"

var (
	ErrCodeTaken       = errors.New("promotion code already exists")
	ErrNotFound        = errors.New("promotion code not found")
	ErrNotActive       = errors.New("promotion is not active for this date")
	ErrUsageLimit      = errors.New("promotion usage limit reached")
	ErrMinOrderNotMet  = errors.New("order amount below promotion minimum")
	ErrNewCustomerOnly = errors.New("promotion is restricted to new customers")
)
