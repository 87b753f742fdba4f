package promotion

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"

	"hotelbooking/internal/domain"
	"hotelbooking/internal/pkg/response"
	"hotelbooking/internal/pkg/validator"
)

const dateLayout = "2006-01-02"

type Handler struct {
	ledger *Ledger
}

func NewHandler(ledger *Ledger) *Handler {
	return &Handler{ledger: ledger}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/promotions", h.Create)
	rg.GET("/promotions/:code", h.GetByCode)
}

type createPromotionRequest struct {
	Code              string  `json:"code" binding:"required"`
	Type              string  `json:"type" binding:"required,oneof=percent amount"`
	Value             float64 `json:"value" binding:"required,gt=0"`
	StartDate         string  `json:"start_date" binding:"required"`
	EndDate           string  `json:"end_date" binding:"required"`
	MinOrderValue     float64 `json:"min_order_value"`
	MaxDiscountAmount float64 `json:"max_discount_amount"`
	MaxUsageCount     int     `json:"max_usage_count"`
	NewCustomerOnly   bool    `json:"new_customer_only"`
}

func (h *Handler) Create(c *gin.Context) {
	var req createPromotionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	start, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "start_date must be YYYY-MM-DD")
		return
	}
	end, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "end_date must be YYYY-MM-DD")
		return
	}
	if end.Before(start) {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "end_date is before start_date")
		return
	}

	p := &domain.Promotion{
		Code:      strings.ToUpper(strings.TrimSpace(req.Code)),
		Type:      domain.PromotionType(req.Type),
		Value:     req.Value,
		StartDate: start,
		EndDate:   end,
		Conditions: datatypes.NewJSONType(domain.PromotionConditions{
			MinOrderValue:     req.MinOrderValue,
			MaxDiscountAmount: req.MaxDiscountAmount,
			MaxUsageCount:     req.MaxUsageCount,
			NewCustomerOnly:   req.NewCustomerOnly,
		}),
	}
	if fields := validator.Validate(p); fields != nil {
		response.ErrorWithDetails(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Invalid promotion", fields)
		return
	}

	if err := h.ledger.Create(c.Request.Context(), p); err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"promotion": p})
}

func (h *Handler) GetByCode(c *gin.Context) {
	code := strings.ToUpper(c.Param("code"))
	p, err := h.ledger.GetByCode(c.Request.Context(), code)
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"promotion": p})
}

func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, ErrCodeTaken):
		response.Error(c, http.StatusConflict, "DUPLICATE_CODE", err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Unexpected error")
	}
}
