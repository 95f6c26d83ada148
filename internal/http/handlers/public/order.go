package public

import (
	"github.com/freshcart/internal/http/response"
	"github.com/freshcart/internal/models"
	"github.com/freshcart/internal/service"

	"github.com/gin-gonic/gin"
)

// ApplyPromoRequest 应用优惠码请求
type ApplyPromoRequest struct {
	Code string `json:"code" binding:"required"`
}

// PlaceOrderRequest 下单请求
type PlaceOrderRequest struct {
	AddressID     models.ID `json:"address_id" binding:"required"`
	PaymentMethod string    `json:"payment_method"`
	Note          string    `json:"note"`
}

// GetQuote 结算报价
func (h *Handler) GetQuote(c *gin.Context) {
	response.Success(c, h.CheckoutService.Quote())
}

// ApplyPromo 应用优惠码
func (h *Handler) ApplyPromo(c *gin.Context) {
	var req ApplyPromoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}
	quote, err := h.CheckoutService.ApplyPromo(req.Code)
	if err != nil {
		h.respondPromoError(c, err)
		return
	}
	response.Success(c, quote)
}

// RemovePromo 移除优惠码
func (h *Handler) RemovePromo(c *gin.Context) {
	response.Success(c, h.CheckoutService.RemovePromo())
}

// PlaceOrder 提交订单
func (h *Handler) PlaceOrder(c *gin.Context) {
	var req PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}
	order, err := h.CheckoutService.PlaceOrder(c.Request.Context(), service.PlaceOrderInput{
		AddressID:     req.AddressID,
		PaymentMethod: req.PaymentMethod,
		Note:          req.Note,
	})
	if err != nil {
		h.respondCheckoutError(c, err)
		return
	}
	response.SuccessWithMsg(c, "order placed", order)
}

// ListOrders 订单历史
func (h *Handler) ListOrders(c *gin.Context) {
	orders, err := h.CheckoutService.Orders(c.Request.Context())
	if err != nil {
		h.respondCheckoutError(c, err)
		return
	}
	response.Success(c, orders)
}
