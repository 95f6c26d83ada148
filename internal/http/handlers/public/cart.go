package public

import (
	"github.com/freshcart/internal/http/response"
	"github.com/freshcart/internal/models"

	"github.com/gin-gonic/gin"
)

// AddCartItemRequest 加购请求
type AddCartItemRequest struct {
	ProductID models.ID `json:"product_id" binding:"required"`
	Quantity  *int      `json:"quantity"`
}

// UpdateCartItemRequest 修改数量请求
type UpdateCartItemRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

// GetCart 获取购物车
func (h *Handler) GetCart(c *gin.Context) {
	response.Success(c, h.CartService.View())
}

// AddCartItem 加购
func (h *Handler) AddCartItem(c *gin.Context) {
	var req AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}
	// 未传数量时默认 1，显式传入的 0 或负数交由服务层拒绝
	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}
	view, err := h.CartService.Add(c.Request.Context(), req.ProductID, quantity)
	if err != nil {
		h.respondCartError(c, err)
		return
	}
	response.Success(c, view)
}

// UpdateCartItem 设置数量，0 表示删除
func (h *Handler) UpdateCartItem(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}
	view, err := h.CartService.SetQuantity(id, *req.Quantity)
	if err != nil {
		h.respondCartError(c, err)
		return
	}
	response.Success(c, view)
}

// IncrementCartItem 数量 +1
func (h *Handler) IncrementCartItem(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	view, err := h.CartService.Increment(id)
	if err != nil {
		h.respondCartError(c, err)
		return
	}
	response.Success(c, view)
}

// DecrementCartItem 数量 -1
func (h *Handler) DecrementCartItem(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	view, err := h.CartService.Decrement(id)
	if err != nil {
		h.respondCartError(c, err)
		return
	}
	response.Success(c, view)
}

// RemoveCartItem 删除商品
func (h *Handler) RemoveCartItem(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	response.Success(c, h.CartService.Remove(id))
}

// ClearCart 清空购物车
func (h *Handler) ClearCart(c *gin.Context) {
	response.Success(c, h.CartService.Clear())
}
