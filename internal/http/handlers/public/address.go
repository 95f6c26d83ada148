package public

import (
	"github.com/freshcart/internal/apiclient"
	"github.com/freshcart/internal/http/response"

	"github.com/gin-gonic/gin"
)

// ListAddresses 地址列表
func (h *Handler) ListAddresses(c *gin.Context) {
	addresses, err := h.AccountService.Addresses(c.Request.Context())
	if err != nil {
		h.respondAddressError(c, err)
		return
	}
	response.Success(c, addresses)
}

// AddAddress 新增地址
func (h *Handler) AddAddress(c *gin.Context) {
	var req apiclient.AddressInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}
	address, err := h.AccountService.AddAddress(c.Request.Context(), req)
	if err != nil {
		h.respondAddressError(c, err)
		return
	}
	response.Success(c, address)
}

// DeleteAddress 删除地址
func (h *Handler) DeleteAddress(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.AccountService.DeleteAddress(c.Request.Context(), id); err != nil {
		h.respondAddressError(c, err)
		return
	}
	response.Success(c, nil)
}
