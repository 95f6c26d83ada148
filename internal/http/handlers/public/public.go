package public

import (
	"strings"

	"github.com/freshcart/internal/apiclient"
	handlershared "github.com/freshcart/internal/http/handlers/shared"
	"github.com/freshcart/internal/http/response"
	"github.com/freshcart/internal/pricing"

	"github.com/gin-gonic/gin"
)

// StoreConfig 前台展示用的结算配置
type StoreConfig struct {
	CurrencySymbol string          `json:"currency_symbol"`
	DeliveryFee    string          `json:"delivery_fee"`
	VATRate        string          `json:"vat_rate"`
	Promos         []pricing.Promo `json:"promos"`
}

// GetConfig 获取结算配置
func (h *Handler) GetConfig(c *gin.Context) {
	response.Success(c, StoreConfig{
		CurrencySymbol: h.Pricing.CurrencySymbol,
		DeliveryFee:    h.Pricing.DeliveryFee.String(),
		VATRate:        h.Pricing.VATRate.String(),
		Promos:         h.Selector.Promos(),
	})
}

// GetProducts 商品列表
func (h *Handler) GetProducts(c *gin.Context) {
	page, pageSize := handlershared.ParsePagination(c)

	query := apiclient.ProductQuery{
		Category: strings.TrimSpace(c.Query("category")),
		Search:   strings.TrimSpace(c.Query("search")),
		Sort:     strings.TrimSpace(c.Query("sort")),
		Page:     page,
		PageSize: pageSize,
	}
	result, err := h.ProductService.List(c.Request.Context(), query)
	if err != nil {
		h.respondCatalogError(c, err)
		return
	}
	response.SuccessWithPage(c, result.Items, response.NewPagination(page, pageSize, result.Total))
}

// GetProduct 商品详情
func (h *Handler) GetProduct(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	product, err := h.ProductService.Get(c.Request.Context(), id)
	if err != nil {
		h.respondCatalogError(c, err)
		return
	}
	response.Success(c, gin.H{
		"product":          product,
		"discount_percent": product.DiscountPercent(),
		"in_cart":          h.Ledger.Quantity(product.ID),
	})
}
