package public

import (
	"errors"
	"fmt"

	"github.com/freshcart/internal/apiclient"
	"github.com/freshcart/internal/apperr"
	"github.com/freshcart/internal/cart"
	"github.com/freshcart/internal/http/response"
	"github.com/freshcart/internal/pricing"
	"github.com/freshcart/internal/service"
	"github.com/freshcart/internal/session"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target error
	code   int
	msg    string
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackMsg string, symbol string) {
	var minErr *pricing.MinimumNotMetError
	if errors.As(err, &minErr) {
		respondError(c, response.CodeBadRequest, fmt.Sprintf("minimum order of %s required", minErr.Required.Format(symbol)), nil)
		return
	}
	var serverErr *apiclient.ServerError
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.msg, nil)
			return
		}
	}
	if errors.As(err, &serverErr) {
		msg := serverErr.Message
		if msg == "" {
			msg = "upstream request failed"
		}
		respondError(c, upstreamCode(serverErr.Status), msg, err)
		return
	}
	respondError(c, fallbackCode, fallbackMsg, err)
}

func concatMappedHandlerErrors(groups ...[]mappedHandlerError) []mappedHandlerError {
	total := 0
	for _, group := range groups {
		total += len(group)
	}
	result := make([]mappedHandlerError, 0, total)
	for _, group := range groups {
		result = append(result, group...)
	}
	return result
}

func upstreamCode(status int) int {
	switch {
	case status == 401:
		return response.CodeUnauthorized
	case status == 404:
		return response.CodeNotFound
	case status == 409:
		return response.CodeConflict
	case status == 429:
		return response.CodeTooManyRequests
	case status >= 400 && status < 500:
		return response.CodeBadRequest
	default:
		return response.CodeBadGateway
	}
}

// 通用规则：存储、网络与超时
var kindErrorRules = []mappedHandlerError{
	{target: apiclient.ErrTimeout, code: response.CodeGatewayTimeout, msg: "request timed out, please retry"},
	{target: apiclient.ErrNetwork, code: response.CodeBadGateway, msg: "network unavailable, please retry"},
	{target: apiclient.ErrInvalidResponse, code: response.CodeBadGateway, msg: "unexpected response from server"},
	{target: apperr.ErrPersistence, code: response.CodeInternal, msg: "could not save session, please retry"},
}

var cartErrorRules = []mappedHandlerError{
	{target: cart.ErrInvalidQuantity, code: response.CodeBadRequest, msg: "quantity must be at least 1"},
	{target: cart.ErrInvalidProduct, code: response.CodeBadRequest, msg: "product id is required"},
	{target: cart.ErrItemNotFound, code: response.CodeNotFound, msg: "item is not in the cart"},
	{target: service.ErrProductNotFound, code: response.CodeNotFound, msg: "product not found"},
	{target: service.ErrProductUnavailable, code: response.CodeBadRequest, msg: "product is out of stock"},
}

var promoErrorRules = []mappedHandlerError{
	{target: pricing.ErrInvalidCode, code: response.CodeBadRequest, msg: "invalid promo code"},
}

var sessionErrorRules = []mappedHandlerError{
	{target: session.ErrNotAuthenticated, code: response.CodeUnauthorized, msg: "login required"},
	{target: session.ErrEmptyProfile, code: response.CodeBadRequest, msg: "nothing to update"},
	{target: session.ErrInvalidUser, code: response.CodeBadGateway, msg: "unexpected response from server"},
	{target: session.ErrInvalidToken, code: response.CodeBadGateway, msg: "unexpected response from server"},
	{target: service.ErrInvalidCredentials, code: response.CodeBadRequest, msg: "email and password are required"},
	{target: service.ErrInvalidRegistration, code: response.CodeBadRequest, msg: "name, valid email and password are required"},
	{target: apiclient.ErrUnauthorized, code: response.CodeUnauthorized, msg: "invalid credentials or session expired"},
}

var checkoutErrorRules = []mappedHandlerError{
	{target: service.ErrCartEmpty, code: response.CodeBadRequest, msg: "cart is empty"},
	{target: service.ErrAddressRequired, code: response.CodeBadRequest, msg: "delivery address is required"},
	{target: service.ErrPaymentMethodInvalid, code: response.CodeBadRequest, msg: "unsupported payment method"},
	{target: service.ErrOrderResponseEmpty, code: response.CodeBadGateway, msg: "unexpected response from server"},
}

var addressErrorRules = []mappedHandlerError{
	{target: service.ErrAddressInvalid, code: response.CodeBadRequest, msg: "address line1, city and postcode are required"},
	{target: service.ErrAddressRequired, code: response.CodeBadRequest, msg: "address id is required"},
}

var catalogErrorRules = []mappedHandlerError{
	{target: apiclient.ErrInvalidSort, code: response.CodeBadRequest, msg: "unsupported sort"},
	{target: service.ErrProductNotFound, code: response.CodeNotFound, msg: "product not found"},
}

func (h *Handler) respondCartError(c *gin.Context, err error) {
	respondWithMappedError(c, err, concatMappedHandlerErrors(cartErrorRules, kindErrorRules), response.CodeInternal, "cart update failed", h.Pricing.CurrencySymbol)
}

func (h *Handler) respondPromoError(c *gin.Context, err error) {
	respondWithMappedError(c, err, promoErrorRules, response.CodeInternal, "promo update failed", h.Pricing.CurrencySymbol)
}

func (h *Handler) respondSessionError(c *gin.Context, err error) {
	respondWithMappedError(c, err, concatMappedHandlerErrors(sessionErrorRules, kindErrorRules), response.CodeInternal, "session update failed", h.Pricing.CurrencySymbol)
}

func (h *Handler) respondCheckoutError(c *gin.Context, err error) {
	respondWithMappedError(c, err, concatMappedHandlerErrors(checkoutErrorRules, sessionErrorRules, kindErrorRules), response.CodeInternal, "order placement failed", h.Pricing.CurrencySymbol)
}

func (h *Handler) respondAddressError(c *gin.Context, err error) {
	respondWithMappedError(c, err, concatMappedHandlerErrors(addressErrorRules, sessionErrorRules, kindErrorRules), response.CodeInternal, "address request failed", h.Pricing.CurrencySymbol)
}

func (h *Handler) respondCatalogError(c *gin.Context, err error) {
	respondWithMappedError(c, err, concatMappedHandlerErrors(catalogErrorRules, kindErrorRules), response.CodeInternal, "product request failed", h.Pricing.CurrencySymbol)
}
