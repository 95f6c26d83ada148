package service

import (
	"fmt"

	"github.com/freshcart/internal/apperr"
)

var (
	ErrInvalidCredentials   = fmt.Errorf("%w: email and password are required", apperr.ErrValidation)
	ErrInvalidRegistration  = fmt.Errorf("%w: name, email and password are required", apperr.ErrValidation)
	ErrCartEmpty            = fmt.Errorf("%w: cart is empty", apperr.ErrValidation)
	ErrAddressRequired      = fmt.Errorf("%w: delivery address is required", apperr.ErrValidation)
	ErrPaymentMethodInvalid = fmt.Errorf("%w: unsupported payment method", apperr.ErrValidation)
	ErrAddressInvalid       = fmt.Errorf("%w: address line1, city and postcode are required", apperr.ErrValidation)
	ErrProductUnavailable   = fmt.Errorf("%w: product is out of stock", apperr.ErrValidation)
	ErrProductNotFound      = fmt.Errorf("%w: product", apperr.ErrNotFound)
	ErrOrderResponseEmpty   = fmt.Errorf("%w: order response missing id", apperr.ErrNetwork)
)
