package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/freshcart/internal/apiclient"
	"github.com/freshcart/internal/cart"
	"github.com/freshcart/internal/constants"
	"github.com/freshcart/internal/logger"
	"github.com/freshcart/internal/models"
	"github.com/freshcart/internal/pricing"
	"github.com/freshcart/internal/session"

	"github.com/google/uuid"
)

// Quote 结算报价
type Quote struct {
	Items          []cart.LineItem   `json:"items"`
	Summary        cart.Summary      `json:"summary"`
	Promo          *pricing.Promo    `json:"promo"`
	PromoEligible  bool              `json:"promo_eligible"`
	Breakdown      pricing.Breakdown `json:"breakdown"`
	CurrencySymbol string            `json:"currency_symbol"`
}

// PlaceOrderInput 下单输入
type PlaceOrderInput struct {
	AddressID     models.ID
	PaymentMethod string
	Note          string
}

// CheckoutService 结算服务
type CheckoutService struct {
	ledger    *cart.Ledger
	selector  *pricing.Selector
	constants pricing.Constants
	session   *session.Store
	orders    OrderAPI

	placeMu sync.Mutex
}

// NewCheckoutService 创建结算服务
func NewCheckoutService(ledger *cart.Ledger, selector *pricing.Selector, consts pricing.Constants, store *session.Store, orders OrderAPI) *CheckoutService {
	return &CheckoutService{
		ledger:    ledger,
		selector:  selector,
		constants: consts,
		session:   store,
		orders:    orders,
	}
}

// Quote 以当前购物车与优惠码计算报价
// 已应用的优惠码低于门槛时不计折扣，并标记 promo_eligible=false
func (s *CheckoutService) Quote() Quote {
	items, summary := s.ledger.Snapshot()
	applied := s.selector.Applied()

	eligible := applied != nil && s.selector.Revalidate(summary.TotalPrice) == nil
	var promo *pricing.Promo
	if eligible {
		promo = applied
	}
	return Quote{
		Items:          items,
		Summary:        summary,
		Promo:          applied,
		PromoEligible:  eligible,
		Breakdown:      s.constants.Calculate(summary.TotalPrice, promo),
		CurrencySymbol: s.constants.CurrencySymbol,
	}
}

// ApplyPromo 应用优惠码
func (s *CheckoutService) ApplyPromo(code string) (Quote, error) {
	if _, err := s.selector.Apply(code, s.ledger.Subtotal()); err != nil {
		return Quote{}, err
	}
	return s.Quote(), nil
}

// RemovePromo 移除优惠码
func (s *CheckoutService) RemovePromo() Quote {
	s.selector.Remove()
	return s.Quote()
}

// PlaceOrder 提交订单，成功后扣减已下单商品并移除优惠码
func (s *CheckoutService) PlaceOrder(ctx context.Context, input PlaceOrderInput) (*models.Order, error) {
	if !s.session.IsAuthenticated() {
		return nil, session.ErrNotAuthenticated
	}
	addressID := models.ID(strings.TrimSpace(input.AddressID.String()))
	if addressID.IsZero() {
		return nil, ErrAddressRequired
	}
	method, err := normalizePaymentMethod(input.PaymentMethod)
	if err != nil {
		return nil, err
	}

	s.placeMu.Lock()
	defer s.placeMu.Unlock()

	quote := s.Quote()
	if len(quote.Items) == 0 {
		return nil, ErrCartEmpty
	}
	if quote.Promo != nil && !quote.PromoEligible {
		return nil, s.selector.Revalidate(quote.Summary.TotalPrice)
	}

	req := apiclient.OrderRequest{
		Lines:         make([]apiclient.OrderLineRequest, 0, len(quote.Items)),
		Subtotal:      quote.Breakdown.Subtotal,
		Discount:      quote.Breakdown.Discount,
		DeliveryFee:   quote.Breakdown.DeliveryFee,
		VAT:           quote.Breakdown.VAT,
		Total:         quote.Breakdown.Total,
		AddressID:     addressID,
		PaymentMethod: method,
		Note:          strings.TrimSpace(input.Note),
	}
	if quote.Promo != nil {
		req.PromoCode = quote.Promo.Code
	}
	for _, item := range quote.Items {
		req.Lines = append(req.Lines, apiclient.OrderLineRequest{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}

	idempotencyKey := uuid.NewString()
	order, err := s.orders.PlaceOrder(ctx, s.session.Token(), idempotencyKey, req)
	if err != nil {
		logger.Warnw("checkout_place_order_failed",
			"user_id", s.session.UserID(),
			"idempotency_key", idempotencyKey,
			"error", err,
		)
		return nil, err
	}
	if order == nil || order.ID.IsZero() {
		return nil, ErrOrderResponseEmpty
	}

	// 只扣减本单包含的数量，下单期间新加入的商品保留
	s.ledger.Subtract(quote.Items)
	s.selector.Remove()
	logger.Infow("checkout_order_placed",
		"order_id", order.ID,
		"user_id", s.session.UserID(),
		"total", quote.Breakdown.Total.String(),
		"promo", req.PromoCode,
	)
	return order, nil
}

// Orders 历史订单
func (s *CheckoutService) Orders(ctx context.Context) ([]models.Order, error) {
	if !s.session.IsAuthenticated() {
		return nil, session.ErrNotAuthenticated
	}
	return s.orders.ListOrders(ctx, s.session.Token())
}

func normalizePaymentMethod(raw string) (string, error) {
	method := strings.ToLower(strings.TrimSpace(raw))
	if method == "" {
		return constants.PaymentMethodCashOnDelivery, nil
	}
	switch method {
	case constants.PaymentMethodCashOnDelivery, constants.PaymentMethodCard, constants.PaymentMethodWallet:
		return method, nil
	}
	return "", fmt.Errorf("%w: %s", ErrPaymentMethodInvalid, raw)
}
