package pricing

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/freshcart/internal/apperr"
	"github.com/freshcart/internal/models"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidCode    = fmt.Errorf("%w: invalid promo code", apperr.ErrValidation)
	ErrMinimumNotMet  = fmt.Errorf("%w: minimum order value not met", apperr.ErrValidation)
	ErrPromoMalformed = fmt.Errorf("%w: malformed promo definition", apperr.ErrValidation)
)

// Promo 优惠码
type Promo struct {
	Code              string          `json:"code"`
	DiscountRate      decimal.Decimal `json:"discount_rate"`
	MinimumOrderValue models.Money    `json:"minimum_order_value"`
}

// MinimumNotMetError 小计低于优惠码门槛
type MinimumNotMetError struct {
	Code     string
	Required models.Money
}

func (e *MinimumNotMetError) Error() string {
	return fmt.Sprintf("promo %s requires a minimum order of %s", e.Code, e.Required)
}

// Unwrap 归类为 ErrMinimumNotMet（进而为 ErrValidation）
func (e *MinimumNotMetError) Unwrap() error {
	return ErrMinimumNotMet
}

// Catalog 已知优惠码表（大小写不敏感）
type Catalog struct {
	promos map[string]Promo
}

// NewCatalog 创建优惠码表，重复或非法定义返回错误
func NewCatalog(promos []Promo) (*Catalog, error) {
	c := &Catalog{promos: make(map[string]Promo, len(promos))}
	for _, p := range promos {
		key := normalizeCode(p.Code)
		if key == "" {
			return nil, fmt.Errorf("%w: empty code", ErrPromoMalformed)
		}
		if p.DiscountRate.IsNegative() || p.DiscountRate.GreaterThan(decimal.NewFromInt(1)) {
			return nil, fmt.Errorf("%w: %s discount rate %s out of [0,1]", ErrPromoMalformed, p.Code, p.DiscountRate)
		}
		if p.MinimumOrderValue.Decimal.IsNegative() {
			return nil, fmt.Errorf("%w: %s negative minimum", ErrPromoMalformed, p.Code)
		}
		if _, exists := c.promos[key]; exists {
			return nil, fmt.Errorf("%w: duplicate code %s", ErrPromoMalformed, p.Code)
		}
		p.Code = key
		c.promos[key] = p
	}
	return c, nil
}

// Lookup 按优惠码查找
func (c *Catalog) Lookup(code string) (Promo, bool) {
	if c == nil {
		return Promo{}, false
	}
	p, ok := c.promos[normalizeCode(code)]
	return p, ok
}

// List 按优惠码排序返回全部定义
func (c *Catalog) List() []Promo {
	if c == nil {
		return nil
	}
	result := make([]Promo, 0, len(c.promos))
	for _, p := range c.promos {
		result = append(result, p)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Code < result[j].Code })
	return result
}

// Selector 当前结算上下文中的优惠码（NONE_APPLIED / APPLIED）
type Selector struct {
	mu      sync.Mutex
	catalog *Catalog
	applied *Promo
}

// NewSelector 创建优惠码选择器
func NewSelector(catalog *Catalog) *Selector {
	return &Selector{catalog: catalog}
}

// Apply 应用优惠码，成功时替换已应用的优惠码；失败时状态不变
func (s *Selector) Apply(code string, subtotal models.Money) (Promo, error) {
	promo, ok := s.catalog.Lookup(code)
	if !ok {
		return Promo{}, ErrInvalidCode
	}
	if subtotal.Decimal.LessThan(promo.MinimumOrderValue.Decimal) {
		return Promo{}, &MinimumNotMetError{Code: promo.Code, Required: promo.MinimumOrderValue}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.applied = &promo
	return promo, nil
}

// Promos 可用优惠码
func (s *Selector) Promos() []Promo {
	return s.catalog.List()
}

// Remove 移除优惠码，总是成功
func (s *Selector) Remove() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.applied = nil
}

// Applied 当前已应用的优惠码副本
func (s *Selector) Applied() *Promo {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.applied == nil {
		return nil
	}
	p := *s.applied
	return &p
}

// Revalidate 校验已应用的优惠码在当前小计下仍满足门槛
func (s *Selector) Revalidate(subtotal models.Money) error {
	applied := s.Applied()
	if applied == nil {
		return nil
	}
	if subtotal.Decimal.LessThan(applied.MinimumOrderValue.Decimal) {
		return &MinimumNotMetError{Code: applied.Code, Required: applied.MinimumOrderValue}
	}
	return nil
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
