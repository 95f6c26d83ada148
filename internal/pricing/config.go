package pricing

import (
	"fmt"
	"strings"

	"github.com/freshcart/internal/config"
	"github.com/freshcart/internal/models"

	"github.com/shopspring/decimal"
)

// ConstantsFromConfig 解析结算常量
func ConstantsFromConfig(cfg config.PricingConfig) (Constants, error) {
	fee, err := models.ParseMoney(cfg.DeliveryFee)
	if err != nil {
		return Constants{}, fmt.Errorf("invalid pricing.delivery_fee %q: %w", cfg.DeliveryFee, err)
	}
	if fee.Decimal.IsNegative() {
		return Constants{}, fmt.Errorf("invalid pricing.delivery_fee %q: negative", cfg.DeliveryFee)
	}
	rate, err := parseRate(cfg.VATRate)
	if err != nil {
		return Constants{}, fmt.Errorf("invalid pricing.vat_rate %q: %w", cfg.VATRate, err)
	}
	return Constants{
		DeliveryFee:    fee,
		VATRate:        rate,
		CurrencySymbol: cfg.CurrencySymbol,
	}, nil
}

// CatalogFromConfig 从配置构建优惠码表
func CatalogFromConfig(items []config.PromoConfig) (*Catalog, error) {
	promos := make([]Promo, 0, len(items))
	for _, item := range items {
		rate, err := parseRate(item.DiscountRate)
		if err != nil {
			return nil, fmt.Errorf("promo %s: invalid discount_rate: %w", item.Code, err)
		}
		minimum, err := models.ParseMoney(item.MinOrderValue)
		if err != nil {
			return nil, fmt.Errorf("promo %s: invalid min_order_value: %w", item.Code, err)
		}
		promos = append(promos, Promo{
			Code:              item.Code,
			DiscountRate:      rate,
			MinimumOrderValue: minimum,
		})
	}
	return NewCatalog(promos)
}

func parseRate(raw string) (decimal.Decimal, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return decimal.Zero, nil
	}
	rate, err := decimal.NewFromString(trimmed)
	if err != nil {
		return decimal.Zero, err
	}
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
		return decimal.Zero, fmt.Errorf("rate %s out of [0,1]", trimmed)
	}
	return rate, nil
}
