// Package pricing 结算金额计算与优惠码选择
package pricing

import (
	"github.com/freshcart/internal/models"

	"github.com/shopspring/decimal"
)

// Breakdown 结算明细
// 所有字段保留完整精度，展示时再舍入到 2 位小数
type Breakdown struct {
	Subtotal           models.Money `json:"subtotal"`
	Discount           models.Money `json:"discount"`
	DiscountedSubtotal models.Money `json:"discounted_subtotal"`
	DeliveryFee        models.Money `json:"delivery_fee"`
	VAT                models.Money `json:"vat"`
	Total              models.Money `json:"total"`
}

// Calculate 计算结算明细，promo 为 nil 表示未使用优惠码
func Calculate(subtotal models.Money, promo *Promo, deliveryFee models.Money, vatRate decimal.Decimal) Breakdown {
	discount := decimal.Zero
	if promo != nil {
		discount = subtotal.Decimal.Mul(promo.DiscountRate)
	}
	discounted := subtotal.Decimal.Sub(discount)
	vat := discounted.Mul(vatRate)
	total := discounted.Add(deliveryFee.Decimal).Add(vat)

	return Breakdown{
		Subtotal:           subtotal,
		Discount:           models.NewMoneyFromDecimal(discount),
		DiscountedSubtotal: models.NewMoneyFromDecimal(discounted),
		DeliveryFee:        deliveryFee,
		VAT:                models.NewMoneyFromDecimal(vat),
		Total:              models.NewMoneyFromDecimal(total),
	}
}

// Constants 由外部配置提供的结算常量
type Constants struct {
	DeliveryFee    models.Money
	VATRate        decimal.Decimal
	CurrencySymbol string
}

// Calculate 使用当前常量计算
func (c Constants) Calculate(subtotal models.Money, promo *Promo) Breakdown {
	return Calculate(subtotal, promo, c.DeliveryFee, c.VATRate)
}
