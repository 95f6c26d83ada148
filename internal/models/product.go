package models

import "github.com/shopspring/decimal"

// Product 商品（来自远端接口）
type Product struct {
	ID           ID     `json:"id"`
	Name         string `json:"name"`
	Image        string `json:"image"`
	Unit         string `json:"unit"`         // 规格，例如 500g / 1 pack
	Category     string `json:"category"`     // 分类标识
	SellingPrice *Money `json:"selling_price"` // 售价
	Price        *Money `json:"price"`        // 兼容旧字段
	MRP          *Money `json:"mrp"`          // 划线价，仅用于展示折扣
	InStock      bool   `json:"in_stock"`
}

// EffectivePrice 售价，缺失时回退到 price，再回退到 0
func (p *Product) EffectivePrice() Money {
	if p == nil {
		return Money{}
	}
	if p.SellingPrice != nil {
		return *p.SellingPrice
	}
	if p.Price != nil {
		return *p.Price
	}
	return Money{}
}

// ReferencePrice 划线价，缺失时与售价相同
func (p *Product) ReferencePrice() Money {
	if p == nil {
		return Money{}
	}
	if p.MRP != nil {
		return *p.MRP
	}
	return p.EffectivePrice()
}

// DiscountPercent 商品自身的折扣百分比
func (p *Product) DiscountPercent() int {
	return DiscountPercent(p.EffectivePrice(), p.ReferencePrice())
}

// DiscountPercent 按划线价计算的折扣百分比（整数，向下取整）
func DiscountPercent(unitPrice, mrp Money) int {
	if !mrp.Decimal.IsPositive() || unitPrice.Decimal.GreaterThanOrEqual(mrp.Decimal) {
		return 0
	}
	saved := mrp.Decimal.Sub(unitPrice.Decimal)
	return int(saved.Div(mrp.Decimal).Mul(decimal.NewFromInt(100)).Floor().IntPart())
}
