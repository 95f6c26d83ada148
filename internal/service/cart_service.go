package service

import (
	"context"

	"github.com/freshcart/internal/cart"
	"github.com/freshcart/internal/models"
)

// CartItemDetail 购物车行（用于响应）
type CartItemDetail struct {
	cart.LineItem
	LineTotal       models.Money `json:"line_total"`
	DiscountPercent int          `json:"discount_percent"`
}

// CartView 购物车视图
type CartView struct {
	Items   []CartItemDetail `json:"items"`
	Summary cart.Summary     `json:"summary"`
}

// CartService 购物车服务
type CartService struct {
	ledger   *cart.Ledger
	products *ProductService
}

// NewCartService 创建购物车服务
func NewCartService(ledger *cart.Ledger, products *ProductService) *CartService {
	return &CartService{ledger: ledger, products: products}
}

// Add 按商品 ID 加购，商品信息取自商品服务
func (s *CartService) Add(ctx context.Context, productID models.ID, quantity int) (CartView, error) {
	if quantity < 1 {
		return CartView{}, cart.ErrInvalidQuantity
	}
	product, err := s.products.Get(ctx, productID)
	if err != nil {
		return CartView{}, err
	}
	if !product.InStock {
		return CartView{}, ErrProductUnavailable
	}
	if err := s.ledger.AddItem(product, quantity); err != nil {
		return CartView{}, err
	}
	return s.View(), nil
}

// SetQuantity 设置数量
func (s *CartService) SetQuantity(productID models.ID, quantity int) (CartView, error) {
	if err := s.ledger.SetQuantity(productID, quantity); err != nil {
		return CartView{}, err
	}
	return s.View(), nil
}

// Increment 数量 +1
func (s *CartService) Increment(productID models.ID) (CartView, error) {
	if err := s.ledger.Increment(productID); err != nil {
		return CartView{}, err
	}
	return s.View(), nil
}

// Decrement 数量 -1
func (s *CartService) Decrement(productID models.ID) (CartView, error) {
	if err := s.ledger.Decrement(productID); err != nil {
		return CartView{}, err
	}
	return s.View(), nil
}

// Remove 删除商品
func (s *CartService) Remove(productID models.ID) CartView {
	s.ledger.RemoveItem(productID)
	return s.View()
}

// Clear 清空
func (s *CartService) Clear() CartView {
	s.ledger.Clear()
	return s.View()
}

// View 当前购物车
func (s *CartService) View() CartView {
	items := s.ledger.Items()
	details := make([]CartItemDetail, 0, len(items))
	for _, item := range items {
		details = append(details, CartItemDetail{
			LineItem:        item,
			LineTotal:       item.LineTotal(),
			DiscountPercent: item.DiscountPercent(),
		})
	}
	return CartView{
		Items:   details,
		Summary: s.ledger.Summary(),
	}
}
