// Package cart 内存购物车账本
//
// 每个商品最多一条记录，数量始终 >= 1；数量被置为 0 即删除。
// 账本只存在于进程内存中，重启后为空。
package cart

import (
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/freshcart/internal/apperr"
	"github.com/freshcart/internal/logger"
	"github.com/freshcart/internal/models"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidQuantity = fmt.Errorf("%w: quantity must be at least 1", apperr.ErrValidation)
	ErrInvalidProduct  = fmt.Errorf("%w: product id is required", apperr.ErrValidation)
	ErrItemNotFound    = fmt.Errorf("%w: cart item", apperr.ErrNotFound)
)

// LineItem 购物车行
type LineItem struct {
	ProductID models.ID    `json:"product_id"`
	Quantity  int          `json:"quantity"`
	UnitPrice models.Money `json:"unit_price"` // 加购时的售价快照
	MRP       models.Money `json:"mrp"`        // 仅用于展示折扣
	Name      string       `json:"name"`
	Image     string       `json:"image"`
	Unit      string       `json:"unit"`
}

// LineTotal 行金额
func (l LineItem) LineTotal() models.Money {
	return models.NewMoneyFromDecimal(l.UnitPrice.Decimal.Mul(decimal.NewFromInt(int64(l.Quantity))))
}

// DiscountPercent 相对划线价的折扣百分比
func (l LineItem) DiscountPercent() int {
	return models.DiscountPercent(l.UnitPrice, l.MRP)
}

// Summary 购物车汇总（每次调用重新计算）
type Summary struct {
	TotalItems int          `json:"total_items"`
	TotalPrice models.Money `json:"total_price"`
	Formatted  string       `json:"formatted"`
}

// Ledger 购物车账本
type Ledger struct {
	mu             sync.Mutex
	order          []models.ID
	items          map[models.ID]*LineItem
	currencySymbol string
}

// NewLedger 创建空账本
func NewLedger(currencySymbol string) *Ledger {
	return &Ledger{
		items:          make(map[models.ID]*LineItem),
		currencySymbol: currencySymbol,
	}
}

// AddItem 加购：已存在则累加数量，否则按商品快照新增
func (l *Ledger) AddItem(product *models.Product, quantity int) error {
	if product == nil || product.ID.IsZero() {
		return ErrInvalidProduct
	}
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	id := normalizeID(product.ID)

	l.mu.Lock()
	defer l.mu.Unlock()

	if existing, ok := l.items[id]; ok {
		if quantity > math.MaxInt-existing.Quantity {
			return ErrInvalidQuantity
		}
		existing.Quantity += quantity
		return nil
	}
	l.items[id] = &LineItem{
		ProductID: id,
		Quantity:  quantity,
		UnitPrice: product.EffectivePrice(),
		MRP:       product.ReferencePrice(),
		Name:      product.Name,
		Image:     product.Image,
		Unit:      product.Unit,
	}
	l.order = append(l.order, id)
	return nil
}

// SetQuantity 设置数量；quantity <= 0 时删除。
// 商品不存在且 quantity > 0 时不新增，返回 ErrItemNotFound。
func (l *Ledger) SetQuantity(productID models.ID, quantity int) error {
	id := normalizeID(productID)

	l.mu.Lock()
	defer l.mu.Unlock()

	if quantity <= 0 {
		l.removeLocked(id)
		return nil
	}
	existing, ok := l.items[id]
	if !ok {
		logger.Warnw("cart_set_quantity_missing_item", "product_id", id, "quantity", quantity)
		return ErrItemNotFound
	}
	existing.Quantity = quantity
	return nil
}

// Increment 数量 +1
func (l *Ledger) Increment(productID models.ID) error {
	return l.adjust(productID, 1)
}

// Decrement 数量 -1，降到 0 时删除
func (l *Ledger) Decrement(productID models.ID) error {
	return l.adjust(productID, -1)
}

func (l *Ledger) adjust(productID models.ID, delta int) error {
	id := normalizeID(productID)

	l.mu.Lock()
	defer l.mu.Unlock()

	existing, ok := l.items[id]
	if !ok {
		if delta < 0 {
			return nil
		}
		return ErrItemNotFound
	}
	if delta > 0 && existing.Quantity > math.MaxInt-delta {
		return ErrInvalidQuantity
	}
	next := existing.Quantity + delta
	if next <= 0 {
		l.removeLocked(id)
		return nil
	}
	existing.Quantity = next
	return nil
}

// RemoveItem 删除商品，不存在时无操作
func (l *Ledger) RemoveItem(productID models.ID) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.removeLocked(normalizeID(productID))
}

// Quantity 商品数量，不存在返回 0
func (l *Ledger) Quantity(productID models.ID) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	if item, ok := l.items[normalizeID(productID)]; ok {
		return item.Quantity
	}
	return 0
}

// Items 按加购顺序返回快照
func (l *Ledger) Items() []LineItem {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.itemsLocked()
}

func (l *Ledger) itemsLocked() []LineItem {
	result := make([]LineItem, 0, len(l.order))
	for _, id := range l.order {
		result = append(result, *l.items[id])
	}
	return result
}

// Len 行数
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.order)
}

// Subtotal 精确小计（不舍入）
func (l *Ledger) Subtotal() models.Money {
	return l.Summary().TotalPrice
}

// Summary 汇总数量与金额
func (l *Ledger) Summary() Summary {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.summaryLocked()
}

// Snapshot 同一时刻的行快照与汇总
func (l *Ledger) Snapshot() ([]LineItem, Summary) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.itemsLocked(), l.summaryLocked()
}

// Subtract 按已下单数量扣减，扣减后 <= 0 的行删除；期间新增的商品与数量保留
func (l *Ledger) Subtract(ordered []LineItem) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, line := range ordered {
		id := normalizeID(line.ProductID)
		existing, ok := l.items[id]
		if !ok {
			continue
		}
		if existing.Quantity <= line.Quantity {
			l.removeLocked(id)
			continue
		}
		existing.Quantity -= line.Quantity
	}
}

func (l *Ledger) summaryLocked() Summary {
	totalItems := 0
	totalPrice := decimal.Zero
	for _, id := range l.order {
		item := l.items[id]
		totalItems += item.Quantity
		totalPrice = totalPrice.Add(item.UnitPrice.Decimal.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	price := models.NewMoneyFromDecimal(totalPrice)
	return Summary{
		TotalItems: totalItems,
		TotalPrice: price,
		Formatted:  price.Format(l.currencySymbol),
	}
}

// Clear 清空账本（下单成功后）
func (l *Ledger) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = make(map[models.ID]*LineItem)
	l.order = nil
}

func (l *Ledger) removeLocked(id models.ID) {
	if _, ok := l.items[id]; !ok {
		return
	}
	delete(l.items, id)
	for i, existing := range l.order {
		if existing == id {
			l.order = append(l.order[:i], l.order[i+1:]...)
			break
		}
	}
}

func normalizeID(id models.ID) models.ID {
	return models.ID(strings.TrimSpace(string(id)))
}
