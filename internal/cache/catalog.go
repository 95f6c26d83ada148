package cache

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/freshcart/internal/models"
)

// ProductPage 商品列表快照
type ProductPage struct {
	Items    []models.Product `json:"items"`
	Total    int              `json:"total"`
	CachedAt int64            `json:"cached_at"`
}

// ProductListKey 列表缓存键，query 为规范化后的查询参数
func ProductListKey(query url.Values) string {
	return fmt.Sprintf("catalog:list:%s", query.Encode())
}

func productKey(id models.ID) string {
	return fmt.Sprintf("catalog:product:%s", id)
}

// GetProductPage 读取商品列表快照
func GetProductPage(ctx context.Context, key string) (*ProductPage, bool, error) {
	return load[ProductPage](ctx, key)
}

// SetProductPage 写入商品列表快照
func SetProductPage(ctx context.Context, key string, page *ProductPage, ttl time.Duration) error {
	if page == nil {
		return nil
	}
	if page.CachedAt == 0 {
		page.CachedAt = time.Now().Unix()
	}
	return store(ctx, key, page, ttl)
}

// GetProduct 读取商品详情快照
func GetProduct(ctx context.Context, id models.ID) (*models.Product, bool, error) {
	return load[models.Product](ctx, productKey(id))
}

// SetProduct 写入商品详情快照
func SetProduct(ctx context.Context, product *models.Product, ttl time.Duration) error {
	if product == nil || product.ID.IsZero() {
		return nil
	}
	return store(ctx, productKey(product.ID), product, ttl)
}
