package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/freshcart/internal/apiclient"
	"github.com/freshcart/internal/apperr"
	"github.com/freshcart/internal/cache"
	"github.com/freshcart/internal/logger"
	"github.com/freshcart/internal/models"
)

// ProductService 商品浏览服务，列表与详情走 Redis 快照缓存
type ProductService struct {
	api ProductAPI
	ttl time.Duration
}

// NewProductService 创建商品服务，ttl <= 0 时不缓存
func NewProductService(api ProductAPI, ttl time.Duration) *ProductService {
	return &ProductService{api: api, ttl: ttl}
}

// List 商品列表
func (s *ProductService) List(ctx context.Context, query apiclient.ProductQuery) (*apiclient.ProductPage, error) {
	normalized, err := query.Normalize()
	if err != nil {
		return nil, err
	}
	key := cache.ProductListKey(normalized.Values())
	if s.ttl > 0 {
		if cached, hit, err := cache.GetProductPage(ctx, key); err == nil && hit {
			return &apiclient.ProductPage{Items: cached.Items, Total: cached.Total}, nil
		} else if err != nil {
			logger.Warnw("product_list_cache_get_failed", "key", key, "error", err)
		}
	}

	page, err := s.api.ListProducts(ctx, normalized)
	if err != nil {
		return nil, err
	}
	if s.ttl > 0 {
		snapshot := &cache.ProductPage{Items: page.Items, Total: page.Total}
		if err := cache.SetProductPage(ctx, key, snapshot, s.ttl); err != nil {
			logger.Warnw("product_list_cache_set_failed", "key", key, "error", err)
		}
	}
	return page, nil
}

// Get 商品详情
func (s *ProductService) Get(ctx context.Context, id models.ID) (*models.Product, error) {
	id = models.ID(strings.TrimSpace(id.String()))
	if id.IsZero() {
		return nil, ErrProductNotFound
	}
	if s.ttl > 0 {
		if cached, hit, err := cache.GetProduct(ctx, id); err == nil && hit {
			return cached, nil
		} else if err != nil {
			logger.Warnw("product_cache_get_failed", "product_id", id, "error", err)
		}
	}

	product, err := s.api.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	if product.ID.IsZero() {
		product.ID = id
	}
	if s.ttl > 0 {
		if err := cache.SetProduct(ctx, product, s.ttl); err != nil {
			logger.Warnw("product_cache_set_failed", "product_id", id, "error", err)
		}
	}
	return product, nil
}
