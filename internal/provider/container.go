package provider

import (
	"fmt"
	"time"

	"github.com/freshcart/internal/apiclient"
	"github.com/freshcart/internal/cache"
	"github.com/freshcart/internal/cart"
	"github.com/freshcart/internal/config"
	"github.com/freshcart/internal/logger"
	"github.com/freshcart/internal/pricing"
	"github.com/freshcart/internal/service"
	"github.com/freshcart/internal/session"
	"github.com/freshcart/internal/storage"
)

// Container 依赖注入容器
// 购物车账本、优惠码选择器、会话存储在进程内各只有一个实例
type Container struct {
	Config *config.Config

	Storage      storage.Storage
	closeStorage func() error
	APIClient    *apiclient.Client

	// 核心状态
	Ledger   *cart.Ledger
	Selector *pricing.Selector
	Session  *session.Store
	Pricing  pricing.Constants

	// Services
	ProductService  *service.ProductService
	CartService     *service.CartService
	CheckoutService *service.CheckoutService
	AccountService  *service.AccountService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	store, closer, err := storage.Open(cfg.Storage, cache.Client(), cache.Prefix())
	if err != nil {
		return nil, fmt.Errorf("init storage failed: %w", err)
	}
	if cfg.Storage.Secret == "" {
		logger.Warnw("provider_storage_unsealed", "driver", cfg.Storage.Driver)
	}

	client, err := apiclient.New(cfg.API)
	if err != nil {
		_ = closer()
		return nil, fmt.Errorf("init api client failed: %w", err)
	}

	c := &Container{
		Config:       cfg,
		Storage:      store,
		closeStorage: closer,
		APIClient:    client,
	}
	if err := c.initCore(); err != nil {
		_ = closer()
		return nil, err
	}
	c.initServices()
	return c, nil
}

func (c *Container) initCore() error {
	consts, err := pricing.ConstantsFromConfig(c.Config.Pricing)
	if err != nil {
		return err
	}
	catalog, err := pricing.CatalogFromConfig(c.Config.Promos)
	if err != nil {
		return err
	}
	c.Pricing = consts
	c.Ledger = cart.NewLedger(consts.CurrencySymbol)
	c.Selector = pricing.NewSelector(catalog)
	c.Session = session.NewStore(c.Storage)
	return nil
}

func (c *Container) initServices() {
	ttl := time.Duration(c.Config.Catalog.CacheTTLSeconds) * time.Second
	c.ProductService = service.NewProductService(c.APIClient, ttl)
	c.CartService = service.NewCartService(c.Ledger, c.ProductService)
	c.CheckoutService = service.NewCheckoutService(c.Ledger, c.Selector, c.Pricing, c.Session, c.APIClient)
	c.AccountService = service.NewAccountService(c.APIClient, c.Session)
}

// Close 释放存储与缓存连接
func (c *Container) Close() error {
	var firstErr error
	if c.closeStorage != nil {
		if err := c.closeStorage(); err != nil {
			firstErr = err
		}
	}
	if err := cache.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}
