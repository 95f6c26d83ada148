package service

import (
	"context"

	"github.com/freshcart/internal/apiclient"
	"github.com/freshcart/internal/models"
)

// AuthAPI 登录注册与资料接口
type AuthAPI interface {
	Login(ctx context.Context, creds apiclient.Credentials) (*apiclient.AuthResult, error)
	Register(ctx context.Context, reg apiclient.Registration) (*apiclient.AuthResult, error)
	GetProfile(ctx context.Context, token string) (*models.User, error)
	UpdateProfile(ctx context.Context, token string, patch models.ProfilePatch) (*models.User, error)
}

// AddressAPI 地址接口
type AddressAPI interface {
	ListAddresses(ctx context.Context, token string) ([]models.Address, error)
	AddAddress(ctx context.Context, token string, input apiclient.AddressInput) (*models.Address, error)
	DeleteAddress(ctx context.Context, token string, id models.ID) error
}

// ProductAPI 商品接口
type ProductAPI interface {
	ListProducts(ctx context.Context, query apiclient.ProductQuery) (*apiclient.ProductPage, error)
	GetProduct(ctx context.Context, id models.ID) (*models.Product, error)
}

// OrderAPI 订单接口
type OrderAPI interface {
	PlaceOrder(ctx context.Context, token, idempotencyKey string, req apiclient.OrderRequest) (*models.Order, error)
	ListOrders(ctx context.Context, token string) ([]models.Order, error)
}

// AccountAPI 账户服务依赖的全部接口
type AccountAPI interface {
	AuthAPI
	AddressAPI
}
