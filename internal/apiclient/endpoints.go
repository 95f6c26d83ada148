package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/freshcart/internal/constants"
	"github.com/freshcart/internal/models"
)

// Login 登录
func (c *Client) Login(ctx context.Context, creds Credentials) (*AuthResult, error) {
	var result AuthResult
	if err := c.do(ctx, http.MethodPost, "/auth/login", requestOptions{body: creds}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Register 注册
func (c *Client) Register(ctx context.Context, reg Registration) (*AuthResult, error) {
	var result AuthResult
	if err := c.do(ctx, http.MethodPost, "/auth/register", requestOptions{body: reg}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetProfile 获取当前用户资料
func (c *Client) GetProfile(ctx context.Context, token string) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodGet, "/user/profile", requestOptions{token: token}, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateProfile 更新用户资料
func (c *Client) UpdateProfile(ctx context.Context, token string, patch models.ProfilePatch) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodPut, "/user/profile", requestOptions{token: token, body: patch}, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ListProducts 商品列表
func (c *Client) ListProducts(ctx context.Context, query ProductQuery) (*ProductPage, error) {
	normalized, err := query.Normalize()
	if err != nil {
		return nil, err
	}
	var page ProductPage
	if err := c.do(ctx, http.MethodGet, "/products", requestOptions{query: normalized.Values()}, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetProduct 商品详情
func (c *Client) GetProduct(ctx context.Context, id models.ID) (*models.Product, error) {
	var product models.Product
	if err := c.do(ctx, http.MethodGet, "/products/"+url.PathEscape(id.String()), requestOptions{}, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// ListAddresses 地址列表
func (c *Client) ListAddresses(ctx context.Context, token string) ([]models.Address, error) {
	var addresses []models.Address
	if err := c.do(ctx, http.MethodGet, "/addresses", requestOptions{token: token}, &addresses); err != nil {
		return nil, err
	}
	return addresses, nil
}

// AddAddress 新增地址
func (c *Client) AddAddress(ctx context.Context, token string, input AddressInput) (*models.Address, error) {
	var address models.Address
	if err := c.do(ctx, http.MethodPost, "/addresses", requestOptions{token: token, body: input}, &address); err != nil {
		return nil, err
	}
	return &address, nil
}

// DeleteAddress 删除地址
func (c *Client) DeleteAddress(ctx context.Context, token string, id models.ID) error {
	return c.do(ctx, http.MethodDelete, "/addresses/"+url.PathEscape(id.String()), requestOptions{token: token}, nil)
}

// PlaceOrder 下单，idempotencyKey 用于服务端去重
func (c *Client) PlaceOrder(ctx context.Context, token, idempotencyKey string, req OrderRequest) (*models.Order, error) {
	var order models.Order
	opts := requestOptions{
		token:   token,
		body:    req,
		headers: map[string]string{constants.HeaderIdempotencyKey: idempotencyKey},
	}
	if err := c.do(ctx, http.MethodPost, "/orders", opts, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// ListOrders 历史订单
func (c *Client) ListOrders(ctx context.Context, token string) ([]models.Order, error) {
	var orders []models.Order
	if err := c.do(ctx, http.MethodGet, "/orders", requestOptions{token: token}, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}
