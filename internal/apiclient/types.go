package apiclient

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/freshcart/internal/apperr"
	"github.com/freshcart/internal/constants"
	"github.com/freshcart/internal/models"
)

var ErrInvalidSort = fmt.Errorf("%w: unsupported product sort", apperr.ErrValidation)

// Credentials 登录凭据
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration 注册信息
type Registration struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// AuthResult 登录/注册结果
type AuthResult struct {
	User  models.User `json:"user"`
	Token string      `json:"token"`
}

// ProductQuery 商品查询条件
type ProductQuery struct {
	Category string
	Search   string
	Sort     string // constants.ProductSort*
	Page     int
	PageSize int
}

// ProductPage 商品分页
type ProductPage struct {
	Items []models.Product `json:"items"`
	Total int              `json:"total"`
}

// AddressInput 新增地址
type AddressInput struct {
	Label     string `json:"label"`
	Line1     string `json:"line1"`
	Line2     string `json:"line2,omitempty"`
	City      string `json:"city"`
	Postcode  string `json:"postcode"`
	Phone     string `json:"phone"`
	IsDefault bool   `json:"is_default"`
}

// OrderLineRequest 下单行
type OrderLineRequest struct {
	ProductID models.ID    `json:"product_id"`
	Quantity  int          `json:"quantity"`
	UnitPrice models.Money `json:"unit_price"`
}

// OrderRequest 下单请求，金额为客户端计算结果供服务端核对
type OrderRequest struct {
	Lines         []OrderLineRequest `json:"lines"`
	PromoCode     string             `json:"promo_code,omitempty"`
	Subtotal      models.Money       `json:"subtotal"`
	Discount      models.Money       `json:"discount"`
	DeliveryFee   models.Money       `json:"delivery_fee"`
	VAT           models.Money       `json:"vat"`
	Total         models.Money       `json:"total"`
	AddressID     models.ID          `json:"address_id"`
	PaymentMethod string             `json:"payment_method"`
	Note          string             `json:"note,omitempty"`
}

var validSorts = map[string]struct{}{
	constants.ProductSortDefault:   {},
	constants.ProductSortPriceAsc:  {},
	constants.ProductSortPriceDesc: {},
	constants.ProductSortNameAsc:   {},
	constants.ProductSortNewest:    {},
}

// Normalize 规范化查询条件
func (q ProductQuery) Normalize() (ProductQuery, error) {
	q.Category = strings.TrimSpace(q.Category)
	q.Search = strings.TrimSpace(q.Search)
	q.Sort = strings.ToLower(strings.TrimSpace(q.Sort))
	if _, ok := validSorts[q.Sort]; !ok {
		return q, fmt.Errorf("%w: %s", ErrInvalidSort, q.Sort)
	}
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		q.PageSize = 20
	}
	if q.PageSize > 100 {
		q.PageSize = 100
	}
	return q, nil
}

// Values 转换为查询参数
func (q ProductQuery) Values() url.Values {
	values := url.Values{}
	if q.Category != "" {
		values.Set("category", q.Category)
	}
	if q.Search != "" {
		values.Set("search", q.Search)
	}
	if q.Sort != "" {
		values.Set("sort", q.Sort)
	}
	if q.Page > 0 {
		values.Set("page", strconv.Itoa(q.Page))
	}
	if q.PageSize > 0 {
		values.Set("page_size", strconv.Itoa(q.PageSize))
	}
	return values
}
