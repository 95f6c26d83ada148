package constants

// 会话持久化键
const (
	StorageKeyUser   = "session.user"
	StorageKeyToken  = "session.token"
	StorageKeyUserID = "session.user_id"
)

// 存储驱动
const (
	StorageDriverSQLite   = "sqlite"
	StorageDriverPostgres = "postgres"
	StorageDriverRedis    = "redis"
	StorageDriverMemory   = "memory"
)

// 商品排序方式
const (
	ProductSortDefault   = ""
	ProductSortPriceAsc  = "price_asc"
	ProductSortPriceDesc = "price_desc"
	ProductSortNameAsc   = "name_asc"
	ProductSortNewest    = "newest"
)

// 支付方式（仅作为标签透传，不做扣款）
const (
	PaymentMethodCashOnDelivery = "cash_on_delivery"
	PaymentMethodCard           = "card"
	PaymentMethodWallet         = "wallet"
)

// 订单状态
const (
	OrderStatusPlaced    = "placed"
	OrderStatusConfirmed = "confirmed"
	OrderStatusDelivered = "delivered"
	OrderStatusCanceled  = "canceled"
)

// 默认头像（用户未上传照片时）
const DefaultUserImage = "assets/images/avatar_placeholder.png"

// HeaderIdempotencyKey 下单幂等键请求头
const HeaderIdempotencyKey = "Idempotency-Key"
