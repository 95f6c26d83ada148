package models

import "time"

// OrderLine 订单行
type OrderLine struct {
	ProductID ID     `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice Money  `json:"unit_price"`
	LineTotal Money  `json:"line_total"`
}

// Order 订单
type Order struct {
	ID            ID          `json:"id"`
	Status        string      `json:"status"`
	Lines         []OrderLine `json:"lines"`
	PromoCode     string      `json:"promo_code,omitempty"`
	Subtotal      Money       `json:"subtotal"`
	Discount      Money       `json:"discount"`
	DeliveryFee   Money       `json:"delivery_fee"`
	VAT           Money       `json:"vat"`
	Total         Money       `json:"total"`
	PaymentMethod string      `json:"payment_method"`
	AddressID     ID          `json:"address_id"`
	Note          string      `json:"note,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
}
