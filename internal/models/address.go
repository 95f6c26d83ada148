package models

// Address 收货地址
type Address struct {
	ID        ID     `json:"id"`
	Label     string `json:"label"` // Home / Work
	Line1     string `json:"line1"`
	Line2     string `json:"line2"`
	City      string `json:"city"`
	Postcode  string `json:"postcode"`
	Phone     string `json:"phone"`
	IsDefault bool   `json:"is_default"`
}
