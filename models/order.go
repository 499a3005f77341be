package models

import "gorm.io/gorm"

// Order is a single payment request awaiting settlement. The gateway
// binding is set at creation and never changes afterwards.
type Order struct {
	gorm.Model
	OrderID       string  `gorm:"unique;not null" json:"orderId"`
	CustomerName  string  `json:"customerName"`
	CustomerEmail string  `json:"customerEmail"`
	CustomerPhone string  `json:"customerPhone"`
	RedirectURL   string  `gorm:"not null" json:"redirectUrl"`
	Amount        float64 `gorm:"not null" json:"amount"`
	UDF1          string  `json:"udf1"`
	UDF2          string  `json:"udf2"`
	UDF3          string  `json:"udf3"`
	QRCodeData    string  `gorm:"type:mediumtext" json:"-"`
	Status        string  `json:"status"`
	GatewayID     uint    `gorm:"not null" json:"gatewayId"`
}
