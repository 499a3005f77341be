package models

import "gorm.io/gorm"

const (
	TransactionPending  = "pending"
	TransactionSuccess  = "success"
	TransactionFailed   = "failed"
	TransactionRefunded = "refunded"
)

// Transaction is the durable settlement record. The unique indexes on
// TransactionID and UTRNumber are the authoritative idempotency guard:
// concurrent submissions of the same UTR race on the insert, and exactly
// one wins.
type Transaction struct {
	gorm.Model
	TransactionID string  `gorm:"unique;not null" json:"transactionId"`
	Amount        float64 `gorm:"not null" json:"amount"`
	GatewayID     uint    `gorm:"not null" json:"gatewayId"`
	CustomerEmail string  `json:"customerEmail"`
	Status        string  `gorm:"not null;default:pending" json:"status"`
	UTRNumber     string  `gorm:"uniqueIndex;size:64" json:"utrNumber"`
	GatewayData   string  `gorm:"type:mediumtext" json:"-"`
	PaymentMethod string  `json:"paymentMethod"`
	CreatedBy     uint    `json:"createdBy"`
}
