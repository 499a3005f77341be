package models

import "gorm.io/gorm"

// Supported upstream providers.
const (
	GatewayRazorpay = "RAZORPAY"
	GatewayPaytm    = "PAYTM"
	GatewayBharatPe = "BHARATPE"
	GatewayStripe   = "STRIPE"
	GatewayPaypal   = "PAYPAL"
	GatewaySquare   = "SQUARE"
)

const (
	GatewayStatusActive   = "active"
	GatewayStatusInactive = "inactive"
)

// APIDetails is the per-provider credential bundle. Which fields are
// required depends on the gateway type; verification checks them before
// the gateway may go active.
type APIDetails struct {
	Token          string `gorm:"column:api_token" json:"apiToken"`
	Secret         string `gorm:"column:api_secret" json:"apiSecret"`
	TransactionRef string `gorm:"column:api_tr" json:"tr"`
	AccessKeyID    string `gorm:"column:api_accesskey_id" json:"accesskeyId"`
	MerchantKey    string `gorm:"column:api_merchant_key" json:"merchantKey"`
	Cookie         string `gorm:"column:api_cookie" json:"cookie"`
	XSRF           string `gorm:"column:api_xsrf" json:"xsrf"`
}

type PaymentGateway struct {
	gorm.Model
	Name         string     `gorm:"not null" json:"name"`
	Type         string     `gorm:"not null" json:"type"`
	Phone        string     `json:"phone"`
	Status       string     `gorm:"not null;default:inactive" json:"status"`
	APIKey       string     `gorm:"not null;index" json:"apiKey"`
	UPIID        string     `gorm:"not null" json:"upiId"`
	MerchantID   string     `gorm:"not null" json:"merchantId"`
	WebhookURL   string     `json:"webhookUrl"`
	APIDetails   APIDetails `gorm:"embedded" json:"apiDetails"`
	Priority     int        `gorm:"default:0" json:"priority"`
	DailyLimit   float64    `gorm:"default:0" json:"dailyLimit"`
	MonthlyLimit float64    `gorm:"default:0" json:"monthlyLimit"`
	CreatedBy    uint       `json:"createdBy"`
}
