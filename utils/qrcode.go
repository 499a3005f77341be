package utils

import (
	"encoding/base64"
	"fmt"
	"net/url"
	"strconv"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/Sheraz031/smartgatepay/models"
)

// BuildUPIURI constructs the upi://pay URI a customer's UPI app scans.
// Razorpay-backed gateways additionally require a transaction reference
// (tr) in the payload.
func BuildUPIURI(order *models.Order, gw *models.PaymentGateway) (string, error) {
	if order.Amount <= 0 {
		return "", fmt.Errorf("invalid amount provided in the order")
	}
	if gw.UPIID == "" {
		return "", fmt.Errorf("missing necessary UPI data for generating QR code")
	}

	name := gw.Name
	if name == "" {
		name = "Your Company Name"
	}

	q := url.Values{}
	q.Set("pa", gw.UPIID)
	q.Set("pn", name)
	q.Set("am", strconv.FormatFloat(order.Amount, 'f', -1, 64))
	q.Set("tn", fmt.Sprintf("Pay To %s Merchant", gw.Type))

	if gw.Type == models.GatewayRazorpay {
		if gw.APIDetails.TransactionRef == "" {
			return "", fmt.Errorf("transaction reference (tr) is required for Razorpay gateway")
		}
		q.Set("tr", gw.APIDetails.TransactionRef)
	}

	return "upi://pay?" + q.Encode(), nil
}

// GenerateUPIQRCode renders the UPI URI as a PNG data URL for direct
// embedding in the payment page.
func GenerateUPIQRCode(order *models.Order, gw *models.PaymentGateway) (string, error) {
	uri, err := BuildUPIURI(order, gw)
	if err != nil {
		return "", err
	}

	png, err := qrcode.Encode(uri, qrcode.Medium, 400)
	if err != nil {
		return "", fmt.Errorf("failed to generate payment QR code: %w", err)
	}

	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
