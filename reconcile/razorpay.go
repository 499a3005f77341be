package reconcile

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Sheraz031/smartgatepay/models"
)

// RazorpayAdapter talks to the Razorpay payments API with HTTP basic
// auth. Razorpay offers ledger search, so Fetch pulls every payment in a
// short lookback window; amounts come back in paise.
type RazorpayAdapter struct{}

const (
	razorpayDefaultBaseURL = "https://api.razorpay.com"
	razorpayLookback       = 3 * time.Hour
	razorpayPageSize       = 100
	razorpayTimeout        = 10 * time.Second
)

// splitKeySecret parses the stored api secret, which holds
// "key_id,key_secret" in a single field.
func splitKeySecret(gw *models.PaymentGateway) (string, string, error) {
	secret := gw.APIDetails.Secret
	if secret == "" || !strings.Contains(secret, ",") {
		return "", "", fmt.Errorf("razorpay api secret must be in format: key_id,key_secret")
	}
	parts := strings.SplitN(secret, ",", 2)
	keyID := strings.TrimSpace(parts[0])
	keySecret := strings.TrimSpace(parts[1])
	if keyID == "" || keySecret == "" {
		return "", "", fmt.Errorf("invalid razorpay api secret format")
	}
	return keyID, keySecret, nil
}

func (a *RazorpayAdapter) Fetch(ctx context.Context, gw *models.PaymentGateway, order *models.Order) ([]NativeTransaction, error) {
	keyID, keySecret, err := splitKeySecret(gw)
	if err != nil {
		return nil, upstreamErr(models.GatewayRazorpay, "invalid credentials", err)
	}

	now := time.Now().Unix()
	from := now - int64(razorpayLookback/time.Second)

	q := url.Values{}
	q.Set("from", strconv.FormatInt(from, 10))
	q.Set("to", strconv.FormatInt(now, 10))
	q.Set("count", strconv.Itoa(razorpayPageSize))
	q.Set("skip", "0")

	endpoint := baseURL("RAZORPAY_BASE_URL", razorpayDefaultBaseURL) + "/v1/payments?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, upstreamErr(models.GatewayRazorpay, "failed to build request", err)
	}
	req.SetBasicAuth(keyID, keySecret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := newHTTPClient(razorpayTimeout).Do(req)
	if err != nil {
		return nil, upstreamErr(models.GatewayRazorpay, "failed to fetch payments", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		log.Printf("Razorpay payments fetch returned status %d: %s", resp.StatusCode, string(body))
		return nil, upstreamErr(models.GatewayRazorpay, fmt.Sprintf("payments fetch returned status %d", resp.StatusCode), nil)
	}

	var payload struct {
		Items []NativeTransaction `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, upstreamErr(models.GatewayRazorpay, "failed to decode payments response", err)
	}

	log.Printf("Razorpay payments fetched: count=%d orderId=%s", len(payload.Items), order.OrderID)
	return payload.Items, nil
}

// Normalize maps a Razorpay payment to the canonical shape: amount is in
// paise (divide by 100), the captured flag decides success/failed, and
// the UTR lives in acquirer_data.rrn.
func (a *RazorpayAdapter) Normalize(raw NativeTransaction) CanonicalTransaction {
	status := models.TransactionFailed
	if boolField(raw, "captured") {
		status = models.TransactionSuccess
	}
	return CanonicalTransaction{
		ID:     firstString(raw, "id", "payment_id"),
		Amount: floatField(raw, "amount") / 100,
		Status: status,
		UTR:    nestedString(raw, "acquirer_data", "rrn"),
		Raw:    raw,
	}
}

// Verify probes the payments endpoint with count=1; any response other
// than 200 means the credentials do not work.
func (a *RazorpayAdapter) Verify(ctx context.Context, gw *models.PaymentGateway) VerifyResult {
	keyID, keySecret, err := splitKeySecret(gw)
	if err != nil {
		return VerifyResult{Status: models.GatewayStatusInactive, Details: "Missing or invalid API Secret"}
	}

	endpoint := baseURL("RAZORPAY_BASE_URL", razorpayDefaultBaseURL) + "/v1/payments?count=1"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return VerifyResult{Status: models.GatewayStatusInactive, Details: err.Error()}
	}
	req.SetBasicAuth(keyID, keySecret)

	resp, err := newHTTPClient(razorpayTimeout).Do(req)
	if err != nil {
		return VerifyResult{Status: models.GatewayStatusInactive, Details: "Razorpay API unreachable"}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return VerifyResult{Status: models.GatewayStatusInactive, Details: fmt.Sprintf("Razorpay API returned status %d", resp.StatusCode)}
	}
	return VerifyResult{Status: models.GatewayStatusActive}
}
