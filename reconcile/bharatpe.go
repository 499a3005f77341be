package reconcile

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/Sheraz031/smartgatepay/models"
)

// BharatPeAdapter queries the per-order transaction status endpoint with
// a bearer token. Like Paytm, the result is a single record and amounts
// are already in rupees.
type BharatPeAdapter struct{}

const (
	bharatpeDefaultBaseURL = "https://api.bharatpe.com"
	bharatpeTimeout        = 15 * time.Second
)

func (a *BharatPeAdapter) Fetch(ctx context.Context, gw *models.PaymentGateway, order *models.Order) ([]NativeTransaction, error) {
	token := gw.APIDetails.Token
	secret := gw.APIDetails.Secret
	if token == "" || secret == "" {
		return nil, upstreamErr(models.GatewayBharatPe, "api token and secret are required", nil)
	}

	q := url.Values{}
	q.Set("merchantId", gw.MerchantID)
	q.Set("orderId", order.OrderID)

	endpoint := baseURL("BHARATPE_BASE_URL", bharatpeDefaultBaseURL) + "/transaction/v1/status?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, upstreamErr(models.GatewayBharatPe, "failed to build request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := newHTTPClient(bharatpeTimeout).Do(req)
	if err != nil {
		return nil, upstreamErr(models.GatewayBharatPe, "failed to fetch transaction status", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		log.Printf("BharatPe transaction status returned status %d: %s", resp.StatusCode, string(body))
		return nil, upstreamErr(models.GatewayBharatPe, fmt.Sprintf("transaction status returned status %d", resp.StatusCode), nil)
	}

	var record NativeTransaction
	if err := json.NewDecoder(resp.Body).Decode(&record); err != nil {
		return nil, upstreamErr(models.GatewayBharatPe, "failed to decode transaction status response", err)
	}

	log.Printf("BharatPe transaction status fetched: orderId=%s", order.OrderID)
	return []NativeTransaction{record}, nil
}

func (a *BharatPeAdapter) Normalize(raw NativeTransaction) CanonicalTransaction {
	status := firstString(raw, "status")
	if status == "" {
		status = models.TransactionSuccess
	}
	return CanonicalTransaction{
		ID:     firstString(raw, "id", "txnId", "transactionId"),
		Amount: floatField(raw, "amount"),
		Status: status,
		UTR:    firstString(raw, "utr", "UTR", "utrNumber"),
		Raw:    raw,
	}
}

func (a *BharatPeAdapter) Verify(ctx context.Context, gw *models.PaymentGateway) VerifyResult {
	if gw.APIKey != "" && gw.UPIID != "" {
		return VerifyResult{Status: models.GatewayStatusActive, Details: "BharatPe credentials present"}
	}
	return VerifyResult{Status: models.GatewayStatusInactive, Details: "BharatPe credentials missing: api key and UPI id are required"}
}
