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

// PaytmAdapter looks up the status of the specific order rather than
// searching a ledger, so Fetch returns at most one record. Amounts are
// already in rupees.
type PaytmAdapter struct{}

const (
	paytmDefaultBaseURL = "https://securegw.paytm.in"
	paytmTimeout        = 15 * time.Second
)

func (a *PaytmAdapter) Fetch(ctx context.Context, gw *models.PaymentGateway, order *models.Order) ([]NativeTransaction, error) {
	token := gw.APIDetails.Token
	secret := gw.APIDetails.Secret
	if token == "" || secret == "" {
		return nil, upstreamErr(models.GatewayPaytm, "api token and secret are required", nil)
	}

	q := url.Values{}
	q.Set("MID", gw.MerchantID)
	q.Set("ORDERID", order.OrderID)
	q.Set("CHECKSUMHASH", secret)

	endpoint := baseURL("PAYTM_BASE_URL", paytmDefaultBaseURL) + "/v3/order/status?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, upstreamErr(models.GatewayPaytm, "failed to build request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := newHTTPClient(paytmTimeout).Do(req)
	if err != nil {
		return nil, upstreamErr(models.GatewayPaytm, "failed to fetch order status", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		log.Printf("Paytm order status returned status %d: %s", resp.StatusCode, string(body))
		return nil, upstreamErr(models.GatewayPaytm, fmt.Sprintf("order status returned status %d", resp.StatusCode), nil)
	}

	var record NativeTransaction
	if err := json.NewDecoder(resp.Body).Decode(&record); err != nil {
		return nil, upstreamErr(models.GatewayPaytm, "failed to decode order status response", err)
	}

	log.Printf("Paytm order status fetched: orderId=%s", order.OrderID)
	return []NativeTransaction{record}, nil
}

func (a *PaytmAdapter) Normalize(raw NativeTransaction) CanonicalTransaction {
	status := firstString(raw, "status", "STATUS")
	if status == "" {
		status = models.TransactionSuccess
	}
	return CanonicalTransaction{
		ID:     firstString(raw, "id", "TXNID", "txnId"),
		Amount: floatField(raw, "amount"),
		Status: status,
		UTR:    firstString(raw, "UTR", "utr", "utrNumber"),
		Raw:    raw,
	}
}

// Paytm has no cheap probe endpoint, so verification is a presence check
// of the required credential fields.
func (a *PaytmAdapter) Verify(ctx context.Context, gw *models.PaymentGateway) VerifyResult {
	if gw.APIKey != "" && gw.MerchantID != "" {
		return VerifyResult{Status: models.GatewayStatusActive, Details: "Paytm credentials present"}
	}
	return VerifyResult{Status: models.GatewayStatusInactive, Details: "Paytm credentials missing: api key and merchant id are required"}
}
