package reconcile

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/Sheraz031/smartgatepay/models"
)

// VerifyResult is the outcome of a gateway health check. Verification is
// advisory: it always produces a result, never an error.
type VerifyResult struct {
	Status  string // models.GatewayStatusActive or models.GatewayStatusInactive
	Details string
}

// Adapter is one provider integration: it authenticates against the
// upstream, fetches its recent ledger in native shape, normalizes native
// records, and runs the cheapest viable credential check. Adapters never
// mutate the gateway configuration.
type Adapter interface {
	// Fetch returns recent ledger entries for the lookback window the
	// provider supports. An empty slice is a valid result meaning
	// "nothing to match yet".
	Fetch(ctx context.Context, gw *models.PaymentGateway, order *models.Order) ([]NativeTransaction, error)

	// Normalize converts one native record into the canonical shape.
	Normalize(raw NativeTransaction) CanonicalTransaction

	// Verify performs a minimum-viable connectivity/credential check.
	Verify(ctx context.Context, gw *models.PaymentGateway) VerifyResult
}

// ForProvider selects the adapter for a gateway type. Adding a provider
// means adding a case here and an adapter file; the submission flow never
// switches on provider anywhere else.
func ForProvider(gatewayType string) (Adapter, error) {
	switch gatewayType {
	case models.GatewayRazorpay:
		return &RazorpayAdapter{}, nil
	case models.GatewayPaytm:
		return &PaytmAdapter{}, nil
	case models.GatewayBharatPe:
		return &BharatPeAdapter{}, nil
	case models.GatewayStripe:
		return &StripeAdapter{}, nil
	case models.GatewayPaypal:
		return &keyCheckAdapter{provider: models.GatewayPaypal}, nil
	case models.GatewaySquare:
		return &keyCheckAdapter{provider: models.GatewaySquare}, nil
	default:
		return nil, fmt.Errorf("unsupported gateway type: %s", gatewayType)
	}
}

// baseURL lets tests and sandboxed deployments point an adapter at a
// different host.
func baseURL(envKey, def string) string {
	if v := os.Getenv(envKey); v != "" {
		return v
	}
	return def
}

func newHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}
