package reconcile

import (
	"context"
	"fmt"
	"log"

	stripe "github.com/stripe/stripe-go/v80"
	stripeclient "github.com/stripe/stripe-go/v80/client"

	"github.com/Sheraz031/smartgatepay/models"
)

// StripeAdapter covers UTR-style ledger reconciliation only in so far as
// Stripe supports it: it does not (no bank reference on its ledger), so
// Fetch refuses, but verification does a live balance probe with the
// configured key.
type StripeAdapter struct{}

func (a *StripeAdapter) Fetch(ctx context.Context, gw *models.PaymentGateway, order *models.Order) ([]NativeTransaction, error) {
	return nil, upstreamErr(models.GatewayStripe, "ledger fetch is not supported for this gateway type", nil)
}

func (a *StripeAdapter) Normalize(raw NativeTransaction) CanonicalTransaction {
	return CanonicalTransaction{Raw: raw}
}

func (a *StripeAdapter) Verify(ctx context.Context, gw *models.PaymentGateway) VerifyResult {
	if gw.APIKey == "" {
		return VerifyResult{Status: models.GatewayStatusInactive, Details: "Stripe API key is missing"}
	}

	sc := stripeclient.New(gw.APIKey, nil)
	if _, err := sc.Balance.Get(&stripe.BalanceParams{Params: stripe.Params{Context: ctx}}); err != nil {
		log.Printf("Stripe balance probe failed: %v", err)
		return VerifyResult{Status: models.GatewayStatusInactive, Details: "Stripe balance probe failed"}
	}
	return VerifyResult{Status: models.GatewayStatusActive}
}

// keyCheckAdapter serves the providers that have no cheap probe endpoint
// and no ledger search: verification is an api-key presence check and
// fetching is refused.
type keyCheckAdapter struct {
	provider string
}

func (a *keyCheckAdapter) Fetch(ctx context.Context, gw *models.PaymentGateway, order *models.Order) ([]NativeTransaction, error) {
	return nil, upstreamErr(a.provider, "ledger fetch is not supported for this gateway type", nil)
}

func (a *keyCheckAdapter) Normalize(raw NativeTransaction) CanonicalTransaction {
	return CanonicalTransaction{Raw: raw}
}

func (a *keyCheckAdapter) Verify(ctx context.Context, gw *models.PaymentGateway) VerifyResult {
	if gw.APIKey != "" {
		return VerifyResult{Status: models.GatewayStatusActive, Details: fmt.Sprintf("%s credentials present", a.provider)}
	}
	return VerifyResult{Status: models.GatewayStatusInactive, Details: fmt.Sprintf("%s API key is missing", a.provider)}
}
