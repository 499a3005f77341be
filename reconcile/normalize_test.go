package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Sheraz031/smartgatepay/models"
)

func TestRazorpayNormalizeConvertsPaiseToRupees(t *testing.T) {
	a := &RazorpayAdapter{}

	c := a.Normalize(NativeTransaction{
		"id":       "pay_ABC",
		"amount":   float64(150000),
		"captured": true,
		"acquirer_data": map[string]any{
			"rrn": "RRN999999999",
		},
	})

	assert.Equal(t, "pay_ABC", c.ID)
	assert.Equal(t, 1500.00, c.Amount)
	assert.Equal(t, models.TransactionSuccess, c.Status)
	assert.Equal(t, "RRN999999999", c.UTR)
}

func TestRazorpayNormalizeUncapturedIsFailed(t *testing.T) {
	a := &RazorpayAdapter{}

	c := a.Normalize(NativeTransaction{
		"id":       "pay_DEF",
		"amount":   float64(5000),
		"captured": false,
	})

	assert.Equal(t, models.TransactionFailed, c.Status)
	assert.Equal(t, 50.00, c.Amount)
	assert.Empty(t, c.UTR)
}

func TestPaytmNormalizePassesAmountThrough(t *testing.T) {
	a := &PaytmAdapter{}

	c := a.Normalize(NativeTransaction{
		"TXNID":  "TXN001",
		"amount": float64(1500),
		"UTR":    "UTR111111111",
	})

	assert.Equal(t, "TXN001", c.ID)
	assert.Equal(t, 1500.00, c.Amount)
	assert.Equal(t, "UTR111111111", c.UTR)
	// No status field from the provider defaults to success.
	assert.Equal(t, models.TransactionSuccess, c.Status)
}

func TestPaytmNormalizeUTRFieldPriority(t *testing.T) {
	a := &PaytmAdapter{}

	c := a.Normalize(NativeTransaction{
		"utr":       "lower1234567",
		"utrNumber": "field9876543",
	})
	assert.Equal(t, "lower1234567", c.UTR)

	c = a.Normalize(NativeTransaction{
		"UTR": "upper1234567",
		"utr": "lower1234567",
	})
	assert.Equal(t, "upper1234567", c.UTR)
}

func TestPaytmNormalizeKeepsProviderStatus(t *testing.T) {
	a := &PaytmAdapter{}

	c := a.Normalize(NativeTransaction{
		"status": "failed",
		"amount": float64(250),
	})

	assert.Equal(t, "failed", c.Status)
}

func TestBharatPeNormalize(t *testing.T) {
	a := &BharatPeAdapter{}

	c := a.Normalize(NativeTransaction{
		"txnId":  "BP123",
		"amount": float64(780.50),
		"utr":    "bp1234567890",
		"status": "success",
	})

	assert.Equal(t, "BP123", c.ID)
	assert.Equal(t, 780.50, c.Amount)
	assert.Equal(t, "bp1234567890", c.UTR)
	assert.Equal(t, models.TransactionSuccess, c.Status)
}

func TestRawJSONCarriesProviderPayload(t *testing.T) {
	c := CanonicalTransaction{Raw: NativeTransaction{"id": "pay_X", "captured": true}}
	assert.JSONEq(t, `{"id":"pay_X","captured":true}`, c.RawJSON())

	empty := CanonicalTransaction{}
	assert.Equal(t, "{}", empty.RawJSON())
}
