package reconcile

import (
	"encoding/json"
	"strings"
)

// NativeTransaction is one ledger entry exactly as the provider returned
// it. Field names and value types vary per provider; adapters know how to
// read them.
type NativeTransaction map[string]any

// CanonicalTransaction is the provider-agnostic view of one ledger entry.
// Amounts are always in the order's major unit (rupees, not paise); UTR is
// the provider's bank-reference field, whatever it was called natively.
type CanonicalTransaction struct {
	ID     string
	Amount float64
	Status string
	UTR    string
	Raw    NativeTransaction
}

// RawJSON renders the original provider payload for audit storage. It is
// carried through verbatim and never matched on.
func (c CanonicalTransaction) RawJSON() string {
	if c.Raw == nil {
		return "{}"
	}
	b, err := json.Marshal(c.Raw)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// firstString returns the first non-empty string among the named fields.
// Providers disagree on the casing of their UTR field, so adapters pass a
// priority list.
func firstString(raw NativeTransaction, keys ...string) string {
	for _, k := range keys {
		if v, ok := raw[k].(string); ok && strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func floatField(raw NativeTransaction, key string) float64 {
	switch v := raw[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case json.Number:
		f, _ := v.Float64()
		return f
	}
	return 0
}

func boolField(raw NativeTransaction, key string) bool {
	v, _ := raw[key].(bool)
	return v
}

// nestedString reads raw[outer][inner] where outer is itself an object,
// e.g. Razorpay's acquirer_data.rrn.
func nestedString(raw NativeTransaction, outer, inner string) string {
	m, ok := raw[outer].(map[string]any)
	if !ok {
		return ""
	}
	s, _ := m[inner].(string)
	return s
}
