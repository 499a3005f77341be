package reconcile

import "strings"

// Match finds the ledger entry whose UTR equals the submitted one.
// Comparison is exact and case-sensitive on the trimmed input. If the
// upstream ever returns more than one entry with the same UTR, the first
// in provider order wins.
func Match(txns []CanonicalTransaction, utr string) (CanonicalTransaction, bool) {
	utr = strings.TrimSpace(utr)
	for _, t := range txns {
		if t.UTR == utr {
			return t, true
		}
	}
	return CanonicalTransaction{}, false
}
