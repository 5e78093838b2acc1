// Package placeholder implements the {{kind}} / {{kind:id}} token grammar
// embedded in text nodes, and the single-fire ID assignment pass that turns
// bare interactive tokens into addressable fields.
package placeholder

import (
	"regexp"
	"strconv"
	"strings"
)

// Token kinds. Addressable kinds stay in the tree as interactive fields;
// every other recognized kind is derived and resolved to plain text.
const (
	KindText           = "text"
	KindSignature      = "signature"
	KindDate           = "date"
	KindClientName     = "client_name"
	KindClientPhone    = "client_phone"
	KindClientEmail    = "client_email"
	KindCurrency       = "currency"
	KindApplicantCount = "applicant_count"
	KindTotalAmount    = "total_amount"
	KindFinalAmount    = "final_amount"
	KindDiscountPct    = "discount_percentage"
	KindDiscountAmount = "discount_amount"
	KindPricePerApp    = "price_per_applicant"
	KindPaymentRow     = "payment_plan_row"
)

// TokenRe matches a placeholder token with an optional id. Tier-price kinds
// such as price_4-7 and price_16+ carry '-' and '+' in the kind itself.
var TokenRe = regexp.MustCompile(`\{\{([a-z][a-z0-9_+-]*)(:([A-Za-z0-9_-]+))?\}\}`)

// paymentRe matches indexed payment tokens: payment_2_percent, payment_1_row.
var paymentRe = regexp.MustCompile(`^payment_([0-9]+)_(percent|value|due|row)$`)

// Token is one placeholder occurrence inside a text node.
type Token struct {
	Kind  string
	ID    string // empty for bare / derived tokens
	Start int    // byte offset of "{{"
	End   int    // byte offset just past "}}"
}

// Scan returns every token in the string in left-to-right order.
func Scan(s string) []Token {
	var out []Token
	for _, m := range TokenRe.FindAllStringSubmatchIndex(s, -1) {
		t := Token{Kind: s[m[2]:m[3]], Start: m[0], End: m[1]}
		if m[6] >= 0 {
			t.ID = s[m[6]:m[7]]
		}
		out = append(out, t)
	}
	return out
}

// IsAddressable reports whether the kind is an interactive field kind.
func IsAddressable(kind string) bool {
	return kind == KindText || kind == KindSignature || kind == KindDate
}

// TierPriceKey extracts the tier key from a price_<tierKey> kind,
// e.g. "price_4-7" -> "4-7". price_per_applicant is not a tier-price kind.
func TierPriceKey(kind string) (string, bool) {
	if kind == KindPricePerApp || !strings.HasPrefix(kind, "price_") {
		return "", false
	}
	return strings.TrimPrefix(kind, "price_"), true
}

// PaymentIndex extracts the 1-based row index and field from an indexed
// payment kind, e.g. "payment_2_percent" -> (2, "percent").
func PaymentIndex(kind string) (int, string, bool) {
	m := paymentRe.FindStringSubmatch(kind)
	if m == nil {
		return 0, "", false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n < 1 {
		return 0, "", false
	}
	return n, m[2], true
}

// HasAddressable reports whether the string contains any addressable-kind
// token, bound or not. Cleanup must never drop such content.
func HasAddressable(s string) bool {
	for _, t := range Scan(s) {
		if IsAddressable(t.Kind) {
			return true
		}
	}
	return false
}
