package placeholder

import (
	"testing"
)

func TestScan_KindsAndIDs(t *testing.T) {
	s := "Dear {{client_name}}, sign here: {{signature:signature-2}} price {{price_4-7}} and {{price_16+}}"
	tokens := Scan(s)
	if len(tokens) != 4 {
		t.Fatalf("expected 4 tokens, got %d", len(tokens))
	}
	if tokens[0].Kind != "client_name" || tokens[0].ID != "" {
		t.Errorf("token 0: %+v", tokens[0])
	}
	if tokens[1].Kind != "signature" || tokens[1].ID != "signature-2" {
		t.Errorf("token 1: %+v", tokens[1])
	}
	if tokens[2].Kind != "price_4-7" {
		t.Errorf("token 2: %+v", tokens[2])
	}
	if tokens[3].Kind != "price_16+" {
		t.Errorf("token 3: %+v", tokens[3])
	}
}

func TestScan_Offsets(t *testing.T) {
	s := "ab{{text}}cd"
	tokens := Scan(s)
	if len(tokens) != 1 {
		t.Fatalf("expected 1 token, got %d", len(tokens))
	}
	if s[tokens[0].Start:tokens[0].End] != "{{text}}" {
		t.Errorf("offsets wrong: %q", s[tokens[0].Start:tokens[0].End])
	}
}

func TestTierPriceKey(t *testing.T) {
	cases := []struct {
		kind string
		key  string
		ok   bool
	}{
		{"price_1", "1", true},
		{"price_4-7", "4-7", true},
		{"price_16+", "16+", true},
		{"price_per_applicant", "", false},
		{"total_amount", "", false},
	}
	for _, c := range cases {
		key, ok := TierPriceKey(c.kind)
		if key != c.key || ok != c.ok {
			t.Errorf("TierPriceKey(%q) = %q,%v; want %q,%v", c.kind, key, ok, c.key, c.ok)
		}
	}
}

func TestPaymentIndex(t *testing.T) {
	n, field, ok := PaymentIndex("payment_2_percent")
	if !ok || n != 2 || field != "percent" {
		t.Errorf("got %d,%q,%v", n, field, ok)
	}
	if _, _, ok := PaymentIndex("payment_0_value"); ok {
		t.Error("index 0 should be rejected")
	}
	if _, _, ok := PaymentIndex("payment_plan_row"); ok {
		t.Error("payment_plan_row is not indexed")
	}
}

func TestHasAddressable(t *testing.T) {
	if !HasAddressable("  {{text:text-1}}  ") {
		t.Error("bound text token not detected")
	}
	if !HasAddressable("{{signature}}") {
		t.Error("bare signature token not detected")
	}
	if HasAddressable("{{total_amount}}") {
		t.Error("derived token wrongly detected as addressable")
	}
	if HasAddressable("plain text") {
		t.Error("plain text wrongly detected")
	}
}
