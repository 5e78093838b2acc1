package resolve

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/leadlaw/contractengine/internal/docmodel"
	"github.com/leadlaw/contractengine/internal/pricing"
)

func para(text string) *docmodel.Node {
	return docmodel.NewParagraph(docmodel.NewText(text))
}

func texts(doc *docmodel.Node) []string {
	var out []string
	doc.WalkText(func(n *docmodel.Node) bool {
		out = append(out, n.Text)
		return true
	})
	return out
}

func TestResolve_TierByContextPhrase(t *testing.T) {
	doc := docmodel.NewDoc(para("For 2 applicants- {{price_per_applicant}}"))
	res := Resolve(Input{
		Doc: doc,
		Pricing: &pricing.State{
			Currency: "USD",
			Tiers:    map[string]float64{"2": 90},
		},
		Mode: ModeReadOnly,
	})
	got := texts(res.Doc)
	if got[0] != "For 2 applicants- USD 90" {
		t.Errorf("got %q", got[0])
	}
	if res.TierReport.ByRule != 1 {
		t.Errorf("tier report: %+v", res.TierReport)
	}
}

func TestResolve_TierFallbackSharedAcrossBranches(t *testing.T) {
	// No applicant-count phrasing anywhere: each occurrence consumes the
	// next priced tier, across paragraph and list boundaries.
	doc := docmodel.NewDoc(
		para("Price: {{price_per_applicant}}"),
		&docmodel.Node{Type: docmodel.TypeBulletList, Content: []*docmodel.Node{
			{Type: docmodel.TypeListItem, Content: []*docmodel.Node{
				para("Price: {{price_per_applicant}}"),
			}},
		}},
		para("Price: {{price_per_applicant}}"),
	)
	res := Resolve(Input{
		Doc: doc,
		Pricing: &pricing.State{
			Currency: "₪",
			Tiers:    map[string]float64{"1": 15000, "2": 13500, "3": 12000},
		},
	})
	want := []string{
		"Price: ₪ 15,000",
		"Price: ₪ 13,500",
		"Price: ₪ 12,000",
	}
	if diff := cmp.Diff(want, texts(res.Doc)); diff != "" {
		t.Errorf("fallback not shared across branches (-want +got):\n%s", diff)
	}
	if res.TierReport.ByFallback != 3 {
		t.Errorf("tier report: %+v", res.TierReport)
	}
}

func TestResolve_TierExhaustedDegrades(t *testing.T) {
	doc := docmodel.NewDoc(
		para("{{price_per_applicant}}"),
		para("{{price_per_applicant}}"),
	)
	res := Resolve(Input{
		Doc:     doc,
		Pricing: &pricing.State{Currency: "₪", Tiers: map[string]float64{"1": 15000}},
	})
	got := texts(res.Doc)
	if got[1] != "0" {
		t.Errorf("exhausted occurrence got %q, want 0", got[1])
	}
	if len(res.Warnings) == 0 {
		t.Error("expected warnings for exhaustion and tier mismatch")
	}
}

func TestResolve_DiscountLinesStrippedAtZero(t *testing.T) {
	text := "Total: {{total_amount}}\nDiscount: {{discount_percentage}}%\nFinal: {{final_amount}}"
	st := &pricing.State{
		Currency:    "₪",
		TotalAmount: 15000,
		FinalAmount: 15000,
	}
	res := Resolve(Input{Doc: docmodel.NewDoc(para(text)), Pricing: st})
	got := texts(res.Doc)[0]
	if strings.Contains(strings.ToLower(got), "discount") {
		t.Errorf("discount line survived: %q", got)
	}
	if !strings.Contains(got, "Total: 15,000") || !strings.Contains(got, "Final: 15,000") {
		t.Errorf("neighbor lines damaged: %q", got)
	}
}

func TestResolve_DiscountLinesKeptWhenNonZero(t *testing.T) {
	text := "הנחה: {{discount_amount}}"
	st := &pricing.State{
		Currency:           "₪",
		DiscountPercentage: 10,
		DiscountAmount:     1500,
	}
	res := Resolve(Input{Doc: docmodel.NewDoc(para(text)), Pricing: st})
	if got := texts(res.Doc)[0]; got != "הנחה: 1,500" {
		t.Errorf("got %q", got)
	}
}

func TestResolve_PaymentRowCursorSharedAcrossBranches(t *testing.T) {
	st := &pricing.State{
		Currency: "₪",
		PaymentPlan: []pricing.Row{
			{Label: "First Payment", Percent: 50, Base: 7500, VAT: 1350},
			{Label: "Final Payment", Percent: 50, Base: 7500, VAT: 1350},
		},
	}
	doc := docmodel.NewDoc(
		para("{{payment_plan_row}}"),
		&docmodel.Node{Type: docmodel.TypeBulletList, Content: []*docmodel.Node{
			{Type: docmodel.TypeListItem, Content: []*docmodel.Node{
				para("{{payment_plan_row}}"),
			}},
		}},
		para("{{payment_plan_row}}"),
	)
	res := Resolve(Input{Doc: doc, Pricing: st, Mode: ModeReadOnly})
	got := texts(res.Doc)
	if got[0] != "50% = ₪ 7,500 + 1,350" || got[1] != got[0] {
		t.Errorf("rows: %v", got)
	}
	// Third occurrence runs past the plan and degrades to empty.
	if got[2] != "" {
		t.Errorf("out-of-plan row got %q", got[2])
	}
	if len(res.Warnings) == 0 {
		t.Error("expected a warning for the out-of-plan row")
	}
}

func TestResolve_IndexedPaymentFields(t *testing.T) {
	st := &pricing.State{
		Currency: "₪",
		PaymentPlan: []pricing.Row{
			{Percent: 50, PaymentOrder: "upon signing", Base: 7500, VAT: 1350},
		},
	}
	doc := docmodel.NewDoc(para(
		"{{payment_1_percent}}|{{payment_1_value}}|{{payment_1_due}}|{{payment_2_percent}}|{{payment_2_due}}",
	))
	res := Resolve(Input{Doc: doc, Pricing: st, Mode: ModeReadOnly})
	if got := texts(res.Doc)[0]; got != "50|7,500 + 1,350|upon signing|0|" {
		t.Errorf("got %q", got)
	}
}

func TestResolve_RowValueSummedOutsideEditorSurfaces(t *testing.T) {
	st := &pricing.State{
		Currency:    "₪",
		PaymentPlan: []pricing.Row{{Percent: 100, Base: 7500, VAT: 1350}},
	}
	doc := docmodel.NewDoc(para("{{payment_1_value}}"))

	res := Resolve(Input{Doc: doc, Pricing: st, Mode: ModeClient})
	if got := texts(res.Doc)[0]; got != "8,850" {
		t.Errorf("client view got %q, want summed total", got)
	}
	res = Resolve(Input{Doc: doc, Pricing: st, Mode: ModeReadOnly})
	if got := texts(res.Doc)[0]; got != "7,500 + 1,350" {
		t.Errorf("readonly view got %q, want composite", got)
	}
}

func TestResolve_ClientFieldsPreferContactLevel(t *testing.T) {
	doc := docmodel.NewDoc(para("{{client_name}} / {{client_phone}} / {{client_email}}"))
	res := Resolve(Input{
		Doc: doc,
		Client: Client{
			Name:        "Acme Ltd",
			Phone:       "03-5551234",
			Email:       "office@acme.example",
			ContactName: "Dana Levi",
		},
	})
	if got := texts(res.Doc)[0]; got != "Dana Levi / 03-5551234 / office@acme.example" {
		t.Errorf("got %q", got)
	}
}

func TestResolve_AddressableFieldModes(t *testing.T) {
	inputs := map[string]string{
		"text-1":      "Dana Levi",
		"date-ignore": "",
	}
	cases := []struct {
		name string
		mode Mode
		text string
		want string
	}{
		{"editing keeps bound", ModeEditing, "{{text:text-1}}", "{{text:text-1}}"},
		{"editing keeps unbound", ModeEditing, "{{text}}", "{{text}}"},
		{"readonly keeps bound", ModeReadOnly, "{{text:text-1}}", "{{text:text-1}}"},
		{"readonly blanks unbound", ModeReadOnly, "{{text}}", "__________"},
		{"readonly blanks unbound signature", ModeReadOnly, "{{signature}}", "[Client Signature]"},
		{"client substitutes", ModeClient, "{{text:text-1}}", "Dana Levi"},
		{"client blanks missing value", ModeClient, "{{text:text-9}}", "__________"},
		{"client blanks empty signature", ModeSigned, "{{signature:signature-2}}", "[Client Signature]"},
	}
	for _, c := range cases {
		res := Resolve(Input{
			Doc:    docmodel.NewDoc(para(c.text)),
			Inputs: inputs,
			Mode:   c.mode,
		})
		if got := texts(res.Doc)[0]; got != c.want {
			t.Errorf("%s: got %q, want %q", c.name, got, c.want)
		}
	}
}

func TestResolve_DateFormattedLong(t *testing.T) {
	doc := docmodel.NewDoc(para("Signed on {{date:date-1}}"))
	res := Resolve(Input{
		Doc:    doc,
		Inputs: map[string]string{"date-1": "2026-03-15"},
		Mode:   ModeSigned,
	})
	if got := texts(res.Doc)[0]; got != "Signed on March 15, 2026" {
		t.Errorf("got %q", got)
	}
}

func TestResolve_UnknownTokenLeftRaw(t *testing.T) {
	doc := docmodel.NewDoc(para("keep {{mystery_token}} as-is"))
	res := Resolve(Input{Doc: doc})
	if got := texts(res.Doc)[0]; got != "keep {{mystery_token}} as-is" {
		t.Errorf("got %q", got)
	}
}

func TestResolve_InputNotMutated(t *testing.T) {
	doc := docmodel.NewDoc(para("{{total_amount}}"))
	Resolve(Input{Doc: doc, Pricing: &pricing.State{TotalAmount: 100}})
	if doc.Content[0].Content[0].Text != "{{total_amount}}" {
		t.Error("input tree was mutated")
	}
}

func TestResolve_NonDocRootReset(t *testing.T) {
	res := Resolve(Input{Doc: para("stray paragraph")})
	if res.Doc.Type != docmodel.TypeDoc || len(res.Doc.Content) != 0 {
		t.Errorf("non-doc root not reset: %+v", res.Doc)
	}
	if len(res.Warnings) == 0 {
		t.Error("expected a warning for the non-doc root")
	}
}

func TestAmount(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{90, "90"},
		{7500, "7,500"},
		{15000, "15,000"},
		{1234567.4, "1,234,567"},
		{0, "0"},
	}
	for _, c := range cases {
		if got := Amount(c.in); got != c.want {
			t.Errorf("Amount(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestLongDate(t *testing.T) {
	if got := LongDate("2026-01-02"); got != "January 2, 2026" {
		t.Errorf("got %q", got)
	}
	if got := LongDate("not a date"); got != "not a date" {
		t.Errorf("unparseable input changed: %q", got)
	}
}

func TestParseMode(t *testing.T) {
	cases := map[string]Mode{
		"editing":  ModeEditing,
		" Client ": ModeClient,
		"SIGNED":   ModeSigned,
		"readonly": ModeReadOnly,
		"":         ModeReadOnly,
		"bogus":    ModeReadOnly,
	}
	for in, want := range cases {
		if got := ParseMode(in); got != want {
			t.Errorf("ParseMode(%q) = %q, want %q", in, got, want)
		}
	}
}
