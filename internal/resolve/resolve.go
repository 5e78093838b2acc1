// Package resolve is the placeholder resolution engine. One recursive pass
// substitutes derived tokens from pricing and client state while leaving
// addressable fields for the presentation layer, parameterized by the
// surface mode instead of duplicating the logic per view.
package resolve

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/leadlaw/contractengine/internal/docmodel"
	"github.com/leadlaw/contractengine/internal/placeholder"
	"github.com/leadlaw/contractengine/internal/pricing"
	"github.com/leadlaw/contractengine/internal/tiermatch"
)

// Mode selects the rendering surface.
type Mode string

const (
	// ModeEditing resolves derived tokens but keeps interactive tokens
	// intact, bound or not, for the template editor.
	ModeEditing Mode = "editing"
	// ModeReadOnly resolves derived tokens; bound interactive fields stay
	// as tokens for the presentation layer to render as controls.
	ModeReadOnly Mode = "readonly"
	// ModeClient substitutes the client input map's stored values.
	ModeClient Mode = "client"
	// ModeSigned renders the frozen, fully substituted document.
	ModeSigned Mode = "signed"
)

// ParseMode maps a wire string to a Mode, defaulting to read-only.
func ParseMode(s string) Mode {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeEditing:
		return ModeEditing
	case ModeClient:
		return ModeClient
	case ModeSigned:
		return ModeSigned
	default:
		return ModeReadOnly
	}
}

// Static placeholders shown for unfilled interactive fields outside the
// editor.
const (
	blankText      = "__________"
	blankDate      = "__________"
	blankSignature = "[Client Signature]"
)

// Client carries the client identity fields a contract can reference.
// Contact-level fields on the contract take precedence over the client
// record.
type Client struct {
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
	ContactName  string `json:"contact_name"`
	ContactPhone string `json:"contact_phone"`
	ContactEmail string `json:"contact_email"`
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

// Input is everything one resolution pass consumes. Inputs is the client
// input map, keyed by addressable-field id; the engine only reads it.
type Input struct {
	Doc     *docmodel.Node
	Pricing *pricing.State
	Client  Client
	Inputs  map[string]string
	Mode    Mode
	Rules   *tiermatch.RuleSet
}

// Result is the resolved tree plus the pass diagnostics.
type Result struct {
	Doc        *docmodel.Node
	Warnings   []string
	TierReport tiermatch.Report
}

// cursor is the traversal state threaded by reference through the whole
// recursion. It is never re-initialized per branch: the payment-row index,
// the tier fallback position and the rolling text context all span the
// entire tree.
type cursor struct {
	in       Input
	tier     *tiermatch.Cursor
	payRow   int
	context  strings.Builder
	warnings []string
}

func (c *cursor) warnf(format string, args ...any) {
	c.warnings = append(c.warnings, fmt.Sprintf(format, args...))
}

// Resolve runs one resolution pass and returns a new tree. The input tree
// is never mutated; empty text nodes produced by stripping are left in
// place for Cleanup.
func Resolve(in Input) Result {
	if in.Pricing == nil {
		in.Pricing = &pricing.State{}
	}
	if in.Mode == "" {
		in.Mode = ModeReadOnly
	}

	cur := &cursor{
		in:   in,
		tier: tiermatch.NewCursor(in.Rules, in.Pricing.PricedTiers()),
	}

	out := in.Doc.Clone()
	out.WalkText(func(t *docmodel.Node) bool {
		t.Text = cur.resolveText(t.Text)
		return true
	})

	if out == nil || out.Type != docmodel.TypeDoc {
		cur.warnf("resolution produced a non-doc root; reset to empty document")
		out = docmodel.NewDoc()
	}

	report := cur.tier.Report()
	if report.Mismatch(len(in.Pricing.PricedTiers())) {
		cur.warnf("tier placeholders resolved (%d) do not match priced tiers (%d)",
			report.ByRule+report.ByFallback, len(in.Pricing.PricedTiers()))
	}

	return Result{Doc: out, Warnings: cur.warnings, TierReport: report}
}

// resolveText substitutes every token of one text node, threading the
// shared cursor, and returns the new content.
func (c *cursor) resolveText(text string) string {
	if c.in.Pricing.DiscountPercentage == 0 {
		text = stripDiscountLines(text)
	}

	tokens := placeholder.Scan(text)
	if len(tokens) == 0 {
		c.context.WriteString(text)
		return text
	}

	var out strings.Builder
	pos := 0
	emit := func(s string) {
		out.WriteString(s)
		c.context.WriteString(s)
	}
	for _, tok := range tokens {
		emit(text[pos:tok.Start])
		pos = tok.End
		emit(c.resolveToken(tok, text[tok.Start:tok.End]))
	}
	emit(text[pos:])
	return out.String()
}

// stripDiscountLines drops whole lines that mention the discount when no
// discount applies, instead of leaving a dangling "0%" artifact.
func stripDiscountLines(text string) string {
	if !strings.Contains(strings.ToLower(text), "discount") && !strings.Contains(text, "הנחה") {
		return text
	}
	lines := strings.Split(text, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.Contains(strings.ToLower(line), "discount") || strings.Contains(line, "הנחה") {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}

// resolveToken maps one token occurrence to its replacement text. raw is
// the original token text, returned whenever the token must survive.
func (c *cursor) resolveToken(tok placeholder.Token, raw string) string {
	if placeholder.IsAddressable(tok.Kind) {
		return c.resolveField(tok, raw)
	}

	pr := c.in.Pricing
	switch tok.Kind {
	case placeholder.KindClientName:
		return firstNonEmpty(c.in.Client.ContactName, c.in.Client.Name)
	case placeholder.KindClientPhone:
		return firstNonEmpty(c.in.Client.ContactPhone, c.in.Client.Phone)
	case placeholder.KindClientEmail:
		return firstNonEmpty(c.in.Client.ContactEmail, c.in.Client.Email)
	case placeholder.KindApplicantCount:
		return strconv.Itoa(pr.ApplicantCount)
	case placeholder.KindTotalAmount:
		return Amount(pr.TotalAmount)
	case placeholder.KindFinalAmount:
		return Amount(pr.FinalAmount)
	case placeholder.KindDiscountPct:
		return strconv.Itoa(pr.DiscountPercentage)
	case placeholder.KindDiscountAmount:
		return Amount(pr.DiscountAmount)
	case placeholder.KindCurrency:
		return pr.Currency
	case placeholder.KindPricePerApp:
		tier, ok := c.tier.Resolve(c.context.String())
		if !ok {
			c.warnf("price_per_applicant: no tier could be determined")
			return "0"
		}
		return pr.Currency + " " + Amount(pr.TierPrice(tier))
	case placeholder.KindPaymentRow:
		idx := c.payRow
		c.payRow++
		return c.paymentRow(idx)
	}

	if tier, ok := placeholder.TierPriceKey(tok.Kind); ok {
		return Amount(pr.TierPrice(tier))
	}
	if n, field, ok := placeholder.PaymentIndex(tok.Kind); ok {
		return c.paymentField(n-1, field)
	}

	// Unknown kind: not part of the grammar, leave untouched.
	return raw
}

// resolveField handles addressable (interactive) tokens per mode.
func (c *cursor) resolveField(tok placeholder.Token, raw string) string {
	if c.in.Mode == ModeEditing {
		return raw
	}
	if tok.ID == "" {
		// Unbound interactive token outside the editor: static placeholder.
		return blankFor(tok.Kind)
	}
	if c.in.Mode == ModeReadOnly {
		return raw
	}

	// Client / signed views substitute the stored value.
	value := c.in.Inputs[tok.ID]
	switch tok.Kind {
	case placeholder.KindDate:
		if value == "" {
			return blankDate
		}
		return LongDate(value)
	case placeholder.KindSignature:
		if value == "" {
			return blankSignature
		}
		return value
	default:
		if value == "" {
			return blankText
		}
		return value
	}
}

func blankFor(kind string) string {
	switch kind {
	case placeholder.KindSignature:
		return blankSignature
	case placeholder.KindDate:
		return blankDate
	default:
		return blankText
	}
}

// paymentRow renders a full installment line for the row at idx (0-based).
func (c *cursor) paymentRow(idx int) string {
	plan := c.in.Pricing.PaymentPlan
	if idx < 0 || idx >= len(plan) {
		c.warnf("payment plan row %d requested, plan has %d rows", idx+1, len(plan))
		return ""
	}
	row := plan[idx]
	return fmt.Sprintf("%s%% = %s %s", formatPercent(row.Percent), c.in.Pricing.Currency, c.rowValue(row))
}

// paymentField renders one field of the row at idx (0-based). Out-of-range
// indexes degrade to "0"/empty rather than surfacing the raw token.
func (c *cursor) paymentField(idx int, field string) string {
	plan := c.in.Pricing.PaymentPlan
	if idx < 0 || idx >= len(plan) {
		if field == "percent" || field == "value" {
			return "0"
		}
		return ""
	}
	row := plan[idx]
	switch field {
	case "percent":
		return formatPercent(row.Percent)
	case "value":
		return c.rowValue(row)
	case "due":
		return row.PaymentOrder
	case "row":
		return fmt.Sprintf("%s%% = %s %s", formatPercent(row.Percent), c.in.Pricing.Currency, c.rowValue(row))
	}
	return ""
}

// rowValue is the mode-dependent display of a row charge: the editor
// surfaces keep the base + vat composite, text-only surfaces show the
// summed total.
func (c *cursor) rowValue(row pricing.Row) string {
	switch c.in.Mode {
	case ModeEditing, ModeReadOnly:
		if row.VAT > 0 {
			return Amount(row.Base) + " + " + Amount(row.VAT)
		}
		return Amount(row.Base)
	default:
		return Amount(row.Total())
	}
}

func formatPercent(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}
