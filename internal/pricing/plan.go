package pricing

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Default payment-plan labels.
const (
	LabelArchival     = "Archival Research"
	LabelFirst        = "First Payment"
	LabelIntermediate = "Intermediate Payment"
	LabelFinal        = "Final Payment"
)

// Row is one installment of a payment plan. Base and VAT are kept as a
// structured pair; the composite "base + vat" string only exists at the
// presentation boundary (Value / ParseValue).
type Row struct {
	Label        string  `json:"label"`
	Percent      float64 `json:"percent"`
	PaymentOrder string  `json:"payment_order,omitempty"`
	Base         float64 `json:"base"`
	VAT          float64 `json:"vat"`
	Notes        string  `json:"notes,omitempty"`
	Archival     bool    `json:"archival,omitempty"`
}

// Total is the full charge of the row.
func (r Row) Total() float64 {
	return r.Base + r.VAT
}

// Value formats the row charge for storage and editor display: a plain
// numeric string, or "base + vat" when a VAT component exists.
func (r Row) Value() string {
	base := strconv.FormatFloat(math.Round(r.Base), 'f', -1, 64)
	if r.VAT > 0 {
		return base + " + " + strconv.FormatFloat(math.Round(r.VAT), 'f', -1, 64)
	}
	return base
}

// ParseValue reads a stored row value, accepting both the plain numeric
// form and the legacy "base + vat" composite.
func ParseValue(s string) (base, vat float64) {
	parts := strings.SplitN(s, "+", 2)
	base, _ = strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if len(parts) == 2 {
		vat, _ = strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	}
	return base, vat
}

// DerivePlan re-derives the payment plan rows from the current totals.
//
// Existing rows keep their percent, label, payment order and notes; only
// the charge is redistributed. An empty plan is seeded with the default
// split: an archival-research row pinned to the fee (when a fee exists)
// followed by a 50/25/25 split. The archival row is exempt from the
// redistribution, and the last non-archival row is always relabeled
// "Final Payment". Re-running on unchanged inputs reproduces identical
// rows.
func (s *State) DerivePlan() []string {
	var warnings []string

	baseTotal := s.TotalAmount + s.ArchivalResearchFee
	discounted := baseTotal - s.DiscountAmount

	if len(s.PaymentPlan) == 0 {
		s.PaymentPlan = s.defaultPlan()
	}

	totalPercent := 0.0
	lastInstallment := -1
	for i, r := range s.PaymentPlan {
		if r.Archival {
			continue
		}
		totalPercent += r.Percent
		lastInstallment = i
	}
	if totalPercent == 0 {
		totalPercent = 100
	} else if totalPercent != 100 {
		warnings = append(warnings,
			fmt.Sprintf("payment plan percentages sum to %g, expected 100", totalPercent))
	}

	vatCurrency := IsVATCurrency(s.Currency)
	for i := range s.PaymentPlan {
		r := &s.PaymentPlan[i]
		if r.Archival {
			r.Base = s.ArchivalResearchFee
			r.VAT = 0
			continue
		}
		r.Base = math.Round(discounted * r.Percent / totalPercent)
		if vatCurrency && s.VATIncluded {
			r.VAT = math.Round(r.Base * VATRate)
		} else {
			r.VAT = 0
		}
	}
	if lastInstallment >= 0 {
		s.PaymentPlan[lastInstallment].Label = LabelFinal
	}

	return warnings
}

func (s *State) defaultPlan() []Row {
	var plan []Row
	if s.ArchivalResearchFee > 0 {
		plan = append(plan, Row{Label: LabelArchival, Percent: 100, Archival: true})
	}
	plan = append(plan,
		Row{Label: LabelFirst, Percent: 50},
		Row{Label: LabelIntermediate, Percent: 25},
		Row{Label: LabelFinal, Percent: 25},
	)
	return plan
}
