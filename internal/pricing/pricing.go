// Package pricing models the derived-pricing state of a contract: tiered
// per-applicant prices, discount, VAT and the percentage-weighted payment
// plan. All derivation is idempotent; recomputing from unchanged inputs
// reproduces the same state.
package pricing

import (
	"fmt"
	"math"
	"strings"
)

// VATRate is the fixed value-added-tax rate applied on the VAT-bearing
// currency.
const VATRate = 0.18

// TierKeys lists the applicant-count bands in ascending canonical order.
// Exactly one band matches any count >= 1.
var TierKeys = []string{"1", "2", "3", "4-7", "8-9", "10-15", "16+"}

// validDiscounts are the discount percentage steps offered to clients.
var validDiscounts = map[int]bool{0: true, 5: true, 10: true, 15: true, 20: true}

// TierFor returns the band key for an applicant count. Counts below 1 are
// clamped to 1.
func TierFor(count int) string {
	switch {
	case count <= 1:
		return "1"
	case count == 2:
		return "2"
	case count == 3:
		return "3"
	case count <= 7:
		return "4-7"
	case count <= 9:
		return "8-9"
	case count <= 15:
		return "10-15"
	default:
		return "16+"
	}
}

// IsVATCurrency reports whether the currency is the VAT-bearing one (ILS).
// Every other currency has zero VAT regardless of the inclusion flag.
func IsVATCurrency(currency string) bool {
	switch strings.ToUpper(strings.TrimSpace(currency)) {
	case "₪", "ILS", "NIS":
		return true
	}
	return false
}

// State is the long-lived pricing state of one contract. It is recomputed,
// not replaced, whenever a triggering input changes.
type State struct {
	ApplicantCount      int                `json:"applicant_count"`
	Tiers               map[string]float64 `json:"pricing_tiers"`
	TotalAmount         float64            `json:"total_amount"`
	DiscountPercentage  int                `json:"discount_percentage"`
	DiscountAmount      float64            `json:"discount_amount"`
	FinalAmount         float64            `json:"final_amount"`
	Currency            string             `json:"currency"`
	ArchivalResearchFee float64            `json:"archival_research_fee"`
	VATIncluded         bool               `json:"vat_included"`
	PaymentPlan         []Row              `json:"payment_plan"`
}

// TierPrice returns the configured unit price for a band, 0 if unset.
func (s *State) TierPrice(key string) float64 {
	if s.Tiers == nil {
		return 0
	}
	return s.Tiers[key]
}

// PricedTiers returns the bands with a non-zero configured price, in
// ascending canonical order. This is the fallback consumption order for
// tier disambiguation.
func (s *State) PricedTiers() []string {
	var out []string
	for _, k := range TierKeys {
		if s.TierPrice(k) > 0 {
			out = append(out, k)
		}
	}
	return out
}

// Recompute re-derives total, discount and final amounts from the applicant
// count and tier table, then re-derives the payment plan. Returns non-fatal
// warnings.
func (s *State) Recompute() []string {
	var warnings []string

	if s.ApplicantCount < 1 {
		s.ApplicantCount = 1
	}
	if !validDiscounts[s.DiscountPercentage] {
		warnings = append(warnings,
			fmt.Sprintf("discount percentage %d is not one of 0/5/10/15/20", s.DiscountPercentage))
	}

	unit := s.TierPrice(TierFor(s.ApplicantCount))
	s.TotalAmount = unit * float64(s.ApplicantCount)
	s.DiscountAmount = math.Round(s.TotalAmount * float64(s.DiscountPercentage) / 100)
	s.FinalAmount = s.TotalAmount - s.DiscountAmount

	warnings = append(warnings, s.DerivePlan()...)
	return warnings
}
