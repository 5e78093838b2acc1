package pricing

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Default per-applicant tier tables, one per currency family.
var (
	defaultTiersILS = map[string]float64{
		"1": 15000, "2": 13500, "3": 12000, "4-7": 10500,
		"8-9": 9500, "10-15": 8500, "16+": 7500,
	}
	defaultTiersForeign = map[string]float64{
		"1": 4400, "2": 4000, "3": 3700, "4-7": 3400,
		"8-9": 3100, "10-15": 2800, "16+": 2500,
	}
)

// DefaultTiers returns a copy of the default tier table for a currency.
func DefaultTiers(currency string) map[string]float64 {
	src := defaultTiersForeign
	if IsVATCurrency(currency) {
		src = defaultTiersILS
	}
	out := make(map[string]float64, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}

// LoadTierTableCSV reads an operator-supplied tier table. Rows are
// "tier_key,unit_price"; a header row is skipped; unknown tier keys are
// rejected.
func LoadTierTableCSV(r io.Reader) (map[string]float64, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = 2

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse tier table csv: %w", err)
	}

	known := make(map[string]bool, len(TierKeys))
	for _, k := range TierKeys {
		known[k] = true
	}

	out := make(map[string]float64)
	for i, rec := range records {
		key := strings.TrimSpace(rec[0])
		if i == 0 && strings.EqualFold(key, "tier_key") {
			continue
		}
		if !known[key] {
			return nil, fmt.Errorf("tier table row %d: unknown tier key %q", i+1, key)
		}
		price, err := strconv.ParseFloat(strings.TrimSpace(rec[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("tier table row %d: bad price %q", i+1, rec[1])
		}
		out[key] = price
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("tier table csv has no rows")
	}
	return out, nil
}
