package resolve

import (
	"math"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var amountPrinter = message.NewPrinter(language.English)

// Amount formats a monetary amount with locale thousands separators.
// Amounts in this domain are rounded to whole units before display.
func Amount(v float64) string {
	return amountPrinter.Sprintf("%d", int64(math.Round(v)))
}

// LongDate formats an ISO date (2006-01-02) as a long-form date for the
// client-facing views. Unparseable input is returned verbatim.
func LongDate(iso string) string {
	t, err := time.Parse("2006-01-02", iso)
	if err != nil {
		return iso
	}
	return t.Format("January 2, 2006")
}
