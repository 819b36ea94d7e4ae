// Package normalize parses the regional number and date formats used by the
// upstream snapshot exports: "." as thousands separator, "," as decimal
// separator, dates as dd/mm/yyyy. Unparsable input reports ok=false rather
// than an error; a bad value nulls one field, it never aborts a batch.
package normalize

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// ParseAmountCents converts a regional monetary string into cents.
// "1.234,56" -> 123456, "R$ 1.234,56" -> 123456. Amounts are kept as int64
// cents so that intra-batch sums stay exact.
func ParseAmountCents(raw string) (int64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}

	s = strings.TrimPrefix(s, "R$")
	s = strings.TrimSpace(s)

	// keep digits, separators and sign; drops stray currency glyphs
	s = strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) || r == ',' || r == '.' || r == '-' {
			return r
		}
		return -1
	}, s)
	if s == "" || s == "-" {
		return 0, false
	}

	// regional: remove thousands separator, decimal comma becomes a point
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", ".")

	val, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}

	return int64(math.Round(val * 100)), true
}

// ParseDotCents parses a plain dot-decimal amount, the notation the ledger
// file itself is written in ("1234.56" -> 123456).
func ParseDotCents(raw string) (int64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	val, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return int64(math.Round(val * 100)), true
}

// FormatCents renders cents with a fixed two-decimal point notation,
// the format used in the ledger file ("123456" cents -> "1234.56").
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

// ParseDate parses a date string with an explicit Go layout
// (dd/mm/yyyy batches use "02/01/2006").
func ParseDate(raw, layout string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(layout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// ParseRequestID parses a request id. The exports usually carry plain
// integers but re-exported ledgers have produced float renderings
// ("181245.0"), so an integral float is accepted too.
func ParseRequestID(raw string) (int64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	if id, err := strconv.ParseInt(s, 10, 64); err == nil {
		return id, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) {
		return 0, false
	}
	return int64(f), true
}
