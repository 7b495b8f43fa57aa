// Package money normalizes and formats CLP amounts. The pricing engine only
// ever sees integer units; formatting is for presentation.
package money

import (
	"strconv"
	"strings"
)

// ParsePrice normalizes a catalog price into integer CLP units. It accepts
// formatted strings such as "$45.000" (currency symbol, dot thousands
// separators) as well as plain digits. Unparseable input normalizes to 0; a
// storefront must never fail on bad catalog data.
func ParsePrice(raw string) int64 {
	clean := strings.TrimSpace(raw)
	clean = strings.TrimPrefix(clean, "$")
	clean = strings.NewReplacer(".", "", ",", "", " ", "").Replace(clean)
	n, err := strconv.ParseInt(clean, 10, 64)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// FormatCLP renders an integer amount the way the storefront displays
// prices: "$45.000", no decimal digits, dot thousands separators.
func FormatCLP(amount int64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	digits := strconv.FormatInt(amount, 10)
	var b strings.Builder
	b.WriteString(sign)
	b.WriteByte('$')
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
		if len(digits) > lead {
			b.WriteByte('.')
		}
	}
	for i := lead; i < len(digits); i += 3 {
		b.WriteString(digits[i : i+3])
		if i+3 < len(digits) {
			b.WriteByte('.')
		}
	}
	return b.String()
}
