// Package money handles VND amounts. Amounts are plain int64 (VND has no
// minor unit); formatted strings exist only at the presentation boundary.
package money

import (
	"errors"
	"strconv"
	"strings"
)

var ErrNotAnAmount = errors.New("money: string contains no digits")

// ParseVND extracts an integer amount from a locale-formatted price string
// such as "1.250.000 ₫" or "1,250,000đ". Legacy records store prices this
// way, so ingestion paths must accept them.
func ParseVND(s string) (int64, error) {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return 0, ErrNotAnAmount
	}
	return strconv.ParseInt(b.String(), 10, 64)
}

// Format renders an amount with dot thousand separators and the đ sign,
// e.g. 1250000 -> "1.250.000 ₫".
func Format(amount int64) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}
	digits := strconv.FormatInt(amount, 10)

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
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
	b.WriteString(" ₫")
	return b.String()
}
