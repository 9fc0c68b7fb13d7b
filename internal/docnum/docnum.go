// Package docnum derives party codes and formats document numbers.
package docnum

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// PlaceholderCode is assigned when a party name contains no usable tokens.
const PlaceholderCode = "XX"

var romanMonths = [13]string{
	"", "I", "II", "III", "IV", "V", "VI",
	"VII", "VIII", "IX", "X", "XI", "XII",
}

// DeriveCode maps a party display name to its short uppercase code.
// It is total: every input, including blank names, yields a code.
// Distinct names may collide on the same code; callers scope sequence
// allocation by code, not by the underlying name.
func DeriveCode(displayName string) string {
	parts := strings.Fields(displayName)
	switch len(parts) {
	case 0:
		return PlaceholderCode
	case 1:
		// Slice by runes so multi-byte names keep whole characters.
		r := []rune(parts[0])
		if len(r) > 2 {
			r = r[:2]
		}
		return strings.ToUpper(string(r))
	default:
		first := []rune(parts[0])
		last := []rune(parts[len(parts)-1])
		return strings.ToUpper(string(first[0]) + string(last[0]))
	}
}

// MonthToken returns the roman numeral for a calendar month 1-12.
// Out-of-range months fall back to the decimal string.
func MonthToken(month int) string {
	if month < 1 || month > 12 {
		return strconv.Itoa(month)
	}
	return romanMonths[month]
}

// ParseMonthToken is the inverse of MonthToken. It returns 0 when the
// token is neither a roman numeral I-XII nor a decimal month.
func ParseMonthToken(token string) int {
	for m := 1; m <= 12; m++ {
		if romanMonths[m] == token {
			return m
		}
	}
	if n, err := strconv.Atoi(token); err == nil && n >= 1 && n <= 12 {
		return n
	}
	return 0
}

// Format composes the canonical document number:
// SEQ(3-digit)/KIND-CODE/MONTH_ROMAN/YEAR, e.g. 002/INV-MH/XI/2025.
func Format(kind, code string, seq int, date time.Time) string {
	return fmt.Sprintf("%03d/%s-%s/%s/%d", seq, kind, code, MonthToken(int(date.Month())), date.Year())
}

// FileName turns a document number into a unique object key basename.
// The nanosecond timestamp keeps repeated uploads for the same number
// from colliding.
func FileName(number string, ts time.Time) string {
	return fmt.Sprintf("%s-%d.pdf", strings.ReplaceAll(number, "/", "-"), ts.UnixNano())
}
