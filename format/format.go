// Package format holds the pure display-string helpers shared by the HTTP
// surface: currency grouping, period captions, and the inverse of the
// numeric input mask.
package format

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"famledger/models"
)

// ErrInvalidAmount is returned for input that cannot become a positive
// amount with at most two fraction digits.
var ErrInvalidAmount = errors.New("format: invalid amount")

// Currency renders an amount with comma thousands grouping and exactly two
// decimals, e.g. 1234567.5 -> "1,234,567.50".
func Currency(d decimal.Decimal) string {
	s := d.StringFixed(2)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	intPart, fracPart, _ := strings.Cut(s, ".")

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	lead := len(intPart) % 3
	if lead > 0 {
		b.WriteString(intPart[:lead])
		if len(intPart) > lead {
			b.WriteByte(',')
		}
	}
	for i := lead; i < len(intPart); i += 3 {
		b.WriteString(intPart[i : i+3])
		if i+3 < len(intPart) {
			b.WriteByte(',')
		}
	}
	b.WriteByte('.')
	b.WriteString(fracPart)
	return b.String()
}

// Date renders an instant as "Mar 3, 2024".
func Date(t time.Time) string {
	return t.Format("Jan 2, 2006")
}

// DateTime renders an instant as "Mar 3, 2024 10:00".
func DateTime(t time.Time) string {
	return t.Format("Jan 2, 2006 15:04")
}

// RangeLabel is the period caption shown above the filtered lists: the
// plain date for a day, "Mar 11 – Mar 17, 2024" for a week, and
// "March 2024" for a month.
func RangeLabel(g models.Granularity, start, end time.Time) string {
	switch g {
	case models.GranularityWeek:
		if start.Year() == end.Year() {
			return fmt.Sprintf("%s – %s", start.Format("Jan 2"), end.Format("Jan 2, 2006"))
		}
		return fmt.Sprintf("%s – %s", start.Format("Jan 2, 2006"), end.Format("Jan 2, 2006"))
	case models.GranularityMonth:
		return start.Format("January 2006")
	default:
		return Date(start)
	}
}

// ParseAmount undoes the numeric input mask: grouping commas and
// surrounding space are stripped, at most two fraction digits are allowed,
// and the value must be strictly positive.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	if _, frac, ok := strings.Cut(s, "."); ok && len(frac) > 2 {
		return decimal.Zero, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil || !d.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}
