package common

import (
	"errors"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var ErrInvalidAmount = errors.New("invalid amount")

var amountNoise = strings.NewReplacer(
	"บาท", "",
	"THB", "",
	"฿", "",
	",", "",
	" ", "",
)

var numericRegex = regexp.MustCompile(`^\d+(?:\.\d+)?$`)

// Line returns lines[i] when i is in range.
func Line(lines []string, i int) (string, bool) {
	if i < 0 || i >= len(lines) {
		return "", false
	}
	return lines[i], true
}

// SplitLines splits text on newlines, keeping empty lines so positional
// offsets stay aligned with the source.
func SplitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.Split(text, "\n")
}

// StripAmount removes the baht suffix and thousands separators the way slip
// layouts print them, leaving the numeric text.
func StripAmount(s string) string {
	s = strings.ReplaceAll(s, " บาท", "")
	return strings.ReplaceAll(s, ",", "")
}

// IsNumeric reports whether s is a plain decimal number.
func IsNumeric(s string) bool {
	return numericRegex.MatchString(strings.TrimSpace(s))
}

// Amount returns the numeric text of an amount line, or the placeholder when
// the line holds anything else.
func Amount(s string) string {
	if v := strings.TrimSpace(StripAmount(s)); IsNumeric(v) {
		return v
	}
	return Placeholder
}

// ParseAmount parses an extracted amount such as "1,234.50 บาท". The sign is
// discarded; direction comes from the transaction type.
func ParseAmount(s string) (decimal.Decimal, error) {
	clean := amountNoise.Replace(strings.TrimSpace(s))
	if clean == "" || clean == Placeholder {
		return decimal.Zero, ErrInvalidAmount
	}
	amount, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	return amount.Abs(), nil
}
