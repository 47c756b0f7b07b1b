package offer

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	// anything but digits, separators and whitespace
	priceNoise   = regexp.MustCompile(`[^0-9,.\s]`)
	priceNumeral = regexp.MustCompile(`[0-9]+(\.[0-9]+)?`)
)

type floatNumber interface {
	Float64() (float64, error)
}

// ParsePrice turns a number or a decorated price string such as "€4,99€"
// into a non-negative float. ok is false when no number can be extracted;
// it never falls back to zero.
func ParsePrice(value any) (price float64, ok bool) {
	switch v := value.(type) {
	case nil:
		return 0, false
	case float64:
		return checkNumeric(v)
	case float32:
		return checkNumeric(float64(v))
	case int:
		return checkNumeric(float64(v))
	case int64:
		return checkNumeric(float64(v))
	case int32:
		return checkNumeric(float64(v))
	case floatNumber:
		f, err := v.Float64()
		if err != nil {
			return 0, false
		}
		return checkNumeric(f)
	case string:
		return parsePriceString(v)
	default:
		return 0, false
	}
}

func checkNumeric(f float64) (float64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0, false
	}
	return f, true
}

func parsePriceString(s string) (float64, bool) {
	cleaned := priceNoise.ReplaceAllString(s, "")
	cleaned = strings.TrimSpace(strings.ReplaceAll(cleaned, ",", "."))

	match := priceNumeral.FindString(cleaned)
	if match == "" {
		return 0, false
	}

	f, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// FormatPrice renders a parsed price in the single display form, e.g. "4.50€".
func FormatPrice(price float64) string {
	return strconv.FormatFloat(price, 'f', 2, 64) + CurrencySymbol
}
