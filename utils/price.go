package utils

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ZeroPrice is the canonical display string for a missing or zero price
const ZeroPrice = "0,00"

// currencyMarks are stripped from both ends of a raw price, longest first
var currencyMarks = []string{"S/.", "S/", "PEN", "USD", "US$", "$"}

// FormatPrice normalizes a raw price into a decimal-comma display string like "120,50".
// Integer-like strings longer than two characters are read as cents ("41641" -> "416,41").
// Non-numeric input is not validated; the result is best-effort string surgery.
func FormatPrice(raw any) string {
	s := strings.TrimSpace(priceText(raw))
	s = stripCurrency(s)

	if s == "" || s == "0" {
		return ZeroPrice
	}

	if !strings.ContainsAny(s, ".,") {
		if len(s) > 2 {
			return s[:len(s)-2] + "," + s[len(s)-2:]
		}
		return s + ",00"
	}

	s = strings.ReplaceAll(s, ".", ",")
	if !strings.Contains(s, ",") {
		return s + ",00"
	}
	// "120,5" -> "120,50"
	if i := strings.LastIndex(s, ","); i == len(s)-2 {
		s += "0"
	}
	return s
}

// PriceLabel joins a currency symbol and a formatted price: "S/ 120,50"
func PriceLabel(symbol string, raw any) string {
	formatted := FormatPrice(raw)
	if symbol == "" {
		return formatted
	}
	return symbol + " " + formatted
}

// IsZeroPrice reports whether the raw value formats to the zero price
func IsZeroPrice(raw any) bool {
	return FormatPrice(raw) == ZeroPrice
}

// SamePrice reports whether two raw prices display identically
func SamePrice(a, b any) bool {
	return FormatPrice(a) == FormatPrice(b)
}

func priceText(raw any) string {
	switch v := raw.(type) {
	case nil:
		return ""
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		if math.IsNaN(v) {
			return ""
		}
		if v == math.Trunc(v) {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'f', 2, 64)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

func stripCurrency(s string) string {
	for {
		changed := false
		upper := strings.ToUpper(s)
		for _, mark := range currencyMarks {
			if strings.HasPrefix(upper, mark) {
				s = strings.TrimSpace(s[len(mark):])
				changed = true
				break
			}
			if strings.HasSuffix(upper, mark) {
				s = strings.TrimSpace(s[:len(s)-len(mark)])
				changed = true
				break
			}
		}
		if !changed {
			return s
		}
	}
}
