package formatting

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseCurrency extracts a numeric amount from a formatted currency string.
// Symbols, thousands separators, and surrounding text are stripped; only
// digits, a decimal point, and a leading minus sign survive. Returns an
// error when no numeric content remains.
func ParseCurrency(s string) (float64, error) {
	var b strings.Builder
	for i, r := range s {
		switch {
		case r >= '0' && r <= '9', r == '.':
			b.WriteRune(r)
		case r == '-' && i == 0:
			b.WriteRune(r)
		}
	}

	cleaned := b.String()
	if cleaned == "" || cleaned == "-" {
		return 0, fmt.Errorf("no numeric content in %q", s)
	}

	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid currency amount %q: %w", s, err)
	}

	return value, nil
}
