// Package formatting provides parsing utilities for values that cross
// text boundaries: byte sizes, currency amounts, and model output JSON.
package formatting

import (
	"fmt"
	"strconv"
	"strings"
)

var byteUnits = map[string]int64{
	"B":  1,
	"KB": 1 << 10,
	"MB": 1 << 20,
	"GB": 1 << 30,
	"TB": 1 << 40,
	"PB": 1 << 50,
}

// ParseBytes converts a human-readable size such as "10MB" into a byte
// count. Units B through PB are base-1024 and case-insensitive; a bare
// number means bytes. A space between number and unit is allowed.
func ParseBytes(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty byte size")
	}

	split := len(s)
	for i, r := range s {
		if (r < '0' || r > '9') && r != '.' {
			split = i
			break
		}
	}

	number := s[:split]
	unit := strings.ToUpper(strings.TrimSpace(s[split:]))

	value, err := strconv.ParseFloat(number, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid byte size %q: %w", s, err)
	}

	if unit == "" {
		return int64(value), nil
	}

	scale, ok := byteUnits[unit]
	if !ok {
		return 0, fmt.Errorf("unknown byte size unit %q", unit)
	}
	return int64(value * float64(scale)), nil
}
