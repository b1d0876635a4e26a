package utils

import (
	"fmt"
	"strconv"
)

// ParseLimit reads an optional positive count query parameter. An empty value
// yields def; values above max are capped.
func ParseLimit(raw string, def, max int) (int, error) {
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid limit %q: must be a positive integer", raw)
	}
	if max > 0 && n > max {
		n = max
	}
	return n, nil
}

// ParseProductID validates a product id path parameter.
func ParseProductID(raw string) (int, error) {
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid product id %q", raw)
	}
	return id, nil
}
