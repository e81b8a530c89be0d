package query

import (
	"strconv"
	"strings"
)

// ParseOrDefault parses raw as a positive integer. Anything else, including
// empty, non-numeric, zero and negative input, yields def.
func ParseOrDefault(raw string, def int64) int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
