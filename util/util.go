package util

import (
	"fmt"
	"strconv"
	"strings"
)

// FitBytes returns data resized to exactly n bytes: short input is padded
// with pad, long input is truncated. The second value reports how many bytes
// were added (positive) or dropped (negative).
func FitBytes(data []byte, n int, pad byte) ([]byte, int) {
	out := make([]byte, n)
	copied := copy(out, data)
	for i := copied; i < n; i++ {
		out[i] = pad
	}
	return out, n - len(data)
}

// ParseHexID parses a 16-bit USB vendor or product id written in hex,
// with or without a 0x prefix ("04b8", "0x04B8").
func ParseHexID(s string) (uint16, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(strings.ToLower(s), "0x")
	if s == "" {
		return 0, fmt.Errorf("empty id")
	}
	v, err := strconv.ParseUint(s, 16, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q: %w", s, err)
	}
	return uint16(v), nil
}
