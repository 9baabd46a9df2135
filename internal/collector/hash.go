package collector

import (
	"strconv"
	"unicode/utf16"
)

// RollingHash folds s into a signed 32-bit value with h = h*31 + c over its
// UTF-16 code units and renders it in base 16, keeping the sign. It is a
// coarse identifier, not a digest.
func RollingHash(s string) string {
	var h int32
	for _, c := range utf16.Encode([]rune(s)) {
		h = (h << 5) - h + int32(c)
	}
	return formatHash(h)
}

func formatHash(h int32) string {
	return strconv.FormatInt(int64(h), 16)
}
