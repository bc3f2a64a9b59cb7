package snap

import (
	"strconv"
	"unicode/utf16"
)

// Fingerprint digests text into the short change-detection hash stored with
// every backup: fold the UTF-16 code units left to right as h = h*31 + unit
// in wrapping 32-bit signed arithmetic, take the absolute value, and render
// it as lowercase hex. The empty string digests to "0".
//
// This is not a cryptographic hash. Records carry it so that two snapshots
// can be compared cheaply, and existing records already use this exact
// format, so the 32-bit wraparound must be reproduced bit for bit.
func Fingerprint(text string) string {
	var h int32
	for _, unit := range utf16.Encode([]rune(text)) {
		h = h*31 + int32(unit)
	}
	// Widen before negating so the most negative fold still renders as a
	// positive value.
	v := int64(h)
	if v < 0 {
		v = -v
	}
	return strconv.FormatInt(v, 16)
}
