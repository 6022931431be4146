package services

import (
	"fmt"
	"strconv"
	"unicode/utf16"
)

// DefaultCertificatePrefix is used when no prefix is configured.
const DefaultCertificatePrefix = "SN"

// CertificateID builds the deterministic certificate identifier of a
// (course, user) pair: prefix, course id, user id and the last six digits of
// a 32-bit rolling hash of "courseID-userID".
func CertificateID(prefix, courseID, userID string) string {
	if prefix == "" {
		prefix = DefaultCertificatePrefix
	}
	digits := strconv.FormatInt(certificateHash(courseID+"-"+userID), 10)
	if len(digits) > 6 {
		digits = digits[len(digits)-6:]
	}
	return fmt.Sprintf("%s-%s-%s-%s", prefix, courseID, userID, digits)
}

// certificateHash is h = h*31 + c over UTF-16 code units, wrapping at 32 bits.
// The absolute value is returned.
func certificateHash(s string) int64 {
	var h int32
	for _, unit := range utf16.Encode([]rune(s)) {
		h = (h << 5) - h + int32(unit)
	}
	v := int64(h)
	if v < 0 {
		v = -v
	}
	return v
}
