package pipeline

import (
	"hash/fnv"
	"strconv"
	"strings"
)

// Normalize trims the text and collapses internal whitespace runs to a
// single space. It is idempotent: Normalize(Normalize(x)) == Normalize(x).
func Normalize(text string) string {
	fields := strings.Fields(text)
	return strings.Join(fields, " ")
}

// Fingerprint computes the stable cache key for a question's normalized,
// lowercased text. It hashes the full normalized text with FNV-1a 64-bit
// rather than truncating to a prefix, so long questions differing only in
// their tail cannot collide.
func Fingerprint(normalized string) string {
	h := fnv.New64a()
	h.Write([]byte(strings.ToLower(normalized)))
	return strconv.FormatUint(h.Sum64(), 16)
}
