package core

import (
	"crypto/sha256"
	"encoding/hex"
)

// Hash is a hex-encoded SHA-256 digest
type Hash string

// HashFields hashes fields in order. A unit separator keeps ("ab","c") and
// ("a","bc") apart.
func HashFields(fields ...string) Hash {
	h := sha256.New()
	for _, f := range fields {
		h.Write([]byte(f))
		h.Write([]byte{0x1f})
	}
	return Hash(hex.EncodeToString(h.Sum(nil)))
}

func (h Hash) String() string { return string(h) }

// Short returns the first 12 hex digits for log lines
func (h Hash) Short() string {
	if len(h) <= 12 {
		return string(h)
	}
	return string(h[:12])
}
