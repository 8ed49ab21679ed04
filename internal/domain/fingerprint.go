package domain

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

// FingerprintSize is the digest length in bytes (128 bits).
const FingerprintSize = 16

// Fingerprint returns the hex-encoded 128-bit BLAKE2b digest of the UTF-8
// bytes of text. The same text always yields the same fingerprint. It is used
// for provenance and future deduplication, not for security.
func Fingerprint(text string) string {
	// blake2b.New only fails for invalid sizes or oversized keys.
	h, err := blake2b.New(FingerprintSize, nil)
	if err != nil {
		panic(err)
	}
	_, _ = h.Write([]byte(text))
	return hex.EncodeToString(h.Sum(nil))
}
