package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFingerprint(t *testing.T) {
	t.Parallel()

	a := Fingerprint("Zażółć gęślą jaźń")
	b := Fingerprint("Zażółć gęślą jaźń")
	c := Fingerprint("Zazolc gesla jazn")

	assert.Equal(t, a, b, "same text must yield the same fingerprint")
	assert.NotEqual(t, a, c)
	assert.Len(t, a, FingerprintSize*2, "hex encoding doubles the byte length")
	assert.Regexp(t, "^[0-9a-f]+$", a)
}
