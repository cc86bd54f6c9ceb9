package cryptox

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDigestPassword_KnownVector(t *testing.T) {
	// sha256("secret")
	assert.Equal(t, "2bb80d537b1da3e38bd30361aa855686bde0eacd7162fef6a25fe97bf527a25b", DigestPassword("secret"))
}

func TestDigestPassword_DeterministicFixedLength(t *testing.T) {
	a := DigestPassword("hunter22")
	b := DigestPassword("hunter22")
	assert.Equal(t, a, b)
	assert.Len(t, a, DigestLength)
	assert.NotEqual(t, a, DigestPassword("hunter23"))
	assert.Len(t, DigestPassword(""), DigestLength)
}
