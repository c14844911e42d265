package hash

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashVerify_RoundTrip(t *testing.T) {
	a := NewArgon2()

	passwords := []string{
		"password1",
		"VeryStrongPassw0rd!",
		"контрасеña-ünicode",
		strings.Repeat("x", 128),
	}

	for _, p := range passwords {
		digest, err := a.Hash(p)
		require.NoError(t, err)
		require.True(t, strings.HasPrefix(digest, "$argon2id$"), "digest %q", digest)

		ok, err := a.Verify(digest, p)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = a.Verify(digest, p+"-wrong")
		require.NoError(t, err)
		assert.False(t, ok)
	}
}

func TestHash_SaltedDigestsDiffer(t *testing.T) {
	a := NewArgon2()

	d1, err := a.Hash("password1")
	require.NoError(t, err)
	d2, err := a.Hash("password1")
	require.NoError(t, err)

	assert.NotEqual(t, d1, d2)
}

func TestVerify_MalformedDigest(t *testing.T) {
	a := NewArgon2()

	for _, digest := range []string{
		"",
		"plaintext",
		"$argon2i$v=19$m=65536,t=1,p=4$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=65536,t=1,p=4$not-base64!$aGFzaA",
	} {
		ok, err := a.Verify(digest, "password1")
		assert.Error(t, err, "digest %q", digest)
		assert.False(t, ok)
	}
}
