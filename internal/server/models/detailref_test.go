package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetailRef_ParseAndValidate(t *testing.T) {
	ref := NewDetailRef()
	require.False(t, ref.IsZero())
	require.NoError(t, ref.Validate())

	parsed, err := ParseDetailRef(ref.String())
	require.NoError(t, err)
	assert.Equal(t, ref, parsed)

	_, err = ParseDetailRef("64b7f0c2e1")
	assert.Error(t, err)

	assert.Error(t, RawDetailRef("not-a-ref").Validate())
}

func TestDetailRef_ValueAndScan(t *testing.T) {
	var zero DetailRef
	v, err := zero.Value()
	require.NoError(t, err)
	assert.Nil(t, v)

	ref := NewDetailRef()
	v, err = ref.Value()
	require.NoError(t, err)
	assert.Equal(t, ref.String(), v)

	var scanned DetailRef
	require.NoError(t, scanned.Scan(ref.String()))
	assert.Equal(t, ref, scanned)

	require.NoError(t, scanned.Scan([]byte("abc")))
	assert.Equal(t, "abc", scanned.String())

	require.NoError(t, scanned.Scan(nil))
	assert.True(t, scanned.IsZero())

	assert.Error(t, scanned.Scan(42))
}

func TestRefreshToken_Expired(t *testing.T) {
	tok := &RefreshToken{}
	now := tok.Expires
	assert.True(t, tok.Expired(now))
	tok.Expires = now.Add(1)
	assert.False(t, tok.Expired(now))
}
