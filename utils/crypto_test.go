package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "0123456789abcdef0123456789abcdef"

func TestCipherRoundTrip(t *testing.T) {
	c, err := NewCipher(testKey)
	require.NoError(t, err)
	require.NotNil(t, c)

	sealed, err := c.Encrypt([]byte(`{"amount":"12.50"}`))
	require.NoError(t, err)
	assert.NotContains(t, sealed, "12.50")

	opened, err := c.Decrypt(sealed)
	require.NoError(t, err)
	assert.Equal(t, `{"amount":"12.50"}`, string(opened))
}

func TestCipherNonceIsRandom(t *testing.T) {
	c, err := NewCipher(testKey)
	require.NoError(t, err)

	a, err := c.Encrypt([]byte("same"))
	require.NoError(t, err)
	b, err := c.Encrypt([]byte("same"))
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestNewCipherKeys(t *testing.T) {
	c, err := NewCipher("")
	require.NoError(t, err)
	assert.Nil(t, c)

	_, err = NewCipher("too-short")
	assert.Error(t, err)
}

func TestDecryptRejectsGarbage(t *testing.T) {
	c, err := NewCipher(testKey)
	require.NoError(t, err)

	_, err = c.Decrypt("!!not-base64!!")
	assert.Error(t, err)

	_, err = c.Decrypt("AAAA")
	assert.Error(t, err)
}
