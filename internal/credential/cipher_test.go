package credential

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCipher(t *testing.T) *Cipher {
	t.Helper()

	c, err := NewCipher(bytes.Repeat([]byte{0x42}, masterKeyLen))
	require.NoError(t, err)
	return c
}

func TestCipherRoundTrip(t *testing.T) {
	c := testCipher(t)

	sealed, err := c.Seal("gho_secrettoken")
	require.NoError(t, err)
	assert.NotEqual(t, "gho_secrettoken", sealed)

	opened, err := c.Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, "gho_secrettoken", opened)
}

func TestCipherEmptyPassthrough(t *testing.T) {
	c := testCipher(t)

	sealed, err := c.Seal("")
	require.NoError(t, err)
	assert.Equal(t, "", sealed)

	opened, err := c.Open("")
	require.NoError(t, err)
	assert.Equal(t, "", opened)
}

func TestCipherNonDeterministicNonce(t *testing.T) {
	c := testCipher(t)

	a, err := c.Seal("token")
	require.NoError(t, err)
	b, err := c.Seal("token")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestCipherRejectsTamperedInput(t *testing.T) {
	c := testCipher(t)

	_, err := c.Open("not base64 at all!!")
	assert.Error(t, err)

	_, err = c.Open("YWJj") // valid base64, shorter than a nonce
	assert.Error(t, err)

	sealed, err := c.Seal("token")
	require.NoError(t, err)
	_, err = c.Open(sealed[:len(sealed)-4] + "AAAA")
	assert.Error(t, err)
}

func TestCipherRejectsWrongKey(t *testing.T) {
	c := testCipher(t)
	other, err := NewCipher(bytes.Repeat([]byte{0x43}, masterKeyLen))
	require.NoError(t, err)

	sealed, err := c.Seal("token")
	require.NoError(t, err)

	_, err = other.Open(sealed)
	assert.Error(t, err)
}

func TestNewCipherRejectsShortKey(t *testing.T) {
	_, err := NewCipher([]byte("too short"))
	assert.Error(t, err)
}
