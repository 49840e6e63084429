package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEncryptor(t *testing.T) {
	key, err := GenerateKey()
	require.NoError(t, err)

	enc, err := NewEncryptor(key)
	require.NoError(t, err)
	assert.Contains(t, enc.PublicKey(), "age1")

	_, err = NewEncryptor("not-an-age-key")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing identity")
}

func TestSealOpen(t *testing.T) {
	enc, err := NewEncryptor("")
	require.NoError(t, err)

	sealed, err := enc.Seal("529.982.247-25")
	require.NoError(t, err)
	assert.NotContains(t, sealed, "529.982.247-25")

	opened, err := enc.Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, "529.982.247-25", opened)
}

func TestSeal_NonDeterministic(t *testing.T) {
	enc, err := NewEncryptor("")
	require.NoError(t, err)

	a, err := enc.Seal("12345678909")
	require.NoError(t, err)
	b, err := enc.Seal("12345678909")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestSeal_Empty(t *testing.T) {
	enc, err := NewEncryptor("")
	require.NoError(t, err)

	sealed, err := enc.Seal("")
	require.NoError(t, err)
	assert.Empty(t, sealed)

	opened, err := enc.Open("")
	require.NoError(t, err)
	assert.Empty(t, opened)
}

func TestOpen_WrongKey(t *testing.T) {
	a, err := NewEncryptor("")
	require.NoError(t, err)
	b, err := NewEncryptor("")
	require.NoError(t, err)

	sealed, err := a.Seal("secret")
	require.NoError(t, err)

	_, err = b.Open(sealed)
	assert.Error(t, err)

	_, err = a.Open("%%%not-base64")
	assert.Error(t, err)
}
