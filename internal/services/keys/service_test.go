package keys_test

import (
	"crypto/rsa"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cipherchat/internal/crypto"
	"cipherchat/internal/domain"
	"cipherchat/internal/services/keys"
)

func TestManager_GenerateAndDestroy(t *testing.T) {
	m := keys.New(keys.WithBits(crypto.MinRSABits))

	_, ok := m.PrivateKey()
	assert.False(t, ok, "fresh manager should hold no key")

	pem, err := m.Generate()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(pem.String(), "-----BEGIN PUBLIC KEY-----"))

	priv, ok := m.PrivateKey()
	require.True(t, ok)
	assert.Equal(t, crypto.MinRSABits, priv.N.BitLen())

	got, ok := m.PublicPEM()
	require.True(t, ok)
	assert.Equal(t, pem, got)

	fp, ok := m.Fingerprint()
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(fp.String(), "SHA256:"))

	m.Destroy()
	_, ok = m.PrivateKey()
	assert.False(t, ok)
	_, ok = m.PublicPEM()
	assert.False(t, ok)
	assert.Zero(t, priv.D.Sign(), "private exponent should be cleared")
}

func TestManager_GenerateReplacesPair(t *testing.T) {
	m := keys.New(keys.WithBits(crypto.MinRSABits))

	first, err := m.Generate()
	require.NoError(t, err)
	second, err := m.Generate()
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	got, _ := m.PublicPEM()
	assert.Equal(t, second, got)
}

func TestManager_GeneratorFailureIsFatal(t *testing.T) {
	rngErr := errors.New("entropy exhausted")
	m := keys.New(keys.WithGenerator(func(int) (*rsa.PrivateKey, error) { return nil, rngErr }))

	_, err := m.Generate()
	require.ErrorIs(t, err, domain.ErrKeyGeneration)
	assert.Contains(t, err.Error(), "entropy exhausted")

	_, ok := m.PrivateKey()
	assert.False(t, ok)
}
