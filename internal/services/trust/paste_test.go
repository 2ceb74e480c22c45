package trust_test

import (
	"crypto/rsa"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cipherchat/internal/crypto"
	"cipherchat/internal/domain"
	"cipherchat/internal/services/trust"
)

func makePEM(t *testing.T) string {
	t.Helper()
	priv, err := crypto.GenerateRSA(crypto.MinRSABits)
	require.NoError(t, err)
	text, err := crypto.EncodePublicPEM(&priv.PublicKey)
	require.NoError(t, err)
	return text
}

func TestPasteStore_AcceptsValidKey(t *testing.T) {
	s := trust.NewPasteStore()
	_, ok := s.PeerKey()
	require.False(t, ok)

	// Pasted text usually carries stray whitespace.
	require.NoError(t, s.SetPeerKey("\n  "+makePEM(t)+"\n\n"))

	pub, ok := s.PeerKey()
	require.True(t, ok)
	assert.Equal(t, crypto.MinRSABits, pub.N.BitLen())

	fp, ok := s.Fingerprint()
	require.True(t, ok)
	want, err := crypto.Fingerprint(pub)
	require.NoError(t, err)
	assert.Equal(t, want, fp.String())
}

func TestPasteStore_RejectsAndKeepsPrevious(t *testing.T) {
	s := trust.NewPasteStore()
	require.NoError(t, s.SetPeerKey(makePEM(t)))
	before, _ := s.PeerKey()

	for _, bad := range []string{
		"",
		"hello",
		"-----BEGIN PUBLIC KEY-----\nnot base64\n-----END PUBLIC KEY-----",
		"-----BEGIN CERTIFICATE-----\nAAAA\n-----END CERTIFICATE-----",
	} {
		err := s.SetPeerKey(bad)
		require.ErrorIs(t, err, domain.ErrInvalidKeyFormat, "input %q", bad)
	}

	after, ok := s.PeerKey()
	require.True(t, ok)
	assert.Same(t, before, after)
}

func TestPasteStore_RejectsShortKey(t *testing.T) {
	s := trust.NewPasteStore()
	require.NoError(t, s.SetPeerKey(makePEM(t)))
	before, _ := s.PeerKey()

	n := new(big.Int).Lsh(big.NewInt(1), 511)
	n.Add(n, big.NewInt(1))
	short, err := crypto.EncodePublicPEM(&rsa.PublicKey{N: n, E: 65537})
	require.NoError(t, err)

	err = s.SetPeerKey(short)
	require.ErrorIs(t, err, domain.ErrInvalidKeyFormat)
	assert.Contains(t, err.Error(), "512-bit")

	after, _ := s.PeerKey()
	assert.Same(t, before, after)
}

func TestPasteStore_ReplaceAndReset(t *testing.T) {
	s := trust.NewPasteStore()
	require.NoError(t, s.SetPeerKey(makePEM(t)))
	first, _ := s.Fingerprint()

	require.NoError(t, s.SetPeerKey(makePEM(t)))
	second, _ := s.Fingerprint()
	assert.NotEqual(t, first, second)

	s.Reset()
	_, ok := s.PeerKey()
	assert.False(t, ok)
}
