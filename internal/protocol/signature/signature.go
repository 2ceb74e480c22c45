package signature

import (
	"crypto/rsa"
	"fmt"

	"cipherchat/internal/crypto"
)

// Sign returns the base64 signature of data under priv.
func Sign(priv *rsa.PrivateKey, data []byte) (string, error) {
	sig, err := crypto.SignSHA256(priv, data)
	if err != nil {
		return "", fmt.Errorf("sign: %w", err)
	}
	return crypto.B64(sig), nil
}

// Verify reports whether sig is a valid signature of data under pub. Missing
// keys, undecodable signatures and mismatches all report false.
func Verify(pub *rsa.PublicKey, data []byte, sig string) bool {
	if pub == nil || sig == "" {
		return false
	}
	raw, err := crypto.FromB64(sig)
	if err != nil {
		return false
	}
	return crypto.VerifySHA256(pub, data, raw)
}
