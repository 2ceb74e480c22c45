package crypto

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"errors"
)

// ErrMessageTooLong is returned when plaintext exceeds MaxOAEPPayload.
var ErrMessageTooLong = errors.New("message too long for RSA-OAEP")

// MaxOAEPPayload is the largest plaintext, in bytes, that EncryptOAEP accepts
// for pub: k - 2*hLen - 2 with SHA-256.
func MaxOAEPPayload(pub *rsa.PublicKey) int {
	n := pub.Size() - 2*sha256.Size - 2
	if n < 0 {
		return 0
	}
	return n
}

// EncryptOAEP encrypts msg to pub with RSA-OAEP(SHA-256) and no label.
func EncryptOAEP(pub *rsa.PublicKey, msg []byte) ([]byte, error) {
	if len(msg) > MaxOAEPPayload(pub) {
		return nil, ErrMessageTooLong
	}
	return rsa.EncryptOAEP(sha256.New(), rand.Reader, pub, msg, nil)
}

// DecryptOAEP reverses EncryptOAEP.
func DecryptOAEP(priv *rsa.PrivateKey, ct []byte) ([]byte, error) {
	return rsa.DecryptOAEP(sha256.New(), nil, priv, ct, nil)
}
