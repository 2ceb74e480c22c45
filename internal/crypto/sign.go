package crypto

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
)

// SignSHA256 signs SHA-256(msg) with RSASSA-PKCS1-v1_5.
func SignSHA256(priv *rsa.PrivateKey, msg []byte) ([]byte, error) {
	digest := sha256.Sum256(msg)
	return rsa.SignPKCS1v15(rand.Reader, priv, crypto.SHA256, digest[:])
}

// VerifySHA256 reports whether sig is a valid SignSHA256 signature of msg.
func VerifySHA256(pub *rsa.PublicKey, msg, sig []byte) bool {
	digest := sha256.Sum256(msg)
	return rsa.VerifyPKCS1v15(pub, crypto.SHA256, digest[:], sig) == nil
}
