package crypto

import (
	"crypto/rsa"

	"golang.org/x/crypto/ssh"
)

// Fingerprint returns the OpenSSH SHA-256 fingerprint of pub, e.g.
// "SHA256:uNiVztksCsDhcc0u9e8BujQXVUpKZIDTMczCvj3tD2s". Users compare it out
// of band to check a pasted key.
func Fingerprint(pub *rsa.PublicKey) (string, error) {
	key, err := ssh.NewPublicKey(pub)
	if err != nil {
		return "", err
	}
	return ssh.FingerprintSHA256(key), nil
}
