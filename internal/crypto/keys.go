package crypto

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"strings"
)

const (
	// DefaultRSABits is the key size used when none is configured.
	DefaultRSABits = 2048
	// MinRSABits is the smallest key size accepted for generation.
	MinRSABits = 1024

	pemTypePKIX  = "PUBLIC KEY"
	pemTypePKCS1 = "RSA PUBLIC KEY"
)

var (
	// ErrKeySize is returned when asked for a key below MinRSABits.
	ErrKeySize = fmt.Errorf("rsa key size must be at least %d bits", MinRSABits)
	// ErrNoPEMBlock is returned when the text has no public-key BEGIN/END pair.
	ErrNoPEMBlock = errors.New("no PEM public key block found")
	// ErrNotRSA is returned when the PEM holds a non-RSA public key.
	ErrNotRSA = errors.New("public key is not RSA")
)

// GenerateRSA returns a fresh RSA key pair of the given size.
func GenerateRSA(bits int) (*rsa.PrivateKey, error) {
	if bits < MinRSABits {
		return nil, ErrKeySize
	}
	return rsa.GenerateKey(rand.Reader, bits)
}

// EncodePublicPEM serialises pub as a PKIX "PUBLIC KEY" PEM block.
func EncodePublicPEM(pub *rsa.PublicKey) (string, error) {
	der, err := x509.MarshalPKIXPublicKey(pub)
	if err != nil {
		return "", err
	}
	return string(pem.EncodeToMemory(&pem.Block{Type: pemTypePKIX, Bytes: der})), nil
}

// ParsePublicPEM parses a pasted RSA public key. Both PKIX ("PUBLIC KEY") and
// PKCS#1 ("RSA PUBLIC KEY") blocks are accepted; surrounding text is ignored.
func ParsePublicPEM(text string) (*rsa.PublicKey, error) {
	text = strings.TrimSpace(text)
	if !hasPublicKeyDelimiters(text) {
		return nil, ErrNoPEMBlock
	}
	rest := []byte(text)
	for {
		var block *pem.Block
		block, rest = pem.Decode(rest)
		if block == nil {
			return nil, ErrNoPEMBlock
		}
		switch block.Type {
		case pemTypePKIX:
			key, err := x509.ParsePKIXPublicKey(block.Bytes)
			if err != nil {
				return nil, fmt.Errorf("parse PKIX public key: %w", err)
			}
			pub, ok := key.(*rsa.PublicKey)
			if !ok {
				return nil, ErrNotRSA
			}
			return pub, nil
		case pemTypePKCS1:
			pub, err := x509.ParsePKCS1PublicKey(block.Bytes)
			if err != nil {
				return nil, fmt.Errorf("parse PKCS#1 public key: %w", err)
			}
			return pub, nil
		}
	}
}

func hasPublicKeyDelimiters(text string) bool {
	for _, typ := range []string{pemTypePKIX, pemTypePKCS1} {
		if strings.Contains(text, "-----BEGIN "+typ+"-----") &&
			strings.Contains(text, "-----END "+typ+"-----") {
			return true
		}
	}
	return false
}
