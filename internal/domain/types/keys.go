package types

import "crypto/rsa"

// KeyPair is the local RSA key pair. It lives for one connection and is never
// serialised; only the public half is ever shown to the user as PEM.
type KeyPair struct {
	Private *rsa.PrivateKey
	Public  *rsa.PublicKey
}

// PublicPEM is a PEM-encoded public key as pasted between users.
type PublicPEM string

// String returns the PEM text.
func (p PublicPEM) String() string { return string(p) }
