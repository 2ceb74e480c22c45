package interfaces

import (
	"crypto/rsa"

	domaintypes "cipherchat/internal/domain/types"
)

// KeyManager generates and holds the local key pair for one connection.
type KeyManager interface {
	// Generate replaces any existing pair and returns the new public key.
	Generate() (domaintypes.PublicPEM, error)
	PublicPEM() (domaintypes.PublicPEM, bool)
	PrivateKey() (*rsa.PrivateKey, bool)
	Fingerprint() (domaintypes.Fingerprint, bool)
	Destroy()
}

// PeerTrustStore holds the single remote party's public key. Implementations
// decide how that key is obtained and trusted.
type PeerTrustStore interface {
	SetPeerKey(pem string) error
	PeerKey() (*rsa.PublicKey, bool)
	Fingerprint() (domaintypes.Fingerprint, bool)
	Reset()
}

// Renderer displays messages and user-facing notices.
type Renderer interface {
	Render(msg domaintypes.RenderedMessage)
	Notice(text string)
}
