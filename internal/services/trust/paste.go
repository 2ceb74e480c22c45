package trust

import (
	"crypto/rsa"
	"fmt"
	"sync"

	"cipherchat/internal/crypto"
	"cipherchat/internal/domain"
)

// PasteStore holds the single peer key accepted from pasted PEM text.
type PasteStore struct {
	mu  sync.RWMutex
	key *rsa.PublicKey
	fp  domain.Fingerprint
}

// NewPasteStore returns an empty store.
func NewPasteStore() *PasteStore { return &PasteStore{} }

// SetPeerKey parses pem and, on success, replaces the stored key. Keys
// shorter than crypto.MinRSABits are rejected. On failure the previous key is
// left untouched.
func (s *PasteStore) SetPeerKey(pem string) error {
	pub, err := crypto.ParsePublicPEM(pem)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidKeyFormat, err)
	}
	if bits := pub.N.BitLen(); bits < crypto.MinRSABits {
		return fmt.Errorf("%w: %d-bit key, need at least %d", domain.ErrInvalidKeyFormat, bits, crypto.MinRSABits)
	}
	fp, err := crypto.Fingerprint(pub)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidKeyFormat, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.key = pub
	s.fp = domain.Fingerprint(fp)
	return nil
}

func (s *PasteStore) PeerKey() (*rsa.PublicKey, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.key, s.key != nil
}

func (s *PasteStore) Fingerprint() (domain.Fingerprint, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fp, s.key != nil
}

// Reset forgets the peer key.
func (s *PasteStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.key = nil
	s.fp = ""
}

var _ domain.PeerTrustStore = (*PasteStore)(nil)
