package keys

import (
	"crypto/rsa"
	"fmt"
	"sync"

	"cipherchat/internal/crypto"
	"cipherchat/internal/domain"
)

// Generator produces an RSA private key of the requested size.
type Generator func(bits int) (*rsa.PrivateKey, error)

// Option configures a Manager.
type Option func(*Manager)

// WithBits sets the modulus size used by Generate.
func WithBits(bits int) Option {
	return func(m *Manager) { m.bits = bits }
}

// WithGenerator replaces the key generator, mainly so tests can simulate an
// exhausted random source.
func WithGenerator(g Generator) Option {
	return func(m *Manager) { m.gen = g }
}

// Manager holds at most one key pair at a time.
type Manager struct {
	mu   sync.RWMutex
	bits int
	gen  Generator
	pair *domain.KeyPair
	pem  domain.PublicPEM
	fp   domain.Fingerprint
}

// New returns a Manager with no key pair.
func New(opts ...Option) *Manager {
	m := &Manager{bits: crypto.DefaultRSABits, gen: crypto.GenerateRSA}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Generate creates a fresh key pair, replacing any previous one, and returns
// the public half as PEM.
func (m *Manager) Generate() (domain.PublicPEM, error) {
	priv, err := m.gen(m.bits)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrKeyGeneration, err)
	}
	text, err := crypto.EncodePublicPEM(&priv.PublicKey)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrKeyGeneration, err)
	}
	fp, err := crypto.Fingerprint(&priv.PublicKey)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrKeyGeneration, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.pair = &domain.KeyPair{Private: priv, Public: &priv.PublicKey}
	m.pem = domain.PublicPEM(text)
	m.fp = domain.Fingerprint(fp)
	return m.pem, nil
}

// PublicPEM returns the current public key, if any.
func (m *Manager) PublicPEM() (domain.PublicPEM, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pem, m.pair != nil
}

// PrivateKey returns the current private key, if any.
func (m *Manager) PrivateKey() (*rsa.PrivateKey, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.pair == nil {
		return nil, false
	}
	return m.pair.Private, true
}

// Fingerprint returns the SHA-256 fingerprint of the current public key.
func (m *Manager) Fingerprint() (domain.Fingerprint, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.fp, m.pair != nil
}

// Destroy drops the key pair and zeroes its private exponent and primes.
func (m *Manager) Destroy() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.pair != nil && m.pair.Private != nil {
		p := m.pair.Private
		if p.D != nil {
			p.D.SetInt64(0)
		}
		for _, prime := range p.Primes {
			prime.SetInt64(0)
		}
	}
	m.pair = nil
	m.pem = ""
	m.fp = ""
}

var _ domain.KeyManager = (*Manager)(nil)
