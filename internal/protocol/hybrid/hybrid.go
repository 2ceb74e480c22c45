package hybrid

import (
	"crypto/rsa"
	"fmt"
	"unicode/utf8"

	"cipherchat/internal/crypto"
	"cipherchat/internal/domain"
	"cipherchat/internal/util/memzero"
)

// SealedBlob is the output of EncryptBlob.
type SealedBlob struct {
	WrappedKey []byte
	IV         []byte
	Ciphertext []byte
}

// MaxTextSize returns the largest UTF-8 plaintext, in bytes, EncryptText can
// send to peer.
func MaxTextSize(peer *rsa.PublicKey) int {
	return crypto.MaxOAEPPayload(peer)
}

// EncryptText encrypts plaintext directly to peer.
func EncryptText(peer *rsa.PublicKey, plaintext string) ([]byte, error) {
	if max := MaxTextSize(peer); len(plaintext) > max {
		return nil, fmt.Errorf("%w: %d bytes, limit %d", domain.ErrPayloadTooLarge, len(plaintext), max)
	}
	ct, err := crypto.EncryptOAEP(peer, []byte(plaintext))
	if err != nil {
		return nil, fmt.Errorf("encrypt text: %w", err)
	}
	return ct, nil
}

// DecryptText reverses EncryptText with the local private key.
func DecryptText(priv *rsa.PrivateKey, ciphertext []byte) (string, error) {
	pt, err := crypto.DecryptOAEP(priv, ciphertext)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrDecryptionFailed, err)
	}
	if !utf8.Valid(pt) {
		return "", fmt.Errorf("%w: plaintext is not UTF-8", domain.ErrDecryptionFailed)
	}
	return string(pt), nil
}

// EncryptBlob encrypts data under a fresh AES key and IV and wraps the key to peer.
func EncryptBlob(peer *rsa.PublicKey, data []byte) (SealedBlob, error) {
	key, err := crypto.RandomBytes(crypto.AESKeyBytes)
	if err != nil {
		return SealedBlob{}, fmt.Errorf("generate AES key: %w", err)
	}
	defer memzero.Zero(key)

	iv, err := crypto.RandomBytes(crypto.IVBytes)
	if err != nil {
		return SealedBlob{}, fmt.Errorf("generate IV: %w", err)
	}

	ct, err := crypto.EncryptCBC(key, iv, data)
	if err != nil {
		return SealedBlob{}, fmt.Errorf("encrypt blob: %w", err)
	}
	wrapped, err := crypto.EncryptOAEP(peer, key)
	if err != nil {
		return SealedBlob{}, fmt.Errorf("wrap AES key: %w", err)
	}
	return SealedBlob{WrappedKey: wrapped, IV: iv, Ciphertext: ct}, nil
}

// DecryptBlob unwraps the AES key with priv and decrypts the body.
func DecryptBlob(priv *rsa.PrivateKey, sealed SealedBlob) ([]byte, error) {
	key, err := UnwrapKey(priv, sealed.WrappedKey)
	if err != nil {
		return nil, err
	}
	defer memzero.Zero(key)
	return OpenBody(key, sealed.IV, sealed.Ciphertext)
}

// UnwrapKey recovers the per-message AES key. Callers should wipe it with
// memzero.Zero once the body is decrypted.
func UnwrapKey(priv *rsa.PrivateKey, wrapped []byte) ([]byte, error) {
	key, err := crypto.DecryptOAEP(priv, wrapped)
	if err != nil {
		return nil, fmt.Errorf("%w: unwrap AES key: %v", domain.ErrDecryptionFailed, err)
	}
	if len(key) != crypto.AESKeyBytes {
		memzero.Zero(key)
		return nil, fmt.Errorf("%w: unexpected AES key length %d", domain.ErrDecryptionFailed, len(key))
	}
	return key, nil
}

// OpenBody decrypts a blob body with an already unwrapped key.
func OpenBody(key, iv, ciphertext []byte) ([]byte, error) {
	pt, err := crypto.DecryptCBC(key, iv, ciphertext)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDecryptionFailed, err)
	}
	return pt, nil
}
