package domain

import "errors"

var (
	// ErrInvalidKeyFormat is returned when a pasted peer key is not a PEM
	// encoded RSA public key.
	ErrInvalidKeyFormat = errors.New("invalid public key format")

	// ErrPeerKeyNotSet is returned by messaging operations attempted before a
	// peer key has been accepted.
	ErrPeerKeyNotSet = errors.New("receiver's public key not set")

	// ErrPayloadTooLarge is returned when text exceeds what the peer key can
	// encrypt directly.
	ErrPayloadTooLarge = errors.New("payload too large for direct RSA encryption")

	// ErrDecryptionFailed covers malformed, corrupted or mis-addressed ciphertext.
	ErrDecryptionFailed = errors.New("decryption failed")

	// ErrVerificationFailed marks a signature that does not match. It is advisory.
	ErrVerificationFailed = errors.New("signature verification failed")

	// ErrKeyGeneration is fatal: without a key pair the session cannot proceed.
	ErrKeyGeneration = errors.New("key generation failed")

	ErrNotJoined       = errors.New("not joined")
	ErrAlreadyJoined   = errors.New("already joined")
	ErrInvalidUsername = errors.New("username cannot be empty")
	ErrUnknownEnvelope = errors.New("unknown envelope type")
)
