// Package hybrid implements the two encryption paths used for chat payloads.
//
// # Text
//
// Short text is encrypted directly to the peer's RSA key with OAEP(SHA-256).
// The plaintext must fit in MaxTextSize bytes of UTF-8 (190 for 2048-bit
// keys); longer text is rejected with domain.ErrPayloadTooLarge rather than
// split or truncated.
//
// # Binary
//
// Images and other blobs use a fresh 128-bit AES key per message. The body is
// encrypted with AES-CBC and PKCS#7 padding under a fresh random IV, and the
// AES key is wrapped with RSA-OAEP to the peer. The IV travels in clear next
// to the ciphertext and is never derived from the key.
//
// # Errors
//
// Every decrypt failure (wrong key, corrupted wrapped key, bad padding,
// malformed lengths, invalid UTF-8) is reported as domain.ErrDecryptionFailed
// so callers can drop the message without inspecting the cause.
package hybrid
