// Package crypto exposes the minimal primitives used by cipherchat.
//
// Contents
//
//   - RSA key generation and PEM encoding/parsing (GenerateRSA,
//     EncodePublicPEM, ParsePublicPEM)
//   - RSA-OAEP encryption with SHA-256 and its payload bound (EncryptOAEP,
//     DecryptOAEP, MaxOAEPPayload)
//   - AES-CBC with PKCS#7 padding (EncryptCBC, DecryptCBC)
//   - RSASSA-PKCS1-v1_5 signatures over SHA-256 digests (SignSHA256,
//     VerifySHA256)
//   - OpenSSH-style SHA-256 fingerprints of public keys (Fingerprint)
//
// # Notes
//
// Nothing here knows about envelopes or sessions. Errors are returned as-is
// (or as the package sentinels below); the protocol packages map them to
// domain error kinds.
package crypto
