// Package keys owns the session's RSA key pair.
//
// A pair is generated when the user joins, lives only in memory and is
// dropped on exit. Generation failure is fatal and reported as
// domain.ErrKeyGeneration.
package keys
