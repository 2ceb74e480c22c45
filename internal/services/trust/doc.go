// Package trust implements trust-on-paste: the peer's public key is whatever
// PEM the user pasted, provided it parses as an RSA public key. There is no
// proof of ownership; the fingerprint is surfaced so users can compare it
// over another channel.
package trust
