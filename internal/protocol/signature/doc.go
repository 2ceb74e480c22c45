// Package signature signs and verifies chat payloads with the sender's RSA
// key (PKCS#1 v1.5 over SHA-256). Signatures travel base64 encoded.
//
// Verification is advisory. Callers record the result next to the rendered
// message; a failed check never blocks delivery.
package signature
