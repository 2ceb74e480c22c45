// Package chat runs one participant's side of an encrypted conversation.
//
// A Session moves through four states:
//
//	unjoined -> joined(unkeyed) -> joined(keyed) -> exited
//
// Joining generates a fresh key pair and announces the username on the
// relay. Pasting the peer's public key moves the session to keyed, the only
// state in which text and images can be sent. Exit announces the departure
// and discards all key material; a session cannot be rejoined.
//
// Outgoing text is encrypted directly to the peer key and signed. Images are
// encrypted under a one-off AES key, signed, and either sent inline or, above
// the configured threshold, uploaded to blob storage with only the URL sent.
//
// Inbound chat frames are decrypted with the local key and checked against
// the peer key. A frame that fails to decrypt is dropped without affecting
// later frames. A bad signature only marks the message as unverified.
//
// Run drives a Session from a stream of user events and relay frames, one at
// a time, and is the only writer of session state.
package chat
