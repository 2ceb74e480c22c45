// Package commands defines the cipherchat CLI.
//
// Commands
//
//   - chat          Join the relay and chat interactively
//   - fingerprint   Print the SHA-256 fingerprint of a PEM public key file
//
// Inside chat, a line of text is sent as a message. Lines starting with a
// slash are commands:
//
//	/join <name>     join the conversation (skipped when --username is set)
//	/key             paste the peer's public key, ending with its END line
//	/image <path>    send an image file
//	/fingerprint     show your key fingerprint and the peer's
//	/help            list commands
//	/exit            leave and discard keys
//
// # Configuration
//
// Flags override CIPHERCHAT_* environment variables, which override
// cipherchat.yaml. See internal/app for the keys.
package commands
