// Package app wires the client and relay from resolved configuration.
//
// Configuration is layered with viper: defaults, then an optional YAML file
// (cipherchat.yaml or relay.yaml in ., ./config or ~/.cipherchat), then
// environment variables (CIPHERCHAT_* for the client, CIPHERCHAT_RELAY_* for
// the relay), then command-line flags bound by the cmd packages.
//
// NewWire dials the relay and builds the key manager, trust store, blob
// client and chat session for one conversation. NewRelay builds the hub,
// blob store and HTTP server for cmd/relay.
package app
