// Package relay moves frames between chat participants without reading them.
//
// The Hub fans frames out to every attached member except the sender. It
// turns join and leave requests into presence updates ("alice joined the
// conversation") and forwards chat frames with their envelope untouched.
//
// Three things sit on top of the Hub:
//   - Server exposes it over a websocket gateway (GET /ws) next to a small
//     blob endpoint (POST /blobs, GET /blobs/{id}) for offloaded ciphertext.
//   - Client is the websocket side of domain.MessageRelay used by the CLI,
//     and HTTPBlobStore is the matching domain.BlobStore.
//   - Loopback attaches to a Hub in process, for tests and embedding.
//
// The relay is trusted for delivery only. It never holds keys, and blobs it
// stores are ciphertext produced by the client.
package relay
