// Package main runs the cipherchat relay: a websocket fan-out room plus a
// small blob store for offloaded image ciphertext.
//
// HTTP API
//
//	GET /ws
//	    Websocket gateway. Clients send JSON frames:
//	      {"event":"join","username":"alice"}
//	      {"event":"leave","username":"alice"}
//	      {"event":"chat","envelope":{...}}
//	    Join and leave are broadcast to every other connection as
//	      {"event":"update","username":"alice","update":"alice joined the conversation"}
//	    Chat frames are forwarded to every other connection with the envelope
//	    exactly as received. Nothing is echoed back to the sender. A connection
//	    that drops after joining is announced as having left.
//
//	POST /blobs
//	    Store the request body (up to max_blob_bytes) and return
//	    {"url":"/blobs/<uuid>"}.
//
//	GET /blobs/{id}
//	    Return a stored blob as application/octet-stream.
//
//	GET /healthz
//	    204 when the server is up.
//
// Behaviour
//
//   - Frames are held in memory only; nothing is persisted except blobs.
//   - Each connection has a bounded queue; frames for a member that cannot
//     keep up are dropped and logged.
//   - An access log records method, path, remote, status, bytes and duration
//     for each request.
//   - The default listen address is :8080.
//
// The relay never sees plaintext or private keys. Envelopes are opaque to it
// and clients only upload ciphertext.
//
// Configuration comes from flags, CIPHERCHAT_RELAY_* environment variables
// and an optional relay.yaml.
package main
