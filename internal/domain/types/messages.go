package types

import "encoding/json"

// EnvelopeType discriminates the decode path of an Envelope.
type EnvelopeType string

const (
	EnvelopeText  EnvelopeType = "text"
	EnvelopeImage EnvelopeType = "image"
)

// Envelope is the encrypted chat payload carried inside a chat Frame.
//
// Text envelopes set EncryptedMessage and Signature. Image envelopes set
// EncryptedAESKey, IV, Signature, MIMEType and exactly one of EncryptedImage
// (inline ciphertext) or ImageURL (ciphertext offloaded to blob storage).
// All binary fields are standard base64.
type Envelope struct {
	Username Username     `json:"username"`
	Type     EnvelopeType `json:"type"`

	EncryptedMessage string `json:"encryptedMessage,omitempty"`

	EncryptedAESKey string `json:"encryptedAesKey,omitempty"`
	EncryptedImage  string `json:"encryptedImage,omitempty"`
	IV              string `json:"iv,omitempty"`
	MIMEType        string `json:"mimeType,omitempty"`
	ImageURL        string `json:"imageUrl,omitempty"`

	Signature string `json:"signature,omitempty"`
}

// EventKind names a relay frame.
type EventKind string

const (
	// EventJoin and EventLeave are sent by clients; the relay turns them into
	// EventUpdate frames for everyone else.
	EventJoin   EventKind = "join"
	EventLeave  EventKind = "leave"
	EventChat   EventKind = "chat"
	EventUpdate EventKind = "update"
)

// Frame is the unit exchanged with the relay. The relay never looks inside
// Envelope; it forwards the raw JSON as received.
type Frame struct {
	Event    EventKind       `json:"event"`
	Username Username        `json:"username,omitempty"`
	Update   string          `json:"update,omitempty"`
	Envelope json.RawMessage `json:"envelope,omitempty"`
}
