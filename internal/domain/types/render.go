package types

// Origin tells a renderer who a message came from.
type Origin int

const (
	OriginMine Origin = iota
	OriginOther
	OriginUpdate
)

// RenderedMessage is a decrypted message ready for display.
type RenderedMessage struct {
	Origin   Origin
	Username Username
	Type     EnvelopeType
	Text     string
	Image    []byte
	MIMEType string

	// Verified is false when the sender's signature did not check out
	// against the pasted peer key. Always true for OriginMine.
	Verified bool
}
