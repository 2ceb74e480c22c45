package interfaces

import (
	"context"

	domaintypes "cipherchat/internal/domain/types"
)

// MessageRelay is the fan-out channel between participants. Whatever one
// participant sends is delivered to every other connected participant.
type MessageRelay interface {
	Join(ctx context.Context, username domaintypes.Username) error
	Leave(ctx context.Context, username domaintypes.Username) error
	Chat(ctx context.Context, envelope domaintypes.Envelope) error

	// Frames yields inbound frames. It is closed when the relay connection ends.
	Frames() <-chan domaintypes.Frame
	Close() error
}

// BlobStore keeps opaque uploads and hands back a URL to fetch them with.
// Callers must only ever store ciphertext.
type BlobStore interface {
	Put(ctx context.Context, data []byte) (string, error)
	Get(ctx context.Context, url string) ([]byte, error)
}
