package app

import (
	"context"

	"go.uber.org/zap"

	"cipherchat/internal/domain"
	"cipherchat/internal/logging"
	"cipherchat/internal/relay"
	"cipherchat/internal/services/chat"
	"cipherchat/internal/services/keys"
	"cipherchat/internal/services/trust"
)

// Wire bundles the services behind one chat session.
type Wire struct {
	Keys    *keys.Manager
	Trust   *trust.PasteStore
	Relay   domain.MessageRelay
	Blobs   domain.BlobStore
	Session *chat.Session
}

// NewWire dials the relay in cfg and builds a session rendering to out.
func NewWire(ctx context.Context, cfg Config, out domain.Renderer, log *zap.Logger) (*Wire, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log = logging.OrNop(log)

	gateway, err := relay.GatewayURL(cfg.RelayURL)
	if err != nil {
		return nil, err
	}
	rc, err := relay.Dial(ctx, gateway, log.Named("relay"))
	if err != nil {
		return nil, err
	}

	km := keys.New(keys.WithBits(cfg.KeyBits))
	ts := trust.NewPasteStore()
	blobs := relay.NewHTTPBlobStore(cfg.RelayURL, cfg.HTTP)
	sess := chat.New(km, ts, rc, out,
		chat.WithLogger(log.Named("chat")),
		chat.WithBlobStore(blobs, cfg.BlobThreshold),
		chat.WithMaxFrameBytes(cfg.MaxFrameBytes),
	)

	return &Wire{
		Keys:    km,
		Trust:   ts,
		Relay:   rc,
		Blobs:   blobs,
		Session: sess,
	}, nil
}

// Close releases the relay connection.
func (w *Wire) Close() error { return w.Relay.Close() }
