package app

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"cipherchat/internal/logging"
	"cipherchat/internal/relay"
	"cipherchat/internal/store"
)

// Relay bundles the running relay's parts.
type Relay struct {
	Hub    *relay.Hub
	Blobs  *store.BlobFileStore
	Server *http.Server
}

// NewRelay builds the relay described by cfg. The caller owns listening.
func NewRelay(cfg RelayConfig, log *zap.Logger) (*Relay, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log = logging.OrNop(log)

	var blobs *store.BlobFileStore
	if err := logging.Task(log, "Open blob directory", func() error {
		var err error
		blobs, err = store.NewBlobFileStore(cfg.BlobDir, cfg.MaxBlobBytes)
		return err
	}); err != nil {
		return nil, err
	}

	hub := relay.NewHub(log.Named("hub"), 0)
	srv := relay.NewServer(hub, log.Named("http"),
		relay.WithBlobs(blobs),
		relay.WithMaxFrameBytes(cfg.MaxFrameBytes),
	)

	return &Relay{
		Hub:   hub,
		Blobs: blobs,
		Server: &http.Server{
			Addr:              cfg.Listen,
			Handler:           srv.Handler(),
			ReadHeaderTimeout: 10 * time.Second,
		},
	}, nil
}
