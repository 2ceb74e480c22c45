package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"cipherchat/internal/app"
	"cipherchat/internal/logging"
)

const shutdownGrace = 5 * time.Second

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	v := app.NewViper(app.RelayConfigName, app.RelayEnvPrefix)
	app.SetRelayDefaults(v)
	var configFile string

	cmd := &cobra.Command{
		Use:          "relay",
		Short:        "Run the cipherchat relay",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if configFile != "" {
				v.SetConfigFile(configFile)
			}
			cfg, err := app.LoadRelayConfig(v)
			if err != nil {
				return err
			}
			log, err := logging.New(cfg.LogLevel, cfg.LogFormat)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, log)
		},
	}

	f := cmd.Flags()
	f.StringVar(&configFile, "config", "", "config file (default ./relay.yaml)")
	f.String("listen", "", "listen address (default :8080)")
	f.String("blob-dir", "", "directory for uploaded blobs (default ./uploads)")
	f.Int64("max-blob-bytes", 0, "largest accepted upload in bytes")
	f.Int64("max-frame-bytes", 0, "largest accepted websocket frame in bytes")
	f.String("log-level", "", "log level: debug, info, warn, error")
	f.String("log-format", "", "log format: console or json")
	for key, flag := range map[string]string{
		"listen":          "listen",
		"blob_dir":        "blob-dir",
		"max_blob_bytes":  "max-blob-bytes",
		"max_frame_bytes": "max-frame-bytes",
		"log_level":       "log-level",
		"log_format":      "log-format",
	} {
		_ = v.BindPFlag(key, f.Lookup(flag))
	}
	return cmd
}

func serve(ctx context.Context, cfg app.RelayConfig, log *zap.Logger) error {
	r, err := app.NewRelay(cfg, log)
	if err != nil {
		return err
	}

	var ln net.Listener
	if err := logging.Task(log, "Bind "+cfg.Listen, func() error {
		ln, err = net.Listen("tcp", cfg.Listen)
		return err
	}); err != nil {
		return err
	}
	log.Info("relay listening", zap.String("addr", ln.Addr().String()), zap.String("blob_dir", cfg.BlobDir))

	errc := make(chan error, 1)
	go func() { errc <- r.Server.Serve(ln) }()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := r.Server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
