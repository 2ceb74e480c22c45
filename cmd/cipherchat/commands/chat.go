package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"cipherchat/internal/app"
	"cipherchat/internal/logging"
	"cipherchat/internal/services/chat"
)

func chatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Join the relay and chat interactively",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.LoadConfig(v)
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

			term := newTerminal(cmd.OutOrStdout(), cfg.ImageDir)
			w, err := app.NewWire(ctx, cfg, term, log)
			if err != nil {
				return err
			}
			defer func() { _ = w.Close() }()

			r := &repl{
				sc:       bufio.NewScanner(cmd.InOrStdin()),
				out:      term,
				readFile: os.ReadFile,
				status:   func() string { return fingerprintStatus(w) },
			}
			events := make(chan chat.Event)
			go r.feed(ctx, cfg.Username, events)

			fmt.Fprintf(term, "Connected to %s. Type /help for commands.\n", cfg.RelayURL)
			err = w.Session.Run(ctx, events)

			// Leave and drop keys however the loop ended.
			exitCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = w.Session.Exit(exitCtx)

			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}

	f := cmd.Flags()
	f.String("username", "", "join immediately under this name")
	f.Int("key-bits", 0, "RSA key size in bits (default 2048, minimum 1024)")
	f.Int("blob-threshold", 0, "upload image ciphertext larger than this many bytes to the relay's blob store (0 keeps images inline)")
	f.Int("max-frame-bytes", 0, "largest websocket frame the relay accepts; bigger inline images are offloaded or refused")
	f.String("image-dir", "", "directory for received images (default a temp dir)")
	_ = v.BindPFlag("username", f.Lookup("username"))
	_ = v.BindPFlag("key_bits", f.Lookup("key-bits"))
	_ = v.BindPFlag("blob_threshold", f.Lookup("blob-threshold"))
	_ = v.BindPFlag("max_frame_bytes", f.Lookup("max-frame-bytes"))
	_ = v.BindPFlag("image_dir", f.Lookup("image-dir"))
	return cmd
}

func fingerprintStatus(w *app.Wire) string {
	own, ok := w.Keys.Fingerprint()
	if !ok {
		own = "(not joined)"
	}
	peer, ok := w.Trust.Fingerprint()
	if !ok {
		peer = "(no peer key)"
	}
	return fmt.Sprintf("Your key:  %s\nPeer key:  %s", own, peer)
}
