package chat

import (
	"context"
	"errors"
	"fmt"

	"cipherchat/internal/domain"
)

// ErrRelayClosed is returned by Run when the relay stops delivering frames.
var ErrRelayClosed = errors.New("relay connection closed")

// Event is a user action fed to Run.
type Event interface {
	handle(ctx context.Context, s *Session) error
}

// JoinEvent joins the conversation as Username.
type JoinEvent struct{ Username string }

// PeerKeyEvent accepts a pasted peer public key.
type PeerKeyEvent struct{ PEM string }

// TextEvent sends a text message.
type TextEvent struct{ Text string }

// ImageEvent sends an image.
type ImageEvent struct{ Data []byte }

// ExitEvent leaves the conversation and ends Run.
type ExitEvent struct{}

func (e JoinEvent) handle(ctx context.Context, s *Session) error {
	pem, err := s.Join(ctx, e.Username)
	if err != nil {
		return err
	}
	fp, _ := s.keys.Fingerprint()
	s.out.Notice(fmt.Sprintf("Joined as %s. Share your public key (%s):\n%s", s.username, fp, pem))
	return nil
}

func (e PeerKeyEvent) handle(_ context.Context, s *Session) error {
	fp, err := s.SetPeerKey(e.PEM)
	if err != nil {
		return err
	}
	s.out.Notice("Peer key accepted. Fingerprint: " + fp.String())
	return nil
}

func (e TextEvent) handle(ctx context.Context, s *Session) error { return s.SendText(ctx, e.Text) }

func (e ImageEvent) handle(ctx context.Context, s *Session) error { return s.SendImage(ctx, e.Data) }

func (ExitEvent) handle(ctx context.Context, s *Session) error { return s.Exit(ctx) }

// Run processes events and inbound frames one at a time until the user
// exits, the events channel closes, the relay closes, ctx is done, or key
// generation fails. Errors from individual events and frames are reported
// through the renderer's Notice and do not stop the loop.
func (s *Session) Run(ctx context.Context, events <-chan Event) error {
	frames := s.relay.Frames()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-events:
			if !ok {
				ev = ExitEvent{}
			}
			err := ev.handle(ctx, s)
			if err != nil {
				s.out.Notice(err.Error())
				if s.fatal != nil {
					return s.fatal
				}
			}
			if s.state == domain.StateExited {
				return nil
			}

		case f, ok := <-frames:
			if !ok {
				return ErrRelayClosed
			}
			if err := s.HandleFrame(ctx, f); err != nil {
				s.out.Notice("Dropped message: " + err.Error())
			}
		}
	}
}
