package relay

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"cipherchat/internal/domain"
)

// Loopback is a domain.MessageRelay attached directly to a Hub.
type Loopback struct {
	hub    *Hub
	id     domain.ParticipantID
	frames <-chan domain.Frame
	once   sync.Once
}

// Connect attaches a new in-process member to h.
func (h *Hub) Connect() *Loopback {
	id, frames := h.Attach()
	return &Loopback{hub: h, id: id, frames: frames}
}

func (l *Loopback) Join(ctx context.Context, username domain.Username) error {
	return l.publish(ctx, domain.Frame{Event: domain.EventJoin, Username: username})
}

func (l *Loopback) Leave(ctx context.Context, username domain.Username) error {
	return l.publish(ctx, domain.Frame{Event: domain.EventLeave, Username: username})
}

func (l *Loopback) Chat(ctx context.Context, env domain.Envelope) error {
	raw, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("encode envelope: %w", err)
	}
	return l.publish(ctx, domain.Frame{Event: domain.EventChat, Envelope: raw})
}

func (l *Loopback) Frames() <-chan domain.Frame { return l.frames }

// Close detaches from the hub, which closes Frames.
func (l *Loopback) Close() error {
	l.once.Do(func() { l.hub.Detach(l.id) })
	return nil
}

func (l *Loopback) publish(ctx context.Context, f domain.Frame) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return l.hub.Publish(l.id, f)
}

var _ domain.MessageRelay = (*Loopback)(nil)
