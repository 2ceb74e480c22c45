package relay

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"cipherchat/internal/domain"
	"cipherchat/internal/logging"
)

// DefaultMemberBuffer is the number of frames queued per member before the
// hub starts dropping frames for it.
const DefaultMemberBuffer = 64

var (
	ErrUnknownMember = errors.New("unknown relay member")
	ErrUnknownEvent  = errors.New("unknown relay event")
)

// Hub is an in-memory broadcast room.
type Hub struct {
	mu      sync.RWMutex
	members map[domain.ParticipantID]chan domain.Frame
	buffer  int
	log     *zap.Logger
}

// NewHub returns an empty hub. buffer <= 0 selects DefaultMemberBuffer.
func NewHub(log *zap.Logger, buffer int) *Hub {
	if buffer <= 0 {
		buffer = DefaultMemberBuffer
	}
	return &Hub{
		members: make(map[domain.ParticipantID]chan domain.Frame),
		buffer:  buffer,
		log:     logging.OrNop(log),
	}
}

// Attach registers a new member and returns its id and inbound frames.
func (h *Hub) Attach() (domain.ParticipantID, <-chan domain.Frame) {
	id := domain.ParticipantID(uuid.NewString())
	ch := make(chan domain.Frame, h.buffer)

	h.mu.Lock()
	h.members[id] = ch
	n := len(h.members)
	h.mu.Unlock()

	h.log.Debug("member attached", zap.Stringer("member", id), zap.Int("members", n))
	return id, ch
}

// Detach removes a member and closes its channel. Detaching twice is a no-op.
func (h *Hub) Detach(id domain.ParticipantID) {
	h.mu.Lock()
	ch, ok := h.members[id]
	if ok {
		delete(h.members, id)
		close(ch)
	}
	n := len(h.members)
	h.mu.Unlock()

	if ok {
		h.log.Debug("member detached", zap.Stringer("member", id), zap.Int("members", n))
	}
}

// Len returns the number of attached members.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.members)
}

// Publish handles a frame sent by member from. Join and leave become
// presence updates; chat frames are forwarded as is. Nothing is echoed back
// to the sender.
func (h *Hub) Publish(from domain.ParticipantID, in domain.Frame) error {
	out, err := translate(in)
	if err != nil {
		return err
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	if _, ok := h.members[from]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownMember, from)
	}
	for id, ch := range h.members {
		if id == from {
			continue
		}
		select {
		case ch <- out:
		default:
			h.log.Warn("member queue full, dropping frame",
				zap.Stringer("member", id), zap.String("event", string(out.Event)))
		}
	}
	return nil
}

// translate maps a client frame to the frame other members receive.
func translate(in domain.Frame) (domain.Frame, error) {
	switch in.Event {
	case domain.EventJoin, domain.EventLeave:
		name := strings.TrimSpace(in.Username.String())
		if name == "" {
			return domain.Frame{}, domain.ErrInvalidUsername
		}
		return domain.Frame{
			Event:    domain.EventUpdate,
			Username: domain.Username(name),
			Update:   PresenceText(domain.Username(name), in.Event),
		}, nil
	case domain.EventChat:
		if len(in.Envelope) == 0 {
			return domain.Frame{}, fmt.Errorf("%w: chat frame without envelope", ErrUnknownEvent)
		}
		return domain.Frame{Event: domain.EventChat, Envelope: in.Envelope}, nil
	default:
		return domain.Frame{}, fmt.Errorf("%w: %q", ErrUnknownEvent, in.Event)
	}
}

// PresenceText returns the update line shown when name joins or leaves.
func PresenceText(name domain.Username, ev domain.EventKind) string {
	if ev == domain.EventLeave {
		return name.String() + " left the conversation"
	}
	return name.String() + " joined the conversation"
}
