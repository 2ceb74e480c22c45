package chat

import (
	"context"
	"crypto/rsa"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"cipherchat/internal/crypto"
	"cipherchat/internal/domain"
	"cipherchat/internal/logging"
	"cipherchat/internal/protocol/hybrid"
	"cipherchat/internal/protocol/signature"
)

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the diagnostic logger.
func WithLogger(log *zap.Logger) Option {
	return func(s *Session) { s.log = logging.OrNop(log) }
}

// WithBlobStore offloads image ciphertext larger than threshold bytes to
// blobs. A threshold of 0 keeps every image inline; blobs is still used to
// fetch images that peers offloaded.
func WithBlobStore(blobs domain.BlobStore, threshold int) Option {
	return func(s *Session) {
		s.blobs = blobs
		s.blobThreshold = threshold
	}
}

// WithMaxFrameBytes sets the largest frame the relay accepts. Inline images
// that would exceed it are offloaded to the blob store, or refused with
// ErrPayloadTooLarge when there is none. Zero disables the check.
func WithMaxFrameBytes(n int) Option {
	return func(s *Session) { s.maxFrame = n }
}

// Session is one participant's conversation state.
type Session struct {
	keys  domain.KeyManager
	trust domain.PeerTrustStore
	relay domain.MessageRelay
	out   domain.Renderer
	log   *zap.Logger

	blobs         domain.BlobStore
	blobThreshold int
	maxFrame      int

	state    domain.SessionState
	username domain.Username
	fatal    error
}

// New returns an unjoined session.
func New(
	keys domain.KeyManager,
	trust domain.PeerTrustStore,
	relay domain.MessageRelay,
	out domain.Renderer,
	opts ...Option,
) *Session {
	s := &Session{
		keys:  keys,
		trust: trust,
		relay: relay,
		out:   out,
		log:   zap.NewNop(),
		state: domain.StateUnjoined,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Session) State() domain.SessionState { return s.state }

func (s *Session) Username() domain.Username { return s.username }

// Join generates the session key pair and announces name on the relay. It
// returns the public key to share with the peer.
func (s *Session) Join(ctx context.Context, name string) (domain.PublicPEM, error) {
	if s.fatal != nil {
		return "", s.fatal
	}
	switch {
	case s.state == domain.StateExited:
		return "", fmt.Errorf("%w: session has exited", domain.ErrAlreadyJoined)
	case s.state.Joined():
		return "", domain.ErrAlreadyJoined
	}
	username := domain.Username(strings.TrimSpace(name))
	if username == "" {
		return "", domain.ErrInvalidUsername
	}

	pem, err := s.keys.Generate()
	if err != nil {
		s.fatal = err
		s.log.Error("key generation failed", zap.Error(err))
		return "", err
	}
	if err := s.relay.Join(ctx, username); err != nil {
		s.keys.Destroy()
		return "", fmt.Errorf("join relay: %w", err)
	}

	s.username = username
	s.state = domain.StateJoinedUnkeyed
	s.log.Info("joined", zap.Stringer("username", username))
	return pem, nil
}

// SetPeerKey accepts the peer's pasted public key. A key may be replaced at
// any time while joined; an invalid key leaves the current one in place.
func (s *Session) SetPeerKey(pem string) (domain.Fingerprint, error) {
	if s.fatal != nil {
		return "", s.fatal
	}
	if !s.state.Joined() {
		if s.state == domain.StateExited {
			return "", fmt.Errorf("%w: session has exited", domain.ErrNotJoined)
		}
		return "", domain.ErrNotJoined
	}
	if err := s.trust.SetPeerKey(pem); err != nil {
		s.log.Warn("peer key rejected", zap.Error(err))
		return "", err
	}
	fp, _ := s.trust.Fingerprint()
	s.state = domain.StateJoinedKeyed
	s.log.Info("peer key set", zap.Stringer("fingerprint", fp))
	return fp, nil
}

// SendText encrypts, signs and sends text. Blank text is ignored.
func (s *Session) SendText(ctx context.Context, text string) error {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	peer, priv, err := s.sendKeys()
	if err != nil {
		return err
	}

	ct, err := hybrid.EncryptText(peer, text)
	if err != nil {
		return err
	}
	sig, err := signature.Sign(priv, []byte(text))
	if err != nil {
		return err
	}
	env := domain.Envelope{
		Username:         s.username,
		Type:             domain.EnvelopeText,
		EncryptedMessage: crypto.B64(ct),
		Signature:        sig,
	}
	if err := s.relay.Chat(ctx, env); err != nil {
		return fmt.Errorf("send text: %w", err)
	}

	s.out.Render(domain.RenderedMessage{
		Origin:   domain.OriginMine,
		Username: s.username,
		Type:     domain.EnvelopeText,
		Text:     text,
		Verified: true,
	})
	return nil
}

// SendImage encrypts, signs and sends an image. Empty data is ignored.
func (s *Session) SendImage(ctx context.Context, data []byte) error {
	if len(data) == 0 {
		return nil
	}
	peer, priv, err := s.sendKeys()
	if err != nil {
		return err
	}

	sealed, err := hybrid.EncryptBlob(peer, data)
	if err != nil {
		return err
	}
	sig, err := signature.Sign(priv, data)
	if err != nil {
		return err
	}
	mime := http.DetectContentType(data)
	env := domain.Envelope{
		Username:        s.username,
		Type:            domain.EnvelopeImage,
		EncryptedAESKey: crypto.B64(sealed.WrappedKey),
		IV:              crypto.B64(sealed.IV),
		MIMEType:        mime,
		Signature:       sig,
	}
	env.EncryptedImage = crypto.B64(sealed.Ciphertext)
	offload := s.blobs != nil && s.blobThreshold > 0 && len(sealed.Ciphertext) > s.blobThreshold
	if !offload && s.maxFrame > 0 {
		n, err := frameSize(env)
		if err != nil {
			return err
		}
		if n > s.maxFrame {
			if s.blobs == nil {
				err := fmt.Errorf("%w: image frame is %d bytes, relay accepts %d",
					domain.ErrPayloadTooLarge, n, s.maxFrame)
				s.log.Warn("image refused", zap.Error(err))
				return err
			}
			offload = true
		}
	}
	if offload {
		url, err := s.blobs.Put(ctx, sealed.Ciphertext)
		if err != nil {
			return fmt.Errorf("upload image: %w", err)
		}
		env.EncryptedImage = ""
		env.ImageURL = url
		s.log.Debug("image offloaded", zap.String("url", url), zap.Int("bytes", len(sealed.Ciphertext)))
	}
	if err := s.relay.Chat(ctx, env); err != nil {
		return fmt.Errorf("send image: %w", err)
	}

	s.out.Render(domain.RenderedMessage{
		Origin:   domain.OriginMine,
		Username: s.username,
		Type:     domain.EnvelopeImage,
		Image:    data,
		MIMEType: mime,
		Verified: true,
	})
	return nil
}

// Exit announces the departure and discards all key material. It is safe to
// call more than once.
func (s *Session) Exit(ctx context.Context) error {
	if s.state == domain.StateExited {
		return nil
	}
	var err error
	if s.state.Joined() {
		if err = s.relay.Leave(ctx, s.username); err != nil {
			err = fmt.Errorf("leave relay: %w", err)
		}
	}
	s.keys.Destroy()
	s.trust.Reset()
	s.log.Info("exited", zap.Stringer("username", s.username))
	s.username = ""
	s.state = domain.StateExited
	return err
}

// sendKeys returns the keys needed to send, or ErrPeerKeyNotSet when the
// session is not joined and keyed.
func (s *Session) sendKeys() (*rsa.PublicKey, *rsa.PrivateKey, error) {
	if s.fatal != nil {
		return nil, nil, s.fatal
	}
	if s.state != domain.StateJoinedKeyed {
		err := domain.ErrPeerKeyNotSet
		if s.state == domain.StateExited {
			err = fmt.Errorf("%w: session has exited", domain.ErrPeerKeyNotSet)
		}
		s.log.Warn("send refused", zap.Stringer("state", s.state), zap.Error(err))
		return nil, nil, err
	}
	peer, ok := s.trust.PeerKey()
	if !ok {
		return nil, nil, domain.ErrPeerKeyNotSet
	}
	priv, ok := s.keys.PrivateKey()
	if !ok {
		return nil, nil, domain.ErrPeerKeyNotSet
	}
	return peer, priv, nil
}

// frameSize is the encoded size of env as a chat frame on the wire,
// including the trailing newline the JSON encoder writes.
func frameSize(env domain.Envelope) (int, error) {
	raw, err := json.Marshal(env)
	if err != nil {
		return 0, fmt.Errorf("encode envelope: %w", err)
	}
	b, err := json.Marshal(domain.Frame{Event: domain.EventChat, Envelope: raw})
	if err != nil {
		return 0, fmt.Errorf("encode frame: %w", err)
	}
	return len(b) + 1, nil
}
