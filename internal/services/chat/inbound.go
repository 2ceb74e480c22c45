package chat

import (
	"context"
	"crypto/rsa"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"cipherchat/internal/crypto"
	"cipherchat/internal/domain"
	"cipherchat/internal/protocol/hybrid"
	"cipherchat/internal/protocol/signature"
	"cipherchat/internal/util/memzero"
)

// ErrNoBlobStore is returned for an offloaded image when the session has no
// blob store to fetch it from.
var ErrNoBlobStore = errors.New("image was offloaded but no blob store is configured")

// HandleFrame processes one inbound relay frame. A returned error means the
// frame was dropped; the session itself is unaffected.
func (s *Session) HandleFrame(ctx context.Context, f domain.Frame) error {
	switch f.Event {
	case domain.EventUpdate:
		s.out.Render(domain.RenderedMessage{
			Origin:   domain.OriginUpdate,
			Username: f.Username,
			Text:     f.Update,
		})
		return nil
	case domain.EventChat:
		return s.handleChat(ctx, f.Envelope)
	default:
		s.log.Debug("ignoring frame", zap.String("event", string(f.Event)))
		return nil
	}
}

func (s *Session) handleChat(ctx context.Context, raw json.RawMessage) error {
	if !s.state.Joined() {
		s.log.Debug("chat frame before join, dropped")
		return nil
	}
	priv, ok := s.keys.PrivateKey()
	if !ok {
		return fmt.Errorf("%w: no local key", domain.ErrDecryptionFailed)
	}

	var env domain.Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return s.drop(env, fmt.Errorf("%w: malformed envelope: %v", domain.ErrDecryptionFailed, err))
	}

	var (
		msg  domain.RenderedMessage
		data []byte
		err  error
	)
	switch env.Type {
	case domain.EnvelopeText:
		msg, data, err = s.openText(priv, env)
	case domain.EnvelopeImage:
		msg, data, err = s.openImage(ctx, priv, env)
	default:
		err = fmt.Errorf("%w: %q", domain.ErrUnknownEnvelope, env.Type)
	}
	if err != nil {
		return s.drop(env, err)
	}

	peer, _ := s.trust.PeerKey()
	msg.Origin = domain.OriginOther
	msg.Username = env.Username
	msg.Type = env.Type
	msg.Verified = signature.Verify(peer, data, env.Signature)
	if !msg.Verified {
		s.log.Warn("unverified message",
			zap.Stringer("from", env.Username),
			zap.String("type", string(env.Type)),
			zap.Error(domain.ErrVerificationFailed))
	}
	s.out.Render(msg)
	return nil
}

func (s *Session) openText(priv *rsa.PrivateKey, env domain.Envelope) (domain.RenderedMessage, []byte, error) {
	ct, err := decodeField("encryptedMessage", env.EncryptedMessage)
	if err != nil {
		return domain.RenderedMessage{}, nil, err
	}
	text, err := hybrid.DecryptText(priv, ct)
	if err != nil {
		return domain.RenderedMessage{}, nil, err
	}
	return domain.RenderedMessage{Text: text}, []byte(text), nil
}

func (s *Session) openImage(ctx context.Context, priv *rsa.PrivateKey, env domain.Envelope) (domain.RenderedMessage, []byte, error) {
	wrapped, err := decodeField("encryptedAesKey", env.EncryptedAESKey)
	if err != nil {
		return domain.RenderedMessage{}, nil, err
	}
	iv, err := decodeField("iv", env.IV)
	if err != nil {
		return domain.RenderedMessage{}, nil, err
	}
	// The key must unwrap under our private key before any remote fetch.
	key, err := hybrid.UnwrapKey(priv, wrapped)
	if err != nil {
		return domain.RenderedMessage{}, nil, err
	}
	defer memzero.Zero(key)

	var ct []byte
	switch {
	case env.ImageURL != "":
		if s.blobs == nil {
			return domain.RenderedMessage{}, nil, ErrNoBlobStore
		}
		if ct, err = s.blobs.Get(ctx, env.ImageURL); err != nil {
			return domain.RenderedMessage{}, nil, fmt.Errorf("fetch image: %w", err)
		}
	default:
		if ct, err = decodeField("encryptedImage", env.EncryptedImage); err != nil {
			return domain.RenderedMessage{}, nil, err
		}
	}

	img, err := hybrid.OpenBody(key, iv, ct)
	if err != nil {
		return domain.RenderedMessage{}, nil, err
	}
	mime := env.MIMEType
	if mime == "" {
		mime = http.DetectContentType(img)
	}
	return domain.RenderedMessage{Image: img, MIMEType: mime}, img, nil
}

func (s *Session) drop(env domain.Envelope, err error) error {
	s.log.Warn("dropped inbound message",
		zap.Stringer("from", env.Username),
		zap.String("type", string(env.Type)),
		zap.Error(err))
	return err
}

// decodeField base64-decodes a required envelope field.
func decodeField(name, value string) ([]byte, error) {
	if value == "" {
		return nil, fmt.Errorf("%w: missing %s", domain.ErrDecryptionFailed, name)
	}
	b, err := crypto.FromB64(value)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrDecryptionFailed, name, err)
	}
	return b, nil
}
