package domain

import (
	interfaces "cipherchat/internal/domain/interfaces"
	types "cipherchat/internal/domain/types"
)

// Type aliases expose domain types from the types subpackage for compact imports.
type (
	Username        = types.Username
	Fingerprint     = types.Fingerprint
	ParticipantID   = types.ParticipantID
	KeyPair         = types.KeyPair
	PublicPEM       = types.PublicPEM
	EnvelopeType    = types.EnvelopeType
	Envelope        = types.Envelope
	EventKind       = types.EventKind
	Frame           = types.Frame
	SessionState    = types.SessionState
	Origin          = types.Origin
	RenderedMessage = types.RenderedMessage
)

// Interface aliases expose domain interfaces from the interfaces subpackage.
type (
	KeyManager     = interfaces.KeyManager
	PeerTrustStore = interfaces.PeerTrustStore
	Renderer       = interfaces.Renderer
	MessageRelay   = interfaces.MessageRelay
	BlobStore      = interfaces.BlobStore
)

// Constant re-exports.
const (
	EnvelopeText  = types.EnvelopeText
	EnvelopeImage = types.EnvelopeImage

	EventJoin   = types.EventJoin
	EventLeave  = types.EventLeave
	EventChat   = types.EventChat
	EventUpdate = types.EventUpdate

	StateUnjoined      = types.StateUnjoined
	StateJoinedUnkeyed = types.StateJoinedUnkeyed
	StateJoinedKeyed   = types.StateJoinedKeyed
	StateExited        = types.StateExited

	OriginMine   = types.OriginMine
	OriginOther  = types.OriginOther
	OriginUpdate = types.OriginUpdate
)
