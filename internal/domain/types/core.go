package types

// Username is the display name a participant joins the relay with.
type Username string

// String returns the string form of the username.
func (u Username) String() string { return string(u) }

// Fingerprint is a short identifier for public keys presented to users.
type Fingerprint string

// String returns the string form of the fingerprint.
func (f Fingerprint) String() string { return string(f) }

// ParticipantID identifies one relay connection. It is assigned by the relay
// and never leaves it.
type ParticipantID string

// String returns the string form of the identifier.
func (id ParticipantID) String() string { return string(id) }
