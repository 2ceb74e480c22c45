package types

// SessionState is the lifecycle position of a chat session.
type SessionState int

const (
	StateUnjoined SessionState = iota
	StateJoinedUnkeyed
	StateJoinedKeyed
	StateExited
)

func (s SessionState) String() string {
	switch s {
	case StateUnjoined:
		return "unjoined"
	case StateJoinedUnkeyed:
		return "joined(unkeyed)"
	case StateJoinedKeyed:
		return "joined(keyed)"
	case StateExited:
		return "exited"
	default:
		return "unknown"
	}
}

// Joined reports whether the session has joined and not yet exited.
func (s SessionState) Joined() bool {
	return s == StateJoinedUnkeyed || s == StateJoinedKeyed
}
