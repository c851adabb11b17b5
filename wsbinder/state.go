package wsbinder

// State is the connection state.
type State int

const (
	Idle State = iota
	Connecting
	Open
	Closed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Connecting:
		return "connecting"
	case Open:
		return "open"
	case Closed:
		return "closed"
	default:
		return "unknown"
	}
}

// canTransition reports whether from -> to is a legal move.
func canTransition(from, to State) bool {
	switch to {
	case Connecting:
		return from == Idle || from == Closed
	case Open:
		return from == Connecting
	case Closed:
		return from == Connecting || from == Open
	}
	return false
}
