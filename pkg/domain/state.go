package domain

// State is the lifecycle position of the session bound to one request.
type State int

const (
	// StateUnstarted means no session is active. It is also the state a request
	// falls back to when a session could not be loaded or has ended.
	StateUnstarted State = iota
	StateNew
	StateActive
	StateClosed
	// StateDestroyed is terminal for the lifecycle that reached it.
	StateDestroyed
)

func (s State) String() string {
	switch s {
	case StateUnstarted:
		return "unstarted"
	case StateNew:
		return "new"
	case StateActive:
		return "active"
	case StateClosed:
		return "closed"
	case StateDestroyed:
		return "destroyed"
	default:
		return "unknown"
	}
}

// Live reports whether a session record is associated with the state.
func (s State) Live() bool {
	return s == StateNew || s == StateActive || s == StateClosed
}
