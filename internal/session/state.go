package session

import "fmt"

type State int

const (
	Disconnected State = iota
	Connecting
	Joined
)

func (s State) String() string {
	switch s {
	case Disconnected:
		return "disconnected"
	case Connecting:
		return "connecting"
	case Joined:
		return "joined"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

type event int

const (
	evConnect event = iota
	evOpen
	evClose
	evTeardown
)

func (e event) String() string {
	return [...]string{"connect", "open", "close", "teardown"}[e]
}

// transitions lists every legal edge. Anything missing is rejected.
var transitions = map[State]map[event]State{
	Disconnected: {
		evConnect:  Connecting,
		evTeardown: Disconnected,
	},
	Connecting: {
		evOpen:     Joined,
		evClose:    Disconnected,
		evTeardown: Disconnected,
	},
	Joined: {
		evClose:    Disconnected,
		evTeardown: Disconnected,
	},
}

func next(from State, ev event) (State, bool) {
	to, ok := transitions[from][ev]
	return to, ok
}
