package core

// EventKind is a notification the core emits to clients.
type EventKind int

const (
	// EventEntry delivers a newly translated line.
	EventEntry EventKind = iota
	// EventHistory delivers the lines still on screen upon registering.
	EventHistory
	// EventError notifies clients about a domain error.
	EventError
)

func (k EventKind) String() string {
	switch k {
	case EventEntry:
		return "entry"
	case EventHistory:
		return "history"
	case EventError:
		return "error"
	default:
		return "unknown"
	}
}

// Event is sent to clients to describe what happened in the system.
type Event struct {
	Kind    EventKind
	Entry   Entry
	Entries []Entry // For EventHistory
	Error   *CoreError
}
