package resource

// Handle is an opaque reference to a value held by a Table.
// Handle 0 is reserved and always invalid.
type Handle uint32

// EventType identifies a lifecycle notification.
type EventType uint8

const (
	EventCreated EventType = iota
	EventDropped
	EventTaken
	EventBorrowed
	EventBorrowReturned
)

func (t EventType) String() string {
	switch t {
	case EventCreated:
		return "created"
	case EventDropped:
		return "dropped"
	case EventTaken:
		return "taken"
	case EventBorrowed:
		return "borrowed"
	case EventBorrowReturned:
		return "borrow_returned"
	default:
		return "unknown"
	}
}

// Event describes a change to a table slot. UseCount is the value's strong
// count observed right after the change.
type Event struct {
	Handle   Handle
	UseCount uint
	Type     EventType
}

// Observer receives notifications about table changes.
type Observer interface {
	OnResourceEvent(Event)
}
