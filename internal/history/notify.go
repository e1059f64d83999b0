package history

import "github.com/kilupskalvis/annotate/internal/models"

// EventType identifies a history notification.
type EventType int

const (
	// EventItemAdded carries Item; it was appended at the tail.
	EventItemAdded EventType = iota
	// EventItemRemoved carries Index of the removed item.
	EventItemRemoved
	// EventItemInserted carries Item and Index; emitted when undo restores a removed item.
	EventItemInserted
	// EventItemModified carries the new Item and its Index.
	EventItemModified
	// EventDataChanged follows every change to items or selection.
	EventDataChanged
	// EventAllCleared is emitted by Clear.
	EventAllCleared
	// EventUndoAvailable carries Enabled.
	EventUndoAvailable
	// EventRedoAvailable carries Enabled.
	EventRedoAvailable
	// EventLabelIDReturned carries Label whose instance id went back to the pool.
	EventLabelIDReturned
)

// String returns the event type name.
func (t EventType) String() string {
	switch t {
	case EventItemAdded:
		return "item-added"
	case EventItemRemoved:
		return "item-removed"
	case EventItemInserted:
		return "item-inserted"
	case EventItemModified:
		return "item-modified"
	case EventDataChanged:
		return "data-changed"
	case EventAllCleared:
		return "all-cleared"
	case EventUndoAvailable:
		return "undo-available"
	case EventRedoAvailable:
		return "redo-available"
	case EventLabelIDReturned:
		return "label-id-returned"
	default:
		return "unknown"
	}
}

// Event is a single change notification. Only the fields relevant to Type are set.
type Event struct {
	Type    EventType
	Item    models.Item
	Index   int
	Label   string
	Enabled bool
}

// Observer receives history notifications synchronously, during the call that
// caused them. Observers must not call back into the history.
type Observer func(ev Event)

// Subscription represents an active observer subscription.
type Subscription struct {
	id       uint64
	notifier *notifier
}

// Unsubscribe removes this subscription. It is safe to call more than once.
func (s *Subscription) Unsubscribe() {
	if s != nil && s.notifier != nil {
		s.notifier.unsubscribe(s.id)
		s.notifier = nil
	}
}

type observerEntry struct {
	id       uint64
	observer Observer
}

// notifier delivers events to observers in subscription order.
type notifier struct {
	observers []observerEntry
	nextID    uint64
}

func (n *notifier) subscribe(o Observer) *Subscription {
	n.nextID++
	n.observers = append(n.observers, observerEntry{id: n.nextID, observer: o})
	return &Subscription{id: n.nextID, notifier: n}
}

func (n *notifier) unsubscribe(id uint64) {
	for i, e := range n.observers {
		if e.id == id {
			n.observers = append(n.observers[:i:i], n.observers[i+1:]...)
			return
		}
	}
}

func (n *notifier) emit(ev Event) {
	for _, e := range n.observers {
		e.observer(ev)
	}
}
