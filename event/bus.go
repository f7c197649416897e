package event

// Type identifies different kinds of events
type Type string

// Event interface that all events must implement
type Event interface {
	Type() Type
}

// Handler is a function that processes events
type Handler func(Event)

// Subscription identifies one registered handler so it can be removed
type Subscription struct {
	typ Type
	id  uint64
}

type subscriber struct {
	id      uint64
	handler Handler
}

// Bus manages event subscriptions and dispatches them synchronously
type Bus struct {
	subscribers map[Type][]subscriber
	nextID      uint64
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		subscribers: make(map[Type][]subscriber),
	}
}

// Subscribe registers a handler for a specific event type
func (b *Bus) Subscribe(typ Type, handler Handler) Subscription {
	b.nextID++
	b.subscribers[typ] = append(b.subscribers[typ], subscriber{id: b.nextID, handler: handler})
	return Subscription{typ: typ, id: b.nextID}
}

// Unsubscribe removes a handler registered by Subscribe
func (b *Bus) Unsubscribe(sub Subscription) {
	subs, exists := b.subscribers[sub.typ]
	if !exists {
		return
	}

	kept := make([]subscriber, 0, len(subs))
	for _, s := range subs {
		if s.id != sub.id {
			kept = append(kept, s)
		}
	}

	if len(kept) == 0 {
		delete(b.subscribers, sub.typ)
	} else {
		b.subscribers[sub.typ] = kept
	}
}

// Emit dispatches an event to all subscribed handlers in subscription order.
// A nil bus drops the event.
func (b *Bus) Emit(ev Event) {
	if b == nil {
		return
	}
	subs := b.subscribers[ev.Type()]
	for _, s := range subs {
		s.handler(ev)
	}
}
