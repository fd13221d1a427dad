package notify

import (
	"fmt"
	"sync"
)

// Level ranks a notification.
type Level int

const (
	Success Level = iota
	Info
	Warning
	Error
)

func (l Level) String() string {
	switch l {
	case Success:
		return "success"
	case Info:
		return "info"
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return fmt.Sprintf("level(%d)", int(l))
	}
}

// MarshalText encodes the level name.
func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText accepts a level name.
func (l *Level) UnmarshalText(text []byte) error {
	for _, candidate := range []Level{Success, Info, Warning, Error} {
		if candidate.String() == string(text) {
			*l = candidate
			return nil
		}
	}
	return fmt.Errorf("notify: unknown level %q", text)
}

// Notification is a short message for the user.
type Notification struct {
	Text  string `json:"text"`
	Level Level  `json:"level"`
}

// New formats a notification.
func New(level Level, format string, args ...any) Notification {
	return Notification{Text: fmt.Sprintf(format, args...), Level: level}
}

// Handler receives published notifications.
type Handler func(Notification)

// ID identifies a subscription.
type ID uint64

type subscription struct {
	id      ID
	handler Handler
}

// Bus fans notifications out to every subscriber, in subscription order.
// Handlers run synchronously on the publishing goroutine.
type Bus struct {
	mu     sync.RWMutex
	nextID ID
	subs   []subscription
}

// NewBus returns a bus without subscribers.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers h and returns the id used to unsubscribe.
func (b *Bus) Subscribe(h Handler) ID {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	b.subs = append(b.subs, subscription{id: b.nextID, handler: h})
	return b.nextID
}

// Unsubscribe removes the subscription. Unknown ids are ignored.
func (b *Bus) Unsubscribe(id ID) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, sub := range b.subs {
		if sub.id == id {
			b.subs = append(b.subs[:i], b.subs[i+1:]...)
			return
		}
	}
}

// Publish delivers n to every subscriber. A nil bus drops it.
func (b *Bus) Publish(n Notification) {
	if b == nil {
		return
	}
	b.mu.RLock()
	subs := append([]subscription(nil), b.subs...)
	b.mu.RUnlock()
	for _, sub := range subs {
		if sub.handler != nil {
			sub.handler(n)
		}
	}
}
