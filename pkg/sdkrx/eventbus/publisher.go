package eventbus

import (
	"sync"

	"github.com/google/uuid"
)

// ListenerID identifies a listener attached to a Publisher.
type ListenerID = uuid.UUID

type listener[T any] struct {
	id ListenerID
	fn func(T)
}

// Publisher broadcasts every value of one topic to the listeners attached at
// the time it is published. There is no buffering or replay.
type Publisher[T any] struct {
	topic     Topic
	mu        sync.RWMutex
	listeners []listener[T]
}

// NewPublisher creates a Publisher for topic.
func NewPublisher[T any](topic Topic) *Publisher[T] {
	return &Publisher[T]{topic: topic}
}

// Topic returns the topic this publisher emits.
func (p *Publisher[T]) Topic() Topic {
	return p.topic
}

// Subscribe attaches fn and returns the ID needed to detach it.
func (p *Publisher[T]) Subscribe(fn func(T)) ListenerID {
	id := uuid.New()

	p.mu.Lock()
	p.listeners = append(p.listeners, listener[T]{id: id, fn: fn})
	p.mu.Unlock()

	return id
}

// Unsubscribe detaches the listener with id. It returns false if no such listener is attached.
func (p *Publisher[T]) Unsubscribe(id ListenerID) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i, l := range p.listeners {
		if l.id == id {
			p.listeners = append(p.listeners[:i:i], p.listeners[i+1:]...)
			return true
		}
	}
	return false
}

// Publish delivers value to every attached listener in attachment order.
// Listeners may attach or detach from within a delivery.
func (p *Publisher[T]) Publish(value T) {
	p.mu.RLock()
	listeners := p.listeners
	p.mu.RUnlock()

	for _, l := range listeners {
		l.fn(value)
	}
}

// Len returns the number of attached listeners.
func (p *Publisher[T]) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.listeners)
}
