package realtime

import (
	"context"
	"sync"
)

// MemoryBroadcaster keeps published messages per event room, in publish
// order. It backs tests and single-process deployments.
type MemoryBroadcaster struct {
	mu    sync.Mutex
	rooms map[string][]Message
	subs  map[string][]chan Message
}

func NewMemoryBroadcaster() *MemoryBroadcaster {
	return &MemoryBroadcaster{
		rooms: make(map[string][]Message),
		subs:  make(map[string][]chan Message),
	}
}

func (b *MemoryBroadcaster) Publish(_ context.Context, eventID string, msg Message) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.rooms[eventID] = append(b.rooms[eventID], msg)
	for _, ch := range b.subs[eventID] {
		select {
		case ch <- msg:
		default:
		}
	}
	return nil
}

// Subscribe registers a buffered listener for one event room.
func (b *MemoryBroadcaster) Subscribe(eventID string) <-chan Message {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan Message, 64)
	b.subs[eventID] = append(b.subs[eventID], ch)
	return ch
}

// Messages returns a copy of everything published to an event room so far.
func (b *MemoryBroadcaster) Messages(eventID string) []Message {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]Message, len(b.rooms[eventID]))
	copy(out, b.rooms[eventID])
	return out
}
