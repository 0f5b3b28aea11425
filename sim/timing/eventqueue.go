package timing

import (
	"container/heap"
	"sync"
)

// EventQueue holds future events ordered by (time, sequence).
type EventQueue interface {
	Push(evt *Event)
	Pop() *Event
	Peek() *Event
	Len() int

	// Clear drops every queued event and returns how many were dropped.
	Clear() int
}

// EventQueueImpl is a binary heap based EventQueue. It is safe for
// concurrent use so that observers may read its length while a run is in
// progress.
type EventQueueImpl struct {
	sync.Mutex
	events eventHeap
}

// NewEventQueue creates an empty EventQueueImpl.
func NewEventQueue() *EventQueueImpl {
	q := new(EventQueueImpl)
	q.events = make([]*Event, 0)
	heap.Init(&q.events)

	return q
}

// Push adds an event.
func (q *EventQueueImpl) Push(evt *Event) {
	q.Lock()
	heap.Push(&q.events, evt)
	q.Unlock()
}

// Pop removes and returns the earliest event, or nil if the queue is empty.
func (q *EventQueueImpl) Pop() *Event {
	q.Lock()
	defer q.Unlock()

	if q.events.Len() == 0 {
		return nil
	}

	return heap.Pop(&q.events).(*Event)
}

// Peek returns the earliest event without removing it, or nil if the queue
// is empty.
func (q *EventQueueImpl) Peek() *Event {
	q.Lock()
	defer q.Unlock()

	if q.events.Len() == 0 {
		return nil
	}

	return q.events[0]
}

// Len returns the number of queued events.
func (q *EventQueueImpl) Len() int {
	q.Lock()
	defer q.Unlock()

	return q.events.Len()
}

// Clear drops all queued events.
func (q *EventQueueImpl) Clear() int {
	q.Lock()
	defer q.Unlock()

	n := q.events.Len()
	q.events = q.events[:0]

	return n
}

type eventHeap []*Event

func (h eventHeap) Len() int { return len(h) }

func (h eventHeap) Less(i, j int) bool {
	return h[i].before(h[j])
}

func (h eventHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
}

func (h *eventHeap) Push(x any) {
	*h = append(*h, x.(*Event))
}

func (h *eventHeap) Pop() any {
	old := *h
	n := len(old)
	evt := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]

	return evt
}
