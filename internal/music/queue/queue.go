// Package queue holds the per-session ordered list of pending tracks.
package queue

import (
	"errors"
	"slices"
	"sync"

	"github.com/pyraxo/haru/internal/music/resolver"
)

var ErrQueueEmpty = errors.New("queue is empty")

// Item is one pending entry. Meta may be nil or stale; the coordinator
// re-resolves before play when needed.
type Item struct {
	URL         string
	Meta        *resolver.StreamMetadata
	RequestedBy string
}

type Queue struct {
	mu    sync.Mutex
	items []Item
}

func New() *Queue {
	return &Queue{items: make([]Item, 0)}
}

// Add appends the item, or inserts it at the front when playNow is set.
func (q *Queue) Add(item Item, playNow bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if playNow {
		q.items = append([]Item{item}, q.items...)
		return
	}
	q.items = append(q.items, item)
}

func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Shift removes and returns the front item.
func (q *Queue) Shift() (Item, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) == 0 {
		return Item{}, ErrQueueEmpty
	}
	item := q.items[0]
	q.items = q.items[1:]
	return item, nil
}

// Clear drops all pending items.
func (q *Queue) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = q.items[:0]
}

// Items returns a copy of the pending items in playback order.
func (q *Queue) Items() []Item {
	q.mu.Lock()
	defer q.mu.Unlock()
	return slices.Clone(q.items)
}
