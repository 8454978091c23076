package notify

import (
	"sync"
	"time"
)

type Type string

const (
	TypeInfo    Type = "info"
	TypeSuccess Type = "success"
	TypeWarning Type = "warning"
	TypeDanger  Type = "danger"
)

// Notice is a user-visible message produced by the board.
type Notice struct {
	Type    Type      `json:"type"`
	Title   string    `json:"title,omitempty"`
	Message string    `json:"message"`
	Code    string    `json:"code,omitempty"`
	At      time.Time `json:"at"`
}

type Notifier interface {
	Notify(n Notice)
}

// Queue buffers notices until the shell collects them. The zero value is ready
// to use.
type Queue struct {
	mu    sync.Mutex
	items []Notice
	max   int
}

const defaultQueueMax = 50

func NewQueue(max int) *Queue {
	return &Queue{max: max}
}

func (q *Queue) Notify(n Notice) {
	if n.At.IsZero() {
		n.At = time.Now()
	}
	q.mu.Lock()
	defer q.mu.Unlock()

	max := q.max
	if max <= 0 {
		max = defaultQueueMax
	}
	q.items = append(q.items, n)
	if len(q.items) > max {
		q.items = q.items[len(q.items)-max:]
	}
}

// Drain returns the buffered notices and empties the queue.
func (q *Queue) Drain() []Notice {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.items
	q.items = nil
	return out
}

func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Func adapts a function to Notifier.
type Func func(Notice)

func (f Func) Notify(n Notice) { f(n) }
