// Package notify carries toast notices from the action that raised them to the
// next rendered page.
package notify

import (
	"sync"
	"time"

	"github.com/segmentio/ksuid"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

type Notice struct {
	ID        string    `json:"id"`
	Level     Level     `json:"level"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

type Notifier interface {
	Success(text string)
	Error(text string)
}

// Queue is a flash queue. Notices are delivered once, in order.
type Queue struct {
	mu      sync.Mutex
	pending []Notice
	limit   int
}

// NewQueue keeps at most limit pending notices, dropping the oldest. A
// non-positive limit means 20.
func NewQueue(limit int) *Queue {
	if limit <= 0 {
		limit = 20
	}
	return &Queue{limit: limit}
}

func (q *Queue) Success(text string) { q.push(LevelSuccess, text) }

func (q *Queue) Error(text string) { q.push(LevelError, text) }

func (q *Queue) push(level Level, text string) {
	if text == "" {
		return
	}
	n := Notice{
		ID:        ksuid.New().String(),
		Level:     level,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	q.pending = append(q.pending, n)
	if over := len(q.pending) - q.limit; over > 0 {
		q.pending = append([]Notice(nil), q.pending[over:]...)
	}
}

// Drain hands over every pending notice and empties the queue.
func (q *Queue) Drain() []Notice {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.pending
	q.pending = nil
	return out
}

func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}
