package v1

import "sync"

// AlertQueue is the user-visible error channel. The presentation layer drains it.
type AlertQueue struct {
	mu       sync.Mutex
	messages []string
}

// Alert queues a message for the user.
func (q *AlertQueue) Alert(message string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.messages = append(q.messages, message)
}

// Drain returns and clears the queued messages.
func (q *AlertQueue) Drain() []string {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.messages
	q.messages = nil
	return out
}
