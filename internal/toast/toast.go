// Package toast implements the transient notification queue.
package toast

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Kind classifies a notification.
type Kind int

const (
	Info Kind = iota
	Success
	Error
)

// Timings match the web client: a toast is visible for 3s, then fades for
// 300ms before removal.
const (
	VisibleFor = 3 * time.Second
	LeaveFor   = 300 * time.Millisecond
)

// Toast is one queued notification.
type Toast struct {
	ID      int
	Message string
	Kind    Kind
	Leaving bool
}

// ExpireMsg ends a toast's visible phase.
type ExpireMsg struct {
	ID int
}

// RemoveMsg drops a toast after its exit phase.
type RemoveMsg struct {
	ID int
}

// Queue holds stacked notifications. Concurrent toasts accumulate rather
// than replace each other; expiry is driven by tea.Tick messages carrying
// the toast ID, so ticks for already-dropped toasts are no-ops.
type Queue struct {
	nextID int
	toasts []Toast
}

// Push queues a notification and returns the command scheduling its expiry.
func (q *Queue) Push(message string, kind Kind) tea.Cmd {
	q.nextID++
	id := q.nextID
	q.toasts = append(q.toasts, Toast{ID: id, Message: message, Kind: kind})
	return tea.Tick(VisibleFor, func(time.Time) tea.Msg {
		return ExpireMsg{ID: id}
	})
}

// Expire moves a toast into its leaving phase and schedules its removal.
// Unknown IDs return nil.
func (q *Queue) Expire(id int) tea.Cmd {
	for i := range q.toasts {
		if q.toasts[i].ID == id {
			q.toasts[i].Leaving = true
			return tea.Tick(LeaveFor, func(time.Time) tea.Msg {
				return RemoveMsg{ID: id}
			})
		}
	}
	return nil
}

// Remove drops a toast. Unknown IDs are ignored.
func (q *Queue) Remove(id int) {
	for i := range q.toasts {
		if q.toasts[i].ID == id {
			q.toasts = append(q.toasts[:i], q.toasts[i+1:]...)
			return
		}
	}
}

// Toasts returns the queue in arrival order.
func (q *Queue) Toasts() []Toast {
	return q.toasts
}

// Clear drops all toasts; any pending ticks become no-ops.
func (q *Queue) Clear() {
	q.toasts = nil
}
