package core

import (
	"github.com/eapache/queue"
)

// =============================================================================
// TaskQueue: Unbounded FIFO of pending tasks
// =============================================================================

// TaskQueue is an unbounded FIFO of pending tasks backed by a ring buffer.
//
// TaskQueue does no locking of its own. The owning ThreadPool mutates it only
// while holding the pool mutex, which is also the lock its condition
// variables evaluate their predicates under.
type TaskQueue struct {
	ring *queue.Queue
}

// NewTaskQueue creates an empty TaskQueue
func NewTaskQueue() *TaskQueue {
	return &TaskQueue{ring: queue.New()}
}

// Push appends t to the back of the queue.
func (q *TaskQueue) Push(t Task) {
	q.ring.Add(t)
}

// Pop removes and returns the front task.
func (q *TaskQueue) Pop() (Task, bool) {
	if q.ring.Length() == 0 {
		return nil, false
	}
	// The ring buffer shrinks itself once it drops to a quarter of its capacity
	return q.ring.Remove().(Task), true
}

func (q *TaskQueue) Len() int {
	return q.ring.Length()
}

func (q *TaskQueue) IsEmpty() bool {
	return q.ring.Length() == 0
}

// Clear drops every pending task and returns how many were dropped.
// The old buffer is released so captured task state can be collected.
func (q *TaskQueue) Clear() int {
	n := q.ring.Length()
	q.ring = queue.New()
	return n
}
