package core

import (
	"testing"
)

// TestTaskQueue_FIFO verifies tasks come out in the order they went in
// Given: An empty queue
// When: Three tasks are pushed and then popped
// Then: They are returned in push order and the queue ends empty
func TestTaskQueue_FIFO(t *testing.T) {
	// Arrange
	q := NewTaskQueue()
	var order []int

	// Act
	for i := 0; i < 3; i++ {
		q.Push(func() { order = append(order, i) })
	}
	if q.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", q.Len())
	}
	for !q.IsEmpty() {
		task, ok := q.Pop()
		if !ok {
			t.Fatal("Pop() failed on non-empty queue")
		}
		task()
	}

	// Assert
	if len(order) != 3 || order[0] != 0 || order[1] != 1 || order[2] != 2 {
		t.Errorf("order = %v, want [0 1 2]", order)
	}
}

// TestTaskQueue_PopEmpty verifies Pop on an empty queue reports false instead of panicking
func TestTaskQueue_PopEmpty(t *testing.T) {
	q := NewTaskQueue()

	task, ok := q.Pop()
	if ok || task != nil {
		t.Errorf("Pop() = (%v, %v), want (nil, false)", task, ok)
	}
	if !q.IsEmpty() {
		t.Error("IsEmpty() = false on new queue")
	}
}

// TestTaskQueue_GrowAndShrink verifies ordering survives ring-buffer resizing
func TestTaskQueue_GrowAndShrink(t *testing.T) {
	q := NewTaskQueue()
	next := 0
	check := func(want int) Task {
		return func() {
			if next != want {
				t.Fatalf("ran task %d, want %d", want, next)
			}
			next++
		}
	}

	// Interleave pushes and pops across several resizes
	pushed := 0
	for round := 0; round < 5; round++ {
		for i := 0; i < 1000; i++ {
			q.Push(check(pushed))
			pushed++
		}
		for i := 0; i < 700; i++ {
			task, _ := q.Pop()
			task()
		}
	}
	for !q.IsEmpty() {
		task, _ := q.Pop()
		task()
	}

	if next != pushed {
		t.Errorf("ran %d tasks, want %d", next, pushed)
	}
}

// TestTaskQueue_Clear verifies Clear drops everything and reports the count
func TestTaskQueue_Clear(t *testing.T) {
	q := NewTaskQueue()
	for i := 0; i < 42; i++ {
		q.Push(func() {})
	}

	if got := q.Clear(); got != 42 {
		t.Errorf("Clear() = %d, want 42", got)
	}
	if !q.IsEmpty() {
		t.Error("queue not empty after Clear()")
	}
	if got := q.Clear(); got != 0 {
		t.Errorf("second Clear() = %d, want 0", got)
	}

	q.Push(func() {})
	if q.Len() != 1 {
		t.Errorf("Len() = %d after reuse, want 1", q.Len())
	}
}
