// MIT License
//
// Copyright (c) 2022-2026 GoAkt Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

// Package queue provides the lock-free queues backing mailboxes and event
// subscribers.
package queue

import "sync/atomic"

// node returns the queue node
type node[T any] struct {
	value T
	next  atomic.Pointer[node[T]]
}

// Mpsc is a Multi-Producer-Single-Consumer Queue.
// Producers never block. Pop and Peek must be called from a single consumer
// goroutine at a time. IsEmpty and Len can be called from any goroutine.
// reference: https://concurrencyfreaks.blogspot.com/2014/04/multi-producer-single-consumer-queue.html
type Mpsc[T any] struct {
	head   atomic.Pointer[node[T]]
	tail   atomic.Pointer[node[T]]
	length atomic.Int64
}

// NewMpsc create an instance of Mpsc
func NewMpsc[T any]() *Mpsc[T] {
	stub := new(node[T])
	q := new(Mpsc[T])
	q.head.Store(stub)
	q.tail.Store(stub)
	return q
}

// Push places the given value at the queue head (FIFO)
func (q *Mpsc[T]) Push(value T) {
	n := &node[T]{value: value}
	previous := q.head.Swap(n)
	q.length.Add(1)
	previous.next.Store(n)
}

// Pop takes the value from the queue tail.
// Returns false if the queue is empty.
func (q *Mpsc[T]) Pop() (T, bool) {
	var zero T
	next := q.tail.Load().next.Load()
	if next == nil {
		return zero, false
	}

	q.tail.Store(next)
	value := next.value
	next.value = zero
	q.length.Add(-1)
	return value, true
}

// Peek returns the value at the queue tail without removing it
func (q *Mpsc[T]) Peek() (T, bool) {
	var zero T
	next := q.tail.Load().next.Load()
	if next == nil {
		return zero, false
	}
	return next.value, true
}

// Len returns queue length. Under concurrent pushes the value is a snapshot.
func (q *Mpsc[T]) Len() int64 {
	return q.length.Load()
}

// IsEmpty returns true when the queue has no value ready to be popped
func (q *Mpsc[T]) IsEmpty() bool {
	return q.tail.Load().next.Load() == nil
}
