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

package actor

import (
	gods "github.com/Workiva/go-datastructures/queue"
	"go.uber.org/atomic"

	"github.com/tochemey/actorcell/errors"
	"github.com/tochemey/actorcell/internal/queue"
)

// MessageQueue is the user message queue of a mailbox. It accepts
// concurrent producers and a single consumer.
type MessageQueue interface {
	// Enqueue adds a message. It never blocks.
	Enqueue(envelope Envelope) error
	// Dequeue removes the oldest message. It returns false when empty.
	Dequeue() (Envelope, bool)
	// Len returns a snapshot of the number of queued messages
	Len() int64
	// HasMessages reports whether the queue holds at least one message
	HasMessages() bool
}

// UnboundedQueue is a lock-free unbounded MessageQueue
type UnboundedQueue struct {
	underlying *queue.Mpsc[Envelope]
}

var _ MessageQueue = (*UnboundedQueue)(nil)

// NewUnboundedQueue creates an UnboundedQueue
func NewUnboundedQueue() *UnboundedQueue {
	return &UnboundedQueue{underlying: queue.NewMpsc[Envelope]()}
}

// Enqueue implements MessageQueue
func (q *UnboundedQueue) Enqueue(envelope Envelope) error {
	q.underlying.Push(envelope)
	return nil
}

// Dequeue implements MessageQueue
func (q *UnboundedQueue) Dequeue() (Envelope, bool) {
	return q.underlying.Pop()
}

// Len implements MessageQueue
func (q *UnboundedQueue) Len() int64 {
	return q.underlying.Len()
}

// HasMessages implements MessageQueue
func (q *UnboundedQueue) HasMessages() bool {
	return !q.underlying.IsEmpty()
}

// BoundedQueue is a MessageQueue backed by a ring buffer. Enqueue fails with
// ErrMailboxFull once the capacity is reached.
type BoundedQueue struct {
	underlying *gods.RingBuffer
	capacity   int64
	size       *atomic.Int64
}

var _ MessageQueue = (*BoundedQueue)(nil)

// NewBoundedQueue creates a BoundedQueue holding at most capacity messages
func NewBoundedQueue(capacity int) *BoundedQueue {
	return &BoundedQueue{
		underlying: gods.NewRingBuffer(uint64(capacity)),
		capacity:   int64(capacity),
		size:       atomic.NewInt64(0),
	}
}

// Enqueue implements MessageQueue
func (q *BoundedQueue) Enqueue(envelope Envelope) error {
	// the ring buffer rounds its size up to a power of two
	if q.size.Inc() > q.capacity {
		q.size.Dec()
		return errors.ErrMailboxFull
	}

	ok, err := q.underlying.Offer(envelope)
	if err != nil || !ok {
		q.size.Dec()
		if err != nil {
			return err
		}
		return errors.ErrMailboxFull
	}
	return nil
}

// Dequeue implements MessageQueue
func (q *BoundedQueue) Dequeue() (Envelope, bool) {
	if q.underlying.Len() == 0 {
		return Envelope{}, false
	}

	item, err := q.underlying.Get()
	if err != nil {
		return Envelope{}, false
	}
	q.size.Dec()
	envelope, ok := item.(Envelope)
	return envelope, ok
}

// Len implements MessageQueue
func (q *BoundedQueue) Len() int64 {
	return q.size.Load()
}

// HasMessages implements MessageQueue
func (q *BoundedQueue) HasMessages() bool {
	return q.underlying.Len() > 0
}

// Capacity returns the queue capacity
func (q *BoundedQueue) Capacity() int {
	return int(q.capacity)
}
