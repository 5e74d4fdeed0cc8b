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
	"sync"
	"time"

	"go.uber.org/atomic"

	"github.com/tochemey/actorcell/errors"
	"github.com/tochemey/actorcell/internal/queue"
)

// The mailbox status word. The two lowest bits hold the open, closed and
// scheduled flags. The remaining bits count the nested suspensions.
const (
	mailboxOpen          int32 = 0
	mailboxClosed        int32 = 1
	mailboxScheduled     int32 = 2
	shouldScheduleMask   int32 = 3
	shouldNotProcessMask int32 = ^mailboxScheduled
	suspendMask          int32 = ^int32(3)
	suspendUnit          int32 = 4
)

// Mailbox holds the user and system message queues of an actor along with
// its run state. A mailbox is drained by one dispatcher worker at a time.
type Mailbox struct {
	messages MessageQueue
	system   *queue.Mpsc[systemMessage]
	status   *atomic.Int32
	cell     *Cell

	// guards the drains that follow the close
	drainMu sync.Mutex
}

func newMailbox(cell *Cell, messages MessageQueue) *Mailbox {
	return &Mailbox{
		messages: messages,
		system:   queue.NewMpsc[systemMessage](),
		status:   atomic.NewInt32(mailboxOpen),
		cell:     cell,
	}
}

// IsClosed reports whether the mailbox has been closed
func (m *Mailbox) IsClosed() bool {
	return m.status.Load() == mailboxClosed
}

// IsSuspended reports whether the mailbox is suspended
func (m *Mailbox) IsSuspended() bool {
	return m.status.Load()&suspendMask != 0
}

// SuspendCount returns the number of nested suspensions
func (m *Mailbox) SuspendCount() int {
	return int(m.status.Load() / suspendUnit)
}

// IsScheduled reports whether the mailbox is scheduled for execution
func (m *Mailbox) IsScheduled() bool {
	return m.status.Load()&mailboxScheduled != 0
}

// NumberOfMessages returns a snapshot of the number of queued user messages
func (m *Mailbox) NumberOfMessages() int64 {
	return m.messages.Len()
}

// HasMessages reports whether user messages are queued
func (m *Mailbox) HasMessages() bool {
	return m.messages.HasMessages()
}

// HasSystemMessages reports whether system messages are queued
func (m *Mailbox) HasSystemMessages() bool {
	return !m.system.IsEmpty()
}

func (m *Mailbox) shouldProcessMessage() bool {
	return m.status.Load()&shouldNotProcessMask == 0
}

// suspend increments the suspend count. It returns true when the mailbox
// was not suspended before.
func (m *Mailbox) suspend() bool {
	for {
		status := m.status.Load()
		if status == mailboxClosed {
			return false
		}
		if m.status.CompareAndSwap(status, status+suspendUnit) {
			return status < suspendUnit
		}
	}
}

// resume decrements the suspend count. It returns true when the mailbox is
// no longer suspended.
func (m *Mailbox) resume() bool {
	for {
		status := m.status.Load()
		if status == mailboxClosed {
			return false
		}
		next := status
		if status >= suspendUnit {
			next = status - suspendUnit
		}
		if m.status.CompareAndSwap(status, next) {
			return next < suspendUnit
		}
	}
}

// becomeClosed closes the mailbox. It returns false when it was already closed.
func (m *Mailbox) becomeClosed() bool {
	for {
		status := m.status.Load()
		if status == mailboxClosed {
			return false
		}
		if m.status.CompareAndSwap(status, mailboxClosed) {
			return true
		}
	}
}

func (m *Mailbox) setAsScheduled() bool {
	for {
		status := m.status.Load()
		if status&shouldScheduleMask != mailboxOpen {
			return false
		}
		if m.status.CompareAndSwap(status, status|mailboxScheduled) {
			return true
		}
	}
}

func (m *Mailbox) setAsIdle() {
	for {
		status := m.status.Load()
		if m.status.CompareAndSwap(status, status&^mailboxScheduled) {
			return
		}
	}
}

func (m *Mailbox) canBeScheduledForExecution(hasMessageHint, hasSystemMessageHint bool) bool {
	switch status := m.status.Load(); {
	case status == mailboxOpen || status == mailboxScheduled:
		return hasMessageHint || hasSystemMessageHint || m.HasSystemMessages() || m.HasMessages()
	case status == mailboxClosed:
		return false
	default:
		return hasSystemMessageHint || m.HasSystemMessages()
	}
}

// enqueue adds a user message. Messages to a closed or full mailbox go to the dead letters.
func (m *Mailbox) enqueue(envelope Envelope) {
	if m.IsClosed() {
		m.cell.system.deadLetters.deliver(envelope.Message, envelope.Sender, m.cell.self)
		return
	}

	if err := m.messages.Enqueue(envelope); err != nil {
		if err == errors.ErrMailboxFull {
			m.cell.logger.Warnf("mailbox of %s is full, dropping %T", m.cell.self.Path(), envelope.Message)
		}
		m.cell.system.deadLetters.deliver(envelope.Message, envelope.Sender, m.cell.self)
		return
	}

	// the mailbox may have been closed while enqueueing
	if m.IsClosed() {
		m.cleanUp()
	}
}

// systemEnqueue adds a system message. Messages to a closed mailbox go to the dead letters.
func (m *Mailbox) systemEnqueue(message systemMessage) {
	if m.IsClosed() {
		m.cell.system.deadLetters.deliver(message, NoSender, m.cell.self)
		return
	}

	m.system.Push(message)
	if m.IsClosed() {
		m.cleanUp()
	}
}

// run drains the mailbox. It is executed by a dispatcher worker.
func (m *Mailbox) run() {
	defer func() {
		m.setAsIdle()
		m.cell.dispatcher.registerForExecution(m, false, false)
	}()

	if m.IsClosed() {
		return
	}

	m.processAllSystemMessages()
	m.processMailbox()
}

// processMailbox invokes up to throughput user messages, processing the
// pending system messages after each of them
func (m *Mailbox) processMailbox() {
	left := m.cell.dispatcher.throughput
	var deadline time.Time
	if m.cell.dispatcher.throughputDeadline > 0 {
		deadline = time.Now().Add(m.cell.dispatcher.throughputDeadline)
	}

	for m.shouldProcessMessage() {
		envelope, ok := m.messages.Dequeue()
		if !ok {
			return
		}

		m.cell.invoke(envelope)
		m.processAllSystemMessages()

		left--
		if left <= 0 || (!deadline.IsZero() && time.Now().After(deadline)) {
			return
		}
	}
}

func (m *Mailbox) processAllSystemMessages() {
	for !m.IsClosed() {
		message, ok := m.system.Pop()
		if !ok {
			break
		}
		m.cell.systemInvoke(message)
	}

	if m.IsClosed() {
		m.cleanUp()
	}
}

// cleanUp sends what is left in a closed mailbox to the dead letters
func (m *Mailbox) cleanUp() {
	m.drainMu.Lock()
	defer m.drainMu.Unlock()

	deadLetters := m.cell.system.deadLetters
	for {
		message, ok := m.system.Pop()
		if !ok {
			break
		}
		deadLetters.deliver(message, NoSender, m.cell.self)
	}

	for {
		envelope, ok := m.messages.Dequeue()
		if !ok {
			break
		}
		deadLetters.deliver(envelope.Message, envelope.Sender, m.cell.self)
	}
}
