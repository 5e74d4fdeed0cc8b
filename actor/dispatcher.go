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
	"time"

	"github.com/tochemey/actorcell/internal/executor"
	"github.com/tochemey/actorcell/log"
)

// Dispatcher binds mailboxes to the worker pool. A mailbox is scheduled on
// at most one worker at a time, so the cell it drains is never invoked
// concurrently.
type Dispatcher struct {
	executor           *executor.Executor
	throughput         int
	throughputDeadline time.Duration
	logger             log.Logger
}

func newDispatcher(exec *executor.Executor, throughput int, deadline time.Duration, logger log.Logger) *Dispatcher {
	if throughput < 1 {
		throughput = 1
	}
	return &Dispatcher{
		executor:           exec,
		throughput:         throughput,
		throughputDeadline: deadline,
		logger:             logger,
	}
}

// attach starts the processing of the cell mailbox
func (d *Dispatcher) attach(cell *Cell) {
	d.registerForExecution(cell.mailbox, false, true)
}

// detach closes the cell mailbox. What is left in it goes to the dead letters.
func (d *Dispatcher) detach(cell *Cell) {
	cell.mailbox.becomeClosed()
	cell.mailbox.cleanUp()
}

func (d *Dispatcher) dispatch(cell *Cell, envelope Envelope) {
	cell.mailbox.enqueue(envelope)
	d.registerForExecution(cell.mailbox, true, false)
}

func (d *Dispatcher) systemDispatch(cell *Cell, message systemMessage) {
	cell.mailbox.systemEnqueue(message)
	d.registerForExecution(cell.mailbox, false, true)
}

func (d *Dispatcher) suspend(cell *Cell) {
	cell.mailbox.suspend()
}

func (d *Dispatcher) resume(cell *Cell) {
	if cell.mailbox.resume() {
		d.registerForExecution(cell.mailbox, false, false)
	}
}

// registerForExecution schedules the mailbox when it has work and is not
// already scheduled. It returns true when the mailbox has been submitted.
func (d *Dispatcher) registerForExecution(mailbox *Mailbox, hasMessageHint, hasSystemMessageHint bool) bool {
	if !mailbox.canBeScheduledForExecution(hasMessageHint, hasSystemMessageHint) {
		return false
	}

	if !mailbox.setAsScheduled() {
		return false
	}

	if d.executor.Submit(mailbox.run) {
		return true
	}

	mailbox.setAsIdle()
	d.logger.Debugf("dispatcher rejected mailbox of %s", mailbox.cell.self.Path())
	return false
}
