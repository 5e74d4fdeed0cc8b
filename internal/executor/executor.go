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

// Package executor provides the fixed pool of goroutines that run mailbox
// drains for a dispatcher.
package executor

import (
	"runtime"
	"sync"

	"go.uber.org/atomic"
	"golang.org/x/sync/errgroup"
)

const defaultQueueSize = 4096

// Option is the interface that applies an Executor option.
type Option interface {
	// Apply sets the Option value of an Executor.
	Apply(executor *Executor)
}

var _ Option = OptionFunc(nil)

// OptionFunc implements the Option interface.
type OptionFunc func(executor *Executor)

// Apply applies the Executor's option
func (f OptionFunc) Apply(executor *Executor) {
	f(executor)
}

// WithWorkers sets the number of worker goroutines
func WithWorkers(workers int) Option {
	return OptionFunc(func(executor *Executor) {
		if workers > 0 {
			executor.workers = workers
		}
	})
}

// WithQueueSize sets the number of tasks buffered before Submit
// falls back to a dedicated goroutine
func WithQueueSize(size int) Option {
	return OptionFunc(func(executor *Executor) {
		if size > 0 {
			executor.queueSize = size
		}
	})
}

// WithPanicHandler sets the function called when a task panics.
// The worker survives the panic.
func WithPanicHandler(handler func(recovered any)) Option {
	return OptionFunc(func(executor *Executor) {
		executor.onPanic = handler
	})
}

// Executor runs submitted tasks on a fixed set of worker goroutines.
// Submit never blocks.
type Executor struct {
	workers   int
	queueSize int
	onPanic   func(recovered any)

	mu       sync.RWMutex
	tasks    chan func()
	group    *errgroup.Group
	started  atomic.Bool
	stopped  atomic.Bool
	overflow atomic.Int64
	inflight sync.WaitGroup
}

// New creates an Executor. It defaults to one worker per CPU.
func New(opts ...Option) *Executor {
	executor := &Executor{
		workers:   runtime.NumCPU(),
		queueSize: defaultQueueSize,
	}

	for _, opt := range opts {
		opt.Apply(executor)
	}
	return executor
}

// Start spawns the workers. It is safe to call Start multiple times.
func (x *Executor) Start() {
	x.mu.Lock()
	defer x.mu.Unlock()
	if x.started.Load() {
		return
	}

	x.tasks = make(chan func(), x.queueSize)
	x.group = new(errgroup.Group)
	for range x.workers {
		x.group.Go(func() error {
			for task := range x.tasks {
				x.run(task)
			}
			return nil
		})
	}
	x.started.Store(true)
}

// Submit schedules the task. When the queue is full the task runs on its
// own goroutine. Tasks submitted before Start or after Stop are dropped and
// Submit returns false.
func (x *Executor) Submit(task func()) bool {
	x.mu.RLock()
	defer x.mu.RUnlock()
	if !x.started.Load() || x.stopped.Load() {
		return false
	}

	select {
	case x.tasks <- task:
	default:
		x.overflow.Inc()
		x.inflight.Add(1)
		go func() {
			defer x.inflight.Done()
			x.run(task)
		}()
	}
	return true
}

// Stop waits for the queued tasks to complete and releases the workers
func (x *Executor) Stop() {
	x.mu.Lock()
	if !x.started.Load() || x.stopped.Swap(true) {
		x.mu.Unlock()
		return
	}
	close(x.tasks)
	x.mu.Unlock()

	_ = x.group.Wait()
	x.inflight.Wait()
}

// Workers returns the number of workers
func (x *Executor) Workers() int {
	return x.workers
}

// Overflows returns the number of tasks that ran outside of the workers
func (x *Executor) Overflows() int64 {
	return x.overflow.Load()
}

func (x *Executor) run(task func()) {
	defer func() {
		if r := recover(); r != nil && x.onPanic != nil {
			x.onPanic(r)
		}
	}()
	task()
}
