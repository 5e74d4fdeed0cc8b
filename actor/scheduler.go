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
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/reugn/go-quartz/job"
	quartzlogger "github.com/reugn/go-quartz/logger"
	"github.com/reugn/go-quartz/quartz"
	"go.uber.org/atomic"

	"github.com/tochemey/actorcell/errors"
	"github.com/tochemey/actorcell/log"
)

// Cancellable is the handle of a scheduled delivery
type Cancellable struct {
	cancelled *atomic.Bool
	key       *quartz.JobKey
	scheduler *scheduler
}

// Cancel prevents the delivery when it has not happened yet. It returns
// false when the delivery was already cancelled.
func (c *Cancellable) Cancel() bool {
	if !c.cancelled.CompareAndSwap(false, true) {
		return false
	}
	c.scheduler.remove(c.key)
	return true
}

// IsCancelled reports whether Cancel has been called
func (c *Cancellable) IsCancelled() bool {
	return c.cancelled.Load()
}

// scheduler delivers messages to actors in the future
type scheduler struct {
	mu              sync.Mutex
	quartzScheduler quartz.Scheduler
	started         *atomic.Bool
	logger          log.Logger
	stopTimeout     time.Duration
}

func newScheduler(logger log.Logger, stopTimeout time.Duration) *scheduler {
	quartzScheduler, _ := quartz.NewStdScheduler(quartz.WithLogger(quartzlogger.NewSimpleLogger(nil, quartzlogger.LevelOff)))
	return &scheduler{
		quartzScheduler: quartzScheduler,
		started:         atomic.NewBool(false),
		logger:          logger,
		stopTimeout:     stopTimeout,
	}
}

// Start starts the scheduler
func (x *scheduler) Start(ctx context.Context) {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.quartzScheduler.Start(ctx)
	x.started.Store(x.quartzScheduler.IsStarted())
	x.logger.Debug("messages scheduler started")
}

// Stop discards the pending deliveries and stops the scheduler
func (x *scheduler) Stop(ctx context.Context) {
	if !x.started.Load() {
		return
	}

	x.mu.Lock()
	defer x.mu.Unlock()
	if err := x.quartzScheduler.Clear(); err != nil {
		x.logger.Debugf("cannot clear the scheduled deliveries: %v", err)
	}
	x.quartzScheduler.Stop()
	x.started.Store(x.quartzScheduler.IsStarted())

	ctx, cancel := context.WithTimeout(ctx, x.stopTimeout)
	defer cancel()
	x.quartzScheduler.Wait(ctx)
	x.logger.Debug("messages scheduler stopped")
}

// ScheduleOnce delivers message to receiver after delay
func (x *scheduler) ScheduleOnce(delay time.Duration, receiver ActorRef, message any, sender ActorRef) (*Cancellable, error) {
	x.mu.Lock()
	defer x.mu.Unlock()

	if !x.started.Load() {
		return nil, errors.ErrSchedulerNotStarted
	}

	cancellable := &Cancellable{
		cancelled: atomic.NewBool(false),
		key:       quartz.NewJobKey(uuid.NewString()),
		scheduler: x,
	}

	function := job.NewFunctionJob[bool](func(context.Context) (bool, error) {
		if cancellable.cancelled.Load() {
			return false, nil
		}
		receiver.Tell(message, sender)
		return true, nil
	})

	detail := quartz.NewJobDetail(function, cancellable.key)
	if err := x.quartzScheduler.ScheduleJob(detail, quartz.NewRunOnceTrigger(delay)); err != nil {
		return nil, err
	}
	return cancellable, nil
}

func (x *scheduler) remove(key *quartz.JobKey) {
	if !x.started.Load() {
		return
	}
	// the job may already have run
	if err := x.quartzScheduler.DeleteJob(key); err != nil {
		x.logger.Debugf("cannot remove scheduled delivery %s: %v", key.String(), err)
	}
}
