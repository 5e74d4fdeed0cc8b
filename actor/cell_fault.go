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
	"github.com/tochemey/actorcell/errors"
	"github.com/tochemey/actorcell/log"
	"github.com/tochemey/actorcell/supervisor"
)

// supervisionContext exposes the cell to its supervisor strategy
type supervisionContext struct {
	cell *Cell
}

var _ supervisor.Context = (*supervisionContext)(nil)

func (s *supervisionContext) StopChild(child supervisor.Child) {
	if ref, ok := child.(ActorRef); ok {
		s.cell.stopChild(ref)
	}
}

func (s *supervisionContext) Logger() log.Logger {
	return s.cell.logger
}

func (s *supervisionContext) Self() string {
	return s.cell.self.Path().String()
}

// handleInvokeFailure suspends the cell and its children and reports the
// failure to the parent. When the failure cannot be reported, the cell stops.
func (c *Cell) handleInvokeFailure(childrenNotToSuspend []ActorRef, cause error) {
	if c.isFailed() {
		return
	}

	except := make([]ActorRef, 0, len(childrenNotToSuspend)+1)
	except = append(except, childrenNotToSuspend...)

	err := c.safely(func() error {
		c.suspendNonRecursive()

		if f, ok := c.currentMessage().(*failed); ok {
			c.setFailed(f.child)
			except = append(except, f.child)
		} else {
			c.setFailed(c.self)
		}

		c.suspendChildren(except)
		c.system.countFailure()
		c.system.publish(EventsTopic, ActorFailed{Ref: c.self, Cause: cause})
		c.parent.sendSystemMessage(&failed{child: c.self, cause: cause, uid: c.uid})
		return nil
	})

	if err != nil {
		c.logger.Errorf("emergency stop: exception in failure handling of %v: %v", cause, err)
		for _, child := range c.children().refs() {
			c.stopChild(child)
		}
		c.finishTerminate()
	}
}

// handleFailure runs the supervisor strategy for a failed child. The failure
// is escalated by returning its cause.
func (c *Cell) handleFailure(f *failed) error {
	c.current = &Envelope{Message: f, Sender: f.child}

	stats := c.children().getByRef(f.child)
	switch {
	case stats == nil:
		c.logger.Debugf("dropping Failed(%v) from unknown child %s", f.cause, f.child)
	case stats.UID() != f.uid:
		c.logger.Debugf("dropping Failed(%v) from old child %s (uid=%d != %d)", f.cause, f.child, stats.UID(), f.uid)
	default:
		strategy := c.supervisorStrategy()
		if !strategy.HandleFailure(&supervisionContext{cell: c}, stats.Child(), f.cause, stats, c.children().stats()) {
			return f.cause
		}
	}
	return nil
}

// faultRecreate runs the pre restart hook of the failed instance and
// replaces it once the children stopped by the hook are gone
func (c *Cell) faultRecreate(cause error) {
	if c.actor == nil {
		c.logger.Errorf("changing Recreate into Create after %v", cause)
		c.faultCreate()
		return
	}

	if !c.children().isNormal() {
		// keeps the suspend count balanced
		c.faultResume(nil)
		return
	}

	failedActor := c.actor
	if c.system.config.Debug.Lifecycle {
		c.logger.Debugf("restarting (%T)", failedActor)
	}

	message := c.currentMessage()
	if !c.isFailedFatally() {
		if err := c.safely(func() error { return c.preRestart(failedActor, cause, message) }); err != nil {
			c.logger.Error((&errors.PreRestartError{
				Actor:         c.self.Path().String(),
				Cause:         err,
				OriginalCause: cause,
				Message:       message,
			}).Error())
		}
	}
	c.clearActorFields()

	if !c.setChildrenTerminationReason(suspendReason{kind: reasonRecreation, cause: cause}) {
		c.finishRecreate(cause)
	}
}

func (c *Cell) preRestart(instance Actor, cause error, message any) error {
	if restarter, ok := instance.(PreRestarter); ok {
		return restarter.PreRestart(c.context, cause, message)
	}

	for _, child := range c.children().refs() {
		c.unwatch(child)
		c.stopChild(child)
	}
	return instance.PostStop(c.context)
}

func (c *Cell) postRestart(instance Actor, cause error) error {
	if restarter, ok := instance.(PostRestarter); ok {
		return restarter.PostRestart(c.context, cause)
	}
	return c.preStart(instance)
}

// finishRecreate creates the fresh instance and restarts the surviving children
func (c *Cell) finishRecreate(cause error) {
	survivors := c.children().refs()

	c.resumeNonRecursive()
	c.clearFailed()

	instance, err := c.newActor()
	if err == nil {
		c.actor = instance
		err = c.safely(func() error { return c.postRestart(instance, cause) })
	}

	if err != nil {
		c.setFailedFatally()
		c.clearActorFields()
		c.handleInvokeFailure(survivors, &errors.PostRestartError{
			Actor:         c.self.Path().String(),
			Cause:         err,
			OriginalCause: cause,
		})
		return
	}

	c.checkReceiveTimeout(true)
	if c.system.config.Debug.Lifecycle {
		c.logger.Debugf("restarted (%T)", instance)
	}
	c.system.countRestart()
	c.system.publish(EventsTopic, ActorRestarted{Ref: c.self, Cause: cause})

	for _, child := range survivors {
		if local, ok := child.(*LocalActorRef); ok {
			local.Restart(cause)
		}
	}
}

func (c *Cell) faultSuspend() {
	c.suspendNonRecursive()
	c.suspendChildren(nil)
}

// faultResume resumes the cell and its children. The failure cause is only
// handed to the child that caused the suspension.
func (c *Cell) faultResume(causedByFailure error) {
	if c.actor == nil {
		c.logger.Errorf("changing Resume into Create after %v", causedByFailure)
		c.faultCreate()
		return
	}

	if c.isFailedFatally() && causedByFailure != nil {
		c.logger.Errorf("changing Resume into Restart after %v", causedByFailure)
		c.faultRecreate(causedByFailure)
		return
	}

	perpetrator := c.perpetrator()
	c.resumeNonRecursive()
	if causedByFailure != nil {
		c.clearFailed()
	}
	c.resumeChildren(causedByFailure, perpetrator)
}

// faultCreate recovers a cell whose instance could not be created
func (c *Cell) faultCreate() {
	c.cancelReceiveTimeout()

	for _, child := range c.children().refs() {
		c.stopChild(child)
	}

	if !c.setChildrenTerminationReason(suspendReason{kind: reasonCreation}) {
		c.finishCreate()
	}
}

func (c *Cell) finishCreate() {
	c.resumeNonRecursive()
	c.clearFailed()
	if err := c.create(nil); err != nil {
		c.handleInvokeFailure(nil, err)
	}
}

// terminate stops the children and the cell itself once they are all gone
func (c *Cell) terminate() {
	c.cancelReceiveTimeout()
	c.unwatchWatchedActors()

	for _, child := range c.children().refs() {
		c.stopChild(child)
	}

	wasTerminating := c.isTerminating()
	if c.setChildrenTerminationReason(suspendReason{kind: reasonTermination}) {
		if !wasTerminating {
			c.suspendNonRecursive()
			c.setFailed(c.self)
			if c.system.config.Debug.Lifecycle {
				c.logger.Debug("stopping")
			}
		}
		return
	}

	c.setTerminated()
	c.finishTerminate()
}

// finishTerminate runs the post stop hook, closes the mailbox and notifies
// the parent and the watchers. The order of these steps matters: the parent
// notification must come after the mailbox is closed.
func (c *Cell) finishTerminate() {
	instance := c.actor
	if instance != nil {
		if err := c.safely(func() error { return instance.PostStop(c.context) }); err != nil {
			c.logger.Errorf("PostStop failed: %v", err)
		}
	}

	c.dispatcher.detach(c)
	c.parent.sendSystemMessage(&deathWatchNotification{actor: c.self, existenceConfirmed: true})
	c.tellWatchersWeDied()
	c.unwatchWatchedActors()

	if c.system.config.Debug.Lifecycle {
		c.logger.Debug("stopped")
	}
	c.system.actorStopped()
	c.system.publish(EventsTopic, ActorStopped{Ref: c.self})

	c.clearActorFields()
	c.clearFieldsForTermination()
}

func (c *Cell) suspendNonRecursive() {
	c.dispatcher.suspend(c)
	c.system.publish(EventsTopic, ActorSuspended{Ref: c.self})
}

func (c *Cell) resumeNonRecursive() {
	c.dispatcher.resume(c)
	c.system.publish(EventsTopic, ActorResumed{Ref: c.self})
}

func (c *Cell) suspendChildren(exceptFor []ActorRef) {
	for _, stats := range c.children().stats() {
		child := stats.Child().(ActorRef)
		if containsRef(exceptFor, child) {
			continue
		}
		stats.Child().Suspend()
	}
}

func (c *Cell) resumeChildren(causedByFailure error, perpetrator ActorRef) {
	for _, stats := range c.children().stats() {
		var cause error
		if sameRef(perpetrator, stats.Child().(ActorRef)) {
			cause = causedByFailure
		}
		stats.Child().Resume(cause)
	}
}

func containsRef(refs []ActorRef, ref ActorRef) bool {
	for _, r := range refs {
		if sameRef(r, ref) {
			return true
		}
	}
	return false
}
