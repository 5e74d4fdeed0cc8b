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
	"reflect"

	"github.com/tochemey/actorcell/errors"
)

// watch makes the cell receive Terminated when subject stops. customMessage,
// when not nil, is delivered instead of the Terminated.
func (c *Cell) watch(subject ActorRef, customMessage any) error {
	if subject == nil || sameRef(subject, c.self) {
		return nil
	}

	previous, watching := c.watching[subject]
	if watching {
		if !reflect.DeepEqual(previous, customMessage) {
			return errors.ErrWatchWithConflict
		}
		return nil
	}

	c.maintainAddressTerminatedSubscription(subject, func() {
		subject.sendSystemMessage(&watch{watchee: subject, watcher: c.self})
		c.watching[subject] = customMessage
	})
	return nil
}

// unwatch stops watching subject. A Terminated already queued for it is discarded.
func (c *Cell) unwatch(subject ActorRef) {
	if subject == nil {
		return
	}

	if _, ok := c.watching[subject]; ok && !sameRef(subject, c.self) {
		subject.sendSystemMessage(&unwatch{watchee: subject, watcher: c.self})
		c.maintainAddressTerminatedSubscription(subject, func() {
			delete(c.watching, subject)
		})
	}
	delete(c.terminatedQueue, subject)
}

// receivedTerminated delivers a Terminated queued by watchedActorTerminated.
// Terminated messages of subjects unwatched meanwhile are dropped.
func (c *Cell) receivedTerminated(t Terminated, envelope Envelope) error {
	customMessage, ok := c.terminatedQueue[t.Actor]
	if !ok {
		return nil
	}

	delete(c.terminatedQueue, t.Actor)
	if customMessage != nil {
		return c.receiveMessage(Envelope{Message: customMessage, Sender: envelope.Sender})
	}
	return c.receiveMessage(envelope)
}

// watchedActorTerminated handles the death watch notification of actor
func (c *Cell) watchedActorTerminated(actor ActorRef, existenceConfirmed, addressTerminated bool) {
	if customMessage, ok := c.watching[actor]; ok {
		c.maintainAddressTerminatedSubscription(actor, func() {
			delete(c.watching, actor)
		})

		if !c.isTerminating() {
			c.self.Tell(Terminated{
				Actor:              actor,
				ExistenceConfirmed: existenceConfirmed,
				AddressTerminated:  addressTerminated,
			}, actor)
			c.terminatedQueuedFor(actor, customMessage)
		}
	}

	if c.children().getByRef(actor) != nil {
		c.handleChildTerminated(actor)
	}
}

func (c *Cell) terminatedQueuedFor(subject ActorRef, customMessage any) {
	if _, ok := c.terminatedQueue[subject]; !ok {
		c.terminatedQueue[subject] = customMessage
	}
}

// tellWatchersWeDied notifies the watchers, the remote ones first. The
// parent is skipped since it is always notified.
func (c *Cell) tellWatchersWeDied() {
	if c.watchedBy.IsEmpty() {
		return
	}

	notify := func(local bool) {
		c.watchedBy.Each(func(watcher ActorRef) bool {
			if watcher.isLocal() == local && !sameRef(watcher, c.parent) {
				watcher.sendSystemMessage(&deathWatchNotification{actor: c.self, existenceConfirmed: true})
			}
			return false
		})
	}
	notify(false)
	notify(true)

	c.maintainAddressTerminatedSubscription(nil, func() {
		c.watchedBy.Clear()
	})
}

// unwatchWatchedActors unwatches every subject and discards the queued Terminated
func (c *Cell) unwatchWatchedActors() {
	if len(c.watching) == 0 {
		return
	}

	c.maintainAddressTerminatedSubscription(nil, func() {
		for watchee := range c.watching {
			watchee.sendSystemMessage(&unwatch{watchee: watchee, watcher: c.self})
		}
		clear(c.watching)
		clear(c.terminatedQueue)
	})
}

func (c *Cell) addWatcher(watchee, watcher ActorRef) {
	watcheeSelf := sameRef(watchee, c.self)
	watcherSelf := sameRef(watcher, c.self)

	switch {
	case watcheeSelf && !watcherSelf:
		if !c.watchedBy.Contains(watcher) {
			c.maintainAddressTerminatedSubscription(watcher, func() {
				c.watchedBy.Add(watcher)
			})
			if c.system.config.Debug.Lifecycle {
				c.logger.Debugf("now watched by %s", watcher)
			}
		}
	case !watcheeSelf && watcherSelf:
		if err := c.watch(watchee, nil); err != nil {
			c.logger.Warnf("cannot watch %s: %v", watchee, err)
		}
	default:
		c.logger.Warnf("BUG: illegal Watch(%s,%s) for %s", watchee, watcher, c.self)
	}
}

func (c *Cell) remWatcher(watchee, watcher ActorRef) {
	watcheeSelf := sameRef(watchee, c.self)
	watcherSelf := sameRef(watcher, c.self)

	switch {
	case watcheeSelf && !watcherSelf:
		if c.watchedBy.Contains(watcher) {
			c.maintainAddressTerminatedSubscription(watcher, func() {
				c.watchedBy.Remove(watcher)
			})
		}
	case !watcheeSelf && watcherSelf:
		c.unwatch(watchee)
	default:
		c.logger.Warnf("BUG: illegal Unwatch(%s,%s) for %s", watchee, watcher, c.self)
	}
}

// addressTerminated drops the watchers living at the terminated address and
// notifies the cell of the death of every subject it watches there
func (c *Cell) addressTerminated(msg AddressTerminated) {
	c.maintainAddressTerminatedSubscription(nil, func() {
		for _, watcher := range c.watchedBy.ToSlice() {
			if watcher.Path().Address().Equals(msg.Address) {
				c.watchedBy.Remove(watcher)
			}
		}
	})

	for watchee := range c.watching {
		if watchee.Path().Address().Equals(msg.Address) {
			c.self.sendSystemMessage(&deathWatchNotification{
				actor:              watchee,
				existenceConfirmed: c.children().getByRef(watchee) != nil,
				addressTerminated:  true,
			})
		}
	}
}

func isNonLocal(ref ActorRef) bool {
	return ref == nil || !ref.isLocal()
}

func (c *Cell) hasNonLocalAddress() bool {
	for watchee := range c.watching {
		if isNonLocal(watchee) {
			return true
		}
	}

	found := false
	c.watchedBy.Each(func(watcher ActorRef) bool {
		found = isNonLocal(watcher)
		return found
	})
	return found
}

// maintainAddressTerminatedSubscription runs block and subscribes the cell
// to the address terminated notifications while it watches, or is watched
// by, remote actors
func (c *Cell) maintainAddressTerminatedSubscription(change ActorRef, block func()) {
	if !isNonLocal(change) {
		block()
		return
	}

	had := c.hasNonLocalAddress()
	block()
	has := c.hasNonLocalAddress()

	switch {
	case had && !has:
		c.system.unsubscribeAddressTerminated(c.self)
	case !had && has:
		c.system.subscribeAddressTerminated(c.self)
	}
}
