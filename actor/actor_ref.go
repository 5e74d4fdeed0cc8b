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
	"cmp"
	"sync"

	"github.com/zeebo/xxh3"
	"go.uber.org/atomic"

	"github.com/tochemey/actorcell/address"
	"github.com/tochemey/actorcell/supervisor"
)

// ActorRef is the handle of an actor. A reference stays valid after the
// actor stopped: messages sent to it are delivered to the dead letters.
//
// Two references are equal when both their path and their uid are equal, so
// a reference to a stopped incarnation never equals a reference to a new
// actor created under the same name.
type ActorRef interface {
	// Path returns the actor path. The uid of the incarnation is carried by the path.
	Path() *address.Path
	// Tell sends a message asynchronously. It never blocks.
	Tell(message any, sender ActorRef)
	// Equals reports whether both references target the same incarnation
	Equals(other ActorRef) bool
	// Compare orders references by path, then by uid
	Compare(other ActorRef) int
	// Hash returns a hash consistent with Equals
	Hash() uint64
	// String returns the path with the uid
	String() string

	sendSystemMessage(message systemMessage)
	stop()
	isLocal() bool
	isTerminated() bool
	getParent() ActorRef
	getChild(names []string) ActorRef
}

// NoSender is the sender of the messages sent from outside an actor
var NoSender ActorRef

// refBase holds what every reference kind shares
type refBase struct {
	path *address.Path
}

// Path returns the actor path
func (r *refBase) Path() *address.Path {
	return r.path
}

// Equals reports whether other targets the same incarnation
func (r *refBase) Equals(other ActorRef) bool {
	if other == nil {
		return false
	}
	return r.path.UID() == other.Path().UID() && r.path.Equals(other.Path())
}

// Compare orders references by path, then by uid
func (r *refBase) Compare(other ActorRef) int {
	if c := r.path.Compare(other.Path()); c != 0 {
		return c
	}
	return cmp.Compare(r.path.UID(), other.Path().UID())
}

// Hash returns the hash of the path with its uid
func (r *refBase) Hash() uint64 {
	return xxh3.HashString(r.path.StringWithUID())
}

// String returns the path with the uid
func (r *refBase) String() string {
	return "Actor[" + r.path.StringWithUID() + "]"
}

func (r *refBase) isLocal() bool { return true }

// sameRef reports whether both references target the same incarnation.
// Nil references are only equal to each other.
func sameRef(a, b ActorRef) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equals(b)
}

// LocalActorRef is the reference of an actor hosted by the local system
type LocalActorRef struct {
	refBase
	cell *Cell
}

var (
	_ ActorRef         = (*LocalActorRef)(nil)
	_ supervisor.Child = (*LocalActorRef)(nil)
)

// Tell sends a message to the actor
func (r *LocalActorRef) Tell(message any, sender ActorRef) {
	if message == nil {
		r.cell.logger.Warn("dropping nil message")
		return
	}
	r.cell.sendMessage(Envelope{Message: message, Sender: sender})
}

// Suspend suspends the actor mailbox
func (r *LocalActorRef) Suspend() {
	r.cell.sendSystemMessage(&suspend{})
}

// Resume resumes the actor mailbox. A non-nil cause means the actor is
// resumed after its own failure.
func (r *LocalActorRef) Resume(cause error) {
	r.cell.sendSystemMessage(&resume{causedByFailure: cause})
}

// Restart replaces the actor instance after the given failure
func (r *LocalActorRef) Restart(cause error) {
	r.cell.sendSystemMessage(&recreate{cause: cause})
}

// Stop stops the actor. Stopping a stopped actor is a no-op.
func (r *LocalActorRef) Stop() {
	r.stop()
}

// IsTerminated reports whether the actor has stopped
func (r *LocalActorRef) IsTerminated() bool {
	return r.cell.isTerminated()
}

// Mailbox returns the actor mailbox
func (r *LocalActorRef) Mailbox() *Mailbox {
	return r.cell.mailbox
}

func (r *LocalActorRef) sendSystemMessage(message systemMessage) {
	r.cell.sendSystemMessage(message)
}

func (r *LocalActorRef) stop() {
	r.cell.sendSystemMessage(&terminate{})
}

func (r *LocalActorRef) isTerminated() bool {
	return r.cell.isTerminated()
}

func (r *LocalActorRef) getParent() ActorRef {
	return r.cell.parent
}

func (r *LocalActorRef) getChild(names []string) ActorRef {
	var current ActorRef = r
	for i, name := range names {
		switch name {
		case "":
			continue
		case "..":
			current = current.getParent()
		default:
			local, ok := current.(*LocalActorRef)
			if !ok {
				return current.getChild(names[i:])
			}
			current = local.cell.getSingleChild(name)
		}
		if current == Nobody {
			return Nobody
		}
	}
	return current
}

// nobodyRef is returned by lookups that found nothing. It ignores every message.
type nobodyRef struct {
	refBase
}

// Nobody is the reference returned by lookups that found nothing
var Nobody ActorRef = &nobodyRef{
	refBase: refBase{path: address.NewRootPath(address.Local("all-systems")).Child("Nobody")},
}

func (r *nobodyRef) Tell(any, ActorRef)              {}
func (r *nobodyRef) sendSystemMessage(systemMessage) {}
func (r *nobodyRef) stop()                           {}
func (r *nobodyRef) isTerminated() bool              { return false }
func (r *nobodyRef) getParent() ActorRef             { return r }
func (r *nobodyRef) getChild([]string) ActorRef      { return r }

// emptyRef stands for a path no actor lives at. It answers Identify and
// Watch and publishes everything else as dead letters.
type emptyRef struct {
	refBase
	system *ActorSystem
}

func newEmptyRef(system *ActorSystem, path *address.Path) *emptyRef {
	return &emptyRef{refBase: refBase{path: path}, system: system}
}

func (r *emptyRef) Tell(message any, sender ActorRef) {
	if !r.specialHandle(message, sender) {
		r.system.publishDeadLetter(message, sender, r)
	}
}

func (r *emptyRef) sendSystemMessage(message systemMessage) {
	r.Tell(message, NoSender)
}

func (r *emptyRef) specialHandle(message any, sender ActorRef) bool {
	return specialHandle(r.system, r, message, sender)
}

func (r *emptyRef) stop()                      {}
func (r *emptyRef) isTerminated() bool         { return true }
func (r *emptyRef) getParent() ActorRef        { return Nobody }
func (r *emptyRef) getChild([]string) ActorRef { return Nobody }

// specialHandle implements the answers of a reference no actor lives at
func specialHandle(system *ActorSystem, self ActorRef, message any, sender ActorRef) bool {
	switch m := message.(type) {
	case *watch:
		if sameRef(m.watchee, self) && !sameRef(m.watcher, self) {
			m.watcher.sendSystemMessage(&deathWatchNotification{actor: m.watchee})
		}
		return true
	case *unwatch:
		return true
	case Identify:
		if sender != nil {
			sender.Tell(ActorIdentity{MessageID: m.MessageID}, self)
		}
		return true
	case ActorSelectionMessage:
		if identify, ok := m.Message.(Identify); ok {
			if !m.WildcardFanOut && sender != nil {
				sender.Tell(ActorIdentity{MessageID: identify.MessageID}, self)
			}
			return true
		}
		system.publishDeadLetter(m.Message, sender, self)
		return true
	default:
		return false
	}
}

// deadLettersRef publishes the messages it receives as DeadLetter
type deadLettersRef struct {
	refBase
	system *ActorSystem
}

func (r *deadLettersRef) Tell(message any, sender ActorRef) {
	switch m := message.(type) {
	case nil:
	case DeadLetter:
		if !r.specialHandle(m.Message, m.Sender) {
			r.system.deadLetterReceived(m)
		}
	default:
		if !r.specialHandle(message, sender) {
			r.system.publishDeadLetter(message, sender, r)
		}
	}
}

// specialHandle answers every Watch whose watchee is not the dead letters
// reference itself, since the watchee is known to be gone.
func (r *deadLettersRef) specialHandle(message any, sender ActorRef) bool {
	if m, ok := message.(*watch); ok {
		if !sameRef(m.watchee, r) && !sameRef(m.watcher, r) {
			m.watcher.sendSystemMessage(&deathWatchNotification{actor: m.watchee})
		}
		return true
	}
	return specialHandle(r.system, r, message, sender)
}

func (r *deadLettersRef) sendSystemMessage(message systemMessage) {
	r.Tell(message, NoSender)
}

// deliver publishes a message that could not reach recipient
func (r *deadLettersRef) deliver(message any, sender, recipient ActorRef) {
	r.Tell(DeadLetter{Message: message, Sender: sender, Recipient: recipient}, sender)
}

func (r *deadLettersRef) stop()                      {}
func (r *deadLettersRef) isTerminated() bool         { return false }
func (r *deadLettersRef) getParent() ActorRef        { return Nobody }
func (r *deadLettersRef) getChild([]string) ActorRef { return Nobody }

// promiseRef receives the single reply of an Ask
type promiseRef struct {
	refBase
	system    *ActorSystem
	result    chan Envelope
	completed *atomic.Bool

	mu       sync.Mutex
	watchers []ActorRef
}

func newPromiseRef(system *ActorSystem, path *address.Path) *promiseRef {
	return &promiseRef{
		refBase:   refBase{path: path},
		system:    system,
		result:    make(chan Envelope, 1),
		completed: atomic.NewBool(false),
	}
}

func (r *promiseRef) Tell(message any, sender ActorRef) {
	if !r.completed.CompareAndSwap(false, true) {
		r.system.publishDeadLetter(message, sender, r)
		return
	}
	r.result <- Envelope{Message: message, Sender: sender}
	r.notifyWatchers()
}

func (r *promiseRef) sendSystemMessage(message systemMessage) {
	switch m := message.(type) {
	case *watch:
		if !sameRef(m.watchee, r) || sameRef(m.watcher, r) {
			return
		}
		r.mu.Lock()
		if !r.completed.Load() {
			r.watchers = append(r.watchers, m.watcher)
			r.mu.Unlock()
			return
		}
		r.mu.Unlock()
		m.watcher.sendSystemMessage(&deathWatchNotification{actor: r, existenceConfirmed: true})
	case *unwatch:
		r.mu.Lock()
		for i, watcher := range r.watchers {
			if sameRef(watcher, m.watcher) {
				r.watchers = append(r.watchers[:i], r.watchers[i+1:]...)
				break
			}
		}
		r.mu.Unlock()
	case *terminate:
		r.stop()
	}
}

// stop completes the promise without a reply
func (r *promiseRef) stop() {
	if r.completed.CompareAndSwap(false, true) {
		r.notifyWatchers()
	}
}

func (r *promiseRef) notifyWatchers() {
	r.mu.Lock()
	watchers := r.watchers
	r.watchers = nil
	r.mu.Unlock()
	for _, watcher := range watchers {
		watcher.sendSystemMessage(&deathWatchNotification{actor: r, existenceConfirmed: true})
	}
}

func (r *promiseRef) isTerminated() bool         { return r.completed.Load() }
func (r *promiseRef) getParent() ActorRef        { return Nobody }
func (r *promiseRef) getChild([]string) ActorRef { return Nobody }

// bubbleRef supervises the root guardian. It records the failure that
// reached the top of the tree and completes the system termination once
// the root guardian stopped.
type bubbleRef struct {
	refBase
	system *ActorSystem
}

func (r *bubbleRef) Tell(message any, sender ActorRef) {
	r.system.logger.Errorf("%s received unexpected message %T", r.path, message)
}

func (r *bubbleRef) sendSystemMessage(message systemMessage) {
	switch m := message.(type) {
	case *failed:
		r.system.recordTerminationCause(m.cause)
		r.system.logger.Errorf("Root guardian failed with %v. Shutting down the actor system", m.cause)
		m.child.stop()
	case *deathWatchNotification:
		if sameRef(m.actor, r.system.rootGuardian) {
			r.system.markTerminated()
		}
	case *supervise, *watch, *unwatch:
	default:
		r.system.logger.Errorf("%s received unexpected system message %T", r.path, message)
	}
}

func (r *bubbleRef) stop()                      {}
func (r *bubbleRef) isTerminated() bool         { return false }
func (r *bubbleRef) getParent() ActorRef        { return r }
func (r *bubbleRef) getChild([]string) ActorRef { return Nobody }
