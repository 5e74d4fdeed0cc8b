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
	"go.uber.org/atomic"

	"github.com/tochemey/actorcell/address"
)

// Envelope wraps a user message with its sender
type Envelope struct {
	Message any
	Sender  ActorRef
}

// systemMessage is the sealed set of control messages processed by a cell
// ahead of its user messages. An instance can only be enqueued once.
type systemMessage interface {
	meta() *systemMeta
}

type systemMeta struct {
	enqueued atomic.Bool
}

func (m *systemMeta) meta() *systemMeta { return m }

// markEnqueued returns false when the message has already been enqueued
func (m *systemMeta) markEnqueued() bool {
	return m.enqueued.CompareAndSwap(false, true)
}

// stashWhenFailed is implemented by the system messages held while the cell is suspended
type stashWhenFailed interface {
	stashWhenFailed()
}

// stashWhenWaitingForChildren is implemented by the system messages held while
// the cell waits for its children to stop before a create or a restart
type stashWhenWaitingForChildren interface {
	stashWhenWaitingForChildren()
}

type create struct {
	systemMeta
	failure error
}

type recreate struct {
	systemMeta
	cause error
}

func (*recreate) stashWhenWaitingForChildren() {}

type suspend struct {
	systemMeta
}

func (*suspend) stashWhenWaitingForChildren() {}

type resume struct {
	systemMeta
	causedByFailure error
}

func (*resume) stashWhenWaitingForChildren() {}

type terminate struct {
	systemMeta
}

type supervise struct {
	systemMeta
	child ActorRef
}

type watch struct {
	systemMeta
	watchee ActorRef
	watcher ActorRef
}

type unwatch struct {
	systemMeta
	watchee ActorRef
	watcher ActorRef
}

type failed struct {
	systemMeta
	child ActorRef
	cause error
	uid   int64
}

func (*failed) stashWhenFailed()             {}
func (*failed) stashWhenWaitingForChildren() {}

type deathWatchNotification struct {
	systemMeta
	actor              ActorRef
	existenceConfirmed bool
	addressTerminated  bool
}

// autoReceived marks the messages handled by the cell itself
type autoReceived interface {
	autoReceived()
}

// NotInfluenceReceiveTimeout marks messages that do not reset the receive timeout
type NotInfluenceReceiveTimeout interface {
	notInfluenceReceiveTimeout()
}

// PoisonPill stops the actor once the messages queued before it are processed
type PoisonPill struct{}

func (PoisonPill) autoReceived() {}

// Kill makes the actor fail with an ActorKilledError
type Kill struct{}

func (Kill) autoReceived() {}

// Identify asks an actor, or an actor selection, for its reference.
// The answer is an ActorIdentity carrying the same MessageID.
type Identify struct {
	MessageID any
}

func (Identify) autoReceived() {}

// ActorIdentity answers Identify. Ref is nil when no actor matched.
type ActorIdentity struct {
	MessageID any
	Ref       ActorRef
}

// Terminated is delivered to a watcher when the watched actor stopped
type Terminated struct {
	// Actor is the stopped actor
	Actor ActorRef
	// ExistenceConfirmed is false when the watched actor did not exist at watch time
	ExistenceConfirmed bool
	// AddressTerminated is true when the notification is derived from an AddressTerminated
	AddressTerminated bool
}

func (Terminated) autoReceived() {}

// AddressTerminated tells that every actor on the given address is gone
type AddressTerminated struct {
	Address *address.Address
}

func (AddressTerminated) autoReceived()               {}
func (AddressTerminated) notInfluenceReceiveTimeout() {}

// ActorSelectionMessage routes a message down the actor tree along the
// selection elements
type ActorSelectionMessage struct {
	Message  any
	Elements []SelectionElement
	// WildcardFanOut is set once a pattern matched more than one actor
	WildcardFanOut bool
}

func (ActorSelectionMessage) autoReceived() {}

// ReceiveTimeout is sent to an actor that received no message for the
// duration set with ActorContext.SetReceiveTimeout
type ReceiveTimeout struct{}

func (ReceiveTimeout) notInfluenceReceiveTimeout() {}

// DeadLetter is published when a message cannot be delivered
type DeadLetter struct {
	Message   any
	Sender    ActorRef
	Recipient ActorRef
}

// UnhandledMessage is published when an actor does not handle a message
type UnhandledMessage struct {
	Message   any
	Sender    ActorRef
	Recipient ActorRef
}

const (
	// DeadLettersTopic is the event stream topic of DeadLetter
	DeadLettersTopic = "topic.deadletters"
	// UnhandledTopic is the event stream topic of UnhandledMessage
	UnhandledTopic = "topic.unhandled"
	// EventsTopic is the event stream topic of the lifecycle events
	EventsTopic = "topic.events"
)
