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
	"fmt"
	"time"

	"github.com/tochemey/actorcell/errors"
	"github.com/tochemey/actorcell/log"
)

// ActorContext gives an actor access to its cell: its identity, its children,
// its watches and its behaviors.
//
// An ActorContext is only valid from within the hooks and the Receive of the
// actor it belongs to. Its methods are not safe for concurrent use.
type ActorContext struct {
	cell *Cell
}

// Context returns the actor system context
func (ctx *ActorContext) Context() context.Context {
	return ctx.cell.system.ctx
}

// Self returns the reference of the actor
func (ctx *ActorContext) Self() *LocalActorRef {
	return ctx.cell.self
}

// Parent returns the reference of the actor supervisor
func (ctx *ActorContext) Parent() ActorRef {
	return ctx.cell.parent
}

// ActorSystem returns the system hosting the actor
func (ctx *ActorContext) ActorSystem() *ActorSystem {
	return ctx.cell.system
}

// Logger returns the actor logger
func (ctx *ActorContext) Logger() log.Logger {
	return ctx.cell.logger
}

// ActorOf creates a child actor. An empty name creates an anonymous child
// whose name starts with '$'.
func (ctx *ActorContext) ActorOf(props *Props, name string) (*LocalActorRef, error) {
	return ctx.cell.actorOf(props, name)
}

// Children returns the live children of the actor
func (ctx *ActorContext) Children() []ActorRef {
	return ctx.cell.children().refs()
}

// Child returns the child with the given name or Nobody
func (ctx *ActorContext) Child(name string) ActorRef {
	return ctx.cell.getSingleChild(name)
}

// Stop stops the given actor. Stopping a child marks it as dying, so that
// a restart or a stop of the actor waits for it.
func (ctx *ActorContext) Stop(ref ActorRef) {
	if ref == nil {
		return
	}
	ctx.cell.stopChild(ref)
}

// Watch registers the actor for the Terminated of subject
func (ctx *ActorContext) Watch(subject ActorRef) error {
	return ctx.cell.watch(subject, nil)
}

// WatchWith registers the actor for the death of subject. The given message
// is delivered instead of Terminated.
func (ctx *ActorContext) WatchWith(subject ActorRef, message any) error {
	if message == nil {
		return errors.NewErrInvalidMessage(fmt.Errorf("nil termination message for %s", subject))
	}
	return ctx.cell.watch(subject, message)
}

// Unwatch cancels a Watch. A Terminated of subject that is already queued
// is not delivered.
func (ctx *ActorContext) Unwatch(subject ActorRef) {
	ctx.cell.unwatch(subject)
}

// SetReceiveTimeout sets the idle duration after which the actor receives
// ReceiveTimeout. A zero duration disables it.
func (ctx *ActorContext) SetReceiveTimeout(timeout time.Duration) {
	ctx.cell.setReceiveTimeout(timeout)
}

// ReceiveTimeout returns the idle duration set with SetReceiveTimeout
func (ctx *ActorContext) ReceiveTimeout() time.Duration {
	return ctx.cell.receiveTimeout
}

// ActorSelection selects the actors matching path. A relative path is
// resolved from the actor itself.
func (ctx *ActorContext) ActorSelection(path string) (*ActorSelection, error) {
	return newActorSelection(ctx.cell.system, ctx.cell.self, path)
}

// Become replaces the current behavior
func (ctx *ActorContext) Become(behavior Behavior) {
	ctx.cell.become(behavior, true)
}

// BecomeStacked pushes a behavior on top of the current one
func (ctx *ActorContext) BecomeStacked(behavior Behavior) {
	ctx.cell.become(behavior, false)
}

// UnBecome restores the Receive of the actor
func (ctx *ActorContext) UnBecome() {
	ctx.cell.resetBehavior()
}

// UnBecomeStacked restores the behavior active before the last BecomeStacked
func (ctx *ActorContext) UnBecomeStacked() {
	ctx.cell.unbecomeStacked()
}

// ReceiveContext is the ActorContext of the message being processed.
// It must not be retained after Receive returns.
type ReceiveContext struct {
	*ActorContext
	envelope Envelope
	err      error
}

func newReceiveContext(cell *Cell, envelope Envelope) *ReceiveContext {
	return &ReceiveContext{
		ActorContext: cell.context,
		envelope:     envelope,
	}
}

// Message returns the message being processed
func (rctx *ReceiveContext) Message() any {
	return rctx.envelope.Message
}

// Sender returns the sender of the message. It is NoSender when the message
// has been sent from outside an actor.
func (rctx *ReceiveContext) Sender() ActorRef {
	return rctx.envelope.Sender
}

// Err reports a failure of the message handling. The actor fails once
// Receive returns and its supervisor decides what happens next.
func (rctx *ReceiveContext) Err(err error) {
	if err != nil {
		rctx.err = err
	}
}

// Response replies to the sender of the message. Replies to NoSender go to
// the dead letters.
func (rctx *ReceiveContext) Response(message any) {
	sender := rctx.envelope.Sender
	if sender == nil {
		rctx.cell.system.deadLetters.deliver(message, rctx.cell.self, NoSender)
		return
	}
	sender.Tell(message, rctx.cell.self)
}

// Tell sends a message with the actor as sender
func (rctx *ReceiveContext) Tell(to ActorRef, message any) {
	to.Tell(message, rctx.cell.self)
}

// Forward sends the message being processed to another actor, keeping its
// original sender
func (rctx *ReceiveContext) Forward(to ActorRef) {
	to.Tell(rctx.envelope.Message, rctx.envelope.Sender)
}

// Unhandled reports that the message is not handled by the current
// behavior. An unhandled Terminated fails the actor with a DeathPactError.
func (rctx *ReceiveContext) Unhandled() {
	message := rctx.envelope.Message
	if terminated, ok := message.(Terminated); ok {
		rctx.err = errors.NewDeathPactError(terminated.Actor.Path().String())
		return
	}

	if rctx.cell.system.config.Debug.Unhandled {
		rctx.cell.logger.Debugf("unhandled message %T from %v", message, rctx.envelope.Sender)
	}
	rctx.cell.system.publish(UnhandledTopic, UnhandledMessage{
		Message:   message,
		Sender:    rctx.envelope.Sender,
		Recipient: rctx.cell.self,
	})
}
