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

package testkit

import (
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/tochemey/actorcell/actor"
	"github.com/tochemey/actorcell/internal/timer"
)

const (
	MessagesQueueMax int           = 1000
	DefaultTimeout   time.Duration = 3 * time.Second
)

// Probe defines the probe interface that helps perform some assertions
// when implementing unit tests with actors
type Probe interface {
	// ExpectMessage asserts that the next message received by the probe equals the expected one
	ExpectMessage(message any)
	// ExpectMessageWithin asserts that the next message received within the duration equals the expected one
	ExpectMessageWithin(duration time.Duration, message any)
	// ExpectNoMessage asserts that no message is received
	ExpectNoMessage()
	// ExpectNoMessageWithin asserts that no message is received within the duration
	ExpectNoMessageWithin(duration time.Duration)
	// ExpectAnyMessage asserts that any message is received
	ExpectAnyMessage() any
	// ExpectAnyMessageWithin asserts that any message is received within the duration
	ExpectAnyMessageWithin(duration time.Duration) any
	// ExpectMessageOfType asserts the next message has the type of the given sample
	ExpectMessageOfType(sample any) any
	// ExpectMessageOfTypeWithin asserts the next message received within the duration has the type of the given sample
	ExpectMessageOfTypeWithin(duration time.Duration, sample any) any
	// ExpectTerminated asserts that the next message is the Terminated of the given actor.
	// The actor must be watched with Watch first.
	ExpectTerminated(ref actor.ActorRef) actor.Terminated
	// Watch makes the probe watch the given actor. It returns once the watch is registered.
	Watch(ref actor.ActorRef)
	// Unwatch makes the probe stop watching the given actor
	Unwatch(ref actor.ActorRef)
	// Send sends a message to the actor to be tested, with the probe as sender
	Send(to actor.ActorRef, message any)
	// Sender returns the sender of last received message.
	Sender() actor.ActorRef
	// Ref returns the reference of the probe actor
	Ref() *actor.LocalActorRef
	// Stop stops the test probe
	Stop()
}

type message struct {
	sender  actor.ActorRef
	payload any
}

// watchRequest is handled by the probe actor itself
type watchRequest struct {
	ref   actor.ActorRef
	watch bool
	done  chan error
}

type probeActor struct {
	messageQueue chan message
}

// ensure that probeActor implements the Actor interface
var _ actor.Actor = &probeActor{}

// PreStart is called before the actor starts
func (x *probeActor) PreStart(*actor.ActorContext) error {
	return nil
}

// Receive handle message received
func (x *probeActor) Receive(ctx *actor.ReceiveContext) {
	switch msg := ctx.Message().(type) {
	case *watchRequest:
		if msg.watch {
			msg.done <- ctx.Watch(msg.ref)
			return
		}
		ctx.Unwatch(msg.ref)
		msg.done <- nil
	default:
		// any message received is pushed to the queue
		x.messageQueue <- message{
			sender:  ctx.Sender(),
			payload: ctx.Message(),
		}
	}
}

// PostStop handles stop routines
func (x *probeActor) PostStop(*actor.ActorContext) error {
	return nil
}

// probe defines the test probe implementation
type probe struct {
	pt *testing.T

	ref            *actor.LocalActorRef
	lastMessage    any
	lastSender     actor.ActorRef
	messageQueue   chan message
	defaultTimeout time.Duration
	timers         *timer.Pool
}

// ensure that probe implements Probe
var _ Probe = (*probe)(nil)

// newProbe creates an instance of probe
func newProbe(actorSystem *actor.ActorSystem, t *testing.T) (*probe, error) {
	msgQueue := make(chan message, MessagesQueueMax)
	props := actor.PropsOf(func() actor.Actor {
		return &probeActor{messageQueue: msgQueue}
	})

	ref, err := actorSystem.ActorOf(props, "probe-"+uuid.NewString())
	if err != nil {
		return nil, err
	}

	return &probe{
		pt:             t,
		ref:            ref,
		messageQueue:   msgQueue,
		defaultTimeout: DefaultTimeout,
		timers:         timer.NewPool(),
	}, nil
}

// ExpectMessageOfType asserts the expectation of a given message type
func (x *probe) ExpectMessageOfType(sample any) any {
	return x.expectMessageOfType(x.defaultTimeout, reflect.TypeOf(sample))
}

// ExpectMessageOfTypeWithin asserts the expectation of a given message type within a time duration
func (x *probe) ExpectMessageOfTypeWithin(duration time.Duration, sample any) any {
	return x.expectMessageOfType(duration, reflect.TypeOf(sample))
}

// ExpectMessage assert message expectation
func (x *probe) ExpectMessage(message any) {
	x.expectMessage(x.defaultTimeout, message)
}

// ExpectMessageWithin expects message within a time duration
func (x *probe) ExpectMessageWithin(duration time.Duration, message any) {
	x.expectMessage(duration, message)
}

// ExpectNoMessage expects no message
func (x *probe) ExpectNoMessage() {
	x.expectNoMessage(x.defaultTimeout)
}

// ExpectNoMessageWithin expects no message within a time duration
func (x *probe) ExpectNoMessageWithin(duration time.Duration) {
	x.expectNoMessage(duration)
}

// ExpectAnyMessage expects any message
func (x *probe) ExpectAnyMessage() any {
	return x.expectAnyMessage(x.defaultTimeout)
}

// ExpectAnyMessageWithin expects any message within a time duration
func (x *probe) ExpectAnyMessageWithin(duration time.Duration) any {
	return x.expectAnyMessage(duration)
}

// ExpectTerminated expects the Terminated message of the given actor
func (x *probe) ExpectTerminated(ref actor.ActorRef) actor.Terminated {
	received := x.expectMessageOfType(x.defaultTimeout, reflect.TypeFor[actor.Terminated]())
	terminated := received.(actor.Terminated)
	require.True(x.pt, terminated.Actor.Equals(ref), fmt.Sprintf("expected Terminated of %v, found %v", ref, terminated.Actor))
	return terminated
}

// Watch watches the given actor
func (x *probe) Watch(ref actor.ActorRef) {
	x.control(&watchRequest{ref: ref, watch: true, done: make(chan error, 1)})
}

// Unwatch stops watching the given actor
func (x *probe) Unwatch(ref actor.ActorRef) {
	x.control(&watchRequest{ref: ref, done: make(chan error, 1)})
}

// Send sends a message to the actor to be tested.
func (x *probe) Send(to actor.ActorRef, message any) {
	require.NotNil(x.pt, to)
	to.Tell(message, x.ref)
}

// Sender returns the last sender
func (x *probe) Sender() actor.ActorRef {
	return x.lastSender
}

// Ref returns the reference of the test actor
func (x *probe) Ref() *actor.LocalActorRef {
	return x.ref
}

// Stop stops the test probe
func (x *probe) Stop() {
	x.ref.Stop()
}

func (x *probe) control(request *watchRequest) {
	x.ref.Tell(request, actor.NoSender)
	timer := x.timers.Get(x.defaultTimeout)
	defer x.timers.Put(timer)

	select {
	case err := <-request.done:
		require.NoError(x.pt, err)
	case <-timer.C:
		require.FailNow(x.pt, fmt.Sprintf("timeout (%v) while watching %v", x.defaultTimeout, request.ref))
	}
}

// receiveOne receives one message within a maximum time duration
func (x *probe) receiveOne(max time.Duration) any {
	timer := x.timers.Get(max)

	select {
	case m, ok := <-x.messageQueue:
		x.timers.Put(timer)
		if !ok {
			return nil
		}

		if m.payload != nil {
			x.lastMessage = m.payload
			x.lastSender = m.sender
		}
		return m.payload
	case <-timer.C:
		x.timers.Put(timer)
		return nil
	}
}

// expectMessage assert the expectation of a message within a maximum time duration
func (x *probe) expectMessage(max time.Duration, message any) {
	received := x.receiveOne(max)
	require.NotNil(x.pt, received, fmt.Sprintf("timeout (%v) during expectMessage while waiting for %v", max, message))
	require.Equal(x.pt, message, received, fmt.Sprintf("expected %v, found %v", message, received))
}

// expectNoMessage asserts that no message is expected
func (x *probe) expectNoMessage(max time.Duration) {
	received := x.receiveOne(max)
	require.Nil(x.pt, received, fmt.Sprintf("received unexpected message %v", received))
}

// expectedAnyMessage asserts that any message is expected
func (x *probe) expectAnyMessage(max time.Duration) any {
	received := x.receiveOne(max)
	require.NotNil(x.pt, received, fmt.Sprintf("timeout (%v) during expectAnyMessage while waiting", max))
	return received
}

// expectMessageOfType asserts that a message of a given type is expected within a maximum time duration
func (x *probe) expectMessageOfType(max time.Duration, messageType reflect.Type) any {
	received := x.receiveOne(max)
	require.NotNil(x.pt, received, fmt.Sprintf("timeout (%v) during expectMessageOfType while waiting for %v", max, messageType))
	require.Equal(x.pt, messageType, reflect.TypeOf(received), fmt.Sprintf("expected %v, found %T", messageType, received))
	return received
}
