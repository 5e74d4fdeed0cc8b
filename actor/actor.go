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

// Package actor implements a hierarchical actor runtime. Actors process one
// message at a time, are supervised by their parent and notify their watchers
// when they stop.
package actor

import "github.com/tochemey/actorcell/supervisor"

// Actor defines the user side of an actor.
//
// The lifecycle of an actor instance follows three phases:
//  1. PreStart is called before the first message is processed
//  2. Receive is called for every message
//  3. PostStop is called once after the last message
//
// A panic raised or an error returned by any of these hooks is reported to
// the supervisor. An error returned by PostStop is logged only.
type Actor interface {
	// PreStart is called when the instance is created and, unless PostRestart
	// is implemented, after a restart.
	PreStart(ctx *ActorContext) error
	// Receive handles the messages sent to the actor. A message that is not
	// handled should be reported with ReceiveContext.Unhandled.
	Receive(ctx *ReceiveContext)
	// PostStop is called when the actor stops and, unless PreRestart is
	// implemented, on the failed instance before a restart.
	PostStop(ctx *ActorContext) error
}

// PreRestarter is implemented by actors that need to run custom logic on the
// failed instance before it is replaced. Without it, the actor stops all its
// children and runs PostStop.
type PreRestarter interface {
	PreRestart(ctx *ActorContext, cause error, message any) error
}

// PostRestarter is implemented by actors that need to run custom logic on the
// fresh instance after a restart. Without it, the actor runs PreStart.
type PostRestarter interface {
	PostRestart(ctx *ActorContext, cause error) error
}

// SupervisorStrategyProvider is implemented by actors that supervise their
// children with a specific strategy. Props.WithStrategy takes precedence.
type SupervisorStrategyProvider interface {
	SupervisorStrategy() supervisor.Strategy
}

// Behavior is a message handler that can replace the actor Receive
type Behavior func(ctx *ReceiveContext)

// FuncActor builds an actor out of a receive function
type FuncActor func(ctx *ReceiveContext)

var _ Actor = FuncActor(nil)

// PreStart implements Actor
func (FuncActor) PreStart(*ActorContext) error { return nil }

// Receive implements Actor
func (f FuncActor) Receive(ctx *ReceiveContext) { f(ctx) }

// PostStop implements Actor
func (FuncActor) PostStop(*ActorContext) error { return nil }
