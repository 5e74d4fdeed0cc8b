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

	"github.com/tochemey/actorcell/config"
	"github.com/tochemey/actorcell/supervisor"
)

// useSystemMailbox means the mailbox kind follows the system configuration
const useSystemMailbox = -1

// Props is the immutable recipe of an actor. A Props can be reused to
// create any number of actors.
type Props struct {
	producer        func() Actor
	strategy        supervisor.Strategy
	mailboxCapacity int
	initMaxRetries  int
	initTimeout     time.Duration
}

// PropsOf creates the Props of the actors built by producer. The producer
// is called for the first instance and again on every restart.
func PropsOf(producer func() Actor, opts ...PropsOption) *Props {
	props := &Props{
		producer:        producer,
		mailboxCapacity: useSystemMailbox,
	}

	for _, opt := range opts {
		opt.Apply(props)
	}
	return props
}

// PropsFromFunc creates the Props of an actor whose Receive is fn
func PropsFromFunc(fn func(ctx *ReceiveContext), opts ...PropsOption) *Props {
	return PropsOf(func() Actor { return FuncActor(fn) }, opts...)
}

func (p *Props) newMessageQueue(systemCapacity int) MessageQueue {
	capacity := p.mailboxCapacity
	if capacity == useSystemMailbox {
		capacity = systemCapacity
	}

	if capacity > 0 {
		return NewBoundedQueue(capacity)
	}
	return NewUnboundedQueue()
}

func (p *Props) initRetries(cfg *config.Config) (int, time.Duration) {
	maxRetries, timeout := cfg.InitMaxRetries, cfg.InitTimeout
	if p.initMaxRetries > 0 {
		maxRetries = p.initMaxRetries
	}
	if p.initTimeout > 0 {
		timeout = p.initTimeout
	}
	return maxRetries, timeout
}

// PropsOption configures a Props
type PropsOption interface {
	// Apply sets the Option value of a Props.
	Apply(props *Props)
}

var _ PropsOption = PropsOptionFunc(nil)

// PropsOptionFunc implements the PropsOption interface.
type PropsOptionFunc func(props *Props)

// Apply applies the Props option
func (f PropsOptionFunc) Apply(props *Props) {
	f(props)
}

// WithStrategy sets the strategy supervising the children of the actor.
// It takes precedence over the strategy provided by the actor itself.
func WithStrategy(strategy supervisor.Strategy) PropsOption {
	return PropsOptionFunc(func(props *Props) {
		props.strategy = strategy
	})
}

// WithBoundedMailbox gives the actor a bounded mailbox. Messages sent to a
// full mailbox go to the dead letters.
func WithBoundedMailbox(capacity int) PropsOption {
	return PropsOptionFunc(func(props *Props) {
		if capacity > 0 {
			props.mailboxCapacity = capacity
		}
	})
}

// WithUnboundedMailbox gives the actor an unbounded mailbox whatever the
// system configuration
func WithUnboundedMailbox() PropsOption {
	return PropsOptionFunc(func(props *Props) {
		props.mailboxCapacity = 0
	})
}

// WithInitRetries sets how many times PreStart is attempted, within the
// given timeout, before the creation fails
func WithInitRetries(maxRetries int, timeout time.Duration) PropsOption {
	return PropsOptionFunc(func(props *Props) {
		props.initMaxRetries = maxRetries
		props.initTimeout = timeout
	})
}
