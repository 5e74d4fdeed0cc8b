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

package supervisor

import (
	"time"

	"github.com/tochemey/actorcell/errors"
	"github.com/tochemey/actorcell/log"
)

// Kind identifies a supervision strategy
type Kind int

const (
	// OneForOneKind applies the directive to the failing child only
	OneForOneKind Kind = iota
	// AllForOneKind applies the directive to every child of the supervisor
	AllForOneKind
)

// String returns the string representation of the strategy kind
func (k Kind) String() string {
	switch k {
	case OneForOneKind:
		return "OneForOne"
	case AllForOneKind:
		return "AllForOne"
	default:
		return ""
	}
}

// Context is the capability a strategy needs from the supervising actor
type Context interface {
	// StopChild stops the given child
	StopChild(child Child)
	// Logger returns the supervisor logger
	Logger() log.Logger
	// Self returns the supervisor path
	Self() string
}

// Strategy decides and applies the reaction to a child failure
type Strategy interface {
	// Kind returns the strategy kind
	Kind() Kind
	// Decider returns the decider of the strategy
	Decider() Decider
	// MaxRetries returns the maximum number of restarts within the window. A negative value means unlimited.
	MaxRetries() int
	// Within returns the restart window. A zero value means no window.
	Within() time.Duration
	// HandleFailure applies the directive decided for the cause. It returns
	// false when the failure must be escalated to the supervisor's own parent.
	HandleFailure(ctx Context, child Child, cause error, stats *ChildRestartStats, children []*ChildRestartStats) bool
	// HandleChildTerminated is called when a child has been removed
	HandleChildTerminated(ctx Context, child Child, children []Child)
}

// Option configures a strategy
type Option interface {
	// Apply sets the Option value of a strategy.
	Apply(s *strategy)
}

var _ Option = OptionFunc(nil)

// OptionFunc implements the Option interface.
type OptionFunc func(s *strategy)

// Apply applies the strategy option
func (f OptionFunc) Apply(s *strategy) {
	f(s)
}

// WithRetry bounds the restarts of a child:
//
//   - maxRetries: the number of restarts allowed within the window. Zero
//     forbids restarts; a negative value means unlimited.
//   - within: the window in which restarts are counted. Zero means the
//     restarts are counted over the whole life of the child.
//
// A child whose restart is denied is stopped.
func WithRetry(maxRetries int, within time.Duration) Option {
	return OptionFunc(func(s *strategy) {
		s.maxRetries = maxRetries
		s.within = within
	})
}

// WithDirective sets the mapping between an error type and a given directive
func WithDirective(err error, directive Directive) Option {
	return OptionFunc(func(s *strategy) {
		s.rules[errorType(err)] = directive
	})
}

// WithAnyErrorDirective sets the directive to apply to any error
// that has no specific directive.
func WithAnyErrorDirective(directive Directive) Option {
	return OptionFunc(func(s *strategy) {
		s.rules[errorType(new(errors.AnyError))] = directive
	})
}

// WithDecider sets the decider used when no error type rule matches.
// It defaults to DefaultDecider.
func WithDecider(decider Decider) Option {
	return OptionFunc(func(s *strategy) {
		s.fallback = decider
	})
}

// WithLoggingEnabled toggles the logging of failures
func WithLoggingEnabled(enabled bool) Option {
	return OptionFunc(func(s *strategy) {
		s.loggingEnabled = enabled
	})
}

// strategy carries what both strategies share
type strategy struct {
	maxRetries     int
	within         time.Duration
	rules          map[string]Directive
	fallback       Decider
	decider        Decider
	loggingEnabled bool
}

func newStrategy(opts ...Option) strategy {
	s := strategy{
		maxRetries:     -1,
		rules:          make(map[string]Directive),
		fallback:       DefaultDecider,
		loggingEnabled: true,
	}

	for _, opt := range opts {
		opt.Apply(&s)
	}

	s.decider = &ruleDecider{rules: s.rules, fallback: s.fallback}
	return s
}

// Decider returns the decider of the strategy
func (s *strategy) Decider() Decider {
	return s.decider
}

// MaxRetries returns the maximum number of retries
func (s *strategy) MaxRetries() int {
	return s.maxRetries
}

// Within returns the retries window
func (s *strategy) Within() time.Duration {
	return s.within
}

func (s *strategy) decide(cause error) Directive {
	if errors.IsFatal(cause) {
		return EscalateDirective
	}
	return s.decider.Decide(cause)
}

func (s *strategy) logFailure(ctx Context, child Child, cause error, directive Directive) {
	if !s.loggingEnabled {
		return
	}

	logger := ctx.Logger()
	switch directive {
	case ResumeDirective:
		logger.Warnf("Actor %s failed with %v. Supervisor %s resumes it.", child.String(), cause, ctx.Self())
	case EscalateDirective:
	default:
		logger.Errorf("Actor %s failed with %v. Supervisor %s decided %s.", child.String(), cause, ctx.Self(), directive)
	}
}

// handleFailure is the algorithm shared by the strategies. process applies
// restart and stop to the child or to its siblings.
func (s *strategy) handleFailure(ctx Context, child Child, cause error, process func(restart bool)) bool {
	directive := s.decide(cause)
	s.logFailure(ctx, child, cause, directive)

	switch directive {
	case ResumeDirective:
		child.Resume(cause)
		return true
	case RestartDirective:
		process(true)
		return true
	case StopDirective:
		process(false)
		return true
	default:
		return false
	}
}

// restartChild restarts the given child. suspendFirst is required for
// siblings that are not already suspended by their own failure.
func restartChild(child Child, cause error, suspendFirst bool) {
	if suspendFirst {
		child.Suspend()
	}
	child.Restart(cause)
}

// OneForOne applies the decided directive to the failing child only
type OneForOne struct {
	strategy
}

var _ Strategy = (*OneForOne)(nil)

// NewOneForOne creates a OneForOne strategy. Without options it restarts
// on any failure (see DefaultDecider) with unlimited retries.
func NewOneForOne(opts ...Option) *OneForOne {
	return &OneForOne{strategy: newStrategy(opts...)}
}

// Kind returns OneForOneKind
func (s *OneForOne) Kind() Kind {
	return OneForOneKind
}

// HandleFailure implements Strategy
func (s *OneForOne) HandleFailure(ctx Context, child Child, cause error, stats *ChildRestartStats, children []*ChildRestartStats) bool {
	return s.handleFailure(ctx, child, cause, func(restart bool) {
		s.ProcessFailure(ctx, restart, child, cause, stats, children)
	})
}

// ProcessFailure restarts the child when the restart is permitted and stops it otherwise
func (s *OneForOne) ProcessFailure(ctx Context, restart bool, child Child, cause error, stats *ChildRestartStats, _ []*ChildRestartStats) {
	if restart && stats.RequestRestartPermission(s.maxRetries, s.within) {
		restartChild(child, cause, false)
		return
	}
	ctx.StopChild(child)
}

// HandleChildTerminated implements Strategy
func (s *OneForOne) HandleChildTerminated(Context, Child, []Child) {}

// AllForOne applies the decided directive to every child of the supervisor
type AllForOne struct {
	strategy
}

var _ Strategy = (*AllForOne)(nil)

// NewAllForOne creates an AllForOne strategy
func NewAllForOne(opts ...Option) *AllForOne {
	return &AllForOne{strategy: newStrategy(opts...)}
}

// Kind returns AllForOneKind
func (s *AllForOne) Kind() Kind {
	return AllForOneKind
}

// HandleFailure implements Strategy
func (s *AllForOne) HandleFailure(ctx Context, child Child, cause error, stats *ChildRestartStats, children []*ChildRestartStats) bool {
	return s.handleFailure(ctx, child, cause, func(restart bool) {
		s.ProcessFailure(ctx, restart, child, cause, stats, children)
	})
}

// ProcessFailure restarts every child when each of them is permitted to
// restart, and stops them all otherwise. The failing child is already
// suspended and is restarted without another suspend.
func (s *AllForOne) ProcessFailure(ctx Context, restart bool, _ Child, cause error, stats *ChildRestartStats, children []*ChildRestartStats) {
	if len(children) == 0 {
		return
	}

	if restart && s.allPermitted(children) {
		for _, sibling := range children {
			restartChild(sibling.Child(), cause, sibling != stats)
		}
		return
	}

	for _, sibling := range children {
		ctx.StopChild(sibling.Child())
	}
}

func (s *AllForOne) allPermitted(children []*ChildRestartStats) bool {
	for _, sibling := range children {
		if !sibling.RequestRestartPermission(s.maxRetries, s.within) {
			return false
		}
	}
	return true
}

// HandleChildTerminated implements Strategy
func (s *AllForOne) HandleChildTerminated(Context, Child, []Child) {}

// NewStoppingStrategy returns a OneForOne strategy that stops every failing child
func NewStoppingStrategy() *OneForOne {
	return NewOneForOne(WithDecider(StoppingDecider))
}
