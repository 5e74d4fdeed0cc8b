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
	stderrors "errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tochemey/actorcell/errors"
	"github.com/tochemey/actorcell/log"
)

type recordingChild struct {
	name     string
	calls    []string
	resumeBy error
}

func (c *recordingChild) Suspend()             { c.calls = append(c.calls, "suspend") }
func (c *recordingChild) Resume(cause error)   { c.calls = append(c.calls, "resume"); c.resumeBy = cause }
func (c *recordingChild) Restart(_ error)      { c.calls = append(c.calls, "restart") }
func (c *recordingChild) String() string       { return c.name }
func (c *recordingChild) stats() *ChildRestartStats {
	return NewChildRestartStats(c, 1)
}

type recordingContext struct {
	stopped []Child
}

func (c *recordingContext) StopChild(child Child) { c.stopped = append(c.stopped, child) }
func (c *recordingContext) Logger() log.Logger    { return log.DiscardLogger }
func (c *recordingContext) Self() string          { return "akka://Sys/user/parent" }

type customError struct{}

func (customError) Error() string { return "custom" }

func TestDirective(t *testing.T) {
	testCases := []struct {
		directive Directive
		expected  string
	}{
		{StopDirective, "Stop"},
		{ResumeDirective, "Resume"},
		{RestartDirective, "Restart"},
		{EscalateDirective, "Escalate"},
		{Directive(-1), ""},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.expected, tc.directive.String())
	}
	assert.Equal(t, "OneForOne", OneForOneKind.String())
	assert.Equal(t, "AllForOne", AllForOneKind.String())
	assert.Empty(t, Kind(9).String())
}

func TestDefaultDecider(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		expected Directive
	}{
		{"initialization", errors.NewActorInitializationError("a", "failed", nil), StopDirective},
		{"killed", errors.NewActorKilledError("Kill"), StopDirective},
		{"death pact", errors.NewDeathPactError("b"), StopDirective},
		{"wrapped in panic", errors.NewPanicError(errors.NewActorKilledError("Kill")), StopDirective},
		{"any other", stderrors.New("boom"), RestartDirective},
		{"panic", errors.NewPanicError(stderrors.New("boom")), RestartDirective},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Exactly(t, tc.expected, DefaultDecider.Decide(tc.err))
		})
	}
	assert.Equal(t, StopDirective, StoppingDecider.Decide(stderrors.New("x")))
	assert.Equal(t, EscalateDirective, EscalatingDecider.Decide(stderrors.New("x")))
}

func TestRuleDecider(t *testing.T) {
	t.Run("With error type rule", func(t *testing.T) {
		s := NewOneForOne(WithDirective(&customError{}, ResumeDirective))
		assert.Equal(t, ResumeDirective, s.Decider().Decide(&customError{}))
		assert.Equal(t, ResumeDirective, s.Decider().Decide(customError{}))
		assert.Equal(t, ResumeDirective, s.Decider().Decide(errors.NewPanicError(&customError{})))
		assert.Equal(t, ResumeDirective, s.Decider().Decide(stderrors.Join(stderrors.New("x"), &customError{})))
		assert.Equal(t, RestartDirective, s.Decider().Decide(stderrors.New("boom")))
	})
	t.Run("With any error rule", func(t *testing.T) {
		s := NewOneForOne(
			WithDirective(&customError{}, RestartDirective),
			WithAnyErrorDirective(StopDirective))
		assert.Equal(t, RestartDirective, s.Decider().Decide(fmt.Errorf("wrapped: %w", &customError{})))
		assert.Equal(t, StopDirective, s.Decider().Decide(stderrors.New("boom")))
	})
	t.Run("With custom fallback decider", func(t *testing.T) {
		s := NewAllForOne(WithDecider(DeciderFunc(func(error) Directive { return EscalateDirective })))
		assert.Equal(t, EscalateDirective, s.Decider().Decide(stderrors.New("boom")))
		assert.Equal(t, AllForOneKind, s.Kind())
	})
	t.Run("With defaults", func(t *testing.T) {
		s := NewOneForOne()
		assert.Equal(t, -1, s.MaxRetries())
		assert.Zero(t, s.Within())
		assert.Equal(t, OneForOneKind, s.Kind())

		s = NewOneForOne(WithRetry(3, time.Second))
		assert.Equal(t, 3, s.MaxRetries())
		assert.Equal(t, time.Second, s.Within())
	})
}

func TestChildRestartStats(t *testing.T) {
	t.Run("With zero retries", func(t *testing.T) {
		stats := NewChildRestartStats(&recordingChild{}, 1)
		assert.False(t, stats.RequestRestartPermission(0, time.Second))
	})
	t.Run("With unlimited retries and no window", func(t *testing.T) {
		stats := NewChildRestartStats(&recordingChild{}, 1)
		for range 100 {
			assert.True(t, stats.RequestRestartPermission(-1, 0))
		}
	})
	t.Run("With retries and no window", func(t *testing.T) {
		stats := NewChildRestartStats(&recordingChild{}, 1)
		assert.True(t, stats.RequestRestartPermission(2, 0))
		assert.True(t, stats.RequestRestartPermission(2, 0))
		assert.False(t, stats.RequestRestartPermission(2, 0))
		assert.Equal(t, 3, stats.RetriesCount())
	})
	t.Run("With retries within window", func(t *testing.T) {
		now := time.Now()
		stats := NewChildRestartStats(&recordingChild{}, 1)
		stats.clock = func() time.Time { return now }

		assert.True(t, stats.RequestRestartPermission(2, time.Second))
		now = now.Add(100 * time.Millisecond)
		assert.True(t, stats.RequestRestartPermission(2, time.Second))
		now = now.Add(100 * time.Millisecond)
		assert.False(t, stats.RequestRestartPermission(2, time.Second))
	})
	t.Run("With window elapsed", func(t *testing.T) {
		now := time.Now()
		stats := NewChildRestartStats(&recordingChild{}, 1)
		stats.clock = func() time.Time { return now }

		assert.True(t, stats.RequestRestartPermission(1, time.Second))
		now = now.Add(500 * time.Millisecond)
		assert.False(t, stats.RequestRestartPermission(1, time.Second))
		now = now.Add(2 * time.Second)
		assert.True(t, stats.RequestRestartPermission(1, time.Second))
		assert.Equal(t, 1, stats.RetriesCount())
	})
	t.Run("With unlimited retries within window", func(t *testing.T) {
		now := time.Now()
		stats := NewChildRestartStats(&recordingChild{}, 1)
		stats.clock = func() time.Time { return now }
		assert.True(t, stats.RequestRestartPermission(-1, time.Second))
		assert.False(t, stats.RequestRestartPermission(-1, time.Second))
	})
}

func TestOneForOne(t *testing.T) {
	t.Run("With restart", func(t *testing.T) {
		child := &recordingChild{name: "a"}
		ctx := &recordingContext{}
		stats := child.stats()
		handled := NewOneForOne().HandleFailure(ctx, child, stderrors.New("boom"), stats, []*ChildRestartStats{stats})
		require.True(t, handled)
		assert.Equal(t, []string{"restart"}, child.calls)
		assert.Empty(t, ctx.stopped)
	})
	t.Run("With restart budget exhausted", func(t *testing.T) {
		child := &recordingChild{name: "a"}
		ctx := &recordingContext{}
		stats := child.stats()
		s := NewOneForOne(WithRetry(2, time.Second))
		for range 4 {
			require.True(t, s.HandleFailure(ctx, child, stderrors.New("boom"), stats, []*ChildRestartStats{stats}))
		}
		assert.Equal(t, []string{"restart", "restart"}, child.calls)
		require.Len(t, ctx.stopped, 2)
		assert.Same(t, child, ctx.stopped[0])
	})
	t.Run("With resume", func(t *testing.T) {
		child := &recordingChild{name: "a"}
		ctx := &recordingContext{}
		cause := &customError{}
		s := NewOneForOne(WithDirective(&customError{}, ResumeDirective))
		require.True(t, s.HandleFailure(ctx, child, cause, child.stats(), nil))
		assert.Equal(t, []string{"resume"}, child.calls)
		assert.Same(t, cause, child.resumeBy)
	})
	t.Run("With stop", func(t *testing.T) {
		child := &recordingChild{name: "a"}
		ctx := &recordingContext{}
		require.True(t, NewStoppingStrategy().HandleFailure(ctx, child, stderrors.New("boom"), child.stats(), nil))
		assert.Empty(t, child.calls)
		assert.Len(t, ctx.stopped, 1)
	})
	t.Run("With escalate", func(t *testing.T) {
		child := &recordingChild{name: "a"}
		ctx := &recordingContext{}
		s := NewOneForOne(WithAnyErrorDirective(EscalateDirective))
		assert.False(t, s.HandleFailure(ctx, child, stderrors.New("boom"), child.stats(), nil))
		assert.Empty(t, child.calls)
		assert.Empty(t, ctx.stopped)
	})
	t.Run("With fatal failure always escalating", func(t *testing.T) {
		child := &recordingChild{name: "a"}
		ctx := &recordingContext{}
		s := NewOneForOne(WithAnyErrorDirective(ResumeDirective))
		fatal := errors.NewPanicError(errors.NewFatalError(stderrors.New("out of memory")))
		assert.False(t, s.HandleFailure(ctx, child, fatal, child.stats(), nil))
		assert.Empty(t, child.calls)
	})
}

func TestAllForOne(t *testing.T) {
	t.Run("With asymmetric suspend on restart", func(t *testing.T) {
		failing := &recordingChild{name: "a"}
		sibling1 := &recordingChild{name: "b"}
		sibling2 := &recordingChild{name: "c"}
		failingStats := failing.stats()
		children := []*ChildRestartStats{failingStats, sibling1.stats(), sibling2.stats()}

		ctx := &recordingContext{}
		require.True(t, NewAllForOne().HandleFailure(ctx, failing, stderrors.New("boom"), failingStats, children))

		assert.Equal(t, []string{"restart"}, failing.calls)
		assert.Equal(t, []string{"suspend", "restart"}, sibling1.calls)
		assert.Equal(t, []string{"suspend", "restart"}, sibling2.calls)
		assert.Empty(t, ctx.stopped)
	})
	t.Run("With all or nothing restart permission", func(t *testing.T) {
		failing := &recordingChild{name: "a"}
		sibling := &recordingChild{name: "b"}
		failingStats := failing.stats()
		siblingStats := sibling.stats()
		// the sibling already used its single restart
		require.True(t, siblingStats.RequestRestartPermission(1, 0))

		ctx := &recordingContext{}
		children := []*ChildRestartStats{failingStats, siblingStats}
		require.True(t, NewAllForOne(WithRetry(1, 0)).HandleFailure(ctx, failing, stderrors.New("boom"), failingStats, children))

		assert.Empty(t, failing.calls)
		assert.Empty(t, sibling.calls)
		require.Len(t, ctx.stopped, 2)
		assert.Same(t, failing, ctx.stopped[0])
		assert.Same(t, sibling, ctx.stopped[1])
	})
	t.Run("With stop applied to every child", func(t *testing.T) {
		failing := &recordingChild{name: "a"}
		sibling := &recordingChild{name: "b"}
		failingStats := failing.stats()
		ctx := &recordingContext{}
		s := NewAllForOne(WithAnyErrorDirective(StopDirective))
		require.True(t, s.HandleFailure(ctx, failing, stderrors.New("boom"), failingStats, []*ChildRestartStats{failingStats, sibling.stats()}))
		assert.Len(t, ctx.stopped, 2)
	})
	t.Run("With resume only for the failing child", func(t *testing.T) {
		failing := &recordingChild{name: "a"}
		sibling := &recordingChild{name: "b"}
		failingStats := failing.stats()
		ctx := &recordingContext{}
		s := NewAllForOne(WithAnyErrorDirective(ResumeDirective))
		require.True(t, s.HandleFailure(ctx, failing, stderrors.New("boom"), failingStats, []*ChildRestartStats{failingStats, sibling.stats()}))
		assert.Equal(t, []string{"resume"}, failing.calls)
		assert.Empty(t, sibling.calls)
	})
	t.Run("With no children", func(t *testing.T) {
		failing := &recordingChild{name: "a"}
		ctx := &recordingContext{}
		NewAllForOne().ProcessFailure(ctx, true, failing, stderrors.New("boom"), failing.stats(), nil)
		assert.Empty(t, failing.calls)
		assert.Empty(t, ctx.stopped)
	})
}
