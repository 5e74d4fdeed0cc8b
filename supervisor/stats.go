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

import "time"

// Child is the capability a supervisor needs from a supervised actor
type Child interface {
	// Suspend stops the child from processing messages
	Suspend()
	// Resume lets the child process messages again. A non-nil cause means
	// the child is resumed after its own failure.
	Resume(cause error)
	// Restart replaces the child instance after the given failure
	Restart(cause error)
	// String returns the child path
	String() string
}

// ChildRestartStats holds the restart bookkeeping of a live child.
// It is only mutated by the supervising actor.
type ChildRestartStats struct {
	child            Child
	uid              int64
	retriesCount     int
	windowStartNanos int64
	clock            func() time.Time
}

// NewChildRestartStats creates the stats of a child incarnation
func NewChildRestartStats(child Child, uid int64) *ChildRestartStats {
	return &ChildRestartStats{
		child: child,
		uid:   uid,
		clock: time.Now,
	}
}

// Child returns the supervised child
func (s *ChildRestartStats) Child() Child {
	return s.child
}

// UID returns the incarnation id of the supervised child
func (s *ChildRestartStats) UID() int64 {
	return s.uid
}

// RetriesCount returns the number of restarts counted in the current window
func (s *ChildRestartStats) RetriesCount() int {
	return s.retriesCount
}

// RequestRestartPermission records a restart request and tells whether it is allowed.
//
//   - maxRetries == 0 denies every restart.
//   - maxRetries < 0 means unlimited retries, bounded only by the window when one is set.
//   - window <= 0 means the retries are counted for the whole life of the child.
func (s *ChildRestartStats) RequestRestartPermission(maxRetries int, window time.Duration) bool {
	if maxRetries == 0 {
		return false
	}

	retriesDefined := maxRetries > 0
	windowDefined := window > 0

	switch {
	case retriesDefined && !windowDefined:
		s.retriesCount++
		return s.retriesCount <= maxRetries
	case windowDefined:
		if !retriesDefined {
			maxRetries = 1
		}
		return s.retriesInWindowOkay(maxRetries, window)
	default:
		return true
	}
}

// retriesInWindowOkay keeps a window open from the first restart. Restarts
// are counted while the window is open, and the scheme starts over once it
// has elapsed.
func (s *ChildRestartStats) retriesInWindowOkay(retries int, window time.Duration) bool {
	retriesDone := s.retriesCount + 1
	now := s.clock().UnixNano()

	if s.windowStartNanos == 0 {
		s.windowStartNanos = now
	}

	if time.Duration(now-s.windowStartNanos) <= window {
		s.retriesCount = retriesDone
		return retriesDone <= retries
	}

	s.retriesCount = 1
	s.windowStartNanos = now
	return true
}
