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

// Package supervisor implements the supervision strategies a parent actor
// applies when one of its children fails.
package supervisor

// Directive defines the supervisor directive
//
// It represents the action that a supervisor takes when a child actor fails
// while processing a message or running a lifecycle hook:
//
//   - StopDirective: stop the failing actor.
//   - ResumeDirective: keep the failing actor and its state, and continue with the next message.
//   - RestartDirective: replace the failing actor instance with a fresh one.
//   - EscalateDirective: fail the supervisor itself and let its own parent decide.
type Directive int

const (
	// StopDirective indicates that when an actor fails, the supervisor should immediately stop
	// the actor. This directive is typically used when a failure is deemed irrecoverable
	// or when the actor's state cannot be safely resumed.
	StopDirective Directive = iota
	// ResumeDirective indicates that when an actor fails, the supervisor should resume the actor's
	// operation without restarting it. This directive is used when the failure is transient and the
	// actor can continue processing messages without a state reset.
	ResumeDirective
	// RestartDirective indicates that when an actor fails, the supervisor should restart the actor.
	// Restarting involves stopping the current instance and creating a new one, effectively resetting
	// the actor's internal state.
	RestartDirective
	// EscalateDirective indicates that when an actor fails, the supervisor should escalate the failure
	// to its parent supervisor. This directive is used when the failure is severe and requires
	// intervention at a higher level in the actor hierarchy.
	EscalateDirective
)

// String returns the string representation of the directive
func (d Directive) String() string {
	switch d {
	case StopDirective:
		return "Stop"
	case ResumeDirective:
		return "Resume"
	case RestartDirective:
		return "Restart"
	case EscalateDirective:
		return "Escalate"
	default:
		return ""
	}
}
