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

package errors

import (
	"errors"
	"fmt"
)

// PanicError defines the panic error
// wrapping the underlying error
type PanicError struct {
	err error
}

// enforce compilation error
var _ error = (*PanicError)(nil)

// NewPanicError creates an instance of PanicError
func NewPanicError(err error) *PanicError {
	return &PanicError{err}
}

// Error implements the standard error interface
func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.err)
}

func (e *PanicError) Unwrap() error {
	return e.err
}

// FatalError marks a failure the runtime must never resume or restart from.
// Supervisors always escalate it regardless of their decider.
type FatalError struct {
	err error
}

var _ error = (*FatalError)(nil)

// NewFatalError creates an instance of FatalError
func NewFatalError(err error) *FatalError {
	return &FatalError{err}
}

// Error implements the standard error interface
func (e *FatalError) Error() string {
	return fmt.Sprintf("fatal: %v", e.err)
}

func (e *FatalError) Unwrap() error {
	return e.err
}

// IsFatal returns true when the error chain carries a FatalError
func IsFatal(err error) bool {
	var fatal *FatalError
	return errors.As(err, &fatal)
}

// ActorInitializationError is raised when an actor cannot be created:
// its producer failed or its PreStart hook returned an error.
type ActorInitializationError struct {
	Actor   string
	Message string
	Cause   error
}

var _ error = (*ActorInitializationError)(nil)

// NewActorInitializationError creates an instance of ActorInitializationError
func NewActorInitializationError(actor, message string, cause error) *ActorInitializationError {
	return &ActorInitializationError{Actor: actor, Message: message, Cause: cause}
}

// Error implements the standard error interface
func (e *ActorInitializationError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("%s: %s", e.Actor, e.Message)
	}
	return fmt.Sprintf("%s: %s: %v", e.Actor, e.Message, e.Cause)
}

func (e *ActorInitializationError) Unwrap() error {
	return e.Cause
}

// ActorKilledError is the failure raised by an actor when it receives a Kill message
type ActorKilledError struct {
	Message string
}

var _ error = (*ActorKilledError)(nil)

// NewActorKilledError creates an instance of ActorKilledError
func NewActorKilledError(message string) *ActorKilledError {
	return &ActorKilledError{Message: message}
}

// Error implements the standard error interface
func (e *ActorKilledError) Error() string {
	return "actor killed: " + e.Message
}

// DeathPactError is raised when an actor does not handle the Terminated
// message of an actor it watches.
type DeathPactError struct {
	Dead string
}

var _ error = (*DeathPactError)(nil)

// NewDeathPactError creates an instance of DeathPactError
func NewDeathPactError(dead string) *DeathPactError {
	return &DeathPactError{Dead: dead}
}

// Error implements the standard error interface
func (e *DeathPactError) Error() string {
	return fmt.Sprintf("monitored actor %s terminated", e.Dead)
}

// PreRestartError wraps the failure of a PreRestart hook.
// It is logged and never stops a restart.
type PreRestartError struct {
	Actor         string
	Cause         error
	OriginalCause error
	Message       any
}

var _ error = (*PreRestartError)(nil)

// Error implements the standard error interface
func (e *PreRestartError) Error() string {
	return fmt.Sprintf("%s: exception in preRestart(%v, %v): %v", e.Actor, e.OriginalCause, e.Message, e.Cause)
}

func (e *PreRestartError) Unwrap() error {
	return e.Cause
}

// PostRestartError wraps the failure of a PostRestart hook.
// The new incarnation is then reported as failed to its supervisor.
type PostRestartError struct {
	Actor         string
	Cause         error
	OriginalCause error
}

var _ error = (*PostRestartError)(nil)

// Error implements the standard error interface
func (e *PostRestartError) Error() string {
	return fmt.Sprintf("%s: exception post restart (%v): %v", e.Actor, e.OriginalCause, e.Cause)
}

func (e *PostRestartError) Unwrap() error {
	return e.Cause
}

// AnyError is used to match any error in supervisor directives
type AnyError struct{}

var _ error = (*AnyError)(nil)

// Error implements the standard error interface
func (a *AnyError) Error() string {
	return "*"
}
