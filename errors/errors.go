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

// Package errors defines the errors returned by the actor runtime and the
// failure types a supervisor decides on.
package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidActorSystemName is returned when the actor system name contains invalid characters.
	ErrInvalidActorSystemName = errors.New("invalid ActorSystem name, must contain only word characters (i.e. [a-zA-Z0-9] plus non-leading '-' or '_')")

	// ErrDead indicates that the actor is no longer alive or has been terminated.
	ErrDead = errors.New("actor is not alive")

	// ErrNameRequired is returned when an actor system name is required but not provided.
	ErrNameRequired = errors.New("actor system is required")

	// ErrInvalidActorName is returned when an actor name is not a valid path element.
	ErrInvalidActorName = errors.New("invalid actor name")

	// ErrNameNotUnique is returned when a child name is already reserved or taken by a sibling.
	ErrNameNotUnique = errors.New("actor name is not unique")

	// ErrParentTerminating is returned when a child is created under a parent that is stopping.
	ErrParentTerminating = errors.New("cannot reserve actor name: parent is terminating")

	// ErrParentTerminated is returned when a child is created under a parent that has stopped.
	ErrParentTerminated = errors.New("cannot reserve actor name: parent is terminated")

	// ErrActorSystemNotStarted indicates that an actor system has not been started before use.
	ErrActorSystemNotStarted = errors.New("actor system is not running")

	// ErrActorSystemAlreadyStarted is returned when attempting to start an actor system that is already running.
	ErrActorSystemAlreadyStarted = errors.New("actor system has already started")

	// ErrRequestTimeout indicates that an Ask message timed out while waiting for a response.
	ErrRequestTimeout = errors.New("request timed out")

	// ErrInvalidTimeout is returned when a timeout value is less than or equal to zero.
	ErrInvalidTimeout = errors.New("invalid timeout")

	// ErrTempPathInUse is returned when a temporary actor path is registered twice.
	ErrTempPathInUse = errors.New("temporary actor path is already registered")

	// ErrActorNotFound indicates that the specified actor could not be found in the system.
	ErrActorNotFound = errors.New("actor not found")

	// ErrSchedulerNotStarted is returned when attempting to use the scheduler before it has started.
	ErrSchedulerNotStarted = errors.New("scheduler has not started")

	// ErrMailboxFull is returned when a bounded message queue has reached its capacity.
	ErrMailboxFull = errors.New("mailbox is full")

	// ErrMailboxClosed is returned when a message is posted to a closed mailbox.
	ErrMailboxClosed = errors.New("mailbox is closed")

	// ErrSystemMessageReused is returned when the same system message instance is enqueued twice.
	ErrSystemMessageReused = errors.New("system message instance has already been enqueued")

	// ErrUnknownSystemMessage is returned when a cell receives a system message it does not know.
	ErrUnknownSystemMessage = errors.New("unknown system message")

	// ErrInvalidMessage indicates that a message is structurally or semantically invalid.
	ErrInvalidMessage = errors.New("invalid message")

	// ErrWatchWithConflict is returned when watching a subject with a different termination message.
	ErrWatchWithConflict = errors.New("subject is already watched with a different termination message")

	// ErrInitFailure is returned when the actor's PreStart hook fails during initialization.
	ErrInitFailure = errors.New("preStart failed")
)

// NewErrActorNotFound formats an ErrActorNotFound with the given actor path.
func NewErrActorNotFound(actorPath string) error {
	return fmt.Errorf("(actor=%s) %w", actorPath, ErrActorNotFound)
}

// NewErrInvalidActorName formats an ErrInvalidActorName for the given name.
func NewErrInvalidActorName(name string) error {
	return fmt.Errorf("name=(%s) %w", name, ErrInvalidActorName)
}

// NewErrNameNotUnique formats an ErrNameNotUnique for the given name.
func NewErrNameNotUnique(name string) error {
	return fmt.Errorf("name=(%s) %w", name, ErrNameNotUnique)
}

// NewErrInitFailure wraps a base error with ErrInitFailure to indicate a startup failure.
func NewErrInitFailure(err error) error {
	return errors.Join(ErrInitFailure, err)
}

// NewErrInvalidMessage wraps a base error with ErrInvalidMessage for additional context.
func NewErrInvalidMessage(err error) error {
	return errors.Join(ErrInvalidMessage, err)
}
