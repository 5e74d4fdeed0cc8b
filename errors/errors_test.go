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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrors(t *testing.T) {
	err := errors.New("something went wrong")
	panicErr := NewPanicError(err)
	require.EqualError(t, panicErr, "panic: something went wrong")
	assert.ErrorIs(t, panicErr, err)

	fatalErr := NewFatalError(err)
	require.EqualError(t, fatalErr, "fatal: something went wrong")
	assert.True(t, IsFatal(fatalErr))
	assert.True(t, IsFatal(NewPanicError(fatalErr)))
	assert.True(t, IsFatal(fmt.Errorf("wrapped: %w", fatalErr)))
	assert.False(t, IsFatal(err))

	initErr := NewActorInitializationError("akka://Sys/user/a", "exception during creation", err)
	require.EqualError(t, initErr, "akka://Sys/user/a: exception during creation: something went wrong")
	assert.ErrorIs(t, initErr, err)
	require.EqualError(t, NewActorInitializationError("a", "no cause", nil), "a: no cause")

	require.EqualError(t, NewActorKilledError("Kill"), "actor killed: Kill")
	require.EqualError(t, NewDeathPactError("akka://Sys/user/b"), "monitored actor akka://Sys/user/b terminated")

	postErr := &PostRestartError{Actor: "a", Cause: err, OriginalCause: errors.New("boom")}
	assert.ErrorIs(t, postErr, err)
	preErr := &PreRestartError{Actor: "a", Cause: err, OriginalCause: errors.New("boom"), Message: "hello"}
	assert.ErrorIs(t, preErr, err)
	assert.Contains(t, preErr.Error(), "hello")

	require.ErrorIs(t, NewErrActorNotFound("a"), ErrActorNotFound)
	require.ErrorIs(t, NewErrInvalidActorName("$a"), ErrInvalidActorName)
	require.ErrorIs(t, NewErrNameNotUnique("a"), ErrNameNotUnique)
	require.ErrorIs(t, NewErrInitFailure(err), ErrInitFailure)
	require.ErrorIs(t, NewErrInitFailure(err), err)
	require.ErrorIs(t, NewErrInvalidMessage(err), ErrInvalidMessage)

	anyError := &AnyError{}
	require.Equal(t, anyError.Error(), "*")
}
