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
	"reflect"

	"github.com/tochemey/actorcell/errors"
)

// Decider maps a failure to a Directive
type Decider interface {
	Decide(err error) Directive
}

// DeciderFunc adapts a function to the Decider interface
type DeciderFunc func(err error) Directive

// Decide implements Decider
func (f DeciderFunc) Decide(err error) Directive {
	return f(err)
}

// DefaultDecider stops an actor that failed during initialization, was
// killed or did not handle the termination of an actor it watches. Every
// other failure restarts the actor.
var DefaultDecider Decider = DeciderFunc(defaultDecide)

// StoppingDecider stops the failing actor whatever the failure is
var StoppingDecider Decider = DeciderFunc(func(error) Directive { return StopDirective })

// EscalatingDecider escalates every failure
var EscalatingDecider Decider = DeciderFunc(func(error) Directive { return EscalateDirective })

func defaultDecide(err error) Directive {
	var (
		initErr   *errors.ActorInitializationError
		killedErr *errors.ActorKilledError
		pactErr   *errors.DeathPactError
	)

	switch {
	case stderrors.As(err, &initErr),
		stderrors.As(err, &killedErr),
		stderrors.As(err, &pactErr):
		return StopDirective
	default:
		return RestartDirective
	}
}

// ruleDecider resolves a directive from rules keyed by error type.
// The whole error chain is searched, so a rule on a type also matches
// when that error is wrapped, for instance inside a PanicError.
type ruleDecider struct {
	rules    map[string]Directive
	fallback Decider
}

var _ Decider = (*ruleDecider)(nil)

func (d *ruleDecider) Decide(err error) Directive {
	if len(d.rules) > 0 {
		stack := []error{err}
		for len(stack) > 0 {
			current := stack[0]
			stack = stack[1:]
			if current == nil {
				continue
			}

			if directive, ok := d.rules[errorType(current)]; ok {
				return directive
			}

			switch wrapped := current.(type) {
			case interface{ Unwrap() error }:
				stack = append(stack, wrapped.Unwrap())
			case interface{ Unwrap() []error }:
				stack = append(stack, wrapped.Unwrap()...)
			}
		}

		if directive, ok := d.rules[errorType(new(errors.AnyError))]; ok {
			return directive
		}
	}
	return d.fallback.Decide(err)
}

// errorType returns the string representation of an error's type using reflection
func errorType(err error) string {
	if err == nil {
		return "nil"
	}

	rtype := reflect.TypeOf(err)
	if rtype.Kind() == reflect.Pointer {
		rtype = rtype.Elem()
	}

	return rtype.String()
}
