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

// Package chain runs ordered startup and shutdown steps.
package chain

import (
	"context"
	"fmt"

	"go.uber.org/multierr"
)

// Step is a unit of work of a chain
type Step func(ctx context.Context) error

type namedStep struct {
	name string
	run  Step
}

// Chain runs its steps in insertion order. A fail fast chain stops at the
// first failing step. Otherwise every step runs and the errors are combined.
type Chain struct {
	failFast bool
	steps    []namedStep
}

// Option configures a chain
type Option func(*Chain)

// WithFailFast stops the chain at the first failing step
func WithFailFast() Option {
	return func(c *Chain) { c.failFast = true }
}

// New creates an empty chain
func New(opts ...Option) *Chain {
	chain := &Chain{}
	for _, opt := range opts {
		opt(chain)
	}
	return chain
}

// Add appends a step. The name prefixes the error of the step.
func (c *Chain) Add(name string, step Step) *Chain {
	c.steps = append(c.steps, namedStep{name: name, run: step})
	return c
}

// AddIf appends the step when condition holds
func (c *Chain) AddIf(condition bool, name string, step Step) *Chain {
	if condition {
		return c.Add(name, step)
	}
	return c
}

// Run executes the steps
func (c *Chain) Run(ctx context.Context) error {
	var err error
	for _, step := range c.steps {
		if stepErr := step.run(ctx); stepErr != nil {
			stepErr = fmt.Errorf("%s: %w", step.name, stepErr)
			if c.failFast {
				return stepErr
			}
			err = multierr.Append(err, stepErr)
		}
	}
	return err
}
