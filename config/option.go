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

package config

import (
	"time"

	"github.com/tochemey/actorcell/log"
)

// Option is the interface that applies a configuration option.
type Option interface {
	// Apply sets the Option value of a config.
	Apply(config *Config)
}

var _ Option = OptionFunc(nil)

// OptionFunc implements the Option interface.
type OptionFunc func(*Config)

// Apply applies the option to the config
func (f OptionFunc) Apply(c *Config) {
	f(c)
}

// WithHostPort sets the address rendered in actor paths
func WithHostPort(host string, port int) Option {
	return OptionFunc(func(config *Config) {
		config.Host = host
		config.Port = port
	})
}

// WithThroughput sets the number of user messages processed per mailbox drain
func WithThroughput(throughput int) Option {
	return OptionFunc(func(config *Config) {
		config.Throughput = throughput
	})
}

// WithThroughputDeadline bounds a mailbox drain in time
func WithThroughputDeadline(deadline time.Duration) Option {
	return OptionFunc(func(config *Config) {
		config.ThroughputDeadline = deadline
	})
}

// WithWorkers sets the number of dispatcher workers
func WithWorkers(workers int) Option {
	return OptionFunc(func(config *Config) {
		config.Workers = workers
	})
}

// WithMailboxCapacity bounds the user message queues. Zero means unbounded.
func WithMailboxCapacity(capacity int) Option {
	return OptionFunc(func(config *Config) {
		config.MailboxCapacity = capacity
	})
}

// WithAskTimeout sets the default Ask timeout
func WithAskTimeout(timeout time.Duration) Option {
	return OptionFunc(func(config *Config) {
		config.AskTimeout = timeout
	})
}

// WithInitRetries sets the PreStart attempts and the overall timeout
func WithInitRetries(maxRetries int, timeout time.Duration) Option {
	return OptionFunc(func(config *Config) {
		config.InitMaxRetries = maxRetries
		config.InitTimeout = timeout
	})
}

// WithLogLevel sets the log level
func WithLogLevel(level log.Level) Option {
	return OptionFunc(func(config *Config) {
		config.LogLevel = level.String()
	})
}

// WithDebug sets the debug logging toggles
func WithDebug(debug Debug) Option {
	return OptionFunc(func(config *Config) {
		config.Debug = debug
	})
}

// WithGuardianRetry bounds the restarts of the top level actors
func WithGuardianRetry(maxRetries int, within time.Duration) Option {
	return OptionFunc(func(config *Config) {
		config.Guardian = Guardian{MaxRetries: maxRetries, Within: within}
	})
}
