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

// Package config holds the actor system settings. Settings are built with
// functional options or loaded from a YAML document.
package config

import (
	"fmt"
	"regexp"
	"runtime"
	"time"

	"github.com/tochemey/actorcell/errors"
	"github.com/tochemey/actorcell/internal/validation"
	"github.com/tochemey/actorcell/log"
)

const (
	// DefaultThroughput is the number of user messages an actor processes per mailbox drain
	DefaultThroughput = 5
	// DefaultAskTimeout is the timeout used by Ask when none is given
	DefaultAskTimeout = 5 * time.Second
	// DefaultInitMaxRetries is the number of PreStart attempts on Create
	DefaultInitMaxRetries = 5
	// DefaultInitTimeout caps the duration of the PreStart attempts
	DefaultInitTimeout = time.Second
	// DefaultHost is the host of a local actor system
	DefaultHost = "127.0.0.1"
)

var systemNamePattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_-]*$`)

// Debug toggles the debug logging of the cells
type Debug struct {
	// Lifecycle logs started, restarted, stopping and stopped transitions
	Lifecycle bool `yaml:"lifecycle"`
	// AutoReceive logs PoisonPill, Kill, Identify and Terminated handling
	AutoReceive bool `yaml:"autoReceive"`
	// Unhandled logs unhandled messages
	Unhandled bool `yaml:"unhandled"`
}

// Guardian configures the supervisor strategy of the user guardian
type Guardian struct {
	// MaxRetries is the number of restarts allowed within the window. A negative value means unlimited.
	MaxRetries int `yaml:"maxRetries"`
	// Within is the restart window
	Within time.Duration `yaml:"within"`
}

// Config represents the actor system settings
type Config struct {
	// Name is the actor system name
	Name string `yaml:"name"`
	// Host and Port are rendered in actor paths
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	// Throughput is the number of user messages processed per mailbox drain
	Throughput int `yaml:"throughput"`
	// ThroughputDeadline bounds a mailbox drain in time. Zero disables the deadline.
	ThroughputDeadline time.Duration `yaml:"throughputDeadline"`
	// Workers is the number of goroutines running mailbox drains
	Workers int `yaml:"workers"`
	// MailboxCapacity bounds the user message queue. Zero means unbounded.
	MailboxCapacity int `yaml:"mailboxCapacity"`
	// AskTimeout is the default Ask timeout
	AskTimeout time.Duration `yaml:"askTimeout"`
	// InitMaxRetries is the number of PreStart attempts
	InitMaxRetries int `yaml:"initMaxRetries"`
	// InitTimeout caps the time spent retrying PreStart
	InitTimeout time.Duration `yaml:"initTimeout"`
	// LogLevel is one of debug, info, warn, error
	LogLevel string `yaml:"logLevel"`
	// Debug toggles the cells debug logging
	Debug Debug `yaml:"debug"`
	// Guardian configures the user guardian supervision
	Guardian Guardian `yaml:"guardian"`
}

// Default returns the default settings of the named actor system
func Default(name string) *Config {
	return &Config{
		Name:           name,
		Host:           DefaultHost,
		Throughput:     DefaultThroughput,
		Workers:        runtime.NumCPU(),
		AskTimeout:     DefaultAskTimeout,
		InitMaxRetries: DefaultInitMaxRetries,
		InitTimeout:    DefaultInitTimeout,
		LogLevel:       log.InfoLevel.String(),
		Guardian:       Guardian{MaxRetries: -1},
	}
}

// New creates the settings of the named actor system and applies the options
func New(name string, opts ...Option) (*Config, error) {
	config := Default(name)
	for _, opt := range opts {
		opt.Apply(config)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Level returns the parsed log level
func (c *Config) Level() log.Level {
	return log.ParseLevel(c.LogLevel)
}

// Validate checks the settings and returns every violation found
func (c *Config) Validate() error {
	return validation.New().
		AddAssertion(c.Name != "", errors.ErrNameRequired.Error()).
		AddValidator(validation.NewPatternValidator(systemNamePattern, c.Name, fmt.Errorf("%w: %q", errors.ErrInvalidActorSystemName, c.Name))).
		AddAssertion(c.Throughput >= 1, "throughput must be at least 1").
		AddAssertion(c.ThroughputDeadline >= 0, "throughput deadline must not be negative").
		AddAssertion(c.Workers >= 1, "workers must be at least 1").
		AddAssertion(c.MailboxCapacity >= 0, "mailbox capacity must not be negative").
		AddAssertion(c.AskTimeout >= 0, "ask timeout must not be negative").
		AddAssertion(c.InitMaxRetries >= 1, "init max retries must be at least 1").
		AddAssertion(c.InitTimeout > 0, "init timeout must be positive").
		AddAssertion(c.Port >= 0 && c.Port <= 65535, "port must be between 0 and 65535").
		AddAssertion(c.Level() != log.InvalidLevel, fmt.Sprintf("invalid log level %q", c.LogLevel)).
		Validate()
}
