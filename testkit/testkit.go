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

package testkit

import (
	"context"
	"testing"
	"time"

	"github.com/tochemey/actorcell/actor"
	"github.com/tochemey/actorcell/config"
	"github.com/tochemey/actorcell/log"
)

// TestKit defines actor test kit
type TestKit struct {
	actorSystem *actor.ActorSystem
	kt          *testing.T
	logger      log.Logger
	config      *config.Config
}

// New creates an instance of TestKit with a started actor system
func New(ctx context.Context, t *testing.T, opts ...Option) *TestKit {
	testkit := &TestKit{
		kt:     t,
		logger: log.DiscardLogger,
	}
	for _, opt := range opts {
		opt.Apply(testkit)
	}

	cfg := testkit.config
	if cfg == nil {
		var err error
		cfg, err = config.New("testkit", config.WithInitRetries(5, time.Second))
		if err != nil {
			t.Fatal(err.Error())
		}
	}

	system, err := actor.NewActorSystem(
		"testkit",
		actor.WithConfig(cfg),
		actor.WithLogger(testkit.logger))
	if err != nil {
		t.Fatal(err.Error())
	}

	if err := system.Start(ctx); err != nil {
		t.Fatal(err.Error())
	}

	testkit.actorSystem = system
	return testkit
}

// ActorSystem returns the testkit actor system
func (k *TestKit) ActorSystem() *actor.ActorSystem {
	return k.actorSystem
}

// ActorOf creates a top-level actor
func (k *TestKit) ActorOf(props *actor.Props, name string) *actor.LocalActorRef {
	ref, err := k.actorSystem.ActorOf(props, name)
	if err != nil {
		k.kt.Fatal(err.Error())
	}
	return ref
}

// NewProbe create a test probe
func (k *TestKit) NewProbe() Probe {
	testProbe, err := newProbe(k.actorSystem, k.kt)
	if err != nil {
		k.kt.Fatal(err.Error())
	}
	return testProbe
}

// Shutdown terminates the test kit actor system
func (k *TestKit) Shutdown(ctx context.Context) {
	if err := k.actorSystem.Terminate(ctx); err != nil {
		k.kt.Fatal(err.Error())
	}
}
