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

package actor

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"

	"github.com/tochemey/actorcell/config"
	"github.com/tochemey/actorcell/eventstream"
	"github.com/tochemey/actorcell/log"
)

const awaitTimeout = 3 * time.Second

func newTestSystem(t *testing.T, opts ...config.Option) *ActorSystem {
	t.Helper()
	cfg, err := config.New("test", opts...)
	require.NoError(t, err)

	system, err := NewActorSystem("test", WithConfig(cfg), WithLogger(log.DiscardLogger))
	require.NoError(t, err)
	require.NoError(t, system.Start(context.TODO()))
	t.Cleanup(func() {
		if system.Running() {
			_ = system.Terminate(context.TODO())
		}
	})
	return system
}

// probeWatch is handled by the probe actor itself
type probeWatch struct {
	subject ActorRef
	message any
	unwatch bool
	done    chan error
}

// testProbe records the messages received by a test actor
type testProbe struct {
	t        *testing.T
	ref      *LocalActorRef
	messages chan Envelope
}

func newTestProbe(t *testing.T, system *ActorSystem) *testProbe {
	t.Helper()
	messages := make(chan Envelope, 1000)
	ref, err := system.ActorOf(PropsFromFunc(func(ctx *ReceiveContext) {
		switch msg := ctx.Message().(type) {
		case *probeWatch:
			if msg.unwatch {
				ctx.Unwatch(msg.subject)
				msg.done <- nil
				return
			}
			if msg.message != nil {
				msg.done <- ctx.WatchWith(msg.subject, msg.message)
				return
			}
			msg.done <- ctx.Watch(msg.subject)
		default:
			messages <- Envelope{Message: ctx.Message(), Sender: ctx.Sender()}
		}
	}), "")
	require.NoError(t, err)
	return &testProbe{t: t, ref: ref, messages: messages}
}

func (p *testProbe) watch(subject ActorRef) {
	p.t.Helper()
	require.NoError(p.t, p.watchWith(subject, nil))
}

func (p *testProbe) unwatch(subject ActorRef) {
	p.t.Helper()
	require.NoError(p.t, p.control(&probeWatch{subject: subject, unwatch: true, done: make(chan error, 1)}))
}

func (p *testProbe) watchWith(subject ActorRef, message any) error {
	p.t.Helper()
	return p.control(&probeWatch{subject: subject, message: message, done: make(chan error, 1)})
}

func (p *testProbe) control(request *probeWatch) error {
	p.t.Helper()
	p.ref.Tell(request, NoSender)
	done := request.done
	select {
	case err := <-done:
		return err
	case <-time.After(awaitTimeout):
		require.FailNow(p.t, "timeout while registering the watch")
		return nil
	}
}

func (p *testProbe) receive() Envelope {
	p.t.Helper()
	select {
	case envelope := <-p.messages:
		return envelope
	case <-time.After(awaitTimeout):
		require.FailNow(p.t, "timeout while waiting for a message")
		return Envelope{}
	}
}

func (p *testProbe) expectMessage(expected any) Envelope {
	p.t.Helper()
	envelope := p.receive()
	require.Equal(p.t, expected, envelope.Message)
	return envelope
}

func (p *testProbe) expectTerminated(subject ActorRef) Terminated {
	p.t.Helper()
	envelope := p.receive()
	terminated, ok := envelope.Message.(Terminated)
	require.True(p.t, ok, "expected Terminated, found %#v", envelope.Message)
	require.True(p.t, terminated.Actor.Equals(subject), "expected Terminated of %v, found %v", subject, terminated.Actor)
	return terminated
}

func (p *testProbe) expectNoMessage(within time.Duration) {
	p.t.Helper()
	select {
	case envelope := <-p.messages:
		require.FailNow(p.t, fmt.Sprintf("unexpected message %#v", envelope.Message))
	case <-time.After(within):
	}
}

// eventRecorder collects what is published on an event stream topic
type eventRecorder struct {
	mu     sync.Mutex
	sub    eventstream.Subscriber
	events []any
}

func recordEvents(system *ActorSystem, topics ...string) *eventRecorder {
	sub := system.EventStream().AddSubscriber()
	for _, topic := range topics {
		system.EventStream().Subscribe(sub, topic)
	}
	return &eventRecorder{sub: sub}
}

func (r *eventRecorder) all() []any {
	r.mu.Lock()
	defer r.mu.Unlock()
	for message := range r.sub.Iterator() {
		r.events = append(r.events, message.Payload())
	}
	return append([]any(nil), r.events...)
}

func (r *eventRecorder) count(match func(event any) bool) int {
	found := 0
	for _, event := range r.all() {
		if match(event) {
			found++
		}
	}
	return found
}

func suspendedOf(ref ActorRef) func(any) bool {
	return func(event any) bool {
		e, ok := event.(ActorSuspended)
		return ok && e.Ref.Equals(ref)
	}
}

func resumedOf(ref ActorRef) func(any) bool {
	return func(event any) bool {
		e, ok := event.(ActorResumed)
		return ok && e.Ref.Equals(ref)
	}
}

func restartedOf(ref ActorRef) func(any) bool {
	return func(event any) bool {
		e, ok := event.(ActorRestarted)
		return ok && e.Ref.Equals(ref)
	}
}

func stoppedOf(ref ActorRef) func(any) bool {
	return func(event any) bool {
		e, ok := event.(ActorStopped)
		return ok && e.Ref.Equals(ref)
	}
}

func deadLetterOf(message any) func(any) bool {
	return func(event any) bool {
		e, ok := event.(DeadLetter)
		return ok && e.Message == message
	}
}

// lifecycle counts the hooks run by the instances of an actor
type lifecycle struct {
	preStarts    *atomic.Int64
	postStops    *atomic.Int64
	preRestarts  *atomic.Int64
	postRestarts *atomic.Int64
	received     *atomic.Int64
	events       chan string
}

func newLifecycle() *lifecycle {
	return &lifecycle{
		preStarts:    atomic.NewInt64(0),
		postStops:    atomic.NewInt64(0),
		preRestarts:  atomic.NewInt64(0),
		postRestarts: atomic.NewInt64(0),
		received:     atomic.NewInt64(0),
		events:       make(chan string, 100),
	}
}

func (l *lifecycle) record(event string) {
	select {
	case l.events <- event:
	default:
	}
}

type fail struct {
	err error
}

type crash struct {
	reason string
}

type spawn struct {
	name  string
	props *Props
}

type ping struct{}

type pong struct{}

// worker fails on fail, panics on crash, answers ping and creates children on spawn
type worker struct {
	hooks *lifecycle
	name  string
}

var (
	_ Actor         = (*worker)(nil)
	_ PreRestarter  = (*restartingWorker)(nil)
	_ PostRestarter = (*restartingWorker)(nil)
)

func newWorker(hooks *lifecycle, name string) *Props {
	return PropsOf(func() Actor { return &worker{hooks: hooks, name: name} })
}

func (w *worker) PreStart(*ActorContext) error {
	w.hooks.preStarts.Inc()
	w.hooks.record(w.name + ".preStart")
	return nil
}

func (w *worker) Receive(ctx *ReceiveContext) {
	w.hooks.received.Inc()
	switch msg := ctx.Message().(type) {
	case ping:
		ctx.Response(pong{})
	case fail:
		ctx.Err(msg.err)
	case crash:
		panic(msg.reason)
	case spawn:
		child, err := ctx.ActorOf(msg.props, msg.name)
		if err != nil {
			ctx.Response(err)
			return
		}
		ctx.Response(child)
	default:
		ctx.Unhandled()
	}
}

func (w *worker) PostStop(*ActorContext) error {
	w.hooks.postStops.Inc()
	w.hooks.record(w.name + ".postStop")
	return nil
}

// restartingWorker implements both restart hooks
type restartingWorker struct {
	worker
}

func newRestartingWorker(hooks *lifecycle, name string) *Props {
	return PropsOf(func() Actor { return &restartingWorker{worker: worker{hooks: hooks, name: name}} })
}

func (w *restartingWorker) PreRestart(*ActorContext, error, any) error {
	w.hooks.preRestarts.Inc()
	w.hooks.record(w.name + ".preRestart")
	return nil
}

func (w *restartingWorker) PostRestart(*ActorContext, error) error {
	w.hooks.postRestarts.Inc()
	w.hooks.record(w.name + ".postRestart")
	return nil
}

// spawnChild asks parent to create a child and returns it
func spawnChild(t *testing.T, parent ActorRef, name string, props *Props) *LocalActorRef {
	t.Helper()
	reply, err := Ask(context.TODO(), parent, spawn{name: name, props: props}, awaitTimeout)
	require.NoError(t, err)
	child, ok := reply.(*LocalActorRef)
	require.True(t, ok, "spawn failed: %v", reply)
	return child
}

func awaitTerminated(t *testing.T, ref *LocalActorRef) {
	t.Helper()
	require.Eventually(t, ref.IsTerminated, awaitTimeout, 10*time.Millisecond)
}
