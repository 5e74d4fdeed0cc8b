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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tochemey/actorcell/supervisor"
)

func supervising(hooks *lifecycle, name string, strategy supervisor.Strategy) *Props {
	return PropsOf(func() Actor { return &worker{hooks: hooks, name: name} }, WithStrategy(strategy))
}

func TestSupervisionRestart(t *testing.T) {
	t.Run("With restart hooks the failed actor is suspended and resumed once", func(t *testing.T) {
		system := newTestSystem(t)
		recorder := recordEvents(system, EventsTopic)
		parentHooks, childHooks := newLifecycle(), newLifecycle()

		parent, err := system.ActorOf(supervising(parentHooks, "p", supervisor.NewOneForOne()), "p")
		require.NoError(t, err)
		child := spawnChild(t, parent, "a", newRestartingWorker(childHooks, "a"))

		child.Tell(fail{err: fmt.Errorf("boom")}, NoSender)
		require.Eventually(t, func() bool { return recorder.count(restartedOf(child)) == 1 }, awaitTimeout, 10*time.Millisecond)

		assert.EqualValues(t, 1, childHooks.preRestarts.Load())
		assert.EqualValues(t, 1, childHooks.postRestarts.Load())
		assert.EqualValues(t, 1, childHooks.preStarts.Load())
		assert.Equal(t, 1, recorder.count(suspendedOf(child)))
		assert.Equal(t, 1, recorder.count(resumedOf(child)))
		assert.Zero(t, recorder.count(restartedOf(parent)))

		reply, err := Ask(context.TODO(), child, ping{}, awaitTimeout)
		require.NoError(t, err)
		assert.Equal(t, pong{}, reply)
	})
	t.Run("With default hooks the instance is stopped then started", func(t *testing.T) {
		system := newTestSystem(t)
		hooks := newLifecycle()

		ref, err := system.ActorOf(newWorker(hooks, "a"), "a")
		require.NoError(t, err)

		ref.Tell(crash{reason: "panic"}, NoSender)
		require.Eventually(t, func() bool { return hooks.preStarts.Load() == 2 }, awaitTimeout, 10*time.Millisecond)
		assert.EqualValues(t, 1, hooks.postStops.Load())
		assert.Equal(t, []string{"a.preStart", "a.postStop", "a.preStart"}, drain(hooks.events, 3))
	})
	t.Run("With default hooks the children are stopped on restart", func(t *testing.T) {
		system := newTestSystem(t)
		probe := newTestProbe(t, system)
		parentHooks, childHooks := newLifecycle(), newLifecycle()

		parent, err := system.ActorOf(newWorker(parentHooks, "p"), "p")
		require.NoError(t, err)
		child := spawnChild(t, parent, "c", newWorker(childHooks, "c"))
		probe.watch(child)

		parent.Tell(fail{err: fmt.Errorf("boom")}, NoSender)
		probe.expectTerminated(child)
		require.Eventually(t, func() bool { return parentHooks.preStarts.Load() == 2 }, awaitTimeout, 10*time.Millisecond)
		assert.Empty(t, parent.cell.children().refs())
	})
	t.Run("With PreRestart the children survive and are restarted", func(t *testing.T) {
		system := newTestSystem(t)
		recorder := recordEvents(system, EventsTopic)
		parentHooks, childHooks := newLifecycle(), newLifecycle()

		parent, err := system.ActorOf(newRestartingWorker(parentHooks, "p"), "p")
		require.NoError(t, err)
		child := spawnChild(t, parent, "c", newWorker(childHooks, "c"))

		parent.Tell(fail{err: fmt.Errorf("boom")}, NoSender)
		require.Eventually(t, func() bool { return recorder.count(restartedOf(child)) == 1 }, awaitTimeout, 10*time.Millisecond)
		assert.Equal(t, 1, recorder.count(restartedOf(parent)))
		assert.False(t, child.IsTerminated())
		assert.EqualValues(t, 2, childHooks.preStarts.Load())
	})
	t.Run("With the retries exhausted within the window the child is stopped", func(t *testing.T) {
		system := newTestSystem(t)
		recorder := recordEvents(system, EventsTopic)
		probe := newTestProbe(t, system)
		parentHooks, childHooks := newLifecycle(), newLifecycle()

		strategy := supervisor.NewOneForOne(supervisor.WithRetry(2, time.Second))
		parent, err := system.ActorOf(supervising(parentHooks, "p", strategy), "p")
		require.NoError(t, err)
		child := spawnChild(t, parent, "c", newWorker(childHooks, "c"))
		probe.watch(child)

		for i := range 4 {
			child.Tell(fail{err: fmt.Errorf("failure %d", i)}, NoSender)
		}

		probe.expectTerminated(child)
		assert.Equal(t, 2, recorder.count(restartedOf(child)))
		assert.EqualValues(t, 3, childHooks.preStarts.Load())
		assert.False(t, parent.IsTerminated())
	})
	t.Run("With a PostRestart failure the actor fails again", func(t *testing.T) {
		system := newTestSystem(t)
		probe := newTestProbe(t, system)
		parentHooks := newLifecycle()

		strategy := supervisor.NewOneForOne(supervisor.WithRetry(1, 0))
		parent, err := system.ActorOf(supervising(parentHooks, "p", strategy), "p")
		require.NoError(t, err)
		child := spawnChild(t, parent, "c", PropsOf(func() Actor { return &brokenRestarter{} }))
		probe.watch(child)

		child.Tell(fail{err: fmt.Errorf("boom")}, NoSender)
		probe.expectTerminated(child)
	})
}

func TestSupervisionDirectives(t *testing.T) {
	t.Run("With Resume the actor state is kept", func(t *testing.T) {
		system := newTestSystem(t)
		recorder := recordEvents(system, EventsTopic)
		parentHooks := newLifecycle()

		strategy := supervisor.NewOneForOne(supervisor.WithAnyErrorDirective(supervisor.ResumeDirective))
		parent, err := system.ActorOf(supervising(parentHooks, "p", strategy), "p")
		require.NoError(t, err)
		child := spawnChild(t, parent, "counter", PropsOf(func() Actor { return &counter{} }))

		child.Tell("inc", NoSender)
		child.Tell("inc", NoSender)
		child.Tell("fail", NoSender)
		child.Tell("inc", NoSender)

		require.Eventually(t, func() bool {
			reply, err := Ask(context.TODO(), child, "get", awaitTimeout)
			return err == nil && reply == 3
		}, awaitTimeout, 10*time.Millisecond)
		assert.Zero(t, recorder.count(restartedOf(child)))
		assert.Equal(t, 1, recorder.count(suspendedOf(child)))
		assert.Equal(t, 1, recorder.count(resumedOf(child)))
	})
	t.Run("With Stop the failed child is stopped", func(t *testing.T) {
		system := newTestSystem(t)
		probe := newTestProbe(t, system)
		parentHooks, childHooks := newLifecycle(), newLifecycle()

		parent, err := system.ActorOf(supervising(parentHooks, "p", supervisor.NewStoppingStrategy()), "p")
		require.NoError(t, err)
		child := spawnChild(t, parent, "c", newWorker(childHooks, "c"))
		probe.watch(child)

		child.Tell(crash{reason: "panic"}, NoSender)
		probe.expectTerminated(child)
		assert.EqualValues(t, 1, childHooks.preStarts.Load())
		assert.EqualValues(t, 1, childHooks.postStops.Load())
	})
	t.Run("With Escalate the parent is restarted", func(t *testing.T) {
		system := newTestSystem(t)
		recorder := recordEvents(system, EventsTopic)
		probe := newTestProbe(t, system)
		parentHooks, childHooks := newLifecycle(), newLifecycle()

		strategy := supervisor.NewOneForOne(supervisor.WithAnyErrorDirective(supervisor.EscalateDirective))
		parent, err := system.ActorOf(supervising(parentHooks, "p", strategy), "p")
		require.NoError(t, err)
		child := spawnChild(t, parent, "c", newWorker(childHooks, "c"))
		probe.watch(child)

		child.Tell(fail{err: fmt.Errorf("boom")}, NoSender)
		probe.expectTerminated(child)
		require.Eventually(t, func() bool { return recorder.count(restartedOf(parent)) == 1 }, awaitTimeout, 10*time.Millisecond)
		assert.EqualValues(t, 2, parentHooks.preStarts.Load())
		assert.Zero(t, recorder.count(restartedOf(child)))
	})
	t.Run("With a directive keyed by error type", func(t *testing.T) {
		system := newTestSystem(t)
		probe := newTestProbe(t, system)
		parentHooks, childHooks := newLifecycle(), newLifecycle()

		strategy := supervisor.NewOneForOne(supervisor.WithDirective(&fatalInput{}, supervisor.StopDirective))
		parent, err := system.ActorOf(supervising(parentHooks, "p", strategy), "p")
		require.NoError(t, err)
		child := spawnChild(t, parent, "c", newWorker(childHooks, "c"))
		probe.watch(child)

		child.Tell(fail{err: fmt.Errorf("retry me")}, NoSender)
		require.Eventually(t, func() bool { return childHooks.preStarts.Load() == 2 }, awaitTimeout, 10*time.Millisecond)

		child.Tell(fail{err: &fatalInput{}}, NoSender)
		probe.expectTerminated(child)
	})
}

func TestSupervisionAllForOne(t *testing.T) {
	t.Run("With Restart every child is restarted", func(t *testing.T) {
		system := newTestSystem(t)
		recorder := recordEvents(system, EventsTopic)
		parentHooks, aHooks, bHooks := newLifecycle(), newLifecycle(), newLifecycle()

		parent, err := system.ActorOf(supervising(parentHooks, "p", supervisor.NewAllForOne()), "p")
		require.NoError(t, err)
		a := spawnChild(t, parent, "a", newWorker(aHooks, "a"))
		b := spawnChild(t, parent, "b", newWorker(bHooks, "b"))

		a.Tell(fail{err: fmt.Errorf("boom")}, NoSender)
		require.Eventually(t, func() bool {
			return recorder.count(restartedOf(a)) == 1 && recorder.count(restartedOf(b)) == 1
		}, awaitTimeout, 10*time.Millisecond)
		assert.EqualValues(t, 2, aHooks.preStarts.Load())
		assert.EqualValues(t, 2, bHooks.preStarts.Load())

		// the failing child is already suspended by its failure, the sibling is suspended by the parent
		assert.Equal(t, 1, recorder.count(suspendedOf(a)))
		assert.Equal(t, 1, recorder.count(resumedOf(a)))
		assert.Equal(t, 1, recorder.count(suspendedOf(b)))
		assert.Equal(t, 1, recorder.count(resumedOf(b)))
		assert.Zero(t, a.cell.mailbox.SuspendCount())
		assert.Zero(t, b.cell.mailbox.SuspendCount())
	})
	t.Run("With Stop every child is stopped", func(t *testing.T) {
		system := newTestSystem(t)
		probe := newTestProbe(t, system)
		parentHooks, aHooks, bHooks := newLifecycle(), newLifecycle(), newLifecycle()

		strategy := supervisor.NewAllForOne(supervisor.WithAnyErrorDirective(supervisor.StopDirective))
		parent, err := system.ActorOf(supervising(parentHooks, "p", strategy), "p")
		require.NoError(t, err)
		a := spawnChild(t, parent, "a", newWorker(aHooks, "a"))
		b := spawnChild(t, parent, "b", newWorker(bHooks, "b"))
		probe.watch(a)
		probe.watch(b)

		b.Tell(fail{err: fmt.Errorf("boom")}, NoSender)
		first := probe.receive().Message.(Terminated)
		second := probe.receive().Message.(Terminated)
		assert.ElementsMatch(t, []string{"a", "b"}, []string{first.Actor.Path().Name(), second.Actor.Path().Name()})
		assert.False(t, parent.IsTerminated())
	})
}

func TestSupervisionStaleFailures(t *testing.T) {
	t.Run("With a failure from an unknown actor", func(t *testing.T) {
		system := newTestSystem(t)
		recorder := recordEvents(system, EventsTopic)
		parentHooks, strangerHooks := newLifecycle(), newLifecycle()

		parent, err := system.ActorOf(newWorker(parentHooks, "p"), "p")
		require.NoError(t, err)
		stranger, err := system.ActorOf(newWorker(strangerHooks, "s"), "s")
		require.NoError(t, err)

		require.NoError(t, parent.cell.sendSystemMessage(&failed{child: stranger, cause: fmt.Errorf("stale"), uid: stranger.Path().UID()}))

		reply, err := Ask(context.TODO(), parent, ping{}, awaitTimeout)
		require.NoError(t, err)
		assert.Equal(t, pong{}, reply)
		assert.Zero(t, recorder.count(restartedOf(stranger)))
		assert.Zero(t, recorder.count(restartedOf(parent)))
		assert.EqualValues(t, 1, strangerHooks.preStarts.Load())
	})
	t.Run("With a failure from an old incarnation", func(t *testing.T) {
		system := newTestSystem(t)
		recorder := recordEvents(system, EventsTopic)
		parentHooks, childHooks := newLifecycle(), newLifecycle()

		parent, err := system.ActorOf(newWorker(parentHooks, "p"), "p")
		require.NoError(t, err)
		child := spawnChild(t, parent, "c", newWorker(childHooks, "c"))

		require.NoError(t, parent.cell.sendSystemMessage(&failed{child: child, cause: fmt.Errorf("stale"), uid: child.Path().UID() + 1}))

		reply, err := Ask(context.TODO(), child, ping{}, awaitTimeout)
		require.NoError(t, err)
		assert.Equal(t, pong{}, reply)
		assert.Zero(t, recorder.count(restartedOf(child)))
		assert.EqualValues(t, 1, childHooks.preStarts.Load())
	})
}

func TestSupervisionDeathPact(t *testing.T) {
	system := newTestSystem(t)
	probe := newTestProbe(t, system)
	hooks := newLifecycle()

	target, err := system.ActorOf(newWorker(hooks, "target"), "target")
	require.NoError(t, err)
	watcher, err := system.ActorOf(PropsFromFunc(func(ctx *ReceiveContext) {
		if ref, ok := ctx.Message().(ActorRef); ok {
			ctx.Err(ctx.Watch(ref))
			ctx.Response("watching")
			return
		}
		ctx.Unhandled()
	}), "watcher")
	require.NoError(t, err)
	probe.watch(watcher)

	reply, err := Ask(context.TODO(), watcher, ActorRef(target), awaitTimeout)
	require.NoError(t, err)
	require.Equal(t, "watching", reply)

	target.Stop()
	probe.expectTerminated(watcher)
}

func TestSupervisionFatalFailure(t *testing.T) {
	system := newTestSystem(t)
	hooks := newLifecycle()

	ref, err := system.ActorOf(newWorker(hooks, "a"), "a")
	require.NoError(t, err)
	require.NoError(t, ref.cell.sendSystemMessage(&bogus{}))

	select {
	case <-system.WhenTerminated():
	case <-time.After(awaitTimeout):
		require.FailNow(t, "the actor system did not terminate")
	}
	assert.Error(t, system.TerminationCause())
	require.NoError(t, system.Terminate(context.TODO()))
	assert.False(t, system.Running())
}

// bogus is a system message no cell handles
type bogus struct {
	systemMeta
}

type fatalInput struct{}

func (*fatalInput) Error() string { return "fatal input" }

// counter keeps a count that survives a resume
type counter struct {
	count int
}

func (c *counter) PreStart(*ActorContext) error { return nil }

func (c *counter) Receive(ctx *ReceiveContext) {
	switch ctx.Message() {
	case "inc":
		c.count++
	case "get":
		ctx.Response(c.count)
	case "fail":
		ctx.Err(fmt.Errorf("counter failure"))
	default:
		ctx.Unhandled()
	}
}

func (c *counter) PostStop(*ActorContext) error { return nil }

// brokenRestarter cannot be restarted
type brokenRestarter struct{}

func (*brokenRestarter) PreStart(*ActorContext) error { return nil }

func (*brokenRestarter) Receive(ctx *ReceiveContext) {
	if f, ok := ctx.Message().(fail); ok {
		ctx.Err(f.err)
		return
	}
	ctx.Unhandled()
}

func (*brokenRestarter) PostStop(*ActorContext) error { return nil }

func (*brokenRestarter) PostRestart(*ActorContext, error) error {
	return fmt.Errorf("cannot restart")
}

func drain(events chan string, n int) []string {
	out := make([]string, 0, n)
	for range n {
		select {
		case event := <-events:
			out = append(out, event)
		case <-time.After(awaitTimeout):
			return out
		}
	}
	return out
}
