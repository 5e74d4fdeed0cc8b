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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tochemey/actorcell/errors"
)

func TestActorSelection(t *testing.T) {
	t.Run("With an absolute path", func(t *testing.T) {
		system := newTestSystem(t)
		hooks := newLifecycle()
		parent, err := system.ActorOf(newWorker(hooks, "p"), "p")
		require.NoError(t, err)
		child := spawnChild(t, parent, "c", newWorker(hooks, "c"))

		selection, err := system.ActorSelection("/user/p/c")
		require.NoError(t, err)
		resolved, err := selection.ResolveOne(context.TODO(), awaitTimeout)
		require.NoError(t, err)
		assert.True(t, resolved.Equals(child))

		selection, err = system.ActorSelection("akka://test/user/p")
		require.NoError(t, err)
		resolved, err = selection.ResolveOne(context.TODO(), awaitTimeout)
		require.NoError(t, err)
		assert.True(t, resolved.Equals(parent))
	})
	t.Run("With a relative path", func(t *testing.T) {
		system := newTestSystem(t)
		hooks := newLifecycle()
		parent, err := system.ActorOf(newWorker(hooks, "p"), "p")
		require.NoError(t, err)
		first := spawnChild(t, parent, "c1", newWorker(hooks, "c1"))
		second := spawnChild(t, parent, "c2", newWorker(hooks, "c2"))

		selection, err := newActorSelection(system, first, "../c2")
		require.NoError(t, err)
		resolved, err := selection.ResolveOne(context.TODO(), awaitTimeout)
		require.NoError(t, err)
		assert.True(t, resolved.Equals(second))

		selection, err = newActorSelection(system, first, "..")
		require.NoError(t, err)
		resolved, err = selection.ResolveOne(context.TODO(), awaitTimeout)
		require.NoError(t, err)
		assert.True(t, resolved.Equals(parent))
	})
	t.Run("With a wildcard every matching child receives the message", func(t *testing.T) {
		system := newTestSystem(t)
		probe := newTestProbe(t, system)
		hooks := newLifecycle()
		parent, err := system.ActorOf(newWorker(hooks, "p"), "p")
		require.NoError(t, err)
		first := spawnChild(t, parent, "c1", newWorker(hooks, "c1"))
		second := spawnChild(t, parent, "c2", newWorker(hooks, "c2"))
		spawnChild(t, parent, "other", newWorker(hooks, "other"))

		selection, err := system.ActorSelection("/user/p/c?")
		require.NoError(t, err)
		assert.Equal(t, "akka://test/user/p/c?", selection.String())
		selection.Tell(ping{}, probe.ref)

		senders := []ActorRef{probe.expectMessage(pong{}).Sender, probe.expectMessage(pong{}).Sender}
		assert.ElementsMatch(t, []string{first.String(), second.String()}, []string{senders[0].String(), senders[1].String()})
		probe.expectNoMessage(100 * time.Millisecond)
	})
	t.Run("With a wildcard Identify only matches answer", func(t *testing.T) {
		system := newTestSystem(t)
		probe := newTestProbe(t, system)
		hooks := newLifecycle()
		parent, err := system.ActorOf(newWorker(hooks, "p"), "p")
		require.NoError(t, err)
		spawnChild(t, parent, "c1", newWorker(hooks, "c1"))
		spawnChild(t, parent, "c2", newWorker(hooks, "c2"))

		selection, err := system.ActorSelection("/user/p/*/missing")
		require.NoError(t, err)
		selection.Tell(Identify{MessageID: "id"}, probe.ref)
		probe.expectNoMessage(200 * time.Millisecond)
	})
	t.Run("With no matching actor", func(t *testing.T) {
		system := newTestSystem(t)
		probe := newTestProbe(t, system)

		selection, err := system.ActorSelection("/user/missing")
		require.NoError(t, err)
		selection.Tell(Identify{MessageID: 42}, probe.ref)
		identity := probe.receive().Message.(ActorIdentity)
		assert.Equal(t, 42, identity.MessageID)
		assert.Nil(t, identity.Ref)

		_, err = selection.ResolveOne(context.TODO(), 200*time.Millisecond)
		assert.ErrorIs(t, err, errors.ErrActorNotFound)
	})
	t.Run("With a user message and no matching actor it goes to the dead letters", func(t *testing.T) {
		system := newTestSystem(t)
		recorder := recordEvents(system, DeadLettersTopic)

		selection, err := system.ActorSelection("/user/missing")
		require.NoError(t, err)
		selection.Tell("hello", NoSender)
		require.Eventually(t, func() bool { return recorder.count(deadLetterOf("hello")) == 1 }, awaitTimeout, 10*time.Millisecond)
	})
	t.Run("With another address", func(t *testing.T) {
		system := newTestSystem(t)
		_, err := system.ActorSelection("akka://other/user/p")
		assert.ErrorIs(t, err, errors.ErrActorNotFound)
	})
	t.Run("With an invalid timeout", func(t *testing.T) {
		system := newTestSystem(t)
		selection, err := system.ActorSelection("/user")
		require.NoError(t, err)
		_, err = selection.ResolveOne(context.TODO(), 0)
		assert.ErrorIs(t, err, errors.ErrInvalidTimeout)
	})
}

func TestSelectChildPattern(t *testing.T) {
	pattern := newSelectChildPattern("wo?ker-*")
	assert.True(t, pattern.matches("worker-1"))
	assert.True(t, pattern.matches("wonker-"))
	assert.False(t, pattern.matches("worker"))
	assert.False(t, pattern.matches("a.worker-1"))
	assert.True(t, newSelectChildPattern("a.b").matches("a.b"))
	assert.False(t, newSelectChildPattern("a.b").matches("axb"))
}
