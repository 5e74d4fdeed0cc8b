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
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tochemey/actorcell/errors"
	"github.com/tochemey/actorcell/log"
)

func TestScheduler(t *testing.T) {
	t.Run("With ScheduleOnce the message is delivered after the delay", func(t *testing.T) {
		system := newTestSystem(t)
		probe := newTestProbe(t, system)

		start := time.Now()
		cancellable, err := system.ScheduleOnce(100*time.Millisecond, probe.ref, "later", system.DeadLetters())
		require.NoError(t, err)

		envelope := probe.expectMessage("later")
		assert.GreaterOrEqual(t, time.Since(start), 100*time.Millisecond)
		assert.True(t, envelope.Sender.Equals(system.DeadLetters()))
		assert.False(t, cancellable.IsCancelled())
	})
	t.Run("With a cancelled schedule nothing is delivered", func(t *testing.T) {
		system := newTestSystem(t)
		probe := newTestProbe(t, system)

		cancellable, err := system.ScheduleOnce(200*time.Millisecond, probe.ref, "later", NoSender)
		require.NoError(t, err)
		assert.True(t, cancellable.Cancel())
		assert.False(t, cancellable.Cancel())
		assert.True(t, cancellable.IsCancelled())

		probe.expectNoMessage(400 * time.Millisecond)
	})
	t.Run("With a scheduler not started", func(t *testing.T) {
		scheduler := newScheduler(log.DiscardLogger, time.Second)
		_, err := scheduler.ScheduleOnce(time.Millisecond, Nobody, "later", NoSender)
		assert.ErrorIs(t, err, errors.ErrSchedulerNotStarted)
		scheduler.Stop(context.TODO())
	})
	t.Run("With a scheduler stopped", func(t *testing.T) {
		scheduler := newScheduler(log.DiscardLogger, time.Second)
		scheduler.Start(context.TODO())
		scheduler.Stop(context.TODO())

		_, err := scheduler.ScheduleOnce(time.Millisecond, Nobody, "later", NoSender)
		assert.ErrorIs(t, err, errors.ErrSchedulerNotStarted)
	})
	t.Run("With a delivery removed twice the failure is logged", func(t *testing.T) {
		buffer := new(bytes.Buffer)
		scheduler := newScheduler(log.NewZap(log.DebugLevel, buffer), time.Second)
		scheduler.Start(context.TODO())

		cancellable, err := scheduler.ScheduleOnce(time.Hour, Nobody, "later", NoSender)
		require.NoError(t, err)

		scheduler.remove(cancellable.key)
		assert.NotContains(t, buffer.String(), "cannot remove scheduled delivery")
		scheduler.remove(cancellable.key)
		assert.Contains(t, buffer.String(), "cannot remove scheduled delivery")

		scheduler.Stop(context.TODO())
	})
}
