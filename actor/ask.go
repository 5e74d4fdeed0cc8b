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
	"time"

	"github.com/tochemey/actorcell/errors"
)

// Ask sends a message to an actor and waits for its reply. The actor
// replies with ReceiveContext.Response. The reply is discarded, and goes to
// the dead letters, when it arrives after the timeout.
func Ask(ctx context.Context, to ActorRef, message any, timeout time.Duration) (any, error) {
	if timeout <= 0 {
		return nil, errors.ErrInvalidTimeout
	}

	if to == nil {
		return nil, errors.NewErrActorNotFound("<nil>")
	}

	local, ok := to.(*LocalActorRef)
	if !ok {
		return nil, errors.NewErrActorNotFound(to.Path().String())
	}

	if local.IsTerminated() {
		return nil, errors.ErrDead
	}

	system := local.cell.system
	path := system.tempPathFor()
	promise := newPromiseRef(system, path)
	if err := system.registerTempActor(path.Name(), promise); err != nil {
		return nil, err
	}
	defer system.unregisterTempActor(path.Name())

	to.Tell(message, promise)

	timer := timers.Get(timeout)
	defer timers.Put(timer)

	select {
	case reply := <-promise.result:
		return reply.Message, nil
	case <-timer.C:
		promise.stop()
		return nil, errors.ErrRequestTimeout
	case <-ctx.Done():
		promise.stop()
		return nil, ctx.Err()
	}
}
