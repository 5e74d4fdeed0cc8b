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

// ActorStarted is published once an actor instance ran PreStart
type ActorStarted struct {
	Ref ActorRef
}

// ActorRestarted is published once a failed actor has been replaced
type ActorRestarted struct {
	Ref   ActorRef
	Cause error
}

// ActorSuspended is published when the mailbox of an actor is suspended
type ActorSuspended struct {
	Ref ActorRef
}

// ActorResumed is published when the mailbox of an actor is resumed
type ActorResumed struct {
	Ref ActorRef
}

// ActorStopped is published once an actor ran PostStop and left the tree
type ActorStopped struct {
	Ref ActorRef
}

// ActorFailed is published when an actor reports a failure to its supervisor
type ActorFailed struct {
	Ref   ActorRef
	Cause error
}
