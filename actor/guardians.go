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

// guardian is the actor of "/user" and "/system". It handles no message
// and only supervises its children.
type guardian struct{}

var _ Actor = (*guardian)(nil)

func (*guardian) PreStart(*ActorContext) error { return nil }

func (*guardian) Receive(ctx *ReceiveContext) {
	switch ctx.Message().(type) {
	case Terminated:
		// a watched top level actor stopped
	default:
		ctx.Unhandled()
	}
}

func (*guardian) PostStop(*ActorContext) error { return nil }

// rootGuardian is the actor of "/". It stops "/system" once "/user" is
// gone, then stops itself once "/system" is gone.
type rootGuardian struct {
	system *ActorSystem
}

var _ Actor = (*rootGuardian)(nil)

func (*rootGuardian) PreStart(*ActorContext) error { return nil }

func (g *rootGuardian) Receive(ctx *ReceiveContext) {
	switch msg := ctx.Message().(type) {
	case Terminated:
		switch {
		case sameRef(msg.Actor, g.system.userGuardian):
			ctx.Stop(g.system.systemGuardian)
		case sameRef(msg.Actor, g.system.systemGuardian):
			ctx.Stop(ctx.Self())
		}
	default:
		ctx.Unhandled()
	}
}

func (g *rootGuardian) PostStop(ctx *ActorContext) error {
	ctx.Logger().Debug("root guardian stopped")
	return nil
}
