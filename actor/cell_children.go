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
	"fmt"
	"strconv"
	"strings"

	"github.com/tochemey/actorcell/address"
	"github.com/tochemey/actorcell/errors"
	"github.com/tochemey/actorcell/supervisor"
)

const base64chars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789+~"

// randomName returns the next anonymous child name of the cell
func (c *Cell) randomName() string {
	return "$" + base64Name(c.nameSeq.Inc())
}

func base64Name(l int64) string {
	var sb strings.Builder
	sb.WriteByte(base64chars[l&63])
	next := uint64(l) >> 6
	for next != 0 {
		sb.WriteByte(base64chars[next&63])
		next >>= 6
	}
	return sb.String()
}

// swapChildren replaces the children container when it has not changed since old was loaded
func (c *Cell) swapChildren(old, updated *childrenContainer) bool {
	return c.childrenRefs.CompareAndSwap(old, updated)
}

func (c *Cell) reserveChild(name string) error {
	for {
		current := c.children()
		updated, err := current.reserve(name)
		if err != nil {
			return err
		}
		if c.swapChildren(current, updated) {
			return nil
		}
	}
}

func (c *Cell) unreserveChild(name string) {
	for {
		current := c.children()
		if c.swapChildren(current, current.unreserve(name)) {
			return
		}
	}
}

// initChild turns the reservation of the child name into live stats. It
// returns nil when the name has not been reserved.
func (c *Cell) initChild(child *LocalActorRef) *supervisor.ChildRestartStats {
	for {
		current := c.children()
		stats, reserved := current.getByName(child.Path().Name())
		if stats != nil {
			return stats
		}
		if !reserved {
			return nil
		}

		stats = supervisor.NewChildRestartStats(child, child.Path().UID())
		if c.swapChildren(current, current.add(child.Path().Name(), stats)) {
			return stats
		}
	}
}

func (c *Cell) setChildrenTerminationReason(reason suspendReason) bool {
	for {
		current := c.children()
		if current.kind != containerTerminating {
			return false
		}
		if c.swapChildren(current, current.withReason(reason)) {
			return true
		}
	}
}

func (c *Cell) setTerminated() {
	c.childrenRefs.Store(terminatedChildren)
}

// removeChildAndGetStateChange removes the child and returns the reason the
// cell was waiting for when the last dying child is gone
func (c *Cell) removeChildAndGetStateChange(child ActorRef) (suspendReason, bool) {
	for {
		current := c.children()
		updated := current.remove(child)
		if !c.swapChildren(current, updated) {
			continue
		}

		if current.kind == containerTerminating && updated.kind != containerTerminating {
			return current.reason, true
		}
		return suspendReason{}, false
	}
}

// makeChild creates a child actor of the cell
func (c *Cell) makeChild(props *Props, name string) (*LocalActorRef, error) {
	if c.isTerminating() {
		return nil, errors.ErrParentTerminating
	}

	if err := c.reserveChild(name); err != nil {
		return nil, err
	}

	child, err := c.system.newLocalActor(props, c.self, c.self.Path().Child(name), true)
	if err != nil {
		c.unreserveChild(name)
		return nil, err
	}

	for range c.mailbox.SuspendCount() {
		child.Suspend()
	}

	c.initChild(child)
	child.cell.start()
	return child, nil
}

// actorOf creates a child with the given name. An empty name creates an
// anonymous child.
func (c *Cell) actorOf(props *Props, name string) (*LocalActorRef, error) {
	if props == nil {
		return nil, errors.NewErrInvalidMessage(fmt.Errorf("props of %s are required", name))
	}

	if name == "" {
		name = c.randomName()
	} else if strings.HasPrefix(name, "$") || !address.IsValidPathElement(name) {
		return nil, errors.NewErrInvalidActorName(name)
	}
	return c.makeChild(props, name)
}

// supervise registers a child announced by a Supervise message
func (c *Cell) supervise(child ActorRef) {
	if c.isTerminating() {
		return
	}

	local, ok := child.(*LocalActorRef)
	if !ok || c.initChild(local) == nil {
		c.logger.Errorf("received Supervise from unregistered child %s, this will not end well", child)
		return
	}

	if c.system.config.Debug.Lifecycle {
		c.logger.Debugf("now supervising %s", child)
	}
}

// stopChild marks a child as dying and stops it
func (c *Cell) stopChild(child ActorRef) {
	if c.children().getByRef(child) != nil {
		for {
			current := c.children()
			if c.swapChildren(current, current.shallDie(child)) {
				break
			}
		}
	}
	child.stop()
}

// handleChildTerminated removes a stopped child and completes the create,
// restart or stop the cell was waiting for
func (c *Cell) handleChildTerminated(child ActorRef) {
	reason, changed := c.removeChildAndGetStateChange(child)

	if c.actor != nil {
		strategy := c.supervisorStrategy()
		if err := c.safely(func() error {
			strategy.HandleChildTerminated(&supervisionContext{cell: c}, child.(supervisor.Child), c.childList())
			return nil
		}); err != nil {
			c.logger.Errorf("handleChildTerminated failed: %v", err)
			c.handleInvokeFailure(nil, err)
		}
	}

	if !changed {
		return
	}

	switch reason.kind {
	case reasonRecreation:
		c.finishRecreate(reason.cause)
	case reasonCreation:
		c.finishCreate()
	case reasonTermination:
		c.finishTerminate()
	}
}

func (c *Cell) childList() []supervisor.Child {
	refs := c.children().refs()
	children := make([]supervisor.Child, 0, len(refs))
	for _, ref := range refs {
		if child, ok := ref.(supervisor.Child); ok {
			children = append(children, child)
		}
	}
	return children
}

// getSingleChild returns the child with the given name. The name may carry
// the uid of the expected incarnation, as in "name#uid".
func (c *Cell) getSingleChild(name string) ActorRef {
	uid := address.UndefinedUID
	if i := strings.IndexByte(name, '#'); i >= 0 {
		parsed, err := strconv.ParseInt(name[i+1:], 10, 64)
		if err != nil {
			return Nobody
		}
		name, uid = name[:i], parsed
	}

	stats, _ := c.children().getByName(name)
	if stats == nil {
		return Nobody
	}
	if uid != address.UndefinedUID && uid != stats.UID() {
		return Nobody
	}
	return stats.Child().(ActorRef)
}
