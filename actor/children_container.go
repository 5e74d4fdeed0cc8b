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
	"maps"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/tochemey/actorcell/errors"
	"github.com/tochemey/actorcell/supervisor"
)

type suspendReasonKind int

const (
	reasonUserRequest suspendReasonKind = iota
	reasonCreation
	reasonRecreation
	reasonTermination
)

// suspendReason tells which operation resumes once the children being
// stopped are gone
type suspendReason struct {
	kind  suspendReasonKind
	cause error
}

// waitingForChildren reports whether the reason holds a create or a restart
func (r suspendReason) waitingForChildren() bool {
	return r.kind == reasonCreation || r.kind == reasonRecreation
}

type containerKind int

const (
	containerNormal containerKind = iota
	containerTerminating
	containerTerminated
)

// childrenContainer maps the child names to their restart stats. A nil
// stats value marks a reserved name. A container is never mutated: every
// operation returns a new container that the cell swaps in with a CAS.
type childrenContainer struct {
	kind     containerKind
	children map[string]*supervisor.ChildRestartStats
	toDie    mapset.Set[ActorRef]
	reason   suspendReason
}

var (
	emptyChildren      = &childrenContainer{kind: containerNormal, children: map[string]*supervisor.ChildRestartStats{}}
	terminatedChildren = &childrenContainer{kind: containerTerminated, children: map[string]*supervisor.ChildRestartStats{}}
)

func newNormalChildren(children map[string]*supervisor.ChildRestartStats) *childrenContainer {
	if len(children) == 0 {
		return emptyChildren
	}
	return &childrenContainer{kind: containerNormal, children: children}
}

func (c *childrenContainer) copyWith(children map[string]*supervisor.ChildRestartStats, toDie mapset.Set[ActorRef]) *childrenContainer {
	return &childrenContainer{
		kind:     containerTerminating,
		children: children,
		toDie:    toDie,
		reason:   c.reason,
	}
}

func (c *childrenContainer) updated(name string, stats *supervisor.ChildRestartStats) map[string]*supervisor.ChildRestartStats {
	children := maps.Clone(c.children)
	children[name] = stats
	return children
}

func (c *childrenContainer) without(name string) map[string]*supervisor.ChildRestartStats {
	children := maps.Clone(c.children)
	delete(children, name)
	return children
}

// add replaces the reservation of the name with the live child stats
func (c *childrenContainer) add(name string, stats *supervisor.ChildRestartStats) *childrenContainer {
	switch c.kind {
	case containerTerminated:
		return c
	case containerTerminating:
		return c.copyWith(c.updated(name, stats), c.toDie)
	default:
		return newNormalChildren(c.updated(name, stats))
	}
}

// remove drops the child. A terminating container whose last dying child is
// removed becomes terminated when the cell itself stops, and normal otherwise.
func (c *childrenContainer) remove(child ActorRef) *childrenContainer {
	name := child.Path().Name()
	switch c.kind {
	case containerTerminated:
		return c
	case containerTerminating:
		toDie := c.toDie.Clone()
		toDie.Remove(child)
		if toDie.Cardinality() == 0 {
			if c.reason.kind == reasonTermination {
				return terminatedChildren
			}
			return newNormalChildren(c.without(name))
		}
		return c.copyWith(c.without(name), toDie)
	default:
		if _, ok := c.children[name]; !ok {
			return c
		}
		return newNormalChildren(c.without(name))
	}
}

// shallDie records that the child is being stopped
func (c *childrenContainer) shallDie(child ActorRef) *childrenContainer {
	switch c.kind {
	case containerTerminated:
		return c
	case containerTerminating:
		toDie := c.toDie.Clone()
		toDie.Add(child)
		return c.copyWith(c.children, toDie)
	default:
		if len(c.children) == 0 {
			return c
		}
		return &childrenContainer{
			kind:     containerTerminating,
			children: c.children,
			toDie:    mapset.NewThreadUnsafeSet(child),
			reason:   suspendReason{kind: reasonUserRequest},
		}
	}
}

// reserve claims the name for a child about to be created
func (c *childrenContainer) reserve(name string) (*childrenContainer, error) {
	switch c.kind {
	case containerTerminated:
		return nil, errors.ErrParentTerminated
	case containerTerminating:
		if c.reason.kind == reasonTermination {
			return nil, errors.ErrParentTerminating
		}
		if _, ok := c.children[name]; ok {
			return nil, errors.NewErrNameNotUnique(name)
		}
		return c.copyWith(c.updated(name, nil), c.toDie), nil
	default:
		if _, ok := c.children[name]; ok {
			return nil, errors.NewErrNameNotUnique(name)
		}
		return newNormalChildren(c.updated(name, nil)), nil
	}
}

// unreserve releases a name whose child could not be created
func (c *childrenContainer) unreserve(name string) *childrenContainer {
	stats, ok := c.children[name]
	if !ok || stats != nil {
		return c
	}

	switch c.kind {
	case containerTerminating:
		return c.copyWith(c.without(name), c.toDie)
	case containerNormal:
		return newNormalChildren(c.without(name))
	default:
		return c
	}
}

// withReason returns a terminating container carrying the given reason
func (c *childrenContainer) withReason(reason suspendReason) *childrenContainer {
	return &childrenContainer{
		kind:     containerTerminating,
		children: c.children,
		toDie:    c.toDie,
		reason:   reason,
	}
}

// getByName returns the stats of the child. reserved is true when the name
// is claimed by a child not created yet.
func (c *childrenContainer) getByName(name string) (stats *supervisor.ChildRestartStats, reserved bool) {
	stats, ok := c.children[name]
	return stats, ok && stats == nil
}

// getByRef returns the live stats of the given incarnation
func (c *childrenContainer) getByRef(child ActorRef) *supervisor.ChildRestartStats {
	if child == nil {
		return nil
	}
	stats := c.children[child.Path().Name()]
	if stats == nil {
		return nil
	}
	if ref, ok := stats.Child().(ActorRef); ok && sameRef(ref, child) {
		return stats
	}
	return nil
}

// stats returns the stats of the live children
func (c *childrenContainer) stats() []*supervisor.ChildRestartStats {
	stats := make([]*supervisor.ChildRestartStats, 0, len(c.children))
	for _, s := range c.children {
		if s != nil {
			stats = append(stats, s)
		}
	}
	return stats
}

// refs returns the live children
func (c *childrenContainer) refs() []ActorRef {
	refs := make([]ActorRef, 0, len(c.children))
	for _, s := range c.children {
		if s != nil {
			refs = append(refs, s.Child().(ActorRef))
		}
	}
	return refs
}

// isTerminating reports whether the owning cell is stopping
func (c *childrenContainer) isTerminating() bool {
	return c.kind == containerTerminated || (c.kind == containerTerminating && c.reason.kind == reasonTermination)
}

// isNormal reports whether the owning cell runs normally
func (c *childrenContainer) isNormal() bool {
	return c.kind == containerNormal || (c.kind == containerTerminating && c.reason.kind == reasonUserRequest)
}

// waitingForChildren reports whether a create or a restart waits for children to stop
func (c *childrenContainer) waitingForChildren() bool {
	return c.kind == containerTerminating && c.reason.waitingForChildren()
}
