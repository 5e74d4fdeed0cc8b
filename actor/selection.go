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
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tochemey/actorcell/errors"
)

// SelectionElement is a step of an actor selection path
type SelectionElement interface {
	String() string
	selectionElement()
}

// SelectParent selects the parent of the current actor. It is written "..".
type SelectParent struct{}

func (SelectParent) String() string    { return ".." }
func (SelectParent) selectionElement() {}

// SelectChildName selects the child with the given name
type SelectChildName struct {
	Name string
}

func (s SelectChildName) String() string { return s.Name }
func (SelectChildName) selectionElement() {}

// SelectChildPattern selects the children whose name matches a glob
// pattern where '*' matches any sequence and '?' any single character
type SelectChildPattern struct {
	Pattern string
	re      *regexp.Regexp
}

func newSelectChildPattern(pattern string) SelectChildPattern {
	expr := regexp.QuoteMeta(pattern)
	expr = strings.ReplaceAll(expr, `\*`, ".*")
	expr = strings.ReplaceAll(expr, `\?`, ".")
	return SelectChildPattern{Pattern: pattern, re: regexp.MustCompile("^" + expr + "$")}
}

func (s SelectChildPattern) String() string { return s.Pattern }
func (SelectChildPattern) selectionElement() {}

func (s SelectChildPattern) matches(name string) bool {
	return s.re.MatchString(name)
}

// ActorSelection is a path expression, anchored at an actor, that selects
// zero or more actors. Messages sent to a selection are routed down the
// actor tree at delivery time.
type ActorSelection struct {
	system   *ActorSystem
	anchor   ActorRef
	elements []SelectionElement
}

func newActorSelection(system *ActorSystem, anchor ActorRef, path string) (*ActorSelection, error) {
	if strings.Contains(path, "://") {
		prefix := system.address.String()
		if !strings.HasPrefix(path, prefix) {
			return nil, errors.NewErrActorNotFound(path)
		}
		path = strings.TrimPrefix(path, prefix)
		if path != "" && !strings.HasPrefix(path, "/") {
			return nil, errors.NewErrActorNotFound(prefix + path)
		}
		path = "/" + path
	}

	if strings.HasPrefix(path, "/") {
		anchor = system.rootGuardian
	}

	var elements []SelectionElement
	for _, element := range strings.Split(path, "/") {
		switch {
		case element == "" || element == ".":
		case element == "..":
			elements = append(elements, SelectParent{})
		case strings.ContainsAny(element, "*?"):
			elements = append(elements, newSelectChildPattern(element))
		default:
			elements = append(elements, SelectChildName{Name: element})
		}
	}

	return &ActorSelection{system: system, anchor: anchor, elements: elements}, nil
}

// Tell sends a message to every actor matching the selection
func (s *ActorSelection) Tell(message any, sender ActorRef) {
	deliverSelection(s.system, s.anchor, sender, ActorSelectionMessage{Message: message, Elements: s.elements})
}

// ResolveOne returns the reference of the actor matching the selection. It
// fails with ErrActorNotFound when no actor answers within the timeout.
func (s *ActorSelection) ResolveOne(ctx context.Context, timeout time.Duration) (ActorRef, error) {
	if timeout <= 0 {
		return nil, errors.ErrInvalidTimeout
	}

	path := s.system.tempPathFor()
	promise := newPromiseRef(s.system, path)
	if err := s.system.registerTempActor(path.Name(), promise); err != nil {
		return nil, err
	}
	defer s.system.unregisterTempActor(path.Name())

	s.Tell(Identify{MessageID: uuid.NewString()}, promise)

	timer := timers.Get(timeout)
	defer timers.Put(timer)

	select {
	case reply := <-promise.result:
		if identity, ok := reply.Message.(ActorIdentity); ok && identity.Ref != nil {
			return identity.Ref, nil
		}
	case <-timer.C:
	case <-ctx.Done():
		promise.stop()
		return nil, ctx.Err()
	}

	promise.stop()
	return nil, errors.NewErrActorNotFound(s.String())
}

// String returns the selection path
func (s *ActorSelection) String() string {
	var sb strings.Builder
	sb.WriteString(s.anchor.Path().String())
	for _, element := range s.elements {
		if !strings.HasSuffix(sb.String(), "/") {
			sb.WriteByte('/')
		}
		sb.WriteString(element.String())
	}
	return sb.String()
}

// deliverSelection walks the selection elements from anchor and delivers
// the message to the matching actors. A miss is answered by an empty
// reference unless a wildcard already fanned out.
func deliverSelection(system *ActorSystem, anchor ActorRef, sender ActorRef, sel ActorSelectionMessage) {
	if len(sel.Elements) == 0 {
		anchor.Tell(sel.Message, sender)
		return
	}

	emptyRef := func() ActorRef {
		names := make([]string, 0, len(sel.Elements))
		for _, element := range sel.Elements {
			names = append(names, element.String())
		}
		return newEmptyRef(system, anchor.Path().Descendant(names...))
	}

	ref := anchor
	for i, element := range sel.Elements {
		local, ok := ref.(*LocalActorRef)
		if !ok {
			ref.Tell(ActorSelectionMessage{Message: sel.Message, Elements: sel.Elements[i:], WildcardFanOut: sel.WildcardFanOut}, sender)
			return
		}

		rest := sel.Elements[i+1:]
		switch e := element.(type) {
		case SelectParent:
			parent := local.getParent()
			if len(rest) == 0 {
				parent.Tell(sel.Message, sender)
				return
			}
			ref = parent
		case SelectChildName:
			child := local.cell.getSingleChild(e.Name)
			switch {
			case child == Nobody:
				if !sel.WildcardFanOut {
					emptyRef().Tell(sel, sender)
				}
				return
			case len(rest) == 0:
				child.Tell(sel.Message, sender)
				return
			}
			ref = child
		case SelectChildPattern:
			var matching []ActorRef
			for _, child := range local.cell.children().refs() {
				if e.matches(child.Path().Name()) {
					matching = append(matching, child)
				}
			}

			if len(matching) == 0 {
				if !sel.WildcardFanOut {
					emptyRef().Tell(sel, sender)
				}
				return
			}

			next := ActorSelectionMessage{
				Message:        sel.Message,
				Elements:       rest,
				WildcardFanOut: sel.WildcardFanOut || len(matching) > 1,
			}
			for _, child := range matching {
				if len(rest) == 0 {
					deliverSelection(system, child, sender, next)
				} else {
					child.Tell(next, sender)
				}
			}
			return
		}
	}
}
