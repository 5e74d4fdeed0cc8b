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

// behaviorStack holds the message handlers of an actor. The top handler
// receives the messages.
type behaviorStack struct {
	behaviors []Behavior
}

func newBehaviorStack() *behaviorStack {
	return &behaviorStack{behaviors: make([]Behavior, 0, 2)}
}

// peek returns the current behavior or nil when the stack is empty
func (s *behaviorStack) peek() Behavior {
	if len(s.behaviors) == 0 {
		return nil
	}
	return s.behaviors[len(s.behaviors)-1]
}

func (s *behaviorStack) push(behavior Behavior) {
	s.behaviors = append(s.behaviors, behavior)
}

func (s *behaviorStack) pop() {
	if len(s.behaviors) > 0 {
		s.behaviors[len(s.behaviors)-1] = nil
		s.behaviors = s.behaviors[:len(s.behaviors)-1]
	}
}

func (s *behaviorStack) len() int {
	return len(s.behaviors)
}

func (s *behaviorStack) reset() {
	clear(s.behaviors)
	s.behaviors = s.behaviors[:0]
}
