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

// Package eventstream is the in-process pub/sub bus the actor system uses to
// publish lifecycle events, dead letters and unhandled messages.
package eventstream

import (
	"sync"

	"github.com/tochemey/actorcell/internal/xsync"
)

// Stream defines the event stream broker.
type Stream interface {
	// AddSubscriber adds a subscriber.
	AddSubscriber() Subscriber
	// RemoveSubscriber removes a subscriber.
	RemoveSubscriber(sub Subscriber)
	// SubscribersCount returns the number of subscribers for a given topic.
	SubscribersCount(topic string) int
	// Subscribe subscribes a subscriber to a topic.
	Subscribe(sub Subscriber, topic string)
	// Unsubscribe removes a subscriber from a topic.
	Unsubscribe(sub Subscriber, topic string)
	// Publish publishes a message to a topic.
	Publish(topic string, msg any)
	// Broadcast notifies all subscribers of the given topics of a new message.
	Broadcast(msg any, topics []string)
	// Close shuts every subscriber down and clears the topics.
	Close()
}

// EventsStream is the default Stream implementation.
type EventsStream struct {
	subscribers *xsync.Map[string, Subscriber]

	mu     sync.RWMutex
	topics map[string]map[string]Subscriber
}

var _ Stream = (*EventsStream)(nil)

// New creates an instance of EventsStream.
func New() *EventsStream {
	return &EventsStream{
		subscribers: xsync.NewMap[string, Subscriber](),
		topics:      make(map[string]map[string]Subscriber),
	}
}

// AddSubscriber registers a new subscriber with the stream
func (x *EventsStream) AddSubscriber() Subscriber {
	sub := newSubscriber()
	x.subscribers.Set(sub.ID(), sub)
	return sub
}

// RemoveSubscriber unsubscribes the subscriber from all its topics and shuts it down
func (x *EventsStream) RemoveSubscriber(sub Subscriber) {
	for _, topic := range sub.Topics() {
		x.Unsubscribe(sub, topic)
	}
	x.subscribers.Delete(sub.ID())
	sub.Shutdown()
}

// SubscribersCount returns the number of subscribers of the topic
func (x *EventsStream) SubscribersCount(topic string) int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.topics[topic])
}

// Subscribe adds the subscriber to the topic. Inactive subscribers are ignored.
func (x *EventsStream) Subscribe(sub Subscriber, topic string) {
	if !sub.Active() {
		return
	}

	sub.subscribe(topic)

	x.mu.Lock()
	subs, ok := x.topics[topic]
	if !ok {
		subs = make(map[string]Subscriber)
		x.topics[topic] = subs
	}
	subs[sub.ID()] = sub
	x.mu.Unlock()
}

// Unsubscribe removes the subscriber from the topic
func (x *EventsStream) Unsubscribe(sub Subscriber, topic string) {
	sub.unsubscribe(topic)

	x.mu.Lock()
	if subs, ok := x.topics[topic]; ok {
		delete(subs, sub.ID())
		if len(subs) == 0 {
			delete(x.topics, topic)
		}
	}
	x.mu.Unlock()
}

// Publish delivers the message to every active subscriber of the topic
func (x *EventsStream) Publish(topic string, msg any) {
	x.publish(topic, msg)
}

// Broadcast publishes the message to each of the given topics
func (x *EventsStream) Broadcast(msg any, topics []string) {
	for _, topic := range topics {
		x.publish(topic, msg)
	}
}

// Close shuts down every subscriber
func (x *EventsStream) Close() {
	for _, sub := range x.subscribers.Values() {
		sub.Shutdown()
		x.subscribers.Delete(sub.ID())
	}

	x.mu.Lock()
	x.topics = make(map[string]map[string]Subscriber)
	x.mu.Unlock()
}

func (x *EventsStream) publish(topic string, msg any) {
	x.mu.RLock()
	subs := x.topics[topic]
	snapshot := make([]Subscriber, 0, len(subs))
	for _, sub := range subs {
		snapshot = append(snapshot, sub)
	}
	x.mu.RUnlock()

	if len(snapshot) == 0 {
		return
	}

	message := NewMessage(topic, msg)
	for _, sub := range snapshot {
		sub.signal(message)
	}
}
