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
	"fmt"
	"runtime"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/flowchartsman/retry"
	"go.uber.org/atomic"

	"github.com/tochemey/actorcell/errors"
	"github.com/tochemey/actorcell/log"
	"github.com/tochemey/actorcell/supervisor"
)

// uids identify the incarnations. They are never reused within a process.
var uids = atomic.NewInt64(0)

func newUID() int64 {
	return uids.Inc()
}

type failureKind int

const (
	noFailure failureKind = iota
	failedRef
	failedFatally
)

// failureInfo tracks whether the cell waits for the decision of its
// supervisor and which actor caused it
type failureInfo struct {
	kind        failureKind
	perpetrator ActorRef
}

// Cell hosts an actor instance. It owns the instance state and runs the
// message dispatch, the fault handling, the children registry and the death
// watch of the actor.
//
// A cell is only invoked by its mailbox, one message at a time. The children
// container is the only field updated from other goroutines.
type Cell struct {
	system     *ActorSystem
	self       *LocalActorRef
	parent     ActorRef
	props      *Props
	dispatcher *Dispatcher
	mailbox    *Mailbox
	logger     log.Logger
	uid        int64
	context    *ActorContext

	actor     Actor
	behaviors *behaviorStack
	current   *Envelope

	childrenRefs *atomic.Pointer[childrenContainer]
	nameSeq      *atomic.Int64

	failure failureInfo

	watching        map[ActorRef]any
	watchedBy       mapset.Set[ActorRef]
	terminatedQueue map[ActorRef]any

	receiveTimeout     time.Duration
	receiveTimeoutTask *Cancellable

	sysMsgStash []systemMessage
}

func newCell(system *ActorSystem, props *Props, parent ActorRef, self *LocalActorRef) *Cell {
	cell := &Cell{
		system:          system,
		self:            self,
		parent:          parent,
		props:           props,
		dispatcher:      system.dispatcher,
		logger:          system.logger.With("actor", self.Path().String()),
		uid:             self.Path().UID(),
		behaviors:       newBehaviorStack(),
		childrenRefs:    atomic.NewPointer(emptyChildren),
		nameSeq:         atomic.NewInt64(0),
		watching:        make(map[ActorRef]any),
		watchedBy:       mapset.NewThreadUnsafeSet[ActorRef](),
		terminatedQueue: make(map[ActorRef]any),
	}
	cell.context = &ActorContext{cell: cell}
	cell.mailbox = newMailbox(cell, props.newMessageQueue(system.config.MailboxCapacity))
	self.cell = cell
	return cell
}

// init enqueues the Create message and registers the cell with its parent.
// The mailbox is not scheduled before start.
func (c *Cell) init(sendSupervise bool) {
	message := &create{}
	message.markEnqueued()
	c.mailbox.system.Push(message)
	if sendSupervise {
		c.parent.sendSystemMessage(&supervise{child: c.self})
	}
}

// start schedules the cell mailbox
func (c *Cell) start() {
	c.dispatcher.attach(c)
}

func (c *Cell) sendMessage(envelope Envelope) {
	c.dispatcher.dispatch(c, envelope)
}

// sendSystemMessage enqueues a system message. A message instance that has
// already been enqueued is rejected.
func (c *Cell) sendSystemMessage(message systemMessage) error {
	if !message.meta().markEnqueued() {
		c.logger.Errorf("BUG: system message %T sent twice to %s", message, c.self.Path())
		return errors.ErrSystemMessageReused
	}
	c.dispatcher.systemDispatch(c, message)
	return nil
}

func (c *Cell) isTerminated() bool {
	return c.mailbox.IsClosed()
}

func (c *Cell) children() *childrenContainer {
	return c.childrenRefs.Load()
}

func (c *Cell) isTerminating() bool {
	return c.children().isTerminating()
}

func (c *Cell) currentMessage() any {
	if c.current == nil {
		return nil
	}
	return c.current.Message
}

// invoke processes a user message
func (c *Cell) invoke(envelope Envelope) {
	_, notInfluence := envelope.Message.(NotInfluenceReceiveTimeout)
	timeoutBefore := c.receiveTimeout
	if _, timeout := envelope.Message.(ReceiveTimeout); timeout || !notInfluence {
		c.cancelReceiveTimeout()
	}

	c.current = &envelope
	err := c.safely(func() error {
		if _, ok := envelope.Message.(autoReceived); ok {
			return c.autoReceiveMessage(envelope)
		}
		return c.receiveMessage(envelope)
	})

	if err != nil {
		c.handleInvokeFailure(nil, err)
	} else {
		c.current = nil
	}

	if !c.isTerminated() {
		c.checkReceiveTimeout(!notInfluence || c.receiveTimeout != timeoutBefore)
	}
}

func (c *Cell) receiveMessage(envelope Envelope) error {
	behavior := c.behaviors.peek()
	if behavior == nil {
		c.system.publishDeadLetter(envelope.Message, envelope.Sender, c.self)
		return nil
	}

	ctx := newReceiveContext(c, envelope)
	behavior(ctx)
	return ctx.err
}

func (c *Cell) autoReceiveMessage(envelope Envelope) error {
	if c.system.config.Debug.AutoReceive {
		c.logger.Debugf("received AutoReceiveMessage %T from %v", envelope.Message, envelope.Sender)
	}

	switch msg := envelope.Message.(type) {
	case Terminated:
		return c.receivedTerminated(msg, envelope)
	case AddressTerminated:
		c.addressTerminated(msg)
	case Kill:
		return errors.NewActorKilledError("Kill")
	case PoisonPill:
		c.self.stop()
	case ActorSelectionMessage:
		c.receiveSelection(msg, envelope.Sender)
	case Identify:
		if envelope.Sender != nil {
			envelope.Sender.Tell(ActorIdentity{MessageID: msg.MessageID, Ref: c.self}, c.self)
		}
	}
	return nil
}

func (c *Cell) receiveSelection(msg ActorSelectionMessage, sender ActorRef) {
	if len(msg.Elements) == 0 {
		c.invoke(Envelope{Message: msg.Message, Sender: sender})
		return
	}
	deliverSelection(c.system, c.self, sender, msg)
}

// safely runs fn and turns a panic into an error
func (c *Cell) safely(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			pc, file, line, _ := runtime.Caller(2)
			switch v := r.(type) {
			case error:
				err = errors.NewPanicError(fmt.Errorf("%w at %s[%s:%d]", v, runtime.FuncForPC(pc).Name(), file, line))
			default:
				err = errors.NewPanicError(fmt.Errorf("%#v at %s[%s:%d]", r, runtime.FuncForPC(pc).Name(), file, line))
			}
		}
	}()
	return fn()
}

// newActor creates a fresh instance and resets the behaviors to its Receive
func (c *Cell) newActor() (Actor, error) {
	c.behaviors.reset()

	var instance Actor
	if err := c.safely(func() error {
		instance = c.props.producer()
		return nil
	}); err != nil {
		return nil, err
	}

	if instance == nil {
		return nil, fmt.Errorf("props of %s produced a nil actor", c.self.Path())
	}

	if c.behaviors.len() == 0 {
		c.behaviors.push(instance.Receive)
	}
	return instance, nil
}

// create runs the Create message: a new instance is built and started
func (c *Cell) create(failure error) error {
	if failure != nil {
		return failure
	}

	instance, err := c.newActor()
	if err == nil {
		c.actor = instance
		err = c.preStart(instance)
	}

	if err != nil {
		if c.actor != nil {
			c.clearActorFields()
			c.setFailedFatally()
			c.actor = nil
		}
		c.logger.Errorf("Failed to initialize Actor %s: %v", c.self.Path(), err)
		return errors.NewActorInitializationError(c.self.Path().String(), "exception during creation", err)
	}

	c.checkReceiveTimeout(true)
	if c.system.config.Debug.Lifecycle {
		c.logger.Debugf("started (%T)", instance)
	}
	c.system.publish(EventsTopic, ActorStarted{Ref: c.self})
	return nil
}

// preStart runs PreStart with the retries configured for the actor
func (c *Cell) preStart(instance Actor) error {
	maxRetries, timeout := c.props.initRetries(c.system.config)
	ctx, cancel := context.WithTimeout(c.system.ctx, timeout)
	defer cancel()

	retrier := retry.NewRetrier(maxRetries, time.Millisecond, timeout)
	return retrier.RunContext(ctx, func(context.Context) error {
		return c.safely(func() error {
			return instance.PreStart(c.context)
		})
	})
}

func (c *Cell) supervisorStrategy() supervisor.Strategy {
	if c.props.strategy != nil {
		return c.props.strategy
	}
	if provider, ok := c.actor.(SupervisorStrategyProvider); ok {
		if strategy := provider.SupervisorStrategy(); strategy != nil {
			return strategy
		}
	}
	return c.system.defaultStrategy
}

func (c *Cell) become(behavior Behavior, discardOld bool) {
	if discardOld && c.behaviors.len() > 0 {
		c.behaviors.pop()
	}
	c.behaviors.push(behavior)
}

// unbecomeStacked pops the current behavior. The actor Receive is restored
// when the stack would become empty.
func (c *Cell) unbecomeStacked() {
	if c.behaviors.len() > 1 {
		c.behaviors.pop()
		return
	}
	c.resetBehavior()
}

func (c *Cell) resetBehavior() {
	c.behaviors.reset()
	if c.actor != nil {
		c.behaviors.push(c.actor.Receive)
	}
}

func (c *Cell) clearActorFields() {
	c.current = nil
	c.behaviors.reset()
}

// clearFieldsForTermination releases the state of a stopped cell. The
// stashed system messages go to the dead letters.
func (c *Cell) clearFieldsForTermination() {
	for _, message := range c.unstashAll() {
		c.system.deadLetters.deliver(message, NoSender, c.self)
	}
	c.actor = nil
	c.receiveTimeout = 0
}

func (c *Cell) setFailed(perpetrator ActorRef) {
	if c.failure.kind != failedFatally {
		c.failure = failureInfo{kind: failedRef, perpetrator: perpetrator}
	}
}

func (c *Cell) clearFailed() {
	if c.failure.kind == failedRef {
		c.failure = failureInfo{}
	}
}

func (c *Cell) setFailedFatally() {
	c.failure = failureInfo{kind: failedFatally}
}

func (c *Cell) isFailed() bool {
	return c.failure.kind == failedRef
}

func (c *Cell) isFailedFatally() bool {
	return c.failure.kind == failedFatally
}

func (c *Cell) perpetrator() ActorRef {
	if c.failure.kind == failedRef {
		return c.failure.perpetrator
	}
	return nil
}

// The states of the system message processing, ordered so that a state
// stashes a superset of the messages stashed by a lower one
const (
	stateDefault = iota
	stateSuspended
	stateWaitingForChildren
)

func (c *Cell) calculateState() int {
	switch {
	case c.children().waitingForChildren():
		return stateWaitingForChildren
	case c.mailbox.IsSuspended():
		return stateSuspended
	default:
		return stateDefault
	}
}

func shouldStash(message systemMessage, state int) bool {
	switch state {
	case stateSuspended:
		_, ok := message.(stashWhenFailed)
		return ok
	case stateWaitingForChildren:
		_, ok := message.(stashWhenWaitingForChildren)
		return ok
	default:
		return false
	}
}

func (c *Cell) stash(message systemMessage) {
	c.sysMsgStash = append(c.sysMsgStash, message)
}

func (c *Cell) unstashAll() []systemMessage {
	stashed := c.sysMsgStash
	c.sysMsgStash = nil
	return stashed
}

// systemInvoke processes a system message. Messages that cannot be handled
// in the current state are stashed and replayed, in their original order,
// once the cell leaves that state.
func (c *Cell) systemInvoke(message systemMessage) {
	todo := []systemMessage{message}
	state := c.calculateState()

	for len(todo) > 0 {
		current := todo[0]
		todo = todo[1:]

		if shouldStash(current, state) {
			c.stash(current)
		} else if err := c.safely(func() error { return c.handleSystemMessage(current) }); err != nil {
			c.handleInvokeFailure(nil, err)
		}

		newState := c.calculateState()
		if newState < state {
			todo = append(c.unstashAll(), todo...)
		}
		state = newState

		if c.isTerminated() {
			for _, rest := range todo {
				c.system.deadLetters.deliver(rest, NoSender, c.self)
			}
			return
		}
	}
}

func (c *Cell) handleSystemMessage(message systemMessage) error {
	switch m := message.(type) {
	case *failed:
		return c.handleFailure(m)
	case *deathWatchNotification:
		c.watchedActorTerminated(m.actor, m.existenceConfirmed, m.addressTerminated)
	case *create:
		return c.create(m.failure)
	case *watch:
		c.addWatcher(m.watchee, m.watcher)
	case *unwatch:
		c.remWatcher(m.watchee, m.watcher)
	case *recreate:
		c.faultRecreate(m.cause)
	case *suspend:
		c.faultSuspend()
	case *resume:
		c.faultResume(m.causedByFailure)
	case *terminate:
		c.terminate()
	case *supervise:
		c.supervise(m.child)
	default:
		return errors.NewFatalError(fmt.Errorf("%w: %T", errors.ErrUnknownSystemMessage, message))
	}
	return nil
}
