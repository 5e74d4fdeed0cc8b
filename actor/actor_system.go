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
	"os"
	"runtime"
	"strings"
	"sync"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/atomic"
	"go.uber.org/multierr"

	"github.com/tochemey/actorcell/address"
	"github.com/tochemey/actorcell/config"
	"github.com/tochemey/actorcell/errors"
	"github.com/tochemey/actorcell/eventstream"
	"github.com/tochemey/actorcell/internal/chain"
	"github.com/tochemey/actorcell/internal/executor"
	imetric "github.com/tochemey/actorcell/internal/metric"
	"github.com/tochemey/actorcell/internal/xsync"
	"github.com/tochemey/actorcell/log"
	"github.com/tochemey/actorcell/supervisor"
)

const (
	userGuardianName   = "user"
	systemGuardianName = "system"
	tempName           = "temp"
	deadLettersName    = "deadLetters"
	bubbleWalkerName   = "bubble-walker"
	schedulerStopDelay = 3 * time.Second
)

// ActorSystem hosts a tree of actors. Its root guardian "/" supervises
// the user guardian "/user", parent of the actors created with ActorOf, and
// the system guardian "/system".
type ActorSystem struct {
	name    string
	config  *config.Config
	logger  log.Logger
	address *address.Address
	meter   metric.Meter

	ctx    context.Context
	cancel context.CancelFunc

	eventStream     *eventstream.EventsStream
	executor        *executor.Executor
	dispatcher      *Dispatcher
	scheduler       *scheduler
	defaultStrategy supervisor.Strategy

	systemMetric *imetric.SystemMetric
	registration metric.Registration

	rootPath       *address.Path
	deadLetters    *deadLettersRef
	bubble         *bubbleRef
	rootGuardian   *LocalActorRef
	userGuardian   *LocalActorRef
	systemGuardian *LocalActorRef

	tempPath      *address.Path
	tempContainer *xsync.Map[string, ActorRef]
	tempNumber    *atomic.Int64

	addressTerminatedTopic mapset.Set[ActorRef]

	started          *atomic.Bool
	terminating      *atomic.Bool
	startedAt        *atomic.Int64
	terminated       chan struct{}
	terminatedOnce   sync.Once
	terminationCause *atomic.Error

	deadLettersCount *atomic.Int64
	actorsCount      *atomic.Int64
	restartsCount    *atomic.Int64
	failuresCount    *atomic.Int64
}

// NewActorSystem creates an actor system with the given name. The system
// has to be started before actors can be created.
func NewActorSystem(name string, opts ...Option) (*ActorSystem, error) {
	if strings.TrimSpace(name) == "" {
		return nil, errors.ErrNameRequired
	}

	system := &ActorSystem{
		name:                   name,
		config:                 config.Default(name),
		eventStream:            eventstream.New(),
		defaultStrategy:        supervisor.NewOneForOne(),
		tempContainer:          xsync.NewMap[string, ActorRef](),
		tempNumber:             atomic.NewInt64(0),
		addressTerminatedTopic: mapset.NewSet[ActorRef](),
		started:                atomic.NewBool(false),
		terminating:            atomic.NewBool(false),
		startedAt:              atomic.NewInt64(0),
		terminated:             make(chan struct{}),
		terminationCause:       atomic.NewError(nil),
		deadLettersCount:       atomic.NewInt64(0),
		actorsCount:            atomic.NewInt64(0),
		restartsCount:          atomic.NewInt64(0),
		failuresCount:          atomic.NewInt64(0),
	}

	for _, opt := range opts {
		opt.Apply(system)
	}

	system.config.Name = name
	if err := system.config.Validate(); err != nil {
		return nil, err
	}

	if system.logger == nil {
		system.logger = log.NewZap(system.config.Level(), os.Stdout)
	}
	system.logger = system.logger.With("system", name)

	if system.config.Port > 0 {
		system.address = address.New(address.DefaultProtocol, name, system.config.Host, system.config.Port)
	} else {
		system.address = address.Local(name)
	}

	systemMetric, err := imetric.NewSystemMetric(system.meter)
	if err != nil {
		return nil, err
	}
	system.systemMetric = systemMetric

	system.rootPath = address.NewRootPath(system.address)
	system.tempPath = system.rootPath.Child(tempName)
	system.deadLetters = &deadLettersRef{refBase: refBase{path: system.rootPath.Child(deadLettersName)}, system: system}
	system.bubble = &bubbleRef{refBase: refBase{path: system.rootPath.Child(bubbleWalkerName)}, system: system}

	system.executor = executor.New(
		executor.WithWorkers(system.config.Workers),
		executor.WithPanicHandler(func(recovered any) {
			system.logger.Errorf("mailbox drain panicked: %v", recovered)
		}))
	system.dispatcher = newDispatcher(system.executor, system.config.Throughput, system.config.ThroughputDeadline, system.logger)
	system.scheduler = newScheduler(system.logger, schedulerStopDelay)
	return system, nil
}

// Start starts the actor system
func (x *ActorSystem) Start(ctx context.Context) error {
	if !x.started.CompareAndSwap(false, true) {
		return errors.ErrActorSystemAlreadyStarted
	}

	x.logger.Infof("Starting Actor System (%s) on %s/%s..", x.name, runtime.GOOS, runtime.GOARCH)
	x.ctx, x.cancel = context.WithCancel(context.WithoutCancel(ctx))

	if err := chain.
		New(chain.WithFailFast()).
		Add("executor", x.startExecutor).
		Add("scheduler", x.startScheduler).
		Add("metrics", x.registerMetrics).
		Add("guardians", x.spawnGuardians).
		Run(x.ctx); err != nil {
		x.logger.Errorf("Failed to start Actor System (%s): %v", x.name, err)
		x.started.Store(false)
		return multierr.Combine(err, x.shutdown(ctx))
	}

	x.startedAt.Store(time.Now().Unix())
	x.logger.Infof("Actor System (%s) successfully started..:)", x.name)
	return nil
}

// Terminate stops every actor, then the system itself. It waits for the
// actor tree to be stopped or for ctx to be done.
func (x *ActorSystem) Terminate(ctx context.Context) error {
	if !x.started.Load() {
		return errors.ErrActorSystemNotStarted
	}

	if x.terminating.CompareAndSwap(false, true) {
		x.logger.Infof("Terminating Actor System (%s)...", x.name)
		x.userGuardian.stop()
	}

	var err error
	select {
	case <-x.terminated:
	case <-ctx.Done():
		err = ctx.Err()
	}

	if x.started.CompareAndSwap(true, false) {
		err = multierr.Combine(err, x.shutdown(ctx))
		x.logger.Infof("Actor System (%s) terminated", x.name)
	}
	return err
}

func (x *ActorSystem) shutdown(ctx context.Context) error {
	return chain.New().
		Add("scheduler", func(ctx context.Context) error {
			x.scheduler.Stop(ctx)
			return nil
		}).
		AddIf(x.registration != nil, "metrics", func(context.Context) error {
			return x.registration.Unregister()
		}).
		Add("executor", func(context.Context) error {
			x.executor.Stop()
			return nil
		}).
		Add("eventstream", func(context.Context) error {
			x.eventStream.Close()
			return nil
		}).
		Add("context", func(context.Context) error {
			if x.cancel != nil {
				x.cancel()
			}
			return nil
		}).
		Add("logger", func(context.Context) error {
			return x.logger.Flush()
		}).
		Run(ctx)
}

// WhenTerminated returns a channel closed once the root guardian stopped
func (x *ActorSystem) WhenTerminated() <-chan struct{} {
	return x.terminated
}

// TerminationCause returns the failure that brought the actor system down, if any
func (x *ActorSystem) TerminationCause() error {
	return x.terminationCause.Load()
}

// Name returns the actor system name
func (x *ActorSystem) Name() string {
	return x.name
}

// Address returns the actor system address
func (x *ActorSystem) Address() *address.Address {
	return x.address
}

// Logger returns the actor system logger
func (x *ActorSystem) Logger() log.Logger {
	return x.logger
}

// Config returns a copy of the actor system settings
func (x *ActorSystem) Config() config.Config {
	return *x.config
}

// EventStream returns the stream of the dead letters, the unhandled
// messages and the lifecycle events
func (x *ActorSystem) EventStream() eventstream.Stream {
	return x.eventStream
}

// DeadLetters returns the dead letters reference
func (x *ActorSystem) DeadLetters() ActorRef {
	return x.deadLetters
}

// Running reports whether the actor system is started
func (x *ActorSystem) Running() bool {
	return x.started.Load()
}

// Uptime returns the number of seconds since the actor system started
func (x *ActorSystem) Uptime() int64 {
	if x.started.Load() {
		return time.Now().Unix() - x.startedAt.Load()
	}
	return 0
}

// ActorOf creates a top level actor under "/user". An empty name creates
// an anonymous actor.
func (x *ActorSystem) ActorOf(props *Props, name string) (*LocalActorRef, error) {
	if !x.started.Load() {
		return nil, errors.ErrActorSystemNotStarted
	}
	return x.userGuardian.cell.actorOf(props, name)
}

// SystemActorOf creates an actor under "/system"
func (x *ActorSystem) SystemActorOf(props *Props, name string) (*LocalActorRef, error) {
	if !x.started.Load() {
		return nil, errors.ErrActorSystemNotStarted
	}
	return x.systemGuardian.cell.actorOf(props, name)
}

// ActorSelection selects the actors matching the absolute path
func (x *ActorSystem) ActorSelection(path string) (*ActorSelection, error) {
	if !x.started.Load() {
		return nil, errors.ErrActorSystemNotStarted
	}
	return newActorSelection(x, x.rootGuardian, path)
}

// ResolveActorRef returns the reference of the actor at the given path.
// When the path carries a uid, only that incarnation matches. A path that
// matches no actor resolves to Nobody.
func (x *ActorSystem) ResolveActorRef(path string) (ActorRef, error) {
	if !x.started.Load() {
		return nil, errors.ErrActorSystemNotStarted
	}

	parsed, err := address.Parse(path)
	if err != nil {
		return nil, err
	}

	if !parsed.Address().Equals(x.address) {
		return Nobody, nil
	}

	elements := parsed.Elements()
	var ref ActorRef
	switch {
	case len(elements) == 0:
		ref = x.rootGuardian
	case elements[0] == tempName && len(elements) == 2:
		temp, ok := x.tempContainer.Get(elements[1])
		if !ok {
			return Nobody, nil
		}
		ref = temp
	case elements[0] == deadLettersName && len(elements) == 1:
		ref = x.deadLetters
	default:
		ref = x.rootGuardian.getChild(elements)
	}

	if ref == Nobody || (parsed.UID() != address.UndefinedUID && parsed.UID() != ref.Path().UID()) {
		return Nobody, nil
	}
	return ref, nil
}

// ScheduleOnce delivers message to receiver after delay
func (x *ActorSystem) ScheduleOnce(delay time.Duration, receiver ActorRef, message any, sender ActorRef) (*Cancellable, error) {
	return x.scheduler.ScheduleOnce(delay, receiver, message, sender)
}

// PublishAddressTerminated tells every actor watching, or watched by, an
// actor at addr that all the actors living there are gone
func (x *ActorSystem) PublishAddressTerminated(addr *address.Address) {
	x.addressTerminatedTopic.Each(func(subscriber ActorRef) bool {
		subscriber.Tell(AddressTerminated{Address: addr}, NoSender)
		return false
	})
}

func (x *ActorSystem) subscribeAddressTerminated(ref ActorRef) {
	x.addressTerminatedTopic.Add(ref)
}

func (x *ActorSystem) unsubscribeAddressTerminated(ref ActorRef) {
	x.addressTerminatedTopic.Remove(ref)
}

// registerTempActor makes ref resolvable under "/temp/<name>"
func (x *ActorSystem) registerTempActor(name string, ref ActorRef) error {
	if !x.tempContainer.SetIfAbsent(name, ref) {
		return errors.ErrTempPathInUse
	}
	return nil
}

func (x *ActorSystem) unregisterTempActor(name string) {
	x.tempContainer.Delete(name)
}

// tempPathFor allocates a path under "/temp"
func (x *ActorSystem) tempPathFor() *address.Path {
	return x.tempPath.Child("$" + base64Name(x.tempNumber.Inc()))
}

// newLocalActor creates the cell of a new incarnation at path. The cell
// is not started.
func (x *ActorSystem) newLocalActor(props *Props, parent ActorRef, path *address.Path, sendSupervise bool) (*LocalActorRef, error) {
	if props.producer == nil {
		return nil, errors.NewErrInvalidMessage(fmt.Errorf("props of %s have no producer", path))
	}

	withUID, err := path.WithUID(newUID())
	if err != nil {
		return nil, err
	}

	ref := &LocalActorRef{refBase: refBase{path: withUID}}
	cell := newCell(x, props, parent, ref)
	cell.init(sendSupervise)
	x.actorsCount.Inc()
	return ref, nil
}

func (x *ActorSystem) publish(topic string, event any) {
	x.eventStream.Publish(topic, event)
}

// publishDeadLetter routes an undeliverable message to the dead letters
func (x *ActorSystem) publishDeadLetter(message any, sender, recipient ActorRef) {
	x.deadLetters.deliver(message, sender, recipient)
}

func (x *ActorSystem) deadLetterReceived(letter DeadLetter) {
	x.deadLettersCount.Inc()
	x.publish(DeadLettersTopic, letter)
}

func (x *ActorSystem) recordTerminationCause(cause error) {
	x.terminationCause.CompareAndSwap(nil, cause)
}

func (x *ActorSystem) markTerminated() {
	x.terminatedOnce.Do(func() {
		close(x.terminated)
	})
}

func (x *ActorSystem) countRestart() {
	x.restartsCount.Inc()
}

func (x *ActorSystem) countFailure() {
	x.failuresCount.Inc()
}

func (x *ActorSystem) actorStopped() {
	x.actorsCount.Dec()
}

func (x *ActorSystem) startExecutor(context.Context) error {
	x.executor.Start()
	return nil
}

func (x *ActorSystem) startScheduler(ctx context.Context) error {
	x.scheduler.Start(ctx)
	return nil
}

func (x *ActorSystem) registerMetrics(context.Context) error {
	registration, err := x.systemMetric.Register(func() imetric.Snapshot {
		return imetric.Snapshot{
			DeadLetters: x.deadLettersCount.Load(),
			Actors:      x.actorsCount.Load(),
			Restarts:    x.restartsCount.Load(),
			Failures:    x.failuresCount.Load(),
			UptimeSecs:  x.Uptime(),
		}
	})
	if err != nil {
		return err
	}
	x.registration = registration
	return nil
}

// spawnGuardians creates the root guardian and its two children. The root
// guardian watches both of them to drive the termination of the system.
func (x *ActorSystem) spawnGuardians(context.Context) error {
	root := &LocalActorRef{refBase: refBase{path: x.rootPath}}
	rootProps := PropsOf(func() Actor { return &rootGuardian{system: x} }, WithStrategy(supervisor.NewStoppingStrategy()))
	newCell(x, rootProps, x.bubble, root).init(false)
	x.actorsCount.Inc()
	x.rootGuardian = root
	root.cell.start()

	guardianStrategy := supervisor.NewOneForOne(supervisor.WithRetry(x.config.Guardian.MaxRetries, x.config.Guardian.Within))
	user, err := root.cell.makeChild(PropsOf(func() Actor { return &guardian{} }, WithStrategy(guardianStrategy)), userGuardianName)
	if err != nil {
		return err
	}

	system, err := root.cell.makeChild(PropsOf(func() Actor { return &guardian{} }), systemGuardianName)
	if err != nil {
		return err
	}

	x.userGuardian = user
	x.systemGuardian = system
	root.sendSystemMessage(&watch{watchee: user, watcher: root})
	root.sendSystemMessage(&watch{watchee: system, watcher: root})
	return nil
}

