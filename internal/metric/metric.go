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

// Package metric holds the OpenTelemetry instruments exposed by the actor system.
package metric

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/tochemey/actorcell"

// Snapshot is the set of counters observed on each collection.
type Snapshot struct {
	DeadLetters int64
	Actors      int64
	Restarts    int64
	Failures    int64
	UptimeSecs  int64
}

// SystemMetric groups the system level instruments.
//
// Instruments:
//   - actorsystem.deadletters.count
//   - actorsystem.actors.count
//   - actorsystem.restarts.count
//   - actorsystem.failures.count
//   - actorsystem.uptime (unit: seconds)
type SystemMetric struct {
	meter            metric.Meter
	deadlettersCount metric.Int64ObservableCounter
	actorsCount      metric.Int64ObservableUpDownCounter
	restartsCount    metric.Int64ObservableCounter
	failuresCount    metric.Int64ObservableCounter
	uptime           metric.Int64ObservableCounter
}

// NewSystemMetric creates the instruments using the given meter.
// When meter is nil the global meter provider is used.
func NewSystemMetric(meter metric.Meter) (*SystemMetric, error) {
	if meter == nil {
		meter = otel.GetMeterProvider().Meter(instrumentationName)
	}

	x := &SystemMetric{meter: meter}
	var err error

	if x.deadlettersCount, err = meter.Int64ObservableCounter(
		"actorsystem.deadletters.count",
		metric.WithDescription("Total number of messages delivered to deadletters"),
	); err != nil {
		return nil, fmt.Errorf("failed to create deadletters instrument: %w", err)
	}

	if x.actorsCount, err = meter.Int64ObservableUpDownCounter(
		"actorsystem.actors.count",
		metric.WithDescription("Number of live actors in the actor system"),
	); err != nil {
		return nil, fmt.Errorf("failed to create actors instrument: %w", err)
	}

	if x.restartsCount, err = meter.Int64ObservableCounter(
		"actorsystem.restarts.count",
		metric.WithDescription("Total number of actor restarts"),
	); err != nil {
		return nil, fmt.Errorf("failed to create restarts instrument: %w", err)
	}

	if x.failuresCount, err = meter.Int64ObservableCounter(
		"actorsystem.failures.count",
		metric.WithDescription("Total number of failures reported to supervisors"),
	); err != nil {
		return nil, fmt.Errorf("failed to create failures instrument: %w", err)
	}

	if x.uptime, err = meter.Int64ObservableCounter(
		"actorsystem.uptime",
		metric.WithDescription("Uptime of the actor system in seconds"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, fmt.Errorf("failed to create uptime instrument: %w", err)
	}

	return x, nil
}

// Register installs a callback that observes the snapshot returned by fn.
// The returned registration must be unregistered on shutdown.
func (x *SystemMetric) Register(fn func() Snapshot) (metric.Registration, error) {
	return x.meter.RegisterCallback(func(_ context.Context, observer metric.Observer) error {
		snapshot := fn()
		observer.ObserveInt64(x.deadlettersCount, snapshot.DeadLetters)
		observer.ObserveInt64(x.actorsCount, snapshot.Actors)
		observer.ObserveInt64(x.restartsCount, snapshot.Restarts)
		observer.ObserveInt64(x.failuresCount, snapshot.Failures)
		observer.ObserveInt64(x.uptime, snapshot.UptimeSecs)
		return nil
	}, x.deadlettersCount, x.actorsCount, x.restartsCount, x.failuresCount, x.uptime)
}

// DeadlettersCount returns the deadletters instrument
func (x *SystemMetric) DeadlettersCount() metric.Int64ObservableCounter {
	return x.deadlettersCount
}

// ActorsCount returns the live actors instrument
func (x *SystemMetric) ActorsCount() metric.Int64ObservableUpDownCounter {
	return x.actorsCount
}

// RestartsCount returns the restarts instrument
func (x *SystemMetric) RestartsCount() metric.Int64ObservableCounter {
	return x.restartsCount
}

// FailuresCount returns the failures instrument
func (x *SystemMetric) FailuresCount() metric.Int64ObservableCounter {
	return x.failuresCount
}

// Uptime returns the uptime instrument
func (x *SystemMetric) Uptime() metric.Int64ObservableCounter {
	return x.uptime
}
