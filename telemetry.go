// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package arbor

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Package-level tracer and meter for driver operations.
var (
	tracer = otel.Tracer("code.hybscloud.com/arbor")
	meter  = otel.Meter("code.hybscloud.com/arbor")
)

// Driver metrics.
var (
	actionsApplied metric.Int64Counter
	actionsDropped metric.Int64Counter
	computePasses  metric.Int64Counter
	eventsFailed   metric.Int64Counter

	metricsOnce sync.Once
	metricsErr  error
)

// initMetrics registers the instruments. Safe to call multiple times.
func initMetrics() error {
	metricsOnce.Do(func() {
		var err error

		actionsApplied, err = meter.Int64Counter(
			"arbor.actions.applied",
			metric.WithDescription("Actions applied to a component tree"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		actionsDropped, err = meter.Int64Counter(
			"arbor.actions.dropped",
			metric.WithDescription("Actions dropped as stale"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		computePasses, err = meter.Int64Counter(
			"arbor.compute.passes",
			metric.WithDescription("Recomputation passes"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		eventsFailed, err = meter.Int64Counter(
			"arbor.events.failed",
			metric.WithDescription("Scheduled events that failed"),
		)
		if err != nil {
			metricsErr = err
			return
		}
	})
	return metricsErr
}

func recordApplied(ctx context.Context) {
	if err := initMetrics(); err != nil {
		return
	}
	actionsApplied.Add(ctx, 1)
}

func recordDropped(ctx context.Context, reason string) {
	if err := initMetrics(); err != nil {
		return
	}
	actionsDropped.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
}

func recordPass(ctx context.Context) {
	if err := initMetrics(); err != nil {
		return
	}
	computePasses.Add(ctx, 1)
}

func recordFailed(ctx context.Context, cause string) {
	if err := initMetrics(); err != nil {
		return
	}
	eventsFailed.Add(ctx, 1, metric.WithAttributes(attribute.String("cause", cause)))
}

// startFlushSpan creates a span for a flush.
func startFlushSpan(ctx context.Context, queued int) (context.Context, trace.Span) {
	return tracer.Start(ctx, "arbor.Flush",
		trace.WithAttributes(attribute.Int("arbor.queued", queued)),
	)
}
