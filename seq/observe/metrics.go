package observe

import (
	"context"
	"fmt"

	"github.com/lguimbarda/min-seq/seq/core"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric instrument names recorded by WithMetrics.
const (
	MetricEvaluations = "seq.evaluations"
	MetricElements    = "seq.elements"
	MetricFailures    = "seq.failures"
	MetricDuration    = "seq.evaluation.duration"
)

type instruments struct {
	evaluations metric.Int64Counter
	elements    metric.Int64Counter
	failures    metric.Int64Counter
	duration    metric.Float64Histogram
}

func newInstruments(meter metric.Meter) (*instruments, error) {
	var (
		in  instruments
		err error
	)
	if in.evaluations, err = meter.Int64Counter(MetricEvaluations,
		metric.WithDescription("Number of terminal evaluations")); err != nil {
		return nil, fmt.Errorf("observe: create %s: %w", MetricEvaluations, err)
	}
	if in.elements, err = meter.Int64Counter(MetricElements,
		metric.WithDescription("Number of elements reaching a terminal operation")); err != nil {
		return nil, fmt.Errorf("observe: create %s: %w", MetricElements, err)
	}
	if in.failures, err = meter.Int64Counter(MetricFailures,
		metric.WithDescription("Number of failed evaluations")); err != nil {
		return nil, fmt.Errorf("observe: create %s: %w", MetricFailures, err)
	}
	if in.duration, err = meter.Float64Histogram(MetricDuration,
		metric.WithDescription("Duration of terminal evaluations"),
		metric.WithUnit("s")); err != nil {
		return nil, fmt.Errorf("observe: create %s: %w", MetricDuration, err)
	}
	return &in, nil
}

// WithMetrics attaches hooks recording OpenTelemetry metrics for every
// terminal evaluation of sequences of T. Measurements carry the terminal
// name and evaluation mode as attributes. Element counts are recorded once
// per evaluation, on completion.
func WithMetrics[T any](ctx context.Context, meter metric.Meter) (context.Context, error) {
	in, err := newInstruments(meter)
	if err != nil {
		return ctx, err
	}
	return core.WithHooks(ctx, core.Hooks[T]{
		OnComplete: func(e core.Evaluation, err error) {
			attrs := metric.WithAttributes(
				attribute.String("terminal", e.Terminal),
				attribute.Bool("parallel", e.Parallel),
			)
			in.evaluations.Add(ctx, 1, attrs)
			in.elements.Add(ctx, e.Elements, attrs)
			in.duration.Record(ctx, e.Duration.Seconds(), attrs)
			if err != nil {
				in.failures.Add(ctx, 1, attrs)
			}
		},
	}), nil
}
