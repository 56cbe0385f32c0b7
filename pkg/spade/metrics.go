package spade

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

var (
	tracer = otel.Tracer("spade")
	meter  = otel.Meter("spade")
)

var (
	detectLatency   metric.Float64Histogram
	detectTotal     metric.Int64Counter
	patternsFound   metric.Int64Histogram
	surrogateTrials metric.Int64Counter

	metricsOnce sync.Once
	metricsErr  error
)

func initMetrics() error {
	metricsOnce.Do(func() {
		var err error

		detectLatency, err = meter.Float64Histogram(
			"spade_detect_duration_seconds",
			metric.WithDescription("Duration of pattern detection runs"),
			metric.WithUnit("s"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		detectTotal, err = meter.Int64Counter(
			"spade_detect_total",
			metric.WithDescription("Total number of pattern detection runs"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		patternsFound, err = meter.Int64Histogram(
			"spade_patterns_found",
			metric.WithDescription("Number of patterns reported per run"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		surrogateTrials, err = meter.Int64Counter(
			"spade_surrogate_trials_total",
			metric.WithDescription("Total number of completed surrogate trials"),
		)
		if err != nil {
			metricsErr = err
			return
		}
	})
	return metricsErr
}

func startDetectSpan(ctx context.Context, runID string, channels int, cfg Config) (context.Context, trace.Span) {
	return tracer.Start(ctx, "spade.detect",
		trace.WithAttributes(
			attribute.String("spade.run_id", runID),
			attribute.Int("spade.channels", channels),
			attribute.Float64("spade.bin_size", cfg.BinSize),
			attribute.Int("spade.win_len", cfg.WinLen),
			attribute.Int("spade.n_surr", cfg.Surrogates.N),
		),
	)
}

func setDetectSpanResult(span trace.Span, patternCount, warningCount int, success bool) {
	span.SetAttributes(
		attribute.Int("spade.patterns", patternCount),
		attribute.Int("spade.warnings", warningCount),
		attribute.Bool("spade.success", success),
	)
}

func recordDetectMetrics(ctx context.Context, duration time.Duration, patternCount int, success bool) {
	if err := initMetrics(); err != nil {
		return
	}
	attrs := metric.WithAttributes(attribute.Bool("success", success))
	detectLatency.Record(ctx, duration.Seconds(), attrs)
	detectTotal.Add(ctx, 1, attrs)
	if success {
		patternsFound.Record(ctx, int64(patternCount))
	}
}

func recordSurrogateTrial(ctx context.Context) {
	if err := initMetrics(); err != nil {
		return
	}
	surrogateTrials.Add(ctx, 1)
}
