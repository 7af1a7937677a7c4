package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricOpts holds common metric options
type MetricOpts struct {
	Name        string
	Description string
	Unit        string
}

// Counter wraps an otel Int64Counter
type Counter struct {
	counter metric.Int64Counter
}

// NewCounter creates a counter on the global meter
func NewCounter(opts MetricOpts) (*Counter, error) {
	meter := otel.Meter("course-booking")
	c, err := meter.Int64Counter(opts.Name,
		metric.WithDescription(opts.Description),
		metric.WithUnit(opts.Unit),
	)
	if err != nil {
		return nil, err
	}
	return &Counter{counter: c}, nil
}

// Inc increments the counter by 1
func (c *Counter) Inc(ctx context.Context, attrs ...attribute.KeyValue) {
	c.counter.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// Add increments the counter by n
func (c *Counter) Add(ctx context.Context, n int64, attrs ...attribute.KeyValue) {
	c.counter.Add(ctx, n, metric.WithAttributes(attrs...))
}

// Histogram wraps an otel Float64Histogram
type Histogram struct {
	histogram metric.Float64Histogram
}

// NewHistogram creates a histogram on the global meter
func NewHistogram(opts MetricOpts) (*Histogram, error) {
	meter := otel.Meter("course-booking")
	h, err := meter.Float64Histogram(opts.Name,
		metric.WithDescription(opts.Description),
		metric.WithUnit(opts.Unit),
	)
	if err != nil {
		return nil, err
	}
	return &Histogram{histogram: h}, nil
}

// Record records a value
func (h *Histogram) Record(ctx context.Context, value float64, attrs ...attribute.KeyValue) {
	h.histogram.Record(ctx, value, metric.WithAttributes(attrs...))
}
