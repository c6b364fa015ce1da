package obs

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// MetricInterval is how often counters are pushed to the collector.
const MetricInterval = 15 * time.Second

// SetupMetrics installs a global meter provider that pushes to an OTLP/HTTP
// collector at endpoint. An empty endpoint leaves the no-op provider in place.
func SetupMetrics(ctx context.Context, serviceName, endpoint string) (shutdown func(context.Context) error, err error) {
	noop := func(context.Context) error { return nil }
	if endpoint == "" {
		return noop, nil
	}

	exporter, err := otlpmetrichttp.New(ctx,
		otlpmetrichttp.WithEndpointURL(endpoint),
	)
	if err != nil {
		return noop, err
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
		),
	)
	if err != nil {
		return noop, err
	}

	mp := NewMeterProvider(res, sdkmetric.NewPeriodicReader(exporter,
		sdkmetric.WithInterval(MetricInterval),
	))
	otel.SetMeterProvider(mp)

	return mp.Shutdown, nil
}

// NewMeterProvider builds a meter provider collecting through reader.
func NewMeterProvider(res *resource.Resource, reader sdkmetric.Reader) *sdkmetric.MeterProvider {
	opts := []sdkmetric.Option{sdkmetric.WithReader(reader)}
	if res != nil {
		opts = append(opts, sdkmetric.WithResource(res))
	}
	return sdkmetric.NewMeterProvider(opts...)
}
