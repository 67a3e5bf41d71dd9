package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/zap"
)

// MeterProvider owns the SDK meter provider
type MeterProvider struct {
	provider *sdkmetric.MeterProvider
}

// NewMeterProvider exports metrics every interval over OTLP/gRPC
func NewMeterProvider(ctx context.Context, cfg Config, interval time.Duration, logger *zap.Logger) (*MeterProvider, error) {
	mp := &MeterProvider{}
	if !cfg.Enabled {
		return mp, nil
	}
	if interval <= 0 {
		interval = time.Minute
	}

	opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithEndpoint(cfg.CollectorEndpoint)}
	if cfg.Insecure {
		opts = append(opts, otlpmetricgrpc.WithInsecure())
	}
	exporter, err := otlpmetricgrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP metrics exporter: %w", err)
	}
	res, err := newResource(cfg)
	if err != nil {
		return nil, err
	}

	mp.provider = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(interval))),
	)
	otel.SetMeterProvider(mp.provider)
	logger.Info("OpenTelemetry MeterProvider initialized", zap.Duration("export_interval", interval))
	return mp, nil
}

// Meter returns a named meter, falling back to the global (no-op) provider
func (mp *MeterProvider) Meter(name string) metric.Meter {
	if mp == nil || mp.provider == nil {
		return otel.GetMeterProvider().Meter(name)
	}
	return mp.provider.Meter(name)
}

// Shutdown flushes pending metrics
func (mp *MeterProvider) Shutdown(ctx context.Context) error {
	if mp.provider == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()
	if err := mp.provider.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown meter provider: %w", err)
	}
	return nil
}

// AppMetrics holds the business instruments recorded by the application services
type AppMetrics struct {
	journalEntries metric.Int64Counter
	ordersPlaced   metric.Int64Counter
	orderAmount    metric.Float64Histogram
	payments       metric.Int64Counter
	reminders      metric.Int64Counter
	cacheLookups   metric.Int64Counter
}

// NewAppMetrics registers the instruments on the meter
func NewAppMetrics(meter metric.Meter) (*AppMetrics, error) {
	m := &AppMetrics{}
	var err error
	if m.journalEntries, err = meter.Int64Counter("accounting.journal_entries.posted",
		metric.WithDescription("Journal entries posted"), metric.WithUnit("{entry}")); err != nil {
		return nil, err
	}
	if m.ordersPlaced, err = meter.Int64Counter("store.orders.placed",
		metric.WithDescription("Orders placed at checkout"), metric.WithUnit("{order}")); err != nil {
		return nil, err
	}
	if m.orderAmount, err = meter.Float64Histogram("store.orders.amount",
		metric.WithDescription("Order totals"), metric.WithUnit("BRL"),
		metric.WithExplicitBucketBoundaries(10, 25, 50, 100, 250, 500, 1000, 2500)); err != nil {
		return nil, err
	}
	if m.payments, err = meter.Int64Counter("store.payments",
		metric.WithDescription("Gateway charges by method and status"), metric.WithUnit("{charge}")); err != nil {
		return nil, err
	}
	if m.reminders, err = meter.Int64Counter("finance.bill_reminders.sent",
		metric.WithDescription("Bill due reminders sent"), metric.WithUnit("{email}")); err != nil {
		return nil, err
	}
	if m.cacheLookups, err = meter.Int64Counter("accounting.report_cache.lookups",
		metric.WithDescription("Report cache lookups by result"), metric.WithUnit("{lookup}")); err != nil {
		return nil, err
	}
	return m, nil
}

// NoopAppMetrics returns instruments bound to the global provider, for tests and disabled telemetry
func NoopAppMetrics() *AppMetrics {
	m, err := NewAppMetrics(otel.GetMeterProvider().Meter(TracerName))
	if err != nil {
		return &AppMetrics{}
	}
	return m
}

// JournalEntryPosted counts a posted entry
func (m *AppMetrics) JournalEntryPosted(ctx context.Context, churchID string) {
	if m == nil || m.journalEntries == nil {
		return
	}
	m.journalEntries.Add(ctx, 1, metric.WithAttributes(ChurchAttr(churchID)))
}

// OrderPlaced counts an order and records its total
func (m *AppMetrics) OrderPlaced(ctx context.Context, method string, total float64) {
	if m == nil || m.ordersPlaced == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("payment.method", method))
	m.ordersPlaced.Add(ctx, 1, attrs)
	m.orderAmount.Record(ctx, total, attrs)
}

// PaymentCharged counts a gateway charge result
func (m *AppMetrics) PaymentCharged(ctx context.Context, method, status string) {
	if m == nil || m.payments == nil {
		return
	}
	m.payments.Add(ctx, 1, metric.WithAttributes(
		attribute.String("payment.method", method),
		attribute.String("payment.status", status),
	))
}

// ReminderSent counts a bill reminder email
func (m *AppMetrics) ReminderSent(ctx context.Context) {
	if m == nil || m.reminders == nil {
		return
	}
	m.reminders.Add(ctx, 1)
}

// ReportCacheLookup counts a cache hit or miss
func (m *AppMetrics) ReportCacheLookup(ctx context.Context, hit bool) {
	if m == nil || m.cacheLookups == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.Add(ctx, 1, metric.WithAttributes(attribute.String("result", result)))
}
