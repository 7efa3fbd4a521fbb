package metrics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Config configures the metrics provider.
type Config struct {
	Enabled          bool
	ExporterEndpoint string
	ExporterProtocol string
	ServiceName      string
	Environment      string
}

// Metrics exposes application-level instruments.
type Metrics struct {
	activationsCreated metric.Int64Counter
	invoicesIssued     metric.Int64Counter
	paymentWebhooks    metric.Int64Counter
}

// NewProvider configures and registers the meter provider.
func NewProvider(lc fx.Lifecycle, cfg Config, log *zap.Logger) (metric.MeterProvider, error) {
	if !cfg.Enabled {
		provider := noop.NewMeterProvider()
		otel.SetMeterProvider(provider)
		return provider, nil
	}

	exporter, err := newExporter(cfg.ExporterProtocol, cfg.ExporterEndpoint)
	if err != nil {
		return nil, err
	}

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(10*time.Second))
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(provider)

	if lc != nil {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				if log != nil {
					log.Info("shutting down meter provider")
				}
				return provider.Shutdown(ctx)
			},
		})
	}

	if log != nil {
		log.Info("metrics initialized",
			zap.String("endpoint", cfg.ExporterEndpoint),
			zap.String("protocol", cfg.ExporterProtocol),
		)
	}

	return provider, nil
}

// New configures the domain metrics instruments.
func New(cfg Config, provider metric.MeterProvider) (*Metrics, error) {
	name := strings.TrimSpace(cfg.ServiceName)
	if name == "" {
		name = "aktiva"
	}
	meter := provider.Meter(name)

	activations, err := meter.Int64Counter("aktiva.activations.created",
		metric.WithDescription("Course activations created"))
	if err != nil {
		return nil, err
	}
	invoices, err := meter.Int64Counter("aktiva.invoices.issued",
		metric.WithDescription("Invoices issued"))
	if err != nil {
		return nil, err
	}
	webhooks, err := meter.Int64Counter("aktiva.payment.webhooks",
		metric.WithDescription("Payment gateway webhooks processed"))
	if err != nil {
		return nil, err
	}

	return &Metrics{
		activationsCreated: activations,
		invoicesIssued:     invoices,
		paymentWebhooks:    webhooks,
	}, nil
}

// RecordActivationCreated counts a created activation.
func (m *Metrics) RecordActivationCreated(ctx context.Context, renewal bool) {
	if m == nil || m.activationsCreated == nil {
		return
	}
	m.activationsCreated.Add(ctx, 1, metric.WithAttributes(
		attribute.Bool("renewal", renewal),
	))
}

// RecordInvoiceIssued counts an issued invoice.
func (m *Metrics) RecordInvoiceIssued(ctx context.Context, currency string) {
	if m == nil || m.invoicesIssued == nil {
		return
	}
	m.invoicesIssued.Add(ctx, 1, metric.WithAttributes(
		attribute.String("currency", strings.ToUpper(strings.TrimSpace(currency))),
	))
}

// RecordPaymentWebhook counts a processed webhook by outcome.
func (m *Metrics) RecordPaymentWebhook(ctx context.Context, outcome string) {
	if m == nil || m.paymentWebhooks == nil {
		return
	}
	m.paymentWebhooks.Add(ctx, 1, metric.WithAttributes(
		attribute.String("outcome", outcome),
	))
}

func newExporter(protocol, endpoint string) (sdkmetric.Exporter, error) {
	switch strings.ToLower(strings.TrimSpace(protocol)) {
	case "", "grpc":
		return otlpmetricgrpc.New(context.Background(),
			otlpmetricgrpc.WithEndpoint(endpoint),
			otlpmetricgrpc.WithInsecure(),
		)
	case "http", "http/protobuf":
		return otlpmetrichttp.New(context.Background(),
			otlpmetrichttp.WithEndpoint(endpoint),
			otlpmetrichttp.WithInsecure(),
		)
	default:
		return nil, fmt.Errorf("unsupported otlp metric protocol %q", protocol)
	}
}
