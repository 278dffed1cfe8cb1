package observability

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "todo-admin-service"

var (
	metricsOnce sync.Once

	repositoryOps metric.Int64Counter
	authEvents    metric.Int64Counter
	accessDenials metric.Int64Counter
	bulkAffected  metric.Int64Counter
)

func initMetrics() {
	meter := otel.Meter(instrumentationName)
	repositoryOps, _ = meter.Int64Counter("repository_operations_total",
		metric.WithDescription("Repository operations by entity, operation and outcome"))
	authEvents, _ = meter.Int64Counter("auth_events_total",
		metric.WithDescription("Authentication events by outcome"))
	accessDenials, _ = meter.Int64Counter("access_denials_total",
		metric.WithDescription("Requests rejected by the permission gate"))
	bulkAffected, _ = meter.Int64Counter("bulk_rows_affected_total",
		metric.WithDescription("Rows affected by bulk todo actions"))
}

// RecordRepositoryOperation counts one repository call. outcome is one of
// success, not_found, error.
func RecordRepositoryOperation(ctx context.Context, entity, operation, outcome string) {
	metricsOnce.Do(initMetrics)
	repositoryOps.Add(ctx, 1, metric.WithAttributes(
		attribute.String("entity", entity),
		attribute.String("operation", operation),
		attribute.String("outcome", outcome),
	))
}

func RecordAuthEvent(ctx context.Context, event, outcome string) {
	metricsOnce.Do(initMetrics)
	authEvents.Add(ctx, 1, metric.WithAttributes(
		attribute.String("event", event),
		attribute.String("outcome", outcome),
	))
}

// RecordAccessDenied counts a permission-gate rejection for the named
// permission.
func RecordAccessDenied(ctx context.Context, permission string) {
	metricsOnce.Do(initMetrics)
	accessDenials.Add(ctx, 1, metric.WithAttributes(
		attribute.String("permission", permission),
	))
}

func RecordBulkAffected(ctx context.Context, action string, count int64) {
	metricsOnce.Do(initMetrics)
	bulkAffected.Add(ctx, count, metric.WithAttributes(
		attribute.String("action", action),
	))
}
