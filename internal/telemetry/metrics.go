package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// ReconcileMetrics holds metric instruments for access-control reconciliation.
// Instruments come from the global meter provider and are no-ops until one is installed.
type ReconcileMetrics struct {
	Operations metric.Int64Counter     // Reconcile operations by kind and outcome
	Duration   metric.Float64Histogram // Reconcile latency
	Retries    metric.Int64Counter     // Retried identity service calls
	Mutations  metric.Int64Counter     // Mutating identity service calls issued
}

// NewReconcileMetrics creates reconciler instruments.
func NewReconcileMetrics() (*ReconcileMetrics, error) {
	meter := otel.Meter("programapi/access")

	operations, err := meter.Int64Counter(
		"access.reconcile.count",
		metric.WithDescription("Total number of reconcile operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, err
	}

	duration, err := meter.Float64Histogram(
		"access.reconcile.duration",
		metric.WithDescription("Reconcile operation duration"),
		metric.WithUnit("ms"),
		metric.WithExplicitBucketBoundaries(10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000),
	)
	if err != nil {
		return nil, err
	}

	retries, err := meter.Int64Counter(
		"access.reconcile.retry.count",
		metric.WithDescription("Identity service calls retried after a transient failure"),
		metric.WithUnit("{retry}"),
	)
	if err != nil {
		return nil, err
	}

	mutations, err := meter.Int64Counter(
		"access.reconcile.mutation.count",
		metric.WithDescription("Mutating identity service calls issued by the reconciler"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	return &ReconcileMetrics{
		Operations: operations,
		Duration:   duration,
		Retries:    retries,
		Mutations:  mutations,
	}, nil
}

// RecordOperation records a completed provision, reconcile-members or deprovision run.
func (m *ReconcileMetrics) RecordOperation(ctx context.Context, operation string, success bool, durationMs float64) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String(AttrReconcileOperation, operation),
		attribute.Bool(AttrReconcileSuccess, success),
	)
	m.Operations.Add(ctx, 1, attrs)
	m.Duration.Record(ctx, durationMs, attrs)
}

// RecordRetry records one retry of an identity service call.
func (m *ReconcileMetrics) RecordRetry(ctx context.Context, call string) {
	if m == nil {
		return
	}
	m.Retries.Add(ctx, 1, metric.WithAttributes(attribute.String(AttrIdentityMethod, call)))
}

// RecordMutation records one mutating identity service call.
func (m *ReconcileMetrics) RecordMutation(ctx context.Context, call string) {
	if m == nil {
		return
	}
	m.Mutations.Add(ctx, 1, metric.WithAttributes(attribute.String(AttrIdentityMethod, call)))
}

// IdentityMetrics holds metric instruments for outbound identity service requests.
type IdentityMetrics struct {
	RequestCounter  metric.Int64Counter
	RequestDuration metric.Float64Histogram
	ErrorCounter    metric.Int64Counter
}

// NewIdentityMetrics creates identity client instruments.
func NewIdentityMetrics() (*IdentityMetrics, error) {
	meter := otel.Meter("programapi/identity")

	requestCounter, err := meter.Int64Counter(
		"identity.request.count",
		metric.WithDescription("Total number of identity service requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	requestDuration, err := meter.Float64Histogram(
		"identity.request.duration",
		metric.WithDescription("Identity service request duration"),
		metric.WithUnit("ms"),
		metric.WithExplicitBucketBoundaries(5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000),
	)
	if err != nil {
		return nil, err
	}

	errorCounter, err := meter.Int64Counter(
		"identity.request.error.count",
		metric.WithDescription("Total number of failed identity service requests"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	return &IdentityMetrics{
		RequestCounter:  requestCounter,
		RequestDuration: requestDuration,
		ErrorCounter:    errorCounter,
	}, nil
}

// RecordRequest records one identity service round trip. errKind is empty on success.
func (m *IdentityMetrics) RecordRequest(ctx context.Context, method, route string, status int, errKind string, durationMs float64) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String(AttrHTTPMethod, method),
		attribute.String(AttrHTTPRoute, route),
		attribute.Int(AttrHTTPStatusCode, status),
	)
	m.RequestCounter.Add(ctx, 1, attrs)
	m.RequestDuration.Record(ctx, durationMs, attrs)
	if errKind != "" {
		m.ErrorCounter.Add(ctx, 1, attrs, metric.WithAttributes(attribute.String(AttrIdentityErrKind, errKind)))
	}
}

// AuthMetrics holds metric instruments for bearer token authentication.
type AuthMetrics struct {
	AuthAttempts metric.Int64Counter
	AuthFailures metric.Int64Counter
}

// NewAuthMetrics creates metric instruments for authentication telemetry.
func NewAuthMetrics() (*AuthMetrics, error) {
	meter := otel.Meter("programapi/auth")

	authAttempts, err := meter.Int64Counter(
		"auth.attempt.count",
		metric.WithDescription("Total number of authentication attempts"),
		metric.WithUnit("{attempt}"),
	)
	if err != nil {
		return nil, err
	}

	authFailures, err := meter.Int64Counter(
		"auth.failure.count",
		metric.WithDescription("Total number of failed authentication attempts"),
		metric.WithUnit("{failure}"),
	)
	if err != nil {
		return nil, err
	}

	return &AuthMetrics{
		AuthAttempts: authAttempts,
		AuthFailures: authFailures,
	}, nil
}

// RecordAuth records an authentication attempt. reason is empty on success.
func (a *AuthMetrics) RecordAuth(ctx context.Context, success bool, reason string) {
	if a == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.Bool(AttrAuthSuccess, success))
	a.AuthAttempts.Add(ctx, 1, attrs)
	if !success {
		a.AuthFailures.Add(ctx, 1, attrs, metric.WithAttributes(attribute.String(AttrAuthReason, reason)))
	}
}

// Common metric attribute keys
const (
	AttrHTTPMethod     = "http.method"
	AttrHTTPRoute      = "http.route"
	AttrHTTPStatusCode = "http.status_code"

	AttrAuthSuccess = "auth.success"
	AttrAuthReason  = "auth.reason"

	AttrReconcileOperation = "access.operation" // provision, reconcile_members, deprovision
	AttrReconcileSuccess   = "access.success"
)
