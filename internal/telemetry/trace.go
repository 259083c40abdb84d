package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// StartSpan creates a new span for a service operation.
//
// Usage in services:
//
//	ctx, span := telemetry.StartSpan(ctx, "programapi/services/access", "access.Provision",
//	    attribute.String(telemetry.AttrProgramShortName, entity.ShortName),
//	)
//	defer span.End()
func StartSpan(ctx context.Context, tracerName, spanName string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	tracer := otel.Tracer(tracerName)
	return tracer.Start(ctx, spanName, trace.WithAttributes(attrs...))
}

// RecordError records an error on the span and sets the span status to error.
func RecordError(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}

// AddEvent adds a named event to the span with optional attributes.
//
// Example:
//
//	telemetry.AddEvent(span, "group.adopted",
//	    attribute.String(telemetry.AttrGroupName, name),
//	)
func AddEvent(span trace.Span, name string, attrs ...attribute.KeyValue) {
	span.AddEvent(name, trace.WithAttributes(attrs...))
}

// Common attribute keys
const (
	// Program attributes
	AttrProgramID        = "program.id"
	AttrProgramShortName = "program.short_name"
	AttrProgramRole      = "program.role"

	// Identity service attributes
	AttrIdentityMethod   = "identity.method"
	AttrIdentityPath     = "identity.path"
	AttrIdentityStatus   = "identity.status_code"
	AttrIdentityErrKind  = "identity.error_kind"
	AttrGroupName        = "identity.group_name"
	AttrGroupID          = "identity.group_id"
	AttrPolicyID         = "identity.policy_id"
	AttrPermissionMask   = "identity.mask"
	AttrMembershipAdds   = "identity.membership.adds"
	AttrMembershipRemove = "identity.membership.removes"

	// Principal attributes
	AttrPrincipalSubject = "principal.subject"
	AttrPrincipalType    = "principal.type"
)
