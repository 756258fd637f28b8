package tracing

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// StartRankingSpan creates a span around one batch ranking pass.
// direction is "applicants_for_job" or "jobs_for_applicant".
// The returned function ends the span, recording the result size and
// any error.
//
// Example usage:
//
//	ctx, endSpan := tracing.StartRankingSpan(ctx, "applicants_for_job", len(pool))
//	matches := engine.RankApplicantsForJob(ctx, listingID, pool, limit)
//	endSpan(len(matches), nil)
func StartRankingSpan(ctx context.Context, direction string, poolSize int) (context.Context, func(resultCount int, err error)) {
	tracer := otel.Tracer("matchcore/match")

	ctx, span := tracer.Start(ctx, "rank "+direction,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("match.direction", direction),
			attribute.Int("match.pool_size", poolSize),
		),
	)

	return ctx, func(resultCount int, err error) {
		span.SetAttributes(attribute.Int("match.result_size", resultCount))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "")
		}
		span.End()
	}
}

// StartSearchSpan creates a span around one proximity search.
// The returned function ends the span, recording the result size and
// any error.
func StartSearchSpan(ctx context.Context, listingID string, radiusKm float64) (context.Context, func(resultCount int, err error)) {
	tracer := otel.Tracer("matchcore/geomatch")

	ctx, span := tracer.Start(ctx, "find nearby",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("geomatch.listing_id", listingID),
			attribute.Float64("geomatch.radius_km", radiusKm),
		),
	)

	return ctx, func(resultCount int, err error) {
		span.SetAttributes(attribute.Int("geomatch.result_size", resultCount))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "")
		}
		span.End()
	}
}
