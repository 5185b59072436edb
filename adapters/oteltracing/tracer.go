// Package oteltracing adapts an OpenTelemetry tracer to the service Tracer.
package oteltracing

import (
	"context"

	"github.com/goliatone/go-mtoken/core"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const instrumentationName = "github.com/goliatone/go-mtoken"

type Tracer struct {
	tracer oteltrace.Tracer
}

// NewTracer wraps tracer. A nil tracer yields spans that record nothing.
func NewTracer(tracer oteltrace.Tracer) *Tracer {
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer(instrumentationName)
	}
	return &Tracer{tracer: tracer}
}

// FromProvider creates the tracer under the package instrumentation name.
func FromProvider(provider oteltrace.TracerProvider) *Tracer {
	if provider == nil {
		return NewTracer(nil)
	}
	return NewTracer(provider.Tracer(instrumentationName))
}

func (t *Tracer) Start(ctx context.Context, name string) (context.Context, core.Span) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, span := t.tracer.Start(ctx, name, oteltrace.WithSpanKind(oteltrace.SpanKindClient))
	return ctx, &Span{span: span}
}

type Span struct {
	span oteltrace.Span
}

func (s *Span) SetAttribute(key string, value string) {
	s.span.SetAttributes(attribute.String(key, value))
}

func (s *Span) RecordError(err error) {
	if err == nil {
		return
	}
	s.span.RecordError(err)
	s.span.SetStatus(codes.Error, err.Error())
}

func (s *Span) End() {
	s.span.End()
}

// Unwrap exposes the underlying OpenTelemetry span.
func (s *Span) Unwrap() oteltrace.Span {
	return s.span
}

var _ core.Tracer = (*Tracer)(nil)
