package repository

import (
	"context"
	"errors"
	"time"

	"github.com/duynhne/profile-editor/internal/core/domain"
	"github.com/duynhne/profile-editor/middleware"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// instrumented adds a span and Prometheus observations around every call.
type instrumented struct {
	next    domain.KeyValueStore
	backend string
}

// Instrument wraps kv with tracing and store metrics labelled by backend.
func Instrument(kv domain.KeyValueStore, backend string) domain.KeyValueStore {
	return &instrumented{next: kv, backend: backend}
}

func (s *instrumented) Get(ctx context.Context, key string) (string, error) {
	ctx, span := s.start(ctx, "store.get", key)
	defer span.End()

	started := time.Now()
	value, err := s.next.Get(ctx, key)
	s.finish(span, "get", started, err)
	return value, err
}

func (s *instrumented) Set(ctx context.Context, key, value string) error {
	ctx, span := s.start(ctx, "store.set", key)
	defer span.End()
	span.SetAttributes(attribute.Int("store.value_bytes", len(value)))

	started := time.Now()
	err := s.next.Set(ctx, key, value)
	s.finish(span, "set", started, err)
	return err
}

func (s *instrumented) Ping(ctx context.Context) error {
	return s.next.Ping(ctx)
}

func (s *instrumented) Close() error {
	return s.next.Close()
}

func (s *instrumented) start(ctx context.Context, name, key string) (context.Context, trace.Span) {
	//nolint:spancheck // ended by caller
	return middleware.StartSpan(ctx, name, trace.WithAttributes(
		attribute.String("layer", "store"),
		attribute.String("store.backend", s.backend),
		attribute.String("store.key", key),
	))
}

func (s *instrumented) finish(span trace.Span, op string, started time.Time, err error) {
	result := "ok"
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrKeyNotFound):
		result = "miss"
	default:
		result = "error"
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	middleware.ObserveStoreOperation(s.backend, op, started, result)
}
