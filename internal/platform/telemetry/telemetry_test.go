package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

func TestSetupWithoutEndpoint(t *testing.T) {
	prev := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	tel, err := Setup(context.Background(), Config{ServiceName: "catalog", Environment: "test"}, nil)
	require.NoError(t, err)

	assert.Same(t, tel.TracerProvider, otel.GetTracerProvider())

	_, span := otel.Tracer("test").Start(context.Background(), "op")
	assert.True(t, span.SpanContext().IsValid(), "the sdk provider records spans")
	span.End()

	assert.NoError(t, tel.Shutdown(context.Background()))
}
