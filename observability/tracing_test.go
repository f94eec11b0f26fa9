package observability

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

func TestInitTracing_Disabled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.json")

	shutdown, err := InitTracing(context.Background(), nil, TraceConfig{File: path})
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestInitTracing_RequiresFile(t *testing.T) {
	_, err := InitTracing(context.Background(), nil, TraceConfig{Enabled: true})
	assert.Error(t, err)
}

func TestInitTracing_ExportsSpans(t *testing.T) {
	prev := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	path := filepath.Join(t.TempDir(), "trace.json")
	shutdown, err := InitTracing(context.Background(), nil, TraceConfig{Enabled: true, File: path})
	require.NoError(t, err)

	_, span := otel.Tracer("test").Start(context.Background(), "mask.rebuild")
	span.End()

	require.NoError(t, shutdown(context.Background()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"Name":"mask.rebuild"`)
	assert.Contains(t, string(data), "maskcmd")
}
