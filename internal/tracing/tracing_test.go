package tracing

import (
  "context"
  "testing"

  "github.com/stretchr/testify/assert"
  "github.com/stretchr/testify/require"
)

func TestEnabled(t *testing.T) {
  t.Setenv("OTEL_SDK_DISABLED", "")
  t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
  t.Setenv("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT", "")
  assert.False(t, Enabled())

  t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "http://collector:4318")
  assert.True(t, Enabled())

  t.Setenv("OTEL_SDK_DISABLED", "true")
  assert.False(t, Enabled())
}

func TestInit_Disabled(t *testing.T) {
  t.Setenv("OTEL_SDK_DISABLED", "true")

  shutdown, err := Init(context.Background(), "landing-test")
  require.NoError(t, err)
  assert.NoError(t, shutdown(context.Background()))
}
