package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sheetlens/internal/errors"
)

func TestRecorderCountsOutcomes(t *testing.T) {
	r := NewRecorder("test")

	r.ObserveOperation("load", errors.CodeOK, 10*time.Millisecond)
	r.ObserveOperation("load", errors.CodeLoad, time.Millisecond)
	r.ObserveOperation("describe", errors.CodeOK, -time.Second)

	assert.Equal(t, 1.0, testutil.ToFloat64(r.operations.WithLabelValues("load", OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.operations.WithLabelValues("load", OutcomeError)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.failures.WithLabelValues("load", "LoadError")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.operations.WithLabelValues("describe", OutcomeSuccess)))
	assert.Equal(t, 2, testutil.CollectAndCount(r.latency))
}

func TestRegisterTwice(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewRecorder("test")

	require.NoError(t, r.Register(reg))
	require.NoError(t, r.Register(reg))

	r.ObserveOperation("export", errors.CodeOK, time.Millisecond)
	families, err := reg.Gather()
	require.NoError(t, err)

	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "test_operations_total")
	assert.Contains(t, names, "test_operation_seconds")
}
