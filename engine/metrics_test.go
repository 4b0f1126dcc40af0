package engine

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/avelansh/oledtop/model"
)

func TestExporterObserve(t *testing.T) {
	x := NewExporter()
	x.Observe(&model.Sample{
		Timestamp: time.Now(),
		CPUTemp:   61,
		CPULoad:   23,
		GPULoad:   12,
		RAMUsage:  52,
		RAMLoad:   52,
	})

	require.Equal(t, 1.0, testutil.ToFloat64(x.up))
	require.Equal(t, 61.0, testutil.ToFloat64(x.gauges[model.MetricCPUTemp]))
	require.Equal(t, 23.0, testutil.ToFloat64(x.gauges[model.MetricCPULoad]))
	require.Equal(t, 52.0, testutil.ToFloat64(x.gauges["ram_load"]))
	require.Equal(t, 0.0, testutil.ToFloat64(x.gauges[model.MetricGPUTemp]))
}

func TestExporterNilSampleMarksDown(t *testing.T) {
	x := NewExporter()
	x.Observe(&model.Sample{CPULoad: 40})
	x.Observe(nil)

	require.Equal(t, 0.0, testutil.ToFloat64(x.up))
	// Last good readings stay on the gauges.
	require.Equal(t, 40.0, testutil.ToFloat64(x.gauges[model.MetricCPULoad]))
}

func TestExporterHandler(t *testing.T) {
	x := NewExporter()
	x.Observe(&model.Sample{CPUTemp: 61})

	rec := httptest.NewRecorder()
	x.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	require.Equal(t, 200, rec.Code)
	require.Contains(t, rec.Body.String(), "oledtop_cpu_temp 61")
	require.Contains(t, rec.Body.String(), "oledtop_up 1")
}
