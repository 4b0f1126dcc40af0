package engine

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func feed(t *testing.T, m *MetricStream, readings []int) []int {
	t.Helper()
	out := make([]int, 0, len(readings))
	for _, r := range readings {
		out = append(out, m.Update(r))
	}
	return out
}

func TestStreamSteadyState(t *testing.T) {
	m := NewMetricStream("cpu_load", DefaultSmoothing(), true)
	got := feed(t, m, []int{10, 10, 10, 10, 10})
	// First two pass through, the rest average equal values to themselves.
	require.Equal(t, []int{10, 10, 10, 10, 10}, got)
	require.Equal(t, StateSmoothing, m.State())
}

func TestStreamWarmupPassThrough(t *testing.T) {
	m := NewMetricStream("gpu_load", DefaultSmoothing(), true)
	require.Equal(t, StateEmpty, m.State())

	require.Equal(t, 40, m.Update(40))
	require.Equal(t, StateWarming, m.State())
	require.Equal(t, 50, m.Update(50))
	require.Equal(t, StateWarming, m.State())

	// Third sample crosses into smoothing: (40*1+50*2+60*3)/6 = 53.
	require.Equal(t, 53, m.Update(60))
	require.Equal(t, StateSmoothing, m.State())
}

func TestStreamRegimeChangeReset(t *testing.T) {
	m := NewMetricStream("gpu_load", DefaultSmoothing(), true)
	feed(t, m, []int{50, 50, 50})

	// Mean 50, new reading 40 is below 50-3: history resets, reading passes
	// through as the first sample of the new baseline.
	require.Equal(t, 40, m.Update(40))
	require.Equal(t, StateWarming, m.State())
}

func TestStreamSmallDropSmoothsThrough(t *testing.T) {
	m := NewMetricStream("gpu_load", DefaultSmoothing(), true)
	feed(t, m, []int{50, 50, 50})

	// 48 is within the threshold: no reset, weighted average over 4 samples.
	// (50*1+50*2+50*3+48*4)/10 = 49.
	require.Equal(t, 49, m.Update(48))
	require.Equal(t, StateSmoothing, m.State())
}

func TestStreamNoResetWhenDisabled(t *testing.T) {
	m := NewMetricStream("cpu_load", DefaultSmoothing(), false)
	feed(t, m, []int{50, 50, 50})

	// Same sharp drop, but this stream smooths through it.
	// (50*1+50*2+50*3+40*4)/10 = 46.
	require.Equal(t, 46, m.Update(40))
}

func TestStreamZeroMeansNoData(t *testing.T) {
	m := NewMetricStream("gpu_load", DefaultSmoothing(), true)

	got := feed(t, m, []int{0, 0, 0, 0, 10})
	// Zeros are emitted as 0 without entering history; the 10 is then the
	// first retained sample and passes through.
	require.Equal(t, []int{0, 0, 0, 0, 10}, got)
	require.Equal(t, StateWarming, m.State())

	// A zero mid-stream emits 0 but keeps history intact.
	feed(t, m, []int{12, 14})
	require.Equal(t, 0, m.Update(0))
	require.Equal(t, StateSmoothing, m.State())
}

func TestStreamCapacityEviction(t *testing.T) {
	m := NewMetricStream("cpu_load", DefaultSmoothing(), false)
	got := feed(t, m, []int{10, 20, 30, 40, 50, 60})

	// After the sixth sample the 10 has been evicted:
	// (20*1+30*2+40*3+50*4+60*5)/15 = 700/15 = 46 (floor).
	require.Equal(t, 46, got[5])
}

func TestStreamWeightedAverageFloors(t *testing.T) {
	m := NewMetricStream("cpu_load", DefaultSmoothing(), false)
	feed(t, m, []int{10, 20})
	// (10*1+20*2+30*3)/6 = 140/6 = 23.33 -> 23.
	require.Equal(t, 23, m.Update(30))
}

func TestStreamConfigurableWindow(t *testing.T) {
	m := NewMetricStream("cpu_load", SmoothingConfig{WindowSize: 3, DropThreshold: 3}, false)
	got := feed(t, m, []int{10, 20, 30, 40})
	// Window 3 evicts the 10 on the fourth sample:
	// (20*1+30*2+40*3)/6 = 200/6 = 33.
	require.Equal(t, 33, got[3])
}

func TestStreamSetCreatesOnFirstNonZero(t *testing.T) {
	set := NewStreamSet(DefaultSmoothing())

	require.Equal(t, 0, set.Update("cpu_load", 0, true))
	_, ok := set.Stream("cpu_load")
	require.False(t, ok, "zero reading must not create a stream")

	require.Equal(t, 42, set.Update("cpu_load", 42, true))
	st, ok := set.Stream("cpu_load")
	require.True(t, ok)
	require.Equal(t, StateWarming, st.State())
}

func TestStreamSetIndependentStreams(t *testing.T) {
	set := NewStreamSet(DefaultSmoothing())
	for _, v := range []int{90, 90, 90} {
		set.Update("cpu_load", v, true)
	}
	for _, v := range []int{10, 10} {
		set.Update("gpu_load", v, true)
	}

	cpu, _ := set.Stream("cpu_load")
	gpu, _ := set.Stream("gpu_load")
	require.Equal(t, StateSmoothing, cpu.State())
	require.Equal(t, StateWarming, gpu.State())
	require.Equal(t, 90, cpu.Last())
	require.Equal(t, 10, gpu.Last())
}
